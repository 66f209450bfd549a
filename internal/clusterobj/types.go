// Copyright 2024 The kufu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package clusterobj defines the identity types the watch pipeline and the
// object storage façade pass around: which cluster, which GVK, and the
// dynamic payload as received from the API.
package clusterobj

import "k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

// Scope is spec.md §3's ClusterObjectMeta.scope.
type Scope int

const (
	Namespaced Scope = iota
	Cluster
)

// GVK is the Group/Version/Kind triple (spec.md GLOSSARY).
type GVK struct {
	Group   string
	Version string
	Kind    string
}

func (g GVK) String() string {
	if g.Group == "" {
		return g.Version + "/" + g.Kind
	}
	return g.Group + "/" + g.Version + "/" + g.Kind
}

// Meta is spec.md §3's ClusterObjectMeta.
type Meta struct {
	Cluster string
	GVK     GVK
	Scope   Scope
}

// DynamicObject wraps the schema-less object as received from the API; it is
// backed by apimachinery's Unstructured so that decoding preserves whatever
// fields the upstream resource carries (spec.md GLOSSARY "Dynamic object").
type DynamicObject struct {
	*unstructured.Unstructured
}

func (d DynamicObject) Name() string      { return d.GetName() }
func (d DynamicObject) Namespace() string { return d.GetNamespace() }

// Object pairs Meta with the dynamic payload: spec.md §3's ClusterObject.
type Object struct {
	Meta Meta
	Data DynamicObject
}
