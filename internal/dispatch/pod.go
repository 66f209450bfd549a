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

package dispatch

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/clusterfs/kufu/internal/clusterobj"
)

// podHandler is the Namespaced Pod event handler. Its Applied case carries
// spec.md §4.6's namespace-synthesis rule: if the implied Namespace object
// is not yet in the store, synthesize one and add it first, so a pod
// observed before its namespace still produces a well-formed tree
// (spec.md §5 "bounding the cross-stream race").
type podHandler struct {
	deps Deps
}

func NewPodHandler(deps Deps) Handler {
	return &podHandler{deps: deps}
}

func (h *podHandler) Process(evt Event) error {
	switch evt.Kind {
	case Applied:
		return h.applyWithNamespaceSynthesis(evt.Object)
	case Deleted:
		return h.deps.Facade.Delete(evt.Object)
	case Restarted:
		for _, obj := range evt.Objects {
			if err := h.applyWithNamespaceSynthesis(obj); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (h *podHandler) applyWithNamespaceSynthesis(pod clusterobj.Object) error {
	ns := synthesizeNamespace(pod)

	exists, err := h.deps.Facade.Has(ns)
	if err != nil {
		return err
	}
	if !exists {
		if err := h.deps.Facade.Add(ns); err != nil {
			return err
		}
	}

	return h.deps.Facade.Add(pod)
}

// synthesizeNamespace builds the minimal Namespace ClusterObject implied by
// pod's namespace, for the auto-synthesis case only.
func synthesizeNamespace(pod clusterobj.Object) clusterobj.Object {
	obj := &unstructured.Unstructured{}
	obj.SetAPIVersion("v1")
	obj.SetKind("Namespace")
	obj.SetName(pod.Data.Namespace())

	return clusterobj.Object{
		Meta: clusterobj.Meta{
			Cluster: pod.Meta.Cluster,
			GVK:     clusterobj.GVK{Version: "v1", Kind: "Namespace"},
			Scope:   clusterobj.Cluster,
		},
		Data: clusterobj.DynamicObject{Unstructured: obj},
	}
}
