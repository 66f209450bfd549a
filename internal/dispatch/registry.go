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
	"fmt"
	"sync"

	"github.com/clusterfs/kufu/internal/clusterobj"
)

// Registry is the process-wide GVK→Factory mapping of spec.md §4.6: a
// registry mapping GVK to a constructor function value, the strategy
// spec.md §9 prefers over a tagged variant because it preserves
// extensibility without a central enum. Guarded by a mutex; read-mostly
// after startup (spec.md §5 "Shared-resource policy").
type Registry struct {
	mu       sync.RWMutex
	factories map[clusterobj.GVK]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[clusterobj.GVK]Factory{}}
}

// Register installs factory for gvk. Registration happens at startup
// (spec.md §4.6 "at minimum for v1/Pod and v1/Namespace"); the design stays
// open for more by simply registering additional GVKs.
func (r *Registry) Register(gvk clusterobj.GVK, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[gvk] = factory
}

// Build produces a Handler for gvk via its registered factory.
func (r *Registry) Build(gvk clusterobj.GVK, deps Deps) (Handler, error) {
	r.mu.RLock()
	factory, ok := r.factories[gvk]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no event handler factory registered for %s", gvk)
	}
	return factory(deps), nil
}

// RegisterDefaults wires the built-in handlers spec.md §4.6 requires at
// minimum.
func RegisterDefaults(r *Registry) {
	r.Register(clusterobj.GVK{Version: "v1", Kind: "Namespace"}, NewNamespaceHandler)
	r.Register(clusterobj.GVK{Version: "v1", Kind: "Pod"}, NewPodHandler)
}
