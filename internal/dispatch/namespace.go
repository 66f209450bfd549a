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

// namespaceHandler is the Cluster-scoped Namespace event handler
// (spec.md §4.6 "at minimum for v1/Pod and v1/Namespace").
type namespaceHandler struct {
	deps Deps
}

func NewNamespaceHandler(deps Deps) Handler {
	return &namespaceHandler{deps: deps}
}

func (h *namespaceHandler) Process(evt Event) error {
	switch evt.Kind {
	case Applied:
		return h.deps.Facade.Add(evt.Object)
	case Deleted:
		return h.deps.Facade.Delete(evt.Object)
	case Restarted:
		for _, obj := range evt.Objects {
			if err := h.deps.Facade.Add(obj); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}
