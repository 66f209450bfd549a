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

// Package dispatch holds the per-kind event handlers and the registry that
// maps GVK to the factory producing them (spec.md §4.6).
package dispatch

import "github.com/clusterfs/kufu/internal/clusterobj"

// EventKind distinguishes the three watch-event shapes of spec.md §4.6.
type EventKind int

const (
	Applied EventKind = iota
	Deleted
	Restarted
)

// Event is one item an EventHandler processes. Restarted carries a batch;
// Applied and Deleted carry a single object.
type Event struct {
	Kind    EventKind
	Object  clusterobj.Object
	Objects []clusterobj.Object
}

// Handler is what a Factory produces: something that processes one Event at
// a time (spec.md §4.6 "produces an EventHandler with operation process").
type Handler interface {
	Process(evt Event) error
}

// Factory builds a Handler bound to one (cluster object meta, façade) pair.
type Factory func(deps Deps) Handler

// Deps is what a Factory needs to build its Handler: the cluster/GVK/scope
// identity of the resource it handles and the object storage façade to
// mutate. The watch client itself lives in the pipeline, not here — handlers
// only ever receive already-decoded Events.
type Deps struct {
	Meta   clusterobj.Meta
	Facade Facade
}

// Facade is the subset of *objectstore.Facade the handlers need; declared
// here (consumer side) so dispatch does not import objectstore, the way the
// teacher keeps its fs/inode package free of gcsproxy imports.
type Facade interface {
	Add(o clusterobj.Object) error
	Update(o clusterobj.Object) error
	Delete(o clusterobj.Object) error
	Has(o clusterobj.Object) (bool, error)
}
