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

// Package pipeline is the event pipeline of spec.md §4.7: one concurrent
// task per GVK, consuming its watch stream one event at a time and handing
// decoded events to the dispatcher. The supervisor joins all tasks and
// surfaces the first failure; the pipeline performs no retry at this layer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/clusterfs/kufu/internal/clusterobj"
	"github.com/clusterfs/kufu/internal/dispatch"
	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/kube"
)

// Watcher is the subset of dynamic.ResourceInterface the pipeline needs,
// declared on the consumer side so this package does not import the
// concrete dynamic client.
type Watcher interface {
	Watch(ctx context.Context, opts metav1.ListOptions) (watch.Interface, error)
}

// Task is everything one GVK's pipeline task needs: its identity, a way to
// open its watch stream, and the handler that processes decoded events.
type Task struct {
	Meta    clusterobj.Meta
	Watcher Watcher
	Handler dispatch.Handler
}

// Run starts one task per entry in tasks and blocks until all complete,
// surfacing the first failure (spec.md §4.7 "the supervisor joins all
// tasks; the first failure is surfaced").
func Run(ctx context.Context, logger *slog.Logger, tasks []Task) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			return runOne(gctx, logger, t)
		})
	}

	return g.Wait()
}

func runOne(ctx context.Context, logger *slog.Logger, t Task) error {
	stream, err := t.Watcher.Watch(ctx, metav1.ListOptions{})
	if err != nil {
		return fmt.Errorf("%w: opening watch for %s: %v", kerrors.ErrWatchEventFail, t.Meta.GVK, err)
	}
	defer stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-stream.ResultChan():
			if !ok {
				return nil
			}
			if err := handle(t, event); err != nil {
				logger.Error("watch event failed", "gvk", t.Meta.GVK.String(), "error", err)
				return fmt.Errorf("%w: %v", kerrors.ErrWatchEventFail, err)
			}
		}
	}
}

// handle maps apimachinery's Added/Modified watch events onto Applied and
// Deleted onto Deleted; it never produces a Restarted event.
func handle(t Task, event watch.Event) error {
	switch event.Type {
	case watch.Added, watch.Modified:
		obj, err := toObject(t.Meta, event.Object)
		if err != nil {
			return err
		}
		return t.Handler.Process(dispatch.Event{Kind: dispatch.Applied, Object: obj})

	case watch.Deleted:
		obj, err := toObject(t.Meta, event.Object)
		if err != nil {
			return err
		}
		return t.Handler.Process(dispatch.Event{Kind: dispatch.Deleted, Object: obj})

	case watch.Bookmark:
		// Bookmarks carry no object to dispatch.
		return nil

	case watch.Error:
		// An error event fails the task so the supervisor surfaces it.
		return fmt.Errorf("%w: watch error for %s: %v", kerrors.ErrWatchEventFail, t.Meta.GVK, event.Object)

	default:
		return nil
	}
}

func toObject(meta clusterobj.Meta, raw any) (clusterobj.Object, error) {
	u, ok := raw.(*unstructured.Unstructured)
	if !ok {
		return clusterobj.Object{}, fmt.Errorf("%w: unexpected watch payload type %T", kerrors.ErrWatchEventFail, raw)
	}
	return clusterobj.Object{Meta: meta, Data: clusterobj.DynamicObject{Unstructured: u}}, nil
}
