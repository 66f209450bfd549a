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

package kube

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"

	"github.com/clusterfs/kufu/internal/clusterobj"
	"github.com/clusterfs/kufu/internal/kerrors"
)

// TypeMeta is spec.md §4.5's input unit: one configured resource kind.
type TypeMeta struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
}

// Resolution is the per-GVK outcome of discovery: the API resource's
// capabilities (namespaced or cluster-scoped) and the typed-dynamic client
// to watch it with.
type Resolution struct {
	GVK    clusterobj.GVK
	Scope  clusterobj.Scope
	Client dynamic.ResourceInterface
}

// Pool is spec.md §4.5's discovery & watch pool: a completed mapping from
// GVK to its resolved resource interface, built once at startup.
type Pool struct {
	Resolutions map[clusterobj.GVK]Resolution
}

// Resolve builds a Pool by discovering every entry in resources against
// cfg, concurrently, the way spec.md §4.5 specifies: resolutions execute in
// parallel tasks, the pool blocks until all complete, and any resolution
// failure aborts pool construction.
func Resolve(ctx context.Context, cfg *rest.Config, resources []TypeMeta) (*Pool, error) {
	discoveryClient, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: building discovery client: %v", kerrors.ErrClientBuildFail, err)
	}

	dynamicClient, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: building dynamic client: %v", kerrors.ErrClientBuildFail, err)
	}

	var mu sync.Mutex
	resolutions := make(map[clusterobj.GVK]Resolution, len(resources))

	g, gctx := errgroup.WithContext(ctx)
	for _, tm := range resources {
		tm := tm
		g.Go(func() error {
			res, err := resolveOne(gctx, discoveryClient, dynamicClient, tm)
			if err != nil {
				return err
			}
			mu.Lock()
			resolutions[res.GVK] = *res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Pool{Resolutions: resolutions}, nil
}

func resolveOne(ctx context.Context, disco discovery.DiscoveryInterface, dyn dynamic.Interface, tm TypeMeta) (*Resolution, error) {
	gvk, err := parseGVK(tm)
	if err != nil {
		return nil, err
	}

	gv := schema.GroupVersion{Group: gvk.Group, Version: gvk.Version}
	resourceList, err := disco.ServerResourcesForGroupVersion(gv.String())
	if err != nil {
		return nil, fmt.Errorf("%w: discovering %s: %v", kerrors.ErrClientBuildFail, gvk, err)
	}

	var apiResource *metav1.APIResource
	for i := range resourceList.APIResources {
		if resourceList.APIResources[i].Kind == gvk.Kind {
			apiResource = &resourceList.APIResources[i]
			break
		}
	}
	if apiResource == nil {
		return nil, fmt.Errorf("%w: %s not found in discovery", kerrors.ErrGVKParseFail, gvk)
	}

	scope := clusterobj.Cluster
	if apiResource.Namespaced {
		scope = clusterobj.Namespaced
	}

	gvr := gv.WithResource(apiResource.Name)
	client := dyn.Resource(gvr)

	return &Resolution{GVK: gvk, Scope: scope, Client: client.Namespace(metav1.NamespaceAll)}, nil
}

func parseGVK(tm TypeMeta) (clusterobj.GVK, error) {
	gv, err := schema.ParseGroupVersion(tm.APIVersion)
	if err != nil {
		return clusterobj.GVK{}, fmt.Errorf("%w: parsing %q: %v", kerrors.ErrGVKParseFail, tm.APIVersion, err)
	}
	if strings.TrimSpace(tm.Kind) == "" {
		return clusterobj.GVK{}, fmt.Errorf("%w: empty kind for %q", kerrors.ErrGVKParseFail, tm.APIVersion)
	}
	return clusterobj.GVK{Group: gv.Group, Version: gv.Version, Kind: tm.Kind}, nil
}
