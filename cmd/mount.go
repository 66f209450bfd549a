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

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/client-go/rest"

	"github.com/clusterfs/kufu/clock"
	"github.com/clusterfs/kufu/internal/clusterobj"
	cfgpkg "github.com/clusterfs/kufu/internal/config"
	"github.com/clusterfs/kufu/internal/dispatch"
	"github.com/clusterfs/kufu/internal/fuseserver"
	"github.com/clusterfs/kufu/internal/inodealloc"
	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/kube"
	"github.com/clusterfs/kufu/internal/kvstore"
	"github.com/clusterfs/kufu/internal/logger"
	"github.com/clusterfs/kufu/internal/objectstore"
	"github.com/clusterfs/kufu/internal/pipeline"
	"github.com/clusterfs/kufu/internal/vfs"
)

func newMountCmd() *cobra.Command {
	mountCmd := &cobra.Command{
		Use:   "mount",
		Short: "Mount the cluster filesystem and run the watch pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(cmd.Context(), viper.GetString(flagClusterName), viper.GetString(flagConfigPath))
		},
	}
	bindFlags(mountCmd)
	return mountCmd
}

// runMount implements SPEC_FULL.md §4.9's six-step mount lifecycle.
func runMount(ctx context.Context, clusterName, configPath string) error {
	log := logger.New(os.Stderr, logger.Config{Severity: logger.INFO, Format: "text"})

	cfg, err := cfgpkg.Load(configPath)
	if err != nil {
		return err
	}

	// Step 1: open the persistent store, dropping RIndex/Inode/Dentry.
	store, err := kvstore.Open(cfg.Mount.DataPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ids := &inodealloc.Allocator{}
	manager := vfs.NewManager(store, ids, clock.RealClock{})
	facade := objectstore.NewFacade(manager)

	// Step 2: mount the cluster root and its namespace directory so a
	// Namespaced object arriving before its ancestors still has a valid
	// grandparent (spec.md §4.3 "Auto-mounting of parents").
	clusterRoot, err := manager.MountDir(clusterName, 0)
	if err != nil {
		return err
	}
	facade.RegisterClusterRoot(clusterName, clusterRoot)
	if _, err := manager.MountDir(clusterName+"/namespace", clusterRoot); err != nil {
		return err
	}

	// Step 3: build the discovery pool.
	restCfg, err := firstKubeClientConfig(cfg.KubeConfigs)
	if err != nil {
		return err
	}
	pool, err := kube.Resolve(ctx, restCfg, cfg.Resources)
	if err != nil {
		return err
	}

	// Step 4: build the dispatcher registry and the pipeline's task list.
	registry := dispatch.NewRegistry()
	dispatch.RegisterDefaults(registry)

	var tasks []pipeline.Task
	for gvk, resolution := range pool.Resolutions {
		meta := clusterobj.Meta{Cluster: clusterName, GVK: gvk, Scope: resolution.Scope}
		handler, err := registry.Build(gvk, dispatch.Deps{Meta: meta, Facade: facade})
		if err != nil {
			return err
		}
		tasks = append(tasks, pipeline.Task{Meta: meta, Watcher: resolution.Client, Handler: handler})
	}

	pipelineCtx, cancelPipeline := context.WithCancel(ctx)
	defer cancelPipeline()

	pipelineDone := make(chan error, 1)
	go func() { pipelineDone <- pipeline.Run(pipelineCtx, log, tasks) }()

	// Step 5: mount the FUSE filesystem serving from the same store.
	handler := fuseserver.NewHandler(manager)
	server := fuseutil.NewFileSystemServer(handler)

	mfs, err := fuse.Mount(cfg.Mount.Path, server, &fuse.MountConfig{})
	if err != nil {
		return fmt.Errorf("%w: mounting at %s: %v", kerrors.ErrClientBuildFail, cfg.Mount.Path, err)
	}

	// Step 6: block until the mount is unmounted or a pipeline task fails.
	mountDone := make(chan error, 1)
	go func() { mountDone <- mfs.Join(ctx) }()

	select {
	case err := <-pipelineDone:
		if err != nil {
			log.Error("pipeline failed, unmounting", "error", err)
			_ = fuse.Unmount(cfg.Mount.Path)
			<-mountDone
			return err
		}
		return <-mountDone
	case err := <-mountDone:
		cancelPipeline()
		return err
	}
}

func firstKubeClientConfig(sources []kube.ConfigSource) (*rest.Config, error) {
	for _, src := range sources {
		return kube.LoadKubeClientConfig(src)
	}
	return nil, fmt.Errorf("%w: no kube-configs entries configured", kerrors.ErrKubeconfigLoadFail)
}
