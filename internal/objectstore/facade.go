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

// Package objectstore is the object storage façade of spec.md §4.3: it
// translates cluster-object identity into filesystem paths and delegates
// every actual mutation to the filesystem manager. It owns no bucket state
// of its own.
package objectstore

import (
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/clusterfs/kufu/internal/clusterobj"
	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/vfs"
)

// Facade is the object storage façade. ClusterRoots records, per cluster
// name, the inode of that cluster's root directory — populated by the mount
// lifecycle before any event is processed (SPEC_FULL.md §4.9 step 2).
type Facade struct {
	manager      *vfs.Manager
	clusterRoots map[string]uint64
}

func NewFacade(manager *vfs.Manager) *Facade {
	return &Facade{manager: manager, clusterRoots: map[string]uint64{}}
}

// RegisterClusterRoot records the inode of <cluster>'s mounted root
// directory so Add can auto-mount namespace directories beneath it.
func (f *Facade) RegisterClusterRoot(cluster string, inode uint64) {
	f.clusterRoots[cluster] = inode
}

// resourceFullKey, resourceAPIKey and parentFullKey implement spec.md §4.3
// "Path construction".
func resourceFullKey(meta clusterobj.Meta, obj clusterobj.DynamicObject) string {
	if meta.Scope == clusterobj.Namespaced {
		return fmt.Sprintf("%s/namespace/%s/%s/%s", meta.Cluster, obj.Namespace(), meta.GVK.Kind, obj.Name())
	}
	return fmt.Sprintf("%s/%s/%s", meta.Cluster, meta.GVK.Kind, obj.Name())
}

func resourceAPIKey(meta clusterobj.Meta, obj clusterobj.DynamicObject) string {
	if meta.Scope == clusterobj.Namespaced {
		return fmt.Sprintf("%s/namespace/%s/%s", meta.Cluster, obj.Namespace(), meta.GVK.Kind)
	}
	return fmt.Sprintf("%s/%s", meta.Cluster, meta.GVK.Kind)
}

func parentFullKey(meta clusterobj.Meta, obj clusterobj.DynamicObject) string {
	if meta.Scope == clusterobj.Namespaced {
		return fmt.Sprintf("%s/namespace/%s", meta.Cluster, obj.Namespace())
	}
	return meta.Cluster
}

// Has implements spec.md §4.3 has: RIndex membership check.
func (f *Facade) Has(o clusterobj.Object) (bool, error) {
	_, err := f.manager.GetInode(resourceFullKey(o.Meta, o.Data) + ".yaml")
	if err == nil {
		return true, nil
	}
	if kerrors.IsInodeAttrNotFound(err) {
		return false, nil
	}
	return false, err
}

// Get implements spec.md §4.3 get.
func (f *Facade) Get(o clusterobj.Object) ([]byte, error) {
	inode, err := f.manager.GetInode(resourceFullKey(o.Meta, o.Data) + ".yaml")
	if err != nil {
		return nil, err
	}
	return f.manager.GetData(inode)
}

// Add implements spec.md §4.3 add: delegates to Update when the object
// already exists (the REDESIGN FLAG fix — see DESIGN.md — the original had
// this branch inverted), otherwise mounts the GVK and namespace parents and
// then the file itself.
func (f *Facade) Add(o clusterobj.Object) error {
	exists, err := f.Has(o)
	if err != nil {
		return err
	}
	if exists {
		return f.Update(o)
	}

	parentInode, err := f.MountGVK(o.Meta, o.Data)
	if err != nil {
		return err
	}

	content, err := yaml.Marshal(o.Data.Object)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrYAMLSerialize, err)
	}

	fileKey := resourceFullKey(o.Meta, o.Data) + ".yaml"
	_, err = f.manager.MountFile(fileKey, parentInode, content)
	return err
}

// MountGVK ensures the GVK's directory (and, for Namespaced scope, the
// intermediate namespace directory) exists, auto-mounting it under the
// cluster root the way spec.md §4.3 "Auto-mounting of parents" describes.
// A Cluster-scoped object whose cluster root is missing is fatal.
func (f *Facade) MountGVK(meta clusterobj.Meta, obj clusterobj.DynamicObject) (uint64, error) {
	clusterRoot, ok := f.clusterRoots[meta.Cluster]
	if !ok {
		return 0, kerrors.NewMockParentDirError(meta.Cluster)
	}

	parentInode := clusterRoot
	if meta.Scope == clusterobj.Namespaced {
		// The "namespace" directory literally appears in the path
		// (<cluster>/namespace/<ns>/...), so the namespace directory's
		// dentry parent must be it, not the cluster root directly.
		namespacesInode, err := f.manager.MountDir(meta.Cluster+"/namespace", clusterRoot)
		if err != nil {
			return 0, err
		}
		nsKey := parentFullKey(meta, obj)
		inode, err := f.manager.MountDir(nsKey, namespacesInode)
		if err != nil {
			return 0, err
		}
		parentInode = inode
	}

	return f.manager.MountDir(resourceAPIKey(meta, obj), parentInode)
}

// Update implements spec.md §4.3 update.
func (f *Facade) Update(o clusterobj.Object) error {
	content, err := yaml.Marshal(o.Data.Object)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrYAMLSerialize, err)
	}
	return f.manager.EditFile(resourceFullKey(o.Meta, o.Data)+".yaml", content)
}

// Delete implements spec.md §4.3 delete: removes only the Data entry.
// Per spec.md §9 Open Questions, this intentionally does not cascade to the
// parent Dentry or the Inode/RIndex entries — that is the source's documented
// (if questionable) behavior, not something this façade invents.
func (f *Facade) Delete(o clusterobj.Object) error {
	inode, err := f.manager.GetInode(resourceFullKey(o.Meta, o.Data) + ".yaml")
	if err != nil {
		return err
	}
	return f.manager.DeleteData(inode)
}
