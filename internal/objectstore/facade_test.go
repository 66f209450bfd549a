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

package objectstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/clusterfs/kufu/clock"
	"github.com/clusterfs/kufu/internal/clusterobj"
	"github.com/clusterfs/kufu/internal/inodealloc"
	"github.com/clusterfs/kufu/internal/kvstore"
	"github.com/clusterfs/kufu/internal/vfs"
)

type FacadeTest struct {
	suite.Suite
	store   *kvstore.Store
	manager *vfs.Manager
	facade  *Facade
	root    uint64
}

func TestFacadeSuite(t *testing.T) {
	suite.Run(t, new(FacadeTest))
}

func (t *FacadeTest) SetupTest() {
	dir := t.T().TempDir()
	store, err := kvstore.Open(filepath.Join(dir, "kufu.db"))
	require.NoError(t.T(), err)

	t.store = store
	t.manager = vfs.NewManager(store, &inodealloc.Allocator{}, clock.NewSimulatedClock(time.Unix(1000, 0)))
	t.facade = NewFacade(t.manager)

	root, err := t.manager.MountDir("default", 0)
	require.NoError(t.T(), err)
	t.root = root
	t.facade.RegisterClusterRoot("default", root)
}

func (t *FacadeTest) TearDownTest() {
	require.NoError(t.T(), t.store.Close())
}

func pod(namespace, name string) clusterobj.Object {
	u := &unstructured.Unstructured{}
	u.SetAPIVersion("v1")
	u.SetKind("Pod")
	u.SetNamespace(namespace)
	u.SetName(name)

	return clusterobj.Object{
		Meta: clusterobj.Meta{
			Cluster: "default",
			GVK:     clusterobj.GVK{Version: "v1", Kind: "Pod"},
			Scope:   clusterobj.Namespaced,
		},
		Data: clusterobj.DynamicObject{Unstructured: u},
	}
}

func (t *FacadeTest) TestAdd_AutoMountsNamespaceAndGVKDirectories() {
	p := pod("foo", "p1")

	require.NoError(t.T(), t.facade.Add(p))

	has, err := t.facade.Has(p)
	require.NoError(t.T(), err)
	t.True(has)

	inode, err := t.manager.GetInode("default/namespace/foo/Pod/p1.yaml")
	require.NoError(t.T(), err)
	t.NotZero(inode)
}

func (t *FacadeTest) TestAdd_Twice_ProducesExactlyOneEntry() {
	p := pod("foo", "p1")

	require.NoError(t.T(), t.facade.Add(p))
	require.NoError(t.T(), t.facade.Add(p))

	dentry, err := t.manager.GetDentry(mustInode(t, "default/namespace/foo/Pod"))
	require.NoError(t.T(), err)
	// ".", ".." and the single p1.yaml entry.
	t.Len(dentry.Entries, 3)
}

func (t *FacadeTest) TestAdd_NestsNamespaceDirectoryUnderNamespaceRoot() {
	p := pod("foo", "p1")
	require.NoError(t.T(), t.facade.Add(p))

	namespacesInode, err := t.manager.GetInode("default/namespace")
	require.NoError(t.T(), err)

	namespaces, err := t.manager.GetDentry(namespacesInode)
	require.NoError(t.T(), err)
	t.Contains(namespaces.Entries, "foo")

	rootDentry, err := t.manager.GetDentry(t.root)
	require.NoError(t.T(), err)
	t.NotContains(rootDentry.Entries, "foo")
}

func (t *FacadeTest) TestDelete_RemovesDataOnly() {
	p := pod("foo", "p1")
	require.NoError(t.T(), t.facade.Add(p))

	require.NoError(t.T(), t.facade.Delete(p))

	_, err := t.facade.Get(p)
	t.Error(err)
}

func (t *FacadeTest) TestMountGVK_ClusterScopedWithoutRootIsFatal() {
	u := &unstructured.Unstructured{}
	u.SetAPIVersion("v1")
	u.SetKind("Namespace")
	u.SetName("foo")

	obj := clusterobj.Object{
		Meta: clusterobj.Meta{Cluster: "unknown-cluster", GVK: clusterobj.GVK{Version: "v1", Kind: "Namespace"}, Scope: clusterobj.Cluster},
		Data: clusterobj.DynamicObject{Unstructured: u},
	}

	err := t.facade.Add(obj)
	t.Error(err)
}

func mustInode(t *FacadeTest, path string) uint64 {
	inode, err := t.manager.GetInode(path)
	require.NoError(t.T(), err)
	return inode
}
