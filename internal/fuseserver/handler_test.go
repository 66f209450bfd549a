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

package fuseserver

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/clusterfs/kufu/clock"
	"github.com/clusterfs/kufu/internal/inodealloc"
	"github.com/clusterfs/kufu/internal/kvstore"
	"github.com/clusterfs/kufu/internal/vfs"
)

type HandlerTest struct {
	suite.Suite
	store   *kvstore.Store
	manager *vfs.Manager
	handler *Handler
	root    uint64
	file    uint64
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTest))
}

func (t *HandlerTest) SetupTest() {
	dir := t.T().TempDir()
	store, err := kvstore.Open(filepath.Join(dir, "kufu.db"))
	require.NoError(t.T(), err)

	t.store = store
	t.manager = vfs.NewManager(store, &inodealloc.Allocator{}, clock.NewSimulatedClock(time.Unix(1000, 0)))
	t.handler = NewHandler(t.manager)

	root, err := t.manager.MountDir("default", 0)
	require.NoError(t.T(), err)
	t.root = root

	file, err := t.manager.MountFile("default/pod.yaml", root, []byte("hello"))
	require.NoError(t.T(), err)
	t.file = file
}

func (t *HandlerTest) TearDownTest() {
	require.NoError(t.T(), t.store.Close())
}

func (t *HandlerTest) TestLookUpInode_Found() {
	op := &fuseops.LookUpInodeOp{Parent: fuseops.InodeID(t.root), Name: "pod.yaml"}
	require.NoError(t.T(), t.handler.LookUpInode(op))
	t.Equal(fuseops.InodeID(t.file), op.Entry.Child)
}

func (t *HandlerTest) TestLookUpInode_NotFoundTranslatesToENOENT() {
	op := &fuseops.LookUpInodeOp{Parent: fuseops.InodeID(t.root), Name: "missing.yaml"}
	err := t.handler.LookUpInode(op)
	t.Equal(fuse.ENOENT, err)
}

func (t *HandlerTest) TestReadFile_ReturnsRequestedSlice() {
	op := &fuseops.ReadFileOp{Inode: fuseops.InodeID(t.file), Offset: 1, Dst: make([]byte, 3)}
	require.NoError(t.T(), t.handler.ReadFile(op))
	t.Equal(3, op.BytesRead)
	t.Equal([]byte("ell"), op.Dst[:op.BytesRead])
}

func (t *HandlerTest) TestReadFile_OffsetPastEndReturnsZero() {
	op := &fuseops.ReadFileOp{Inode: fuseops.InodeID(t.file), Offset: 100, Dst: make([]byte, 3)}
	require.NoError(t.T(), t.handler.ReadFile(op))
	t.Equal(0, op.BytesRead)
}

func (t *HandlerTest) TestReadDir_SkipsOffsetEntries() {
	op := &fuseops.ReadDirOp{Inode: fuseops.InodeID(t.root), Offset: 1, Dst: make([]byte, 4096)}
	require.NoError(t.T(), t.handler.ReadDir(op))
	t.Greater(op.BytesRead, 0)
}

func (t *HandlerTest) TestOpenDir_IncrementsHandleCount() {
	op := &fuseops.OpenDirOp{Inode: fuseops.InodeID(t.root)}
	require.NoError(t.T(), t.handler.OpenDir(op))

	attrs, err := t.manager.GetInodeAttr(t.root)
	require.NoError(t.T(), err)
	t.Equal(uint32(1), attrs.OpenFileHandles)
}
