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

// Package fuseserver is the FUSE request handler of spec.md §4.4. It
// translates lookup/getattr/readdir/opendir/read into filesystem-manager
// calls and performs no writes on behalf of the kernel. Grounded on the
// teacher's fs/fs.go, adapted from its gcs.Bucket-backed fileSystem to the
// cluster-object-backed vfs.Manager, and using the same jacobsa/fuse
// Op-mutation style (one method per fuseops.*Op, op.Context() rather than a
// threaded ctx parameter).
package fuseserver

import (
	"os"
	"sync/atomic"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/clusterfs/kufu/internal/kerrors"
	"github.com/clusterfs/kufu/internal/vfs"
)

// Handler implements fuseutil.FileSystem by delegating every operation to
// the filesystem manager. It embeds NotImplementedFileSystem so write-path
// operations the kernel may still attempt (spec.md §4.4 "performs no
// writes") fall through to ENOSYS.
type Handler struct {
	fuseutil.NotImplementedFileSystem

	manager *vfs.Manager

	// nextHandleID is the monotonic counter, separate from the inode
	// counter, backing the handle IDs opendir hands out (spec.md §4.4).
	nextHandleID uint64
}

func NewHandler(manager *vfs.Manager) *Handler {
	return &Handler{manager: manager}
}

func (h *Handler) Init(op *fuseops.InitOp) error {
	return nil
}

// LookUpInode implements spec.md §4.4 lookup.
func (h *Handler) LookUpInode(op *fuseops.LookUpInodeOp) error {
	dentry, err := h.manager.GetDentry(uint64(op.Parent))
	if err != nil {
		return translate(err)
	}

	entry, ok := dentry.Entries[op.Name]
	if !ok {
		return translate(kerrors.NewChildEntryNotFound(dentry.Name, op.Name))
	}

	attrs, err := h.manager.GetInodeAttr(entry.Inode)
	if err != nil {
		return translate(err)
	}

	op.Entry.Child = fuseops.InodeID(entry.Inode)
	op.Entry.Attributes = toFuseAttributes(attrs)
	return nil
}

// GetInodeAttributes implements spec.md §4.4 getattr.
func (h *Handler) GetInodeAttributes(op *fuseops.GetInodeAttributesOp) error {
	attrs, err := h.manager.GetInodeAttr(uint64(op.Inode))
	if err != nil {
		return translate(err)
	}
	op.Attributes = toFuseAttributes(attrs)
	return nil
}

// OpenDir implements spec.md §4.4 opendir: increments open_file_handles,
// persists it, and returns a handle whose top two bits encode read/write
// intent and whose lower bits are the separate handle counter.
func (h *Handler) OpenDir(op *fuseops.OpenDirOp) error {
	attrs, err := h.manager.GetInodeAttr(uint64(op.Inode))
	if err != nil {
		return translate(err)
	}

	attrs.OpenFileHandles++
	if err := h.manager.UpdateInode(uint64(op.Inode), attrs); err != nil {
		return translate(err)
	}

	counter := atomic.AddUint64(&h.nextHandleID, 1)
	op.Handle = fuseops.HandleID(readWriteBits(op.Flags) | (counter & handleCounterMask))
	return nil
}

// ReadDir implements spec.md §4.4 readdir: iterate entries in the dentry's
// natural order, skip op.Offset entries, emit the rest until the kernel
// buffer returns full.
func (h *Handler) ReadDir(op *fuseops.ReadDirOp) error {
	dentry, err := h.manager.GetDentry(uint64(op.Inode))
	if err != nil {
		return translate(err)
	}

	names := dentry.SortedNames()
	if int(op.Offset) >= len(names) {
		return nil
	}

	for i, name := range names[op.Offset:] {
		entry := dentry.Entries[name]
		dirent := fuseops.Dirent{
			Offset: op.Offset + fuseops.DirOffset(i) + 1,
			Inode:  fuseops.InodeID(entry.Inode),
			Name:   name,
			Type:   toDirentType(entry.Kind),
		}

		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], dirent)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}

	return nil
}

// ReadFile implements spec.md §4.4 read: returns bytes[offset..min(offset+size, len)].
func (h *Handler) ReadFile(op *fuseops.ReadFileOp) error {
	data, err := h.manager.GetData(uint64(op.Inode))
	if err != nil {
		return translate(err)
	}

	if op.Offset >= int64(len(data)) {
		op.BytesRead = 0
		return nil
	}

	end := int64(len(data))
	if op.Offset+int64(len(op.Dst)) < end {
		end = op.Offset + int64(len(op.Dst))
	}
	op.BytesRead = copy(op.Dst, data[op.Offset:end])
	return nil
}

const handleCounterMask = (uint64(1) << 62) - 1

// readWriteBits encodes op.Flags' access mode into the top two bits
// spec.md §4.4 describes: bit 63 for write intent, bit 62 for read intent.
func readWriteBits(flags fuseops.OpenFlags) uint64 {
	switch int(flags) & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_WRONLY:
		return uint64(1) << 63
	case os.O_RDWR:
		return uint64(1)<<63 | uint64(1)<<62
	default:
		return uint64(1) << 62
	}
}

func toDirentType(kind vfs.FileKind) fuseops.DirentType {
	switch kind {
	case vfs.Directory:
		return fuseops.DT_Directory
	case vfs.Symlink:
		return fuseops.DT_Link
	default:
		return fuseops.DT_File
	}
}

func toFuseAttributes(attrs vfs.InodeAttributes) fuseops.InodeAttributes {
	mode := toOSMode(attrs)
	return fuseops.InodeAttributes{
		Size:   attrs.Size,
		Nlink:  attrs.Hardlinks,
		Mode:   mode,
		Atime:  attrs.LastAccessed.Time(),
		Mtime:  attrs.LastModified.Time(),
		Ctime:  attrs.LastMetadataChanged.Time(),
		Uid:    attrs.UID,
		Gid:    attrs.GID,
	}
}

func toOSMode(attrs vfs.InodeAttributes) os.FileMode {
	mode := os.FileMode(attrs.Mode) & os.ModePerm
	switch attrs.Kind {
	case vfs.Directory:
		mode |= os.ModeDir
	case vfs.Symlink:
		mode |= os.ModeSymlink
	}
	return mode
}

// translate implements spec.md §7 "FUSE handlers translate not-found errors
// to negative kernel replies; all others translate to EIO".
func translate(err error) error {
	switch {
	case kerrors.IsInodeAttrNotFound(err),
		kerrors.IsDentryAttrNotFound(err),
		kerrors.IsClusterObjectDataNotFound(err),
		kerrors.IsChildEntryNotFound(err):
		return fuse.ENOENT
	default:
		return fuse.EIO
	}
}
