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

// Package kerrors defines the stable error-kind sentinels every layer wraps
// with %w: callers compare with errors.Is rather than matching strings.
package kerrors

import (
	"errors"
	"fmt"
)

// Startup-fatal kinds.
var (
	ErrConfigReadFail     = errors.New("config read failed")
	ErrKubeconfigLoadFail = errors.New("kubeconfig load failed")
	ErrClientBuildFail    = errors.New("client build failed")
	ErrGVKParseFail       = errors.New("gvk parse failed")
)

// Watch-task kinds.
var ErrWatchEventFail = errors.New("watch event failed")

// Store/codec kinds.
var (
	ErrStoreIO          = errors.New("store io failed")
	ErrStoreTransaction = errors.New("store transaction failed")
	ErrYAMLSerialize    = errors.New("yaml serialization failed")
)

// Filesystem lookup kinds. These carry identifying parameters, so they are
// comparable wrapper types rather than bare sentinels; errors.Is still works
// because each implements Is against its own sentinel base.
var (
	baseInodeAttrNotFound     = errors.New("inode attributes not found")
	baseDentryAttrNotFound    = errors.New("dentry attributes not found")
	baseClusterObjectNotFound = errors.New("cluster object data not found")
	baseChildEntryNotFound    = errors.New("child entry not found")
	baseMockParentDirError    = errors.New("cluster root missing for cluster-scoped object")
)

// InodeAttrNotFoundError indicates no Inode bucket entry exists for Inode.
type InodeAttrNotFoundError struct{ Inode uint64 }

func (e *InodeAttrNotFoundError) Error() string {
	return fmt.Sprintf("inode attributes not found for inode %d", e.Inode)
}
func (e *InodeAttrNotFoundError) Is(target error) bool { return target == baseInodeAttrNotFound }

func NewInodeAttrNotFound(inode uint64) error { return &InodeAttrNotFoundError{Inode: inode} }
func IsInodeAttrNotFound(err error) bool      { return errors.Is(err, baseInodeAttrNotFound) }

// DentryAttrNotFoundError indicates no Dentry bucket entry exists for Inode.
type DentryAttrNotFoundError struct{ Inode uint64 }

func (e *DentryAttrNotFoundError) Error() string {
	return fmt.Sprintf("dentry attributes not found for inode %d", e.Inode)
}
func (e *DentryAttrNotFoundError) Is(target error) bool { return target == baseDentryAttrNotFound }

func NewDentryAttrNotFound(inode uint64) error { return &DentryAttrNotFoundError{Inode: inode} }
func IsDentryAttrNotFound(err error) bool      { return errors.Is(err, baseDentryAttrNotFound) }

// ClusterObjectDataNotFoundError indicates no Data bucket entry exists for Inode.
type ClusterObjectDataNotFoundError struct{ Inode uint64 }

func (e *ClusterObjectDataNotFoundError) Error() string {
	return fmt.Sprintf("cluster object data not found for inode %d", e.Inode)
}
func (e *ClusterObjectDataNotFoundError) Is(target error) bool {
	return target == baseClusterObjectNotFound
}

func NewClusterObjectDataNotFound(inode uint64) error {
	return &ClusterObjectDataNotFoundError{Inode: inode}
}
func IsClusterObjectDataNotFound(err error) bool { return errors.Is(err, baseClusterObjectNotFound) }

// ChildEntryNotFoundError indicates name is absent from parentName's dentry.
type ChildEntryNotFoundError struct {
	ParentName string
	ChildName  string
}

func (e *ChildEntryNotFoundError) Error() string {
	return fmt.Sprintf("no such entry %q in %q", e.ChildName, e.ParentName)
}
func (e *ChildEntryNotFoundError) Is(target error) bool { return target == baseChildEntryNotFound }

func NewChildEntryNotFound(parentName, childName string) error {
	return &ChildEntryNotFoundError{ParentName: parentName, ChildName: childName}
}
func IsChildEntryNotFound(err error) bool { return errors.Is(err, baseChildEntryNotFound) }

// MockParentDirError indicates a cluster-scoped object arrived before its
// cluster root directory was mounted; this is fatal for the event that
// triggered it (FUSE-init owns cluster-root creation, not the façade).
type MockParentDirError struct{ Path string }

func (e *MockParentDirError) Error() string {
	return fmt.Sprintf("cluster root missing for path %q", e.Path)
}
func (e *MockParentDirError) Is(target error) bool { return target == baseMockParentDirError }

func NewMockParentDirError(path string) error { return &MockParentDirError{Path: path} }
func IsMockParentDirError(err error) bool     { return errors.Is(err, baseMockParentDirError) }
