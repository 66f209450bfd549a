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

package kvstore

import (
	"encoding/binary"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/clusterfs/kufu/internal/kerrors"
)

// InodeKey encodes an inode number as the 8-byte big-endian key spec.md §3
// and §4.2 "Key encoding" requires for the Inode, Dentry and Data buckets.
func InodeKey(inode uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, inode)
	return key
}

// DecodeInodeKey is the inverse of InodeKey. A malformed key (wrong length)
// is a fatal invariant violation per spec.md §4.2.
func DecodeInodeKey(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("%w: inode key must be 8 bytes, got %d", kerrors.ErrStoreIO, len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

// MarshalYAML encodes v (InodeAttributes, DentryAttributes, ...) the way
// every non-cluster-object value in the store is serialized.
func MarshalYAML(v any) ([]byte, error) {
	b, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrYAMLSerialize, err)
	}
	return b, nil
}

// UnmarshalYAML decodes bytes produced by MarshalYAML into v.
func UnmarshalYAML(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrYAMLSerialize, err)
	}
	return nil
}
