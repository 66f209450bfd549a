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

package kerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInodeAttrNotFound_MatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStoreTransaction, NewInodeAttrNotFound(7))
	assert.True(t, IsInodeAttrNotFound(err))
	assert.False(t, IsDentryAttrNotFound(err))
}

func TestIsDentryAttrNotFound_MatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStoreTransaction, NewDentryAttrNotFound(3))
	assert.True(t, IsDentryAttrNotFound(err))
}

func TestIsClusterObjectDataNotFound_MatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStoreTransaction, NewClusterObjectDataNotFound(9))
	assert.True(t, IsClusterObjectDataNotFound(err))
}

func TestIsChildEntryNotFound_MatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStoreTransaction, NewChildEntryNotFound("root", "missing.yaml"))
	assert.True(t, IsChildEntryNotFound(err))
}

func TestIsMockParentDirError_MatchesWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrStoreTransaction, NewMockParentDirError("default/namespace/foo"))
	assert.True(t, IsMockParentDirError(err))
}

func TestTypedErrors_DoNotCrossMatch(t *testing.T) {
	err := NewInodeAttrNotFound(1)
	assert.False(t, errors.Is(err, ErrStoreIO))
	assert.False(t, IsChildEntryNotFound(err))
}
