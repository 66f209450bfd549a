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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterfs/kufu/internal/clusterobj"
	"github.com/clusterfs/kufu/internal/kerrors"
)

func TestParseGVK_CoreGroup(t *testing.T) {
	gvk, err := parseGVK(TypeMeta{APIVersion: "v1", Kind: "Pod"})
	require.NoError(t, err)
	assert.Equal(t, clusterobj.GVK{Group: "", Version: "v1", Kind: "Pod"}, gvk)
}

func TestParseGVK_NamedGroup(t *testing.T) {
	gvk, err := parseGVK(TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"})
	require.NoError(t, err)
	assert.Equal(t, clusterobj.GVK{Group: "apps", Version: "v1", Kind: "Deployment"}, gvk)
}

func TestParseGVK_EmptyKindFails(t *testing.T) {
	_, err := parseGVK(TypeMeta{APIVersion: "v1", Kind: ""})
	assert.ErrorIs(t, err, kerrors.ErrGVKParseFail)
}

func TestParseGVK_MalformedAPIVersionFails(t *testing.T) {
	_, err := parseGVK(TypeMeta{APIVersion: "a/b/c", Kind: "Pod"})
	assert.ErrorIs(t, err, kerrors.ErrGVKParseFail)
}
