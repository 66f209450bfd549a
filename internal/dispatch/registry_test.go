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

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterfs/kufu/internal/clusterobj"
)

func TestRegisterDefaults_WiresPodAndNamespace(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	facade := newFakeFacade()

	podHandler, err := r.Build(clusterobj.GVK{Version: "v1", Kind: "Pod"}, Deps{Facade: facade})
	require.NoError(t, err)
	assert.NotNil(t, podHandler)

	nsHandler, err := r.Build(clusterobj.GVK{Version: "v1", Kind: "Namespace"}, Deps{Facade: facade})
	require.NoError(t, err)
	assert.NotNil(t, nsHandler)
}

func TestBuild_UnregisteredGVKFails(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build(clusterobj.GVK{Version: "v1", Kind: "ConfigMap"}, Deps{})
	assert.Error(t, err)
}
