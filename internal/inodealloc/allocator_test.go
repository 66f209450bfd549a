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

package inodealloc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_MonotonicallyIncreasing(t *testing.T) {
	var a Allocator

	first, firstKey := a.Next()
	second, secondKey := a.Next()

	assert.Equal(t, uint64(1), first)
	assert.Equal(t, uint64(2), second)
	assert.Less(t, first, second)
	assert.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 0, 1}, firstKey)
	assert.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 0, 2}, secondKey)
}

func TestNext_ConcurrentCallsAreDistinct(t *testing.T) {
	var a Allocator
	const n = 500

	seen := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _ := a.Next()
			seen[i] = v
		}(i)
	}
	wg.Wait()

	unique := map[uint64]bool{}
	for _, v := range seen {
		assert.False(t, unique[v], "inode %d issued twice", v)
		unique[v] = true
	}
	assert.Len(t, unique, n)
}
