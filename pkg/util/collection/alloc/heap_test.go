// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package alloc

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Heap_00(t *testing.T) {
	h := NewHeap(0)
	// Requests too large to represent fail cleanly, even when unbounded
	_, err := Malloc[int64](h, math.MaxUint)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	_, err = Malloc[triple](h, math.MaxInt/4)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	//
	_, ok := TryMalloc[int64](h, math.MaxUint)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), h.InUse())
}

func Test_Heap_01(t *testing.T) {
	h := NewHeap(64)
	//
	block, err := Malloc[int64](h, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(64), h.InUse())
	// Limit reached with no handler
	_, ok := TryMalloc[byte](h, 1)
	assert.False(t, ok)
	_, err = Malloc[byte](h, 1)
	assert.True(t, errors.Is(err, ErrOutOfMemory))
	//
	Free(h, block)
	assert.Equal(t, uint64(0), h.InUse())
}
