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
package tree

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/consensys/go-cxstl/pkg/util/collection/alloc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Tree_00(t *testing.T) {
	tr := newIntTree(false)
	//
	for _, k := range []int{5, 3, 8, 3, 1} {
		tr.Insert(k)
		require.NoError(t, tr.Check())
	}
	//
	assert.Equal(t, uint(4), tr.Len())
	assert.Equal(t, []int{1, 3, 5, 8}, tr.ToSlice())
	assert.Equal(t, []int{1, 3, 5, 8}, tr.Iter().Collect())
}

func Test_Tree_01(t *testing.T) {
	tr := newIntTree(false)
	//
	assert.True(t, tr.Empty())
	assert.True(t, tr.Begin().Equal(tr.End()))
	assert.True(t, tr.Find(1).IsEnd())
	assert.True(t, tr.LowerBound(1).IsEnd())
	assert.Equal(t, uint(0), tr.Count(1))
	assert.Panics(t, func() { tr.Erase(tr.End()) })
	assert.Panics(t, func() { tr.End().Get() })
	//
	_, ok := tr.Min()
	assert.False(t, ok)
	require.NoError(t, tr.Check())
}

func Test_Tree_02(t *testing.T) {
	tr := newIntTree(false)
	//
	it, ok := tr.InsertUnique(10)
	require.True(t, ok)
	// Rejected insertion identifies the existing value
	jt, ok := tr.InsertUnique(10)
	require.False(t, ok)
	assert.True(t, it.Equal(jt))
	assert.Equal(t, uint(1), tr.Len())
}

func Test_Tree_03(t *testing.T) {
	tr := newIntTree(true)
	//
	for _, k := range []int{5, 3, 8, 3, 1, 3} {
		tr.Insert(k)
		require.NoError(t, tr.Check())
	}
	//
	assert.Equal(t, uint(6), tr.Len())
	assert.Equal(t, []int{1, 3, 3, 3, 5, 8}, tr.ToSlice())
	assert.Equal(t, uint(3), tr.Count(3))
	//
	lo, hi := tr.EqualRange(3)
	assert.Equal(t, 3, lo.Get())
	assert.Equal(t, 5, hi.Get())
	assert.Equal(t, 1, lo.Prev().Get())
	// Find gives last of equal run
	assert.True(t, tr.Find(3).Equal(hi.Prev()))
	//
	assert.Equal(t, uint(3), tr.EraseKey(3))
	assert.Equal(t, []int{1, 5, 8}, tr.ToSlice())
	require.NoError(t, tr.Check())
}

func Test_Tree_04(t *testing.T) {
	type item struct {
		key int
		seq int
	}
	// Equal keys are held in insertion order
	tr := New(func(i item) int { return i.key }, cmp.Less[int], true)
	//
	for i := range 100 {
		tr.InsertEqual(item{i % 3, i})
	}
	//
	require.NoError(t, tr.Check())
	//
	prev := item{-1, -1}
	//
	for it := tr.Begin(); !it.IsEnd(); it = it.Next() {
		cur := it.Get()
		//
		if cur.key == prev.key {
			assert.Less(t, prev.seq, cur.seq)
		}
		//
		prev = cur
	}
}

func Test_Tree_05(t *testing.T) {
	tr := newIntTree(false)
	//
	for i := range 100 {
		tr.Insert(i)
	}
	// Stepping back from End gives the maximum
	assert.Equal(t, 99, tr.End().Prev().Get())
	// Stepping back from Begin gives End
	assert.True(t, tr.Begin().Prev().IsEnd())
	// Reverse traversal
	var items []int
	//
	for it := tr.End().Prev(); !it.IsEnd(); it = it.Prev() {
		items = append(items, it.Get())
	}
	//
	expected := tr.ToSlice()
	slices.Reverse(expected)
	assert.Equal(t, expected, items)
}

func Test_Tree_06(t *testing.T) {
	tr := newIntTree(false)
	//
	for i := range 100 {
		tr.Insert(i)
	}
	// Iterators survive erasure of other values
	var (
		it   = tr.Find(50)
		gone = tr.Find(51)
	)
	//
	next := tr.Erase(gone)
	assert.Equal(t, 52, next.Get())
	assert.False(t, gone.Valid())
	assert.Panics(t, func() { gone.Get() })
	assert.Panics(t, func() { tr.Erase(gone) })
	//
	for i := range 50 {
		tr.EraseKey(i)
		require.NoError(t, tr.Check())
	}
	//
	assert.True(t, it.Valid())
	assert.Equal(t, 50, it.Get())
	assert.Equal(t, 52, it.Next().Get())
	assert.True(t, tr.Begin().Equal(it))
	// Stale iterator stays stale even once its node is recycled
	tr.Insert(51)
	assert.False(t, gone.Valid())
}

func Test_Tree_07(t *testing.T) {
	tr := newIntTree(true)
	//
	for i := range 1000 {
		tr.Insert(i % 37)
	}
	//
	c := tr.Clone()
	require.NoError(t, c.Check())
	assert.Equal(t, tr.ToSlice(), c.ToSlice())
	// Modifying the clone leaves the original untouched
	c.EraseKey(5)
	assert.Equal(t, uint(1000), tr.Len())
	assert.Equal(t, uint(0), c.Count(5))
	assert.NotEqual(t, uint(0), tr.Count(5))
	//
	tr.Swap(c)
	assert.Equal(t, uint(0), tr.Count(5))
	require.NoError(t, tr.Check())
	require.NoError(t, c.Check())
	//
	tr.Clear()
	assert.True(t, tr.Empty())
	require.NoError(t, tr.Check())
	tr.Insert(1)
	assert.Equal(t, []int{1}, tr.ToSlice())
}

func Test_Tree_08(t *testing.T) {
	var (
		heap = alloc.NewHeap(0)
		tr   = New(identity[int], cmp.Less[int], false, WithHeap(heap))
	)
	//
	for i := range 10000 {
		tr.Insert(i)
	}
	//
	assert.NotZero(t, heap.InUse())
	// Limit heap to what is already in use
	heap.SetLimit(heap.InUse())
	//
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, alloc.ErrOutOfMemory))
	}()
	//
	for i := 10000; ; i++ {
		tr.Insert(i)
	}
}

func Test_Tree_09(t *testing.T) {
	check_Tree_Model(t, false, 1000, 100)
}

func Test_Tree_10(t *testing.T) {
	check_Tree_Model(t, true, 1000, 100)
}

func Test_Tree_11(t *testing.T) {
	check_Tree_Model(t, false, 5000, 10000)
}

func Test_Tree_12(t *testing.T) {
	check_Tree_Model(t, true, 5000, 50)
}

func TestSlow_Tree_13(t *testing.T) {
	check_Tree_Model(t, true, 100000, 1000)
}

// ===================================================================
// Test Helpers
// ===================================================================

func newIntTree(multi bool) *Tree[int, int] {
	return New(identity[int], cmp.Less[int], multi)
}

// Apply random insertions and erasures to both a tree and a sorted slice,
// checking the red-black invariants after every mutation and the bounds
// functions throughout.
func check_Tree_Model(t *testing.T, multi bool, ops int, keys int) {
	var (
		tr    = newIntTree(multi)
		model []int
	)
	//
	for range ops {
		k := rand.IntN(keys)
		//
		if rand.IntN(3) > 0 {
			n := tr.Len()
			tr.Insert(k)
			//
			if i, found := slices.BinarySearch(model, k); !found || multi {
				model = slices.Insert(model, i, k)
				require.Equal(t, n+1, tr.Len())
			} else {
				require.Equal(t, n, tr.Len())
			}
		} else {
			lo, _ := slices.BinarySearch(model, k)
			hi := lo
			//
			for hi < len(model) && model[hi] == k {
				hi++
			}
			//
			require.Equal(t, uint(hi-lo), tr.EraseKey(k))
			model = slices.Delete(model, lo, hi)
		}
		//
		require.NoError(t, tr.Check())
		// Check bounds bracket exactly the run of equal keys
		probe := rand.IntN(keys)
		lo, hi := tr.EqualRange(probe)
		count := uint(0)
		//
		for it := lo; !it.Equal(hi); it = it.Next() {
			require.Equal(t, probe, it.Get())
			count++
		}
		//
		require.Equal(t, count, tr.Count(probe))
		//
		if !hi.IsEnd() {
			require.Less(t, probe, hi.Get())
		}
		//
		if prev := lo.Prev(); !prev.IsEnd() {
			require.Less(t, prev.Get(), probe)
		}
	}
	//
	require.Equal(t, len(model), int(tr.Len()))
	//
	if len(model) == 0 {
		require.True(t, tr.Empty())
	} else {
		require.Equal(t, model, tr.ToSlice())
	}
}
