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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Set_00(t *testing.T) {
	s := NewSet[string]()
	//
	assert.True(t, s.Insert("b"))
	assert.True(t, s.Insert("a"))
	assert.False(t, s.Insert("b"))
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []string{"a", "b"}, s.ToSlice())
	//
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, uint(1), s.Len())
	require.NoError(t, s.Tree().Check())
}

func Test_Set_01(t *testing.T) {
	// Reverse ordering via a custom comparator
	s := NewSetFunc(func(l, r int) bool { return l > r })
	//
	for i := range 10 {
		s.Insert(i)
	}
	//
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, s.Iter().Collect())
	s.Clear()
	assert.Equal(t, uint(0), s.Len())
}

func Test_MultiSet_00(t *testing.T) {
	s := NewMultiSet[int]()
	//
	for _, k := range []int{2, 1, 2, 3, 2} {
		s.Insert(k)
	}
	//
	assert.Equal(t, uint(5), s.Len())
	assert.Equal(t, uint(3), s.Count(2))
	assert.Equal(t, []int{1, 2, 2, 2, 3}, s.ToSlice())
	assert.Equal(t, uint(3), s.Remove(2))
	assert.Equal(t, []int{1, 3}, s.Iter().Collect())
	require.NoError(t, s.Tree().Check())
}

func Test_Map_00(t *testing.T) {
	m := NewMap[string, int]()
	//
	assert.True(t, m.Put("x", 1))
	assert.True(t, m.Put("a", 2))
	assert.False(t, m.Put("x", 3))
	//
	v, ok := m.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = m.Get("y")
	assert.False(t, ok)
	//
	assert.Equal(t, []string{"a", "x"}, m.Keys())
	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, uint(1), m.Len())
}

func Test_Map_01(t *testing.T) {
	var (
		m     = NewMap[string, int]()
		words = strings.Fields("the cat sat on the mat the end")
	)
	// Default insertion through references
	for _, w := range words {
		*m.Ref(w)++
	}
	//
	v, _ := m.Get("the")
	assert.Equal(t, 3, v)
	assert.Equal(t, []string{"cat", "end", "mat", "on", "sat", "the"}, m.Keys())
	// References remain stable across other insertions
	ref := m.Ref("cat")
	//
	for i := range 100 {
		m.Put(strings.Repeat("z", i+1), i)
	}
	//
	*ref = 42
	v, _ = m.Get("cat")
	assert.Equal(t, 42, v)
	//
	entries := m.Iter().Collect()
	assert.Equal(t, "cat:42", entries[0].String())
	//
	m.Clear()
	assert.Equal(t, uint(0), m.Len())
	require.NoError(t, m.Tree().Check())
}

func Test_MultiMap_00(t *testing.T) {
	m := NewMultiMap[int, string]()
	//
	m.Put(2, "b")
	m.Put(1, "a")
	m.Put(2, "c")
	m.Put(2, "d")
	//
	assert.Equal(t, []string{"b", "c", "d"}, m.Get(2))
	assert.Nil(t, m.Get(3))
	assert.Equal(t, uint(3), m.Count(2))
	assert.Equal(t, uint(4), m.Len())
	//
	assert.Equal(t, uint(3), m.Delete(2))
	assert.Equal(t, []Entry[int, string]{{1, "a"}}, m.Iter().Collect())
	require.NoError(t, m.Tree().Check())
}
