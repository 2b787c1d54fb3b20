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
	"fmt"

	"github.com/consensys/go-cxstl/pkg/util/collection/iter"
)

// Entry is a key-value pair held in a map.
type Entry[K any, V any] struct {
	Key   K
	Value V
}

func (e Entry[K, V]) String() string {
	return fmt.Sprintf("%v:%v", e.Key, e.Value)
}

func entryKey[K any, V any](e Entry[K, V]) K {
	return e.Key
}

// Map is an ordered mapping from unique keys to values.
type Map[K any, V any] struct {
	tree *Tree[K, Entry[K, V]]
}

// NewMap constructs an empty map ordered by the natural ordering of keys.
func NewMap[K cmp.Ordered, V any](opts ...Option) *Map[K, V] {
	return NewMapFunc[K, V](cmp.Less[K], opts...)
}

// NewMapFunc constructs an empty map ordered by a given comparator.
func NewMapFunc[K any, V any](less func(K, K) bool, opts ...Option) *Map[K, V] {
	return &Map[K, V]{New(entryKey[K, V], less, false, opts...)}
}

// Get returns the value for a key, or false if it is not present.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	//
	if it := p.tree.Find(key); !it.IsEnd() {
		return it.Get().Value, true
	}
	//
	return empty, false
}

// Put assigns the value for a key, returning true if the key was not already
// present.
func (p *Map[K, V]) Put(key K, value V) bool {
	it, ok := p.tree.InsertUnique(Entry[K, V]{key, value})
	//
	if !ok {
		it.Ptr().Value = value
	}
	//
	return ok
}

// Ref returns a pointer to the value for a key, inserting a zero value first
// if the key is not present.  The pointer remains valid until the key is
// deleted.
func (p *Map[K, V]) Ref(key K) *V {
	var empty V
	//
	it := p.tree.Find(key)
	//
	if it.IsEnd() {
		it, _ = p.tree.InsertUnique(Entry[K, V]{key, empty})
	}
	//
	return &it.Ptr().Value
}

// Contains checks whether a key is present.
func (p *Map[K, V]) Contains(key K) bool {
	return p.tree.Contains(key)
}

// Delete a key, returning false if it was not present.
func (p *Map[K, V]) Delete(key K) bool {
	return p.tree.EraseKey(key) > 0
}

// Keys returns the keys of this map, in order.
func (p *Map[K, V]) Keys() []K {
	var keys = make([]K, 0, p.tree.Len())
	//
	for it := p.tree.Begin(); !it.IsEnd(); it = it.Next() {
		keys = append(keys, it.Get().Key)
	}
	//
	return keys
}

// Len returns the number of keys in this map.
func (p *Map[K, V]) Len() uint {
	return p.tree.Len()
}

// Clear removes all entries.
func (p *Map[K, V]) Clear() {
	p.tree.Clear()
}

// Iter returns an iterator over the entries of this map, in key order.
//
//nolint:revive
func (p *Map[K, V]) Iter() iter.Iterator[Entry[K, V]] {
	return p.tree.Iter()
}

// Tree provides access to the underlying tree, for bounded searches.
func (p *Map[K, V]) Tree() *Tree[K, Entry[K, V]] {
	return p.tree
}

// MultiMap is an ordered mapping from keys to values, permitting several
// values per key.
type MultiMap[K any, V any] struct {
	tree *Tree[K, Entry[K, V]]
}

// NewMultiMap constructs an empty multimap ordered by the natural ordering of
// keys.
func NewMultiMap[K cmp.Ordered, V any](opts ...Option) *MultiMap[K, V] {
	return NewMultiMapFunc[K, V](cmp.Less[K], opts...)
}

// NewMultiMapFunc constructs an empty multimap ordered by a given comparator.
func NewMultiMapFunc[K any, V any](less func(K, K) bool, opts ...Option) *MultiMap[K, V] {
	return &MultiMap[K, V]{New(entryKey[K, V], less, true, opts...)}
}

// Put adds a value for a key, after any existing values for that key.
func (p *MultiMap[K, V]) Put(key K, value V) {
	p.tree.InsertEqual(Entry[K, V]{key, value})
}

// Get returns all values for a key, in the order they were added.
func (p *MultiMap[K, V]) Get(key K) []V {
	var (
		values []V
		lo, hi = p.tree.EqualRange(key)
	)
	//
	for it := lo; !it.Equal(hi); it = it.Next() {
		values = append(values, it.Get().Value)
	}
	//
	return values
}

// Count returns the number of values for a key.
func (p *MultiMap[K, V]) Count(key K) uint {
	return p.tree.Count(key)
}

// Delete all values for a key, returning how many there were.
func (p *MultiMap[K, V]) Delete(key K) uint {
	return p.tree.EraseKey(key)
}

// Len returns the number of entries in this multimap.
func (p *MultiMap[K, V]) Len() uint {
	return p.tree.Len()
}

// Iter returns an iterator over the entries of this multimap, in key order.
//
//nolint:revive
func (p *MultiMap[K, V]) Iter() iter.Iterator[Entry[K, V]] {
	return p.tree.Iter()
}

// Tree provides access to the underlying tree, for bounded searches.
func (p *MultiMap[K, V]) Tree() *Tree[K, Entry[K, V]] {
	return p.tree
}
