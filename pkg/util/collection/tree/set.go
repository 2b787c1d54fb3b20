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

	"github.com/consensys/go-cxstl/pkg/util/collection/iter"
)

func identity[K any](k K) K {
	return k
}

// Set is an ordered collection of unique keys.
type Set[K any] struct {
	tree *Tree[K, K]
}

// NewSet constructs an empty set ordered by the natural ordering of keys.
func NewSet[K cmp.Ordered](opts ...Option) *Set[K] {
	return NewSetFunc(cmp.Less[K], opts...)
}

// NewSetFunc constructs an empty set ordered by a given comparator.
func NewSetFunc[K any](less func(K, K) bool, opts ...Option) *Set[K] {
	return &Set[K]{New(identity[K], less, false, opts...)}
}

// Insert a key, returning false if it was already present.
func (p *Set[K]) Insert(key K) bool {
	_, ok := p.tree.InsertUnique(key)
	return ok
}

// Contains checks whether a key is present.
func (p *Set[K]) Contains(key K) bool {
	return p.tree.Contains(key)
}

// Remove a key, returning false if it was not present.
func (p *Set[K]) Remove(key K) bool {
	return p.tree.EraseKey(key) > 0
}

// Len returns the number of keys in this set.
func (p *Set[K]) Len() uint {
	return p.tree.Len()
}

// Clear removes all keys.
func (p *Set[K]) Clear() {
	p.tree.Clear()
}

// Iter returns an iterator over the keys of this set, in order.
//
//nolint:revive
func (p *Set[K]) Iter() iter.Iterator[K] {
	return p.tree.Iter()
}

// ToSlice returns the keys of this set, in order.
func (p *Set[K]) ToSlice() []K {
	return p.tree.ToSlice()
}

// Tree provides access to the underlying tree, for bounded searches.
func (p *Set[K]) Tree() *Tree[K, K] {
	return p.tree
}

// MultiSet is an ordered collection of keys, permitting duplicates.
type MultiSet[K any] struct {
	tree *Tree[K, K]
}

// NewMultiSet constructs an empty multiset ordered by the natural ordering of
// keys.
func NewMultiSet[K cmp.Ordered](opts ...Option) *MultiSet[K] {
	return NewMultiSetFunc(cmp.Less[K], opts...)
}

// NewMultiSetFunc constructs an empty multiset ordered by a given comparator.
func NewMultiSetFunc[K any](less func(K, K) bool, opts ...Option) *MultiSet[K] {
	return &MultiSet[K]{New(identity[K], less, true, opts...)}
}

// Insert a key.
func (p *MultiSet[K]) Insert(key K) {
	p.tree.InsertEqual(key)
}

// Count returns the number of occurrences of a key.
func (p *MultiSet[K]) Count(key K) uint {
	return p.tree.Count(key)
}

// Remove all occurrences of a key, returning how many there were.
func (p *MultiSet[K]) Remove(key K) uint {
	return p.tree.EraseKey(key)
}

// Len returns the number of keys in this multiset (counting duplicates).
func (p *MultiSet[K]) Len() uint {
	return p.tree.Len()
}

// Iter returns an iterator over the keys of this multiset, in order.
//
//nolint:revive
func (p *MultiSet[K]) Iter() iter.Iterator[K] {
	return p.tree.Iter()
}

// ToSlice returns the keys of this multiset, in order.
func (p *MultiSet[K]) ToSlice() []K {
	return p.tree.ToSlice()
}

// Tree provides access to the underlying tree, for bounded searches.
func (p *MultiSet[K]) Tree() *Tree[K, K] {
	return p.tree
}
