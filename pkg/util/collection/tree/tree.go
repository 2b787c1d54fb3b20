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

// Package tree provides an ordered red-black tree, along with set, multiset,
// map and multimap adapters built on top of it.  Search, insertion and
// erasure are all O(log n).  Iterators remain valid across insertion, and
// across erasure of any other element.  A Tree is not thread safe.
package tree

import (
	"unsafe"

	"github.com/consensys/go-cxstl/pkg/util/collection/alloc"
	"github.com/consensys/go-cxstl/pkg/util/collection/iter"
	"github.com/consensys/go-cxstl/pkg/util/collection/stack"
	"go.uber.org/atomic"
)

// Node colours
const (
	RED   = false
	BLACK = true
)

// generation stamps are drawn from a global counter so that a recycled node
// never matches a stale iterator, even when allocators are shared.
var generation atomic.Uint64

type node[V any] struct {
	value  V
	parent *node[V]
	left   *node[V]
	right  *node[V]
	color  bool
	// generation stamp (zero once released)
	gen uint64
}

// Tree is a red-black tree of values of type V, ordered by keys of type K
// which are extracted from values.  When multi is set, values with equal
// keys may be held (in insertion order); otherwise keys are unique.
type Tree[K any, V any] struct {
	key   func(V) K
	less  func(K, K) bool
	multi bool
	root  *node[V]
	// cached leftmost and rightmost nodes
	min *node[V]
	max *node[V]
	// number of nodes
	size uint
	// allocator for nodes
	nodes *alloc.Allocator[node[V]]
}

// Option configures a tree at construction.
type Option func(*options)

type options struct {
	heap *alloc.Heap
}

// WithHeap sets the heap from which tree nodes are ultimately drawn.
func WithHeap(heap *alloc.Heap) Option {
	return func(o *options) {
		o.heap = heap
	}
}

// New constructs an empty tree using a given key extractor and strict
// ordering on keys.
func New[K any, V any](key func(V) K, less func(K, K) bool, multi bool, opts ...Option) *Tree[K, V] {
	var cfg options
	//
	for _, opt := range opts {
		opt(&cfg)
	}
	//
	var allocOpts []alloc.Option
	//
	if cfg.heap != nil {
		allocOpts = append(allocOpts, alloc.WithHeap(cfg.heap))
	}
	//
	return &Tree[K, V]{
		key:   key,
		less:  less,
		multi: multi,
		nodes: alloc.New[node[V]](allocOpts...),
	}
}

// Len returns the number of values in this tree.
func (t *Tree[K, V]) Len() uint {
	return t.size
}

// Empty checks whether this tree holds any values.
func (t *Tree[K, V]) Empty() bool {
	return t.size == 0
}

// Multi indicates whether this tree permits equal keys.
func (t *Tree[K, V]) Multi() bool {
	return t.multi
}

// Begin returns an iterator to the smallest value (or End when empty).
func (t *Tree[K, V]) Begin() Iterator[K, V] {
	return t.iterator(t.min)
}

// End returns the past-the-end iterator.
func (t *Tree[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{tree: t}
}

// Min returns the smallest value, or false if the tree is empty.
func (t *Tree[K, V]) Min() (V, bool) {
	var empty V
	//
	if t.min == nil {
		return empty, false
	}
	//
	return t.min.value, true
}

// Max returns the largest value, or false if the tree is empty.
func (t *Tree[K, V]) Max() (V, bool) {
	var empty V
	//
	if t.max == nil {
		return empty, false
	}
	//
	return t.max.value, true
}

// Iter returns an iterator over the values of this tree, in order.
func (t *Tree[K, V]) Iter() iter.Iterator[V] {
	return iter.NewCursorIterator[Iterator[K, V], V](t.Begin(), t.End())
}

// ToSlice returns the values of this tree, in order.
func (t *Tree[K, V]) ToSlice() []V {
	var items = make([]V, 0, t.size)
	//
	for n := t.min; n != nil; n = successor(n) {
		items = append(items, n.value)
	}
	//
	return items
}

// Insert a value, dispatching on whether or not this tree permits equal
// keys.  The boolean result is false only when a unique insertion was
// rejected, in which case the iterator identifies the existing value.
func (t *Tree[K, V]) Insert(value V) (Iterator[K, V], bool) {
	if t.multi {
		return t.InsertEqual(value), true
	}
	//
	return t.InsertUnique(value)
}

// InsertUnique inserts a value unless one with an equal key is already
// present.
func (t *Tree[K, V]) InsertUnique(value V) (Iterator[K, V], bool) {
	var (
		k    = t.key(value)
		y    *node[V]
		x    = t.root
		left = true
	)
	//
	for x != nil {
		y = x
		left = t.less(k, t.key(x.value))
		//
		if left {
			x = x.left
		} else {
			x = x.right
		}
	}
	// Identify candidate equal, which is the in-order predecessor of the
	// insertion point.
	z := y
	//
	if left {
		z = t.predecessor(y)
	}
	//
	if z == nil || t.less(t.key(z.value), k) {
		return t.iterator(t.insertAt(y, left, value)), true
	}
	//
	return t.iterator(z), false
}

// InsertEqual inserts a value regardless of whether one with an equal key is
// already present.  Equal values are inserted after any existing ones.
func (t *Tree[K, V]) InsertEqual(value V) Iterator[K, V] {
	var (
		k    = t.key(value)
		y    *node[V]
		x    = t.root
		left = true
	)
	//
	for x != nil {
		y = x
		left = t.less(k, t.key(x.value))
		//
		if left {
			x = x.left
		} else {
			x = x.right
		}
	}
	//
	return t.iterator(t.insertAt(y, left, value))
}

// Find returns an iterator to a value with the given key, or End if there is
// none.  When several values have the key, this identifies the last of them.
func (t *Tree[K, V]) Find(k K) Iterator[K, V] {
	var (
		y    *node[V]
		x    = t.root
		left = true
	)
	//
	for x != nil {
		y = x
		left = t.less(k, t.key(x.value))
		//
		if left {
			x = x.left
		} else {
			x = x.right
		}
	}
	//
	z := y
	//
	if left {
		z = t.predecessor(y)
	}
	//
	if z == nil || t.less(t.key(z.value), k) {
		return t.End()
	}
	//
	return t.iterator(z)
}

// Contains checks whether a value with the given key is present.
func (t *Tree[K, V]) Contains(k K) bool {
	return !t.Find(k).IsEnd()
}

// Count returns the number of values with the given key.  This steps backwards
// from Find, hence is linear in the number of matches.
func (t *Tree[K, V]) Count(k K) uint {
	var count uint
	//
	for n := t.Find(k).node; n != nil; n = t.predecessor(n) {
		if t.less(t.key(n.value), k) {
			break
		}
		//
		count++
	}
	//
	return count
}

// LowerBound returns an iterator to the first value whose key is not less
// than k (or End).
func (t *Tree[K, V]) LowerBound(k K) Iterator[K, V] {
	var y *node[V]
	//
	for x := t.root; x != nil; {
		if !t.less(t.key(x.value), k) {
			y, x = x, x.left
		} else {
			x = x.right
		}
	}
	//
	return t.iterator(y)
}

// UpperBound returns an iterator to the first value whose key is greater than
// k (or End).
func (t *Tree[K, V]) UpperBound(k K) Iterator[K, V] {
	var y *node[V]
	//
	for x := t.root; x != nil; {
		if t.less(k, t.key(x.value)) {
			y, x = x, x.left
		} else {
			x = x.right
		}
	}
	//
	return t.iterator(y)
}

// EqualRange returns the range [LowerBound(k),UpperBound(k)).
func (t *Tree[K, V]) EqualRange(k K) (Iterator[K, V], Iterator[K, V]) {
	return t.LowerBound(k), t.UpperBound(k)
}

// Erase the value at a given position, returning an iterator to its
// successor.  Erasing End, or through a stale iterator, is a precondition
// violation.
func (t *Tree[K, V]) Erase(it Iterator[K, V]) Iterator[K, V] {
	if it.tree != t {
		panic("iterator from another tree")
	} else if it.IsEnd() {
		panic("cannot erase end of tree")
	} else if !it.Valid() {
		panic("cannot erase through stale iterator")
	}
	//
	next := successor(it.node)
	t.erase(it.node)
	//
	return t.iterator(next)
}

// EraseKey erases all values with the given key, returning how many there
// were.
func (t *Tree[K, V]) EraseKey(k K) uint {
	var (
		count  uint
		lo, hi = t.EqualRange(k)
	)
	//
	for n := lo.node; n != hi.node; count++ {
		next := successor(n)
		t.erase(n)
		n = next
	}
	//
	return count
}

// Clear removes all values.  Nodes are released using an explicit stack, so
// the walk needs no recursion.
func (t *Tree[K, V]) Clear() {
	if t.root == nil {
		return
	}
	//
	var worklist = stack.NewStack[*node[V]]()
	//
	worklist.Push(t.root)
	//
	for !worklist.IsEmpty() {
		n := worklist.Pop()
		//
		if n.left != nil {
			worklist.Push(n.left)
		}
		//
		if n.right != nil {
			worklist.Push(n.right)
		}
		//
		t.release(n)
	}
	//
	t.root, t.min, t.max = nil, nil, nil
	t.size = 0
}

// Clone returns a structural copy of this tree (same shape and colours) with
// freshly allocated nodes.
func (t *Tree[K, V]) Clone() *Tree[K, V] {
	var nt = &Tree[K, V]{
		key:   t.key,
		less:  t.less,
		multi: t.multi,
		size:  t.size,
		nodes: alloc.New[node[V]](alloc.WithHeap(t.nodes.Heap())),
	}
	//
	if t.root == nil {
		return nt
	}
	//
	type frame struct {
		src *node[V]
		dst *node[V]
	}
	//
	var worklist = stack.NewStack[frame]()
	//
	nt.root = nt.allocate(t.root.value, t.root.color)
	worklist.Push(frame{t.root, nt.root})
	//
	for !worklist.IsEmpty() {
		f := worklist.Pop()
		//
		if f.src.left != nil {
			f.dst.left = nt.allocate(f.src.left.value, f.src.left.color)
			f.dst.left.parent = f.dst
			worklist.Push(frame{f.src.left, f.dst.left})
		}
		//
		if f.src.right != nil {
			f.dst.right = nt.allocate(f.src.right.value, f.src.right.color)
			f.dst.right.parent = f.dst
			worklist.Push(frame{f.src.right, f.dst.right})
		}
	}
	//
	nt.min, nt.max = minimum(nt.root), maximum(nt.root)
	//
	return nt
}

// Swap the contents of this tree with another.  Iterators for either tree are
// invalidated.
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	*t, *other = *other, *t
}

// Construct an iterator for a (possibly nil) node.
func (t *Tree[K, V]) iterator(n *node[V]) Iterator[K, V] {
	if n == nil {
		return t.End()
	}
	//
	return Iterator[K, V]{t, n, n.gen}
}

// Obtain a fresh node from the allocator.  Running out of memory is treated
// as fatal.
func (t *Tree[K, V]) allocate(value V, color bool) *node[V] {
	block, err := t.nodes.Allocate(1)
	if err != nil {
		panic(err)
	}
	//
	n := &block[0]
	n.value = value
	n.color = color
	n.gen = generation.Inc()
	//
	return n
}

// Return a node to the allocator, which clears it (hence its generation).
func (t *Tree[K, V]) release(n *node[V]) {
	t.nodes.Deallocate(unsafe.Slice(n, 1), 1)
}

// In-order predecessor, where nil identifies End.  Stepping back from End
// gives the maximum.
func (t *Tree[K, V]) predecessor(n *node[V]) *node[V] {
	if n == nil {
		return t.max
	} else if n.left != nil {
		return maximum(n.left)
	}
	//
	for n.parent != nil && n == n.parent.left {
		n = n.parent
	}
	//
	return n.parent
}

// In-order successor, where nil identifies End.
func successor[V any](n *node[V]) *node[V] {
	if n.right != nil {
		return minimum(n.right)
	}
	//
	for n.parent != nil && n == n.parent.right {
		n = n.parent
	}
	//
	return n.parent
}

func minimum[V any](n *node[V]) *node[V] {
	for n.left != nil {
		n = n.left
	}
	//
	return n
}

func maximum[V any](n *node[V]) *node[V] {
	for n.right != nil {
		n = n.right
	}
	//
	return n
}
