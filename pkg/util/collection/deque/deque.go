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

// Package deque provides a double-ended queue built from fixed-size buffers
// indexed by a map of buffer slots.  This gives amortised O(1) push and pop at
// both ends, O(1) random access and stable element addresses under pushes.
// A Deque is not thread safe.
package deque

import (
	"fmt"
	"strings"

	"github.com/consensys/go-cxstl/pkg/util/collection/alloc"
	"github.com/consensys/go-cxstl/pkg/util/collection/iter"
)

// BUFFER_BYTES determines the capacity of each buffer, which holds
// max(1, BUFFER_BYTES/sizeof(T)) elements.
const BUFFER_BYTES = 128

// INITIAL_MAP_SIZE is the minimum number of map slots.
const INITIAL_MAP_SIZE = 8

// Deque is a segmented double-ended queue.  Storage failures (which can only
// arise when a bounded heap is configured) cause a panic carrying the
// underlying alloc.ErrOutOfMemory error.
type Deque[T any] struct {
	// allocator for element buffers
	buffers *alloc.Allocator[T]
	// allocator for the map itself
	maps *alloc.Allocator[[]T]
	// number of elements held in each buffer
	bufCap int
	// the map, where unused slots are nil
	blocks [][]T
	// position of first element
	start Iterator[T]
	// position one past the last element
	finish Iterator[T]
}

// Option configures a deque at construction.
type Option[T any] func(*Deque[T])

// WithAllocator configures the allocator used for element buffers.  This
// allows several deques (on the same goroutine) to share reclaimed storage.
func WithAllocator[T any](allocator *alloc.Allocator[T]) Option[T] {
	return func(d *Deque[T]) {
		d.buffers = allocator
	}
}

// WithHeap configures the heap from which all storage is ultimately drawn.
func WithHeap[T any](heap *alloc.Heap) Option[T] {
	return func(d *Deque[T]) {
		d.buffers = alloc.New[T](alloc.WithHeap(heap))
		d.maps = alloc.New[[]T](alloc.WithHeap(heap))
	}
}

// New constructs an empty deque.
func New[T any](opts ...Option[T]) *Deque[T] {
	d := initialise(opts)
	d.createMap(0)
	//
	return d
}

// NewFrom constructs a deque holding the given items (in order).
func NewFrom[T any](items []T, opts ...Option[T]) *Deque[T] {
	d := initialise(opts)
	d.createMap(len(items))
	//
	for i, it := 0, d.start; i < len(items); i, it = i+1, it.Next() {
		it.Set(items[i])
	}
	//
	return d
}

func initialise[T any](opts []Option[T]) *Deque[T] {
	var d Deque[T]
	//
	for _, opt := range opts {
		opt(&d)
	}
	//
	if d.buffers == nil {
		d.buffers = alloc.New[T]()
	}
	//
	if d.maps == nil {
		d.maps = alloc.New[[]T](alloc.WithHeap(d.buffers.Heap()))
	}
	//
	d.bufCap = bufferCapacity[T]()
	//
	return &d
}

// Len returns the number of elements in this deque.
func (d *Deque[T]) Len() int {
	return d.finish.Distance(d.start)
}

// Empty checks whether this deque holds any elements.
func (d *Deque[T]) Empty() bool {
	return d.start.Equal(d.finish)
}

// Begin returns an iterator to the first element.
func (d *Deque[T]) Begin() Iterator[T] {
	return d.start
}

// End returns an iterator one past the last element.
func (d *Deque[T]) End() Iterator[T] {
	return d.finish
}

// At returns the element at a given index.
func (d *Deque[T]) At(index int) T {
	return d.position(index).Get()
}

// Set assigns the element at a given index.
func (d *Deque[T]) Set(index int, value T) {
	d.position(index).Set(value)
}

// Front returns the first element.
func (d *Deque[T]) Front() T {
	d.checkNotEmpty("front")
	//
	return d.start.Get()
}

// Back returns the last element.
func (d *Deque[T]) Back() T {
	d.checkNotEmpty("back")
	//
	return d.finish.Prev().Get()
}

// PushBack appends an element onto the end of this deque.
func (d *Deque[T]) PushBack(value T) {
	if d.finish.cur < d.bufCap-1 {
		d.finish.Set(value)
		d.finish.cur++
		//
		return
	}
	// Last slot of the buffer, so ensure another buffer follows.
	if d.finish.node == len(d.blocks)-1 {
		d.reallocateMap(1, false)
	}
	//
	d.blocks[d.finish.node+1] = d.allocateBuffer()
	d.finish.Set(value)
	d.finish = d.finish.Next()
}

// PushFront prepends an element onto the start of this deque.
func (d *Deque[T]) PushFront(value T) {
	if d.start.cur > 0 {
		d.start.cur--
		d.start.Set(value)
		//
		return
	}
	// First slot of the buffer, so ensure another buffer precedes.
	if d.start.node == 0 {
		d.reallocateMap(1, true)
	}
	//
	d.blocks[d.start.node-1] = d.allocateBuffer()
	d.start = d.start.Prev()
	d.start.Set(value)
}

// PopBack removes and returns the last element.
func (d *Deque[T]) PopBack() T {
	var empty T
	//
	d.checkNotEmpty("pop back")
	//
	if d.finish.cur == 0 {
		// Finish buffer is empty, so release it.
		d.releaseBuffer(d.finish.node)
	}
	//
	d.finish = d.finish.Prev()
	value := d.finish.Get()
	d.finish.Set(empty)
	//
	return value
}

// PopFront removes and returns the first element.
func (d *Deque[T]) PopFront() T {
	var empty T
	//
	d.checkNotEmpty("pop front")
	//
	value := d.start.Get()
	d.start.Set(empty)
	//
	if d.start.cur == d.bufCap-1 {
		// Start buffer now empty, so release it.
		d.releaseBuffer(d.start.node)
	}
	//
	d.start = d.start.Next()
	//
	return value
}

// Insert a value before a given position, returning the position of the new
// element.  Elements on the cheaper side are shifted to make room.
func (d *Deque[T]) Insert(pos Iterator[T], value T) Iterator[T] {
	if pos.Equal(d.start) {
		d.PushFront(value)
		return d.start
	} else if pos.Equal(d.finish) {
		d.PushBack(value)
		return d.finish.Prev()
	}
	//
	var (
		index = pos.Distance(d.start)
		after = d.Len() - index
	)
	//
	if after < index {
		// Grow at back, and shift elements after pos up by one.
		d.PushBack(d.Back())
		pos = d.start.Add(index)
		copyBackward(pos, d.finish.Sub(2), d.finish.Prev())
	} else {
		// Grow at front, and shift elements before pos down by one.
		d.PushFront(d.Front())
		pos = d.start.Add(index + 1)
		copyForward(d.start.Add(2), pos, d.start.Next())
		pos = pos.Prev()
	}
	//
	pos.Set(value)
	//
	return pos
}

// Erase the element at a given position, returning the position of the
// element which followed it.  Elements on the cheaper side are shifted to
// close the gap.
func (d *Deque[T]) Erase(pos Iterator[T]) Iterator[T] {
	if pos.Equal(d.finish) {
		panic("cannot erase end of deque")
	}
	//
	var (
		index = pos.Distance(d.start)
		after = d.Len() - index - 1
	)
	//
	if after < index {
		copyForward(pos.Next(), d.finish, pos)
		d.PopBack()
	} else {
		copyBackward(d.start, pos, pos.Next())
		d.PopFront()
	}
	//
	return d.start.Add(index)
}

// EraseRange erases all elements in [first,last), returning the position of
// the element which followed them.
func (d *Deque[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	if first.Equal(d.start) && last.Equal(d.finish) {
		d.Clear()
		return d.finish
	} else if first.Equal(last) {
		return first
	}
	//
	var (
		index = first.Distance(d.start)
		n     = last.Distance(first)
		after = d.Len() - index - n
	)
	//
	if after < index {
		copyForward(last, d.finish, first)
		finish := d.finish.Sub(n)
		zero(finish, d.finish)
		//
		for node := finish.node + 1; node <= d.finish.node; node++ {
			d.releaseBuffer(node)
		}
		//
		d.finish = finish
	} else {
		copyBackward(d.start, first, last)
		start := d.start.Add(n)
		zero(d.start, start)
		//
		for node := d.start.node; node < start.node; node++ {
			d.releaseBuffer(node)
		}
		//
		d.start = start
	}
	//
	return d.start.Add(index)
}

// Clear removes all elements, retaining only a single buffer.
func (d *Deque[T]) Clear() {
	zero(d.start, d.finish)
	//
	for node := d.start.node + 1; node <= d.finish.node; node++ {
		d.releaseBuffer(node)
	}
	//
	d.start.cur = 0
	d.finish = d.start
}

// Release clears this deque, and returns all its storage (including the map)
// to the allocators.  The deque cannot be used afterwards.
func (d *Deque[T]) Release() {
	d.Clear()
	d.releaseBuffer(d.start.node)
	d.maps.Deallocate(d.blocks, uint(len(d.blocks)))
	d.blocks = nil
}

// Clone returns a copy of this deque, drawing storage from the same
// allocators.
func (d *Deque[T]) Clone() *Deque[T] {
	return NewFrom(d.ToSlice(), WithAllocator(d.buffers))
}

// Swap the contents of this deque with another.  Iterators for either deque
// are invalidated.
func (d *Deque[T]) Swap(other *Deque[T]) {
	d.buffers, other.buffers = other.buffers, d.buffers
	d.maps, other.maps = other.maps, d.maps
	d.blocks, other.blocks = other.blocks, d.blocks
	d.start, other.start = other.start, d.start
	d.finish, other.finish = other.finish, d.finish
	// Rebind iterators to their owners
	d.start.deque, d.finish.deque = d, d
	other.start.deque, other.finish.deque = other, other
}

// ToSlice copies the elements of this deque into a fresh slice.
func (d *Deque[T]) ToSlice() []T {
	items := make([]T, 0, d.Len())
	//
	for it := d.start; !it.Equal(d.finish); it = it.Next() {
		items = append(items, it.Get())
	}
	//
	return items
}

// Iter returns an iterator over the elements of this deque.
func (d *Deque[T]) Iter() iter.Iterator[T] {
	return iter.NewCursorIterator[Iterator[T], T](d.start, d.finish)
}

func (d *Deque[T]) String() string {
	var builder strings.Builder
	//
	builder.WriteString("[")
	//
	for it := d.start; !it.Equal(d.finish); it = it.Next() {
		if !it.Equal(d.start) {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%v", it.Get()))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}

// Equal checks whether two deques hold pointwise equal elements (according to
// a given equality).
func Equal[T any](lhs, rhs *Deque[T], eq func(T, T) bool) bool {
	if lhs.Len() != rhs.Len() {
		return false
	}
	//
	for l, r := lhs.start, rhs.start; !l.Equal(lhs.finish); l, r = l.Next(), r.Next() {
		if !eq(l.Get(), r.Get()) {
			return false
		}
	}
	//
	return true
}

// Equals checks whether two deques of comparable elements are equal.
func Equals[T comparable](lhs, rhs *Deque[T]) bool {
	return Equal(lhs, rhs, func(l, r T) bool { return l == r })
}

// Determine the iterator for a given index, checking it is within bounds.
func (d *Deque[T]) position(index int) Iterator[T] {
	if index < 0 || index >= d.Len() {
		panic(fmt.Sprintf("deque index %d out-of-bounds (length %d)", index, d.Len()))
	}
	//
	return d.start.Add(index)
}

func (d *Deque[T]) checkNotEmpty(op string) {
	if d.Empty() {
		panic(fmt.Sprintf("cannot %s on empty deque", op))
	}
}
