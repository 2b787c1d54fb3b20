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
package deque

// Iterator identifies a position within a deque using three-tier addressing:
// the map slot (node) of a buffer, and the offset (cur) within that buffer.
// Iterators are values; arithmetic returns new iterators.  Any operation which
// reallocates the map, or releases a buffer, invalidates iterators (except
// those returned by the operation itself).
type Iterator[T any] struct {
	deque *Deque[T]
	// map slot of the current buffer
	node int
	// offset within the current buffer
	cur int
}

// Get returns the element at this position.
func (it Iterator[T]) Get() T {
	return it.deque.blocks[it.node][it.cur]
}

// Ptr returns a pointer to the element at this position.  The pointer remains
// valid until the element is erased or popped.
func (it Iterator[T]) Ptr() *T {
	return &it.deque.blocks[it.node][it.cur]
}

// Set assigns the element at this position.
func (it Iterator[T]) Set(value T) {
	it.deque.blocks[it.node][it.cur] = value
}

// Next returns the iterator for the following position.
func (it Iterator[T]) Next() Iterator[T] {
	it.cur++
	//
	if it.cur == it.deque.bufCap {
		it.node++
		it.cur = 0
	}
	//
	return it
}

// Prev returns the iterator for the preceding position.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.cur == 0 {
		it.node--
		it.cur = it.deque.bufCap
	}
	//
	it.cur--
	//
	return it
}

// Add returns the iterator n positions after this one (or before it, when n
// is negative).  Crossing a buffer boundary jumps directly to the map slot
// determined by dividing the offset by the buffer capacity.
func (it Iterator[T]) Add(n int) Iterator[T] {
	var (
		size   = it.deque.bufCap
		offset = it.cur + n
	)
	//
	if offset >= 0 && offset < size {
		it.cur = offset
		//
		return it
	}
	//
	var jump int
	//
	if offset > 0 {
		jump = offset / size
	} else {
		jump = -((-offset - 1) / size) - 1
	}
	//
	it.node += jump
	it.cur = offset - jump*size
	//
	return it
}

// Sub returns the iterator n positions before this one.
func (it Iterator[T]) Sub(n int) Iterator[T] {
	return it.Add(-n)
}

// Distance returns the number of positions from other to this iterator.  This
// is negative when other comes after this iterator.  Both iterators must
// belong to the same deque.
func (it Iterator[T]) Distance(other Iterator[T]) int {
	size := it.deque.bufCap
	//
	return (it.node-other.node-1)*size + it.cur + (size - other.cur)
}

// Equal checks whether two iterators refer to the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.node == other.node && it.cur == other.cur
}

// Less checks whether this iterator comes strictly before another.  Both
// iterators must belong to the same deque.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	if it.node == other.node {
		return it.cur < other.cur
	}
	//
	return it.node < other.node
}

// Index returns the logical index of this position within its deque.
func (it Iterator[T]) Index() int {
	return it.Distance(it.deque.start)
}

// Copy [first,last) onto the range beginning at dest, in ascending order.  This
// is safe when dest comes before first.
func copyForward[T any](first, last, dest Iterator[T]) Iterator[T] {
	for ; !first.Equal(last); first, dest = first.Next(), dest.Next() {
		dest.Set(first.Get())
	}
	//
	return dest
}

// Copy [first,last) onto the range ending at destEnd, in descending order.
// This is safe when destEnd comes after last.
func copyBackward[T any](first, last, destEnd Iterator[T]) Iterator[T] {
	for !first.Equal(last) {
		last, destEnd = last.Prev(), destEnd.Prev()
		destEnd.Set(last.Get())
	}
	//
	return destEnd
}

// Reset every element in [first,last) to its zero value.
func zero[T any](first, last Iterator[T]) {
	var empty T
	//
	for ; !first.Equal(last); first = first.Next() {
		first.Set(empty)
	}
}
