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
package iter

// Cursor abstracts a position within a container which can be dereferenced
// and stepped forwards.  Cursors are values: stepping returns a new cursor
// rather than mutating the receiver.
type Cursor[C any, T any] interface {
	// Get the element at this position.
	Get() T
	// Next returns the cursor for the following position.
	Next() C
	// Equal determines whether two cursors refer to the same position.
	Equal(C) bool
}

type cursorIterator[C Cursor[C, T], T any] struct {
	current C
	end     C
}

// NewCursorIterator constructs an iterator visiting every position from begin
// (inclusive) up to end (exclusive).
func NewCursorIterator[C Cursor[C, T], T any](begin C, end C) Iterator[T] {
	return &cursorIterator[C, T]{begin, end}
}

// HasNext checks whether or not there are any items remaining to visit.
//
//nolint:revive
func (p *cursorIterator[C, T]) HasNext() bool {
	return !p.current.Equal(p.end)
}

// Next returns the next item, and advance the iterator.
//
//nolint:revive
func (p *cursorIterator[C, T]) Next() T {
	item := p.current.Get()
	p.current = p.current.Next()
	//
	return item
}

// Clone creates a copy of this iterator at the given cursor position.
//
//nolint:revive
func (p *cursorIterator[C, T]) Clone() Iterator[T] {
	return &cursorIterator[C, T]{p.current, p.end}
}

// Collect allocates a new array containing all items of this iterator.
//
//nolint:revive
func (p *cursorIterator[C, T]) Collect() []T {
	return Collect[T](p)
}

// Count returns the number of items left in the iterator
//
//nolint:revive
func (p *cursorIterator[C, T]) Count() uint {
	return Count[T](p.Clone())
}
