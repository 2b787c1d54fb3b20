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
package stack

import (
	"github.com/consensys/go-cxstl/pkg/util/collection/deque"
)

// Stack represents a reusable LIFO stack which is implemented on top of a
// deque, whose back is the top of the stack.
type Stack[T any] struct {
	items *deque.Deque[T]
}

// NewStack returns an empty stack
func NewStack[T any](opts ...deque.Option[T]) *Stack[T] {
	return &Stack[T]{deque.New(opts...)}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.items.Empty()
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(p.items.Len())
}

// Peek at nth item from top of stack.
func (p *Stack[T]) Peek(offset uint) T {
	var n = p.items.Len() - int(offset) - 1
	//
	if n < 0 {
		panic("peek out-of-bounds")
	}
	// Get nth from last item
	return p.items.At(n)
}

// Push a new item onto the stack
func (p *Stack[T]) Push(item T) {
	p.items.PushBack(item)
}

// PushAll pushes zero or more items onto the stack
func (p *Stack[T]) PushAll(items []T) {
	for _, item := range items {
		p.items.PushBack(item)
	}
}

// PushReversed pushes zero or more items in reverse order the stack
func (p *Stack[T]) PushReversed(items []T) {
	var n = len(items) - 1
	//
	for i := range len(items) {
		p.items.PushBack(items[n-i])
	}
}

// Pop the last item off the stack
func (p *Stack[T]) Pop() T {
	if p.items.Empty() {
		panic("cannot pop from empty stack")
	}
	//
	return p.items.PopBack()
}

// Swap the contents of this stack with another.
func (p *Stack[T]) Swap(other *Stack[T]) {
	p.items.Swap(other.items)
}
