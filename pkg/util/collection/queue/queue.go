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

// Package queue provides FIFO queues: a plain adapter over a deque, a locked
// wrapper around that adapter, and a two-lock concurrent queue suitable for
// many producers and consumers.
package queue

import (
	"github.com/consensys/go-cxstl/pkg/util/collection/deque"
)

// Queue is a FIFO queue implemented on top of a deque.  A Queue is not thread
// safe.
type Queue[T any] struct {
	items *deque.Deque[T]
}

// NewQueue returns an empty queue.
func NewQueue[T any](opts ...deque.Option[T]) *Queue[T] {
	return &Queue[T]{deque.New(opts...)}
}

// IsEmpty checks whether or not there are still items in the queue.
func (p *Queue[T]) IsEmpty() bool {
	return p.items.Empty()
}

// Len returns the number of items in the queue.
func (p *Queue[T]) Len() uint {
	return uint(p.items.Len())
}

// Push an item onto the back of the queue.
func (p *Queue[T]) Push(item T) {
	p.items.PushBack(item)
}

// Front returns the item at the front of the queue, which must not be empty.
func (p *Queue[T]) Front() T {
	return p.items.Front()
}

// Back returns the item at the back of the queue, which must not be empty.
func (p *Queue[T]) Back() T {
	return p.items.Back()
}

// Pop the item at the front of the queue.
func (p *Queue[T]) Pop() T {
	if p.items.Empty() {
		panic("cannot pop from empty queue")
	}
	//
	return p.items.PopFront()
}
