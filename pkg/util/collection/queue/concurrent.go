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
package queue

import (
	"sync"
)

type link[T any] struct {
	data T
	next *link[T]
}

// Concurrent is an unbounded MPMC queue implemented as a singly linked list
// with a dummy tail node.  Separate locks guard the head and the tail, so a
// producer and a consumer do not contend with each other.  Blocked consumers
// wait on a condition variable associated with the head lock.
type Concurrent[T any] struct {
	headMux sync.Mutex
	tailMux sync.Mutex
	cond    *sync.Cond
	head    *link[T]
	// always the dummy node
	tail *link[T]
}

// NewConcurrent returns an empty concurrent queue.
func NewConcurrent[T any]() *Concurrent[T] {
	var (
		dummy = &link[T]{}
		q     = &Concurrent[T]{head: dummy, tail: dummy}
	)
	//
	q.cond = sync.NewCond(&q.headMux)
	//
	return q
}

// Push an item onto the back of the queue, waking one blocked consumer.
func (q *Concurrent[T]) Push(item T) {
	var dummy = &link[T]{}
	//
	q.tailMux.Lock()
	q.tail.data = item
	q.tail.next = dummy
	q.tail = dummy
	q.tailMux.Unlock()
	// A consumer holds the head lock between checking for data and waiting,
	// so passing through it here means no wakeup can be lost.
	q.headMux.Lock()
	q.headMux.Unlock() //nolint:staticcheck
	q.cond.Signal()
}

// TryPop removes the item at the front of the queue, returning false
// (without blocking) when the queue is empty.
func (q *Concurrent[T]) TryPop() (T, bool) {
	var empty T
	//
	q.headMux.Lock()
	defer q.headMux.Unlock()
	//
	if q.head == q.getTail() {
		return empty, false
	}
	//
	return q.popHead(), true
}

// WaitPop removes the item at the front of the queue, blocking until one is
// available.
func (q *Concurrent[T]) WaitPop() T {
	q.headMux.Lock()
	defer q.headMux.Unlock()
	//
	for q.head == q.getTail() {
		q.cond.Wait()
	}
	//
	return q.popHead()
}

// Empty checks whether the queue currently holds no items.
func (q *Concurrent[T]) Empty() bool {
	q.headMux.Lock()
	defer q.headMux.Unlock()
	//
	return q.head == q.getTail()
}

func (q *Concurrent[T]) getTail() *link[T] {
	q.tailMux.Lock()
	defer q.tailMux.Unlock()
	//
	return q.tail
}

// Unlink the head, which must not be the dummy.  Assumes the head lock is
// held.
func (q *Concurrent[T]) popHead() T {
	old := q.head
	q.head = old.next
	//
	return old.data
}
