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

	"github.com/cockroachdb/errors"
)

// ErrEmptyQueue is returned when popping from an empty synchronised queue.
var ErrEmptyQueue = errors.New("empty queue")

// Sync is a queue guarded by a single mutex.  Popping from an empty Sync
// queue reports ErrEmptyQueue, rather than being a precondition violation.
type Sync[T any] struct {
	mux   sync.Mutex
	items Queue[T]
}

// NewSync returns an empty synchronised queue.
func NewSync[T any]() *Sync[T] {
	return &Sync[T]{items: *NewQueue[T]()}
}

// Push an item onto the back of the queue.
func (p *Sync[T]) Push(item T) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	p.items.Push(item)
}

// Pop the item at the front of the queue, or return ErrEmptyQueue.
func (p *Sync[T]) Pop() (T, error) {
	var empty T
	//
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	if p.items.IsEmpty() {
		return empty, ErrEmptyQueue
	}
	//
	return p.items.Pop(), nil
}

// Len returns the number of items in the queue.
func (p *Sync[T]) Len() uint {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.items.Len()
}
