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
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrEmptyStack is returned when popping from an empty synchronised stack.
var ErrEmptyStack = errors.New("empty stack")

// Sync is a stack which is safe for concurrent use.  Unlike Stack, popping
// from an empty Sync stack is not a precondition violation, and instead
// reports ErrEmptyStack.
type Sync[T any] struct {
	mux   sync.Mutex
	items Stack[T]
}

// NewSync returns an empty synchronised stack.
func NewSync[T any]() *Sync[T] {
	return &Sync[T]{items: *NewStack[T]()}
}

// Push a new item onto the stack.
func (p *Sync[T]) Push(item T) {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	p.items.Push(item)
}

// Pop the top item off the stack, or return ErrEmptyStack.
func (p *Sync[T]) Pop() (T, error) {
	var empty T
	//
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	if p.items.IsEmpty() {
		return empty, ErrEmptyStack
	}
	//
	return p.items.Pop(), nil
}

// Len returns the number of items on the stack.
func (p *Sync[T]) Len() uint {
	p.mux.Lock()
	defer p.mux.Unlock()
	//
	return p.items.Len()
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Sync[T]) IsEmpty() bool {
	return p.Len() == 0
}
