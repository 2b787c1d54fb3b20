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
package workpool

import (
	"sync"

	"github.com/consensys/go-cxstl/pkg/util/collection/deque"
)

// StealQueue is a worker's local queue.  The owner pushes and pops at the
// front, whilst thieves take from the back.  A single mutex guards both ends.
type StealQueue struct {
	mux   sync.Mutex
	tasks *deque.Deque[Task]
}

// NewStealQueue returns an empty steal queue.
func NewStealQueue() *StealQueue {
	return &StealQueue{tasks: deque.New[Task]()}
}

// Push a task onto the front.
func (q *StealQueue) Push(task Task) {
	q.mux.Lock()
	defer q.mux.Unlock()
	//
	q.tasks.PushFront(task)
}

// TryPop takes the task at the front, if there is one.
func (q *StealQueue) TryPop() (Task, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	//
	if q.tasks.Empty() {
		return nil, false
	}
	//
	return q.tasks.PopFront(), true
}

// TrySteal takes the task at the back, if there is one.
func (q *StealQueue) TrySteal() (Task, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	//
	if q.tasks.Empty() {
		return nil, false
	}
	//
	return q.tasks.PopBack(), true
}

// Len returns the number of queued tasks.
func (q *StealQueue) Len() int {
	q.mux.Lock()
	defer q.mux.Unlock()
	//
	return q.tasks.Len()
}

// Empty checks whether there are no queued tasks.
func (q *StealQueue) Empty() bool {
	return q.Len() == 0
}
