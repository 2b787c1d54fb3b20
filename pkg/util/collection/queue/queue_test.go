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
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Queue_00(t *testing.T) {
	q := NewQueue[int]()
	//
	assert.True(t, q.IsEmpty())
	//
	for i := range 1000 {
		q.Push(i)
	}
	//
	assert.Equal(t, uint(1000), q.Len())
	assert.Equal(t, 0, q.Front())
	assert.Equal(t, 999, q.Back())
	//
	for i := range 1000 {
		require.Equal(t, i, q.Pop())
	}
	//
	assert.Panics(t, func() { q.Pop() })
}

func Test_SyncQueue_00(t *testing.T) {
	q := NewSync[string]()
	//
	_, err := q.Pop()
	assert.True(t, errors.Is(err, ErrEmptyQueue))
	//
	q.Push("a")
	q.Push("b")
	assert.Equal(t, uint(2), q.Len())
	//
	v, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func Test_ConcurrentQueue_00(t *testing.T) {
	q := NewConcurrent[int]()
	//
	_, ok := q.TryPop()
	assert.False(t, ok)
	assert.True(t, q.Empty())
	//
	q.Push(1)
	q.Push(2)
	assert.False(t, q.Empty())
	//
	v, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, q.WaitPop())
	assert.True(t, q.Empty())
}

func Test_ConcurrentQueue_01(t *testing.T) {
	var (
		q    = NewConcurrent[int]()
		done = make(chan int)
	)
	// Consumer blocks until an item arrives
	go func() {
		done <- q.WaitPop()
	}()
	//
	time.Sleep(10 * time.Millisecond)
	q.Push(42)
	assert.Equal(t, 42, <-done)
}

func Test_ConcurrentQueue_02(t *testing.T) {
	check_ConcurrentQueue_MPMC(t, 4, 4, 1000)
}

func Test_ConcurrentQueue_03(t *testing.T) {
	check_ConcurrentQueue_MPMC(t, 1, 8, 10000)
}

func TestSlow_ConcurrentQueue_04(t *testing.T) {
	check_ConcurrentQueue_MPMC(t, 16, 16, 100000)
}

// ===================================================================
// Test Helpers
// ===================================================================

// Run a number of producers and (blocking) consumers, checking every item is
// received exactly once.
func check_ConcurrentQueue_MPMC(t *testing.T, producers, consumers, items int) {
	var (
		q        = NewConcurrent[[2]int]()
		wg       sync.WaitGroup
		mux      sync.Mutex
		received = make([][]int, producers)
		total    = producers * items
	)
	//
	for p := range producers {
		go func() {
			for i := range items {
				q.Push([2]int{p, i})
			}
		}()
	}
	// Share total work between consumers
	for c := range consumers {
		n := total / consumers
		//
		if c == 0 {
			n += total % consumers
		}
		//
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			var local = make([][]int, producers)
			//
			for range n {
				item := q.WaitPop()
				local[item[0]] = append(local[item[0]], item[1])
			}
			//
			mux.Lock()
			defer mux.Unlock()
			//
			for p, l := range local {
				received[p] = append(received[p], l...)
			}
		}()
	}
	//
	wg.Wait()
	assert.True(t, q.Empty())
	//
	for p := range producers {
		require.Len(t, received[p], items)
		//
		seen := make([]bool, items)
		//
		for _, i := range received[p] {
			require.False(t, seen[i])
			seen[i] = true
		}
	}
}
