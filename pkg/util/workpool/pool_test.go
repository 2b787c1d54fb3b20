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
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func Test_Pool_00(t *testing.T) {
	check_Pool_Counter(t, 1, 1)
}

func Test_Pool_01(t *testing.T) {
	check_Pool_Counter(t, 4, 1)
}

func Test_Pool_02(t *testing.T) {
	check_Pool_Counter(t, 2, 5000)
}

func Test_Pool_03(t *testing.T) {
	check_Pool_Counter(t, runtime.GOMAXPROCS(0), 10000)
}

func Test_Pool_04(t *testing.T) {
	for _, workers := range []int{0, -1} {
		cfg := testConfig(workers)
		_, err := New(cfg)
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	}
	//
	cfg := testConfig(1)
	cfg.LocalQueueLimit = -1
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func Test_Pool_05(t *testing.T) {
	var (
		failure = errors.New("no more threads")
		cfg     = testConfig(4)
		started []int
	)
	//
	cfg.OnStart = func(worker int) error {
		if worker == 2 {
			return failure
		}
		//
		started = append(started, worker)
		//
		return nil
	}
	//
	p, err := New(cfg)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, failure))
	assert.Equal(t, []int{0, 1}, started)
}

func Test_Pool_06(t *testing.T) {
	p := newPool(t, 2)
	defer p.Close()
	//
	f := Submit(p, func(Context) int {
		panic("boom")
	})
	//
	_, err := f.Get()
	assert.True(t, errors.Is(err, ErrTaskPanicked))
	assert.Contains(t, err.Error(), "boom")
	// Pool remains usable
	g := Submit(p, func(Context) int { return 1 })
	v, err := g.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, uint64(1), p.Stats().Panics)
}

func Test_Pool_07(t *testing.T) {
	p := newPool(t, 2)
	p.Close()
	// Closing twice is harmless
	p.Close()
	//
	f := Submit(p, func(Context) int { return 1 })
	require.True(t, f.Ready())
	_, err := f.Get()
	assert.True(t, errors.Is(err, ErrPoolClosed))
}

func Test_Pool_08(t *testing.T) {
	var (
		p       = newPool(t, 4)
		running = make(chan struct{})
		count   atomic.Int64
		n       = 100
	)
	//
	defer p.Close()
	// Parent spawns sub-tasks onto its local queue, but never runs them itself,
	// hence they can only complete by being stolen.
	parent := Submit(p, func(ctx Context) int {
		close(running)
		//
		for range n {
			Submit(ctx, func(Context) int {
				count.Inc()
				return 0
			})
		}
		//
		for count.Load() < int64(n) {
			time.Sleep(time.Millisecond)
		}
		//
		return ctx.Worker()
	})
	//
	<-running
	//
	w, err := parent.Get()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, w, 0)
	assert.Equal(t, int64(n), count.Load())
	assert.GreaterOrEqual(t, p.Stats().Steals, uint64(n))
}

func Test_Pool_09(t *testing.T) {
	p := newPool(t, 4)
	defer p.Close()
	// Recursive sum where parents wait cooperatively on their children.
	items := make([]int, 100000)
	for i := range items {
		items[i] = i
	}
	//
	f := Submit(p, Bind(parallelSum, items))
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 100000*99999/2, v)
}

func Test_Pool_10(t *testing.T) {
	p := newPool(t, 1)
	defer p.Close()
	// External goroutine helps drain work whilst waiting
	f := Submit(p, Bind(parallelSum, []int{1, 2, 3, 4}))
	v, err := f.Wait(p)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
}

func Test_Pool_11(t *testing.T) {
	var (
		p       = newPool(t, 1)
		running = make(chan struct{})
		release = make(chan struct{})
		closed  = make(chan struct{})
	)
	// Occupy the only worker
	Submit(p, func(Context) int {
		close(running)
		<-release
		//
		return 0
	})
	//
	<-running
	pending := Submit(p, func(Context) int { return 1 })
	//
	go func() {
		p.Close()
		close(closed)
	}()
	// Wait until submissions are being rejected
	for {
		probe := Submit(p, func(Context) int { return 0 })
		//
		if probe.Ready() {
			_, err := probe.Get()
			require.True(t, errors.Is(err, ErrPoolClosed))
			//
			break
		}
		//
		runtime.Gosched()
	}
	//
	close(release)
	<-closed
	// Task pending at shutdown is cancelled
	_, err := pending.Get()
	assert.True(t, errors.Is(err, ErrPoolClosed))
}

func Test_Pool_12(t *testing.T) {
	cfg := testConfig(1)
	cfg.LocalQueueLimit = 0
	//
	p, err := New(cfg)
	require.NoError(t, err)
	//
	defer p.Close()
	// With no local capacity, sub-tasks overflow to the global queue
	f := Submit(p, func(ctx Context) int {
		g := Submit(ctx, func(Context) int { return 2 })
		v, _ := g.Wait(ctx)
		//
		return v + 1
	})
	//
	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, uint64(0), p.Stats().LocalPops)
}

func Test_Pool_14(t *testing.T) {
	var (
		p       = newPool(t, 1)
		running = make(chan struct{})
		release = make(chan struct{})
		closed  = make(chan struct{})
		ran     atomic.Bool
	)
	// Occupy the only worker
	Submit(p, func(Context) int {
		close(running)
		<-release
		//
		return 0
	})
	//
	<-running
	pending := Submit(p, func(Context) int {
		ran.Store(true)
		return 1
	})
	//
	go func() {
		p.Close()
		close(closed)
	}()
	// Pending task is cancelled whilst the worker is still busy
	_, err := pending.Get()
	assert.True(t, errors.Is(err, ErrPoolClosed))
	// Outside helpers find nothing to run
	assert.False(t, p.RunTask())
	//
	close(release)
	<-closed
	assert.False(t, ran.Load())
}

func Test_StealQueue_00(t *testing.T) {
	var (
		q     = NewStealQueue()
		order []int
	)
	//
	assert.True(t, q.Empty())
	//
	for i := range 3 {
		q.Push(TaskFunc(func(Context) { order = append(order, i) }))
	}
	//
	assert.Equal(t, 3, q.Len())
	// Owner takes newest, thief takes oldest
	task, ok := q.TryPop()
	require.True(t, ok)
	task.Invoke(Context{})
	task, ok = q.TrySteal()
	require.True(t, ok)
	task.Invoke(Context{})
	//
	assert.Equal(t, []int{2, 0}, order)
	assert.Equal(t, 1, q.Len())
}

func TestSlow_Pool_13(t *testing.T) {
	check_Pool_Counter(t, 3, 1000000)
}

// ===================================================================
// Test Helpers
// ===================================================================

func testConfig(workers int) Config {
	cfg := DefaultConfig()
	cfg.Workers = workers
	//
	return cfg
}

func newPool(t *testing.T, workers int) *Pool {
	p, err := New(testConfig(workers))
	require.NoError(t, err)
	//
	return p
}

// Submit n tasks each incrementing a shared counter, and check the counter
// reaches n once all futures are joined.
func check_Pool_Counter(t *testing.T, workers int, n int) {
	var (
		p       = newPool(t, workers)
		counter atomic.Int64
		futures = make([]*Future[int], n)
		wg      sync.WaitGroup
	)
	//
	defer p.Close()
	// Submit from several external goroutines at once
	for g := range 4 {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			for i := g; i < n; i += 4 {
				futures[i] = Submit(p, func(Context) int {
					counter.Inc()
					return i
				})
			}
		}()
	}
	//
	wg.Wait()
	//
	for i, f := range futures {
		v, err := f.Get()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
	//
	assert.Equal(t, int64(n), counter.Load())
	assert.Equal(t, uint64(n), p.Stats().Submitted)
}

func parallelSum(ctx Context, items []int) int {
	if len(items) <= 32 {
		sum := 0
		for _, v := range items {
			sum += v
		}
		//
		return sum
	}
	//
	mid := len(items) / 2
	lhs := Submit(ctx, Bind(parallelSum, items[:mid]))
	rhs := parallelSum(ctx, items[mid:])
	v, _ := lhs.Wait(ctx)
	//
	return v + rhs
}
