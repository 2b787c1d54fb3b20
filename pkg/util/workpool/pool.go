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

// Package workpool provides a work-stealing pool of worker goroutines.  Each
// worker owns a local queue, onto which tasks it submits are pushed; tasks
// submitted from outside the pool go onto a shared global queue.  An idle
// worker first checks its own queue, then the global queue, and finally
// steals from the back of its peers' queues.
package workpool

import (
	"runtime"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/consensys/go-cxstl/pkg/util/collection/queue"
	"go.uber.org/atomic"
)

// ErrPoolClosed is reported by submissions made after a pool was closed, and
// by tasks still pending when it was closed.
var ErrPoolClosed = errors.New("pool closed")

// Pool is a work-stealing pool of workers.
type Pool struct {
	cfg Config
	// set once the pool is shutting down
	done atomic.Bool
	// orders submissions against shutdown
	closing sync.RWMutex
	// shared FIFO queue for external submissions and local overflow
	global *queue.Concurrent[Task]
	// per-worker state
	workers []*worker
	// tracks running workers
	wg sync.WaitGroup
	// activity counters
	stats Stats
}

type worker struct {
	queue *StealQueue
	// consecutive empty scheduling steps (accessed only by the owner)
	misses int
}

// New constructs a pool and starts its workers.  If the configuration is
// invalid, or the OnStart hook fails for some worker, those workers already
// started are shut down and the error is returned.
func New(cfg Config) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	//
	p := &Pool{
		cfg:     cfg,
		global:  queue.NewConcurrent[Task](),
		workers: make([]*worker, cfg.Workers),
	}
	//
	for i := range p.workers {
		p.workers[i] = &worker{queue: NewStealQueue()}
	}
	//
	for i := range p.workers {
		if cfg.OnStart != nil {
			if err := cfg.OnStart(i); err != nil {
				cfg.Logger.WithError(err).Debugf("failed starting worker %d", i)
				p.Close()
				//
				return nil, errors.Wrapf(err, "starting worker %d", i)
			}
		}
		//
		p.wg.Add(1)
		//
		go p.work(i)
	}
	//
	cfg.Logger.Debugf("started pool with %d workers", cfg.Workers)
	//
	return p, nil
}

// Workers returns the number of workers in this pool.
func (p *Pool) Workers() int {
	return len(p.workers)
}

// Stats returns a snapshot of the activity of this pool.
func (p *Pool) Stats() Snapshot {
	return p.stats.snapshot()
}

// RunTask executes one pending task from the global queue (or stolen from a
// worker) on the calling goroutine, returning false if there was nothing to
// do.  This allows goroutines outside the pool to help drain work whilst
// waiting on a future.
func (p *Pool) RunTask() bool {
	return p.runTask(-1)
}

// Close shuts down this pool, waiting for all workers to finish their current
// task.  Once closing begins no further tasks are taken from the queues, by
// workers or by outside helpers, and the futures of tasks still pending report
// ErrPoolClosed.  Closing a pool more than once has no effect.
func (p *Pool) Close() {
	p.closing.Lock()
	closed := p.done.Swap(true)
	p.closing.Unlock()
	//
	if closed {
		return
	}
	// No submission can succeed from here, so cancelling pending tasks up front
	// releases any running task waiting on one of them.
	pending := p.cancelPending()
	//
	p.wg.Wait()
	//
	p.cfg.Logger.Debugf("closed pool (%s, cancelled %d)", p.stats.snapshot(), pending)
}

// Cancel every task remaining on the global or local queues.
func (p *Pool) cancelPending() uint {
	var pending uint
	//
	for task, ok := p.global.TryPop(); ok; task, ok = p.global.TryPop() {
		pending += cancel(task)
	}
	//
	for _, w := range p.workers {
		for task, ok := w.queue.TryPop(); ok; task, ok = w.queue.TryPop() {
			pending += cancel(task)
		}
	}
	//
	return pending
}

func (p *Pool) schedule(task Task) error {
	return p.push(-1, task)
}

// Route a task submitted by a given worker (or -1 when external).
func (p *Pool) push(worker int, task Task) error {
	p.closing.RLock()
	defer p.closing.RUnlock()
	//
	if p.done.Load() {
		return ErrPoolClosed
	}
	//
	p.stats.Submitted.Inc()
	//
	if worker >= 0 {
		if q := p.workers[worker].queue; q.Len() < p.cfg.LocalQueueLimit {
			q.Push(task)
			return nil
		}
	}
	//
	p.global.Push(task)
	//
	return nil
}

// Main loop of a worker, which runs until the pool is closed.
func (p *Pool) work(index int) {
	defer p.wg.Done()
	//
	for !p.done.Load() {
		p.runTask(index)
	}
}

// Perform one scheduling step on behalf of a given worker (or -1 when
// external): try the local queue, then the global queue, then steal from a
// peer.  If nothing was found, yield the processor (or sleep, after enough
// consecutive misses).  Nothing is run once the pool is closing.
func (p *Pool) runTask(index int) bool {
	var (
		task Task
		ok   bool
	)
	//
	if p.done.Load() {
		runtime.Gosched()
		return false
	}
	//
	if index >= 0 {
		if task, ok = p.workers[index].queue.TryPop(); ok {
			p.stats.LocalPops.Inc()
		}
	}
	//
	if !ok {
		if task, ok = p.global.TryPop(); ok {
			p.stats.GlobalPops.Inc()
		}
	}
	//
	if !ok {
		if task, ok = p.steal(index); ok {
			p.stats.Steals.Inc()
		}
	}
	//
	if !ok {
		p.idle(index)
		return false
	}
	//
	if index >= 0 {
		p.workers[index].misses = 0
	}
	//
	task.Invoke(Context{p, index})
	p.stats.Executed.Inc()
	//
	return true
}

// Steal from the back of a peer's queue, visiting peers round robin starting
// just after the given worker.
func (p *Pool) steal(index int) (Task, bool) {
	var n = len(p.workers)
	//
	for i := range n {
		victim := (index + i + 1) % n
		//
		if victim == index {
			continue
		} else if task, ok := p.workers[victim].queue.TrySteal(); ok {
			return task, true
		}
	}
	//
	return nil, false
}

func (p *Pool) idle(index int) {
	p.stats.IdleSpins.Inc()
	//
	if index >= 0 {
		w := p.workers[index]
		w.misses++
		//
		if w.misses > p.cfg.IdleSpins {
			time.Sleep(p.cfg.IdleSleep)
			return
		}
	}
	//
	runtime.Gosched()
}

func cancel(task Task) uint {
	if c, ok := task.(cancellable); ok {
		c.cancel(ErrPoolClosed)
		return 1
	}
	//
	return 0
}
