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
	"github.com/cockroachdb/errors"
)

// ErrTaskPanicked is reported by a future whose task panicked.
var ErrTaskPanicked = errors.New("task panicked")

// Future holds the eventual result of a submitted task.
type Future[R any] struct {
	done  chan struct{}
	value R
	err   error
}

// Submit a function for execution, returning a future for its result.  If the
// scheduler cannot accept the task (e.g. because the pool is closed), the
// future completes immediately with that error.
func Submit[R any](s Scheduler, fn func(Context) R) *Future[R] {
	var (
		f    = &Future[R]{done: make(chan struct{})}
		task = &futureTask[R]{f, fn}
	)
	//
	if err := s.schedule(task); err != nil {
		f.cancel(err)
	}
	//
	return f
}

// Bind an argument to a function, producing something which can be submitted.
func Bind[A any, R any](fn func(Context, A) R, arg A) func(Context) R {
	return func(ctx Context) R {
		return fn(ctx, arg)
	}
}

// Ready checks whether the result is available.
func (f *Future[R]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the result is available.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	//
	return f.value, f.err
}

// Wait for the result, executing other pending tasks in the meantime.  Tasks
// which wait on sub-tasks they spawned should use this rather than Get, as
// otherwise every worker could end up blocked.
func (f *Future[R]) Wait(h Helper) (R, error) {
	for !f.Ready() {
		h.RunTask()
	}
	//
	return f.value, f.err
}

func (f *Future[R]) cancel(err error) {
	f.err = err
	close(f.done)
}

type futureTask[R any] struct {
	future *Future[R]
	fn     func(Context) R
}

func (t *futureTask[R]) Invoke(ctx Context) {
	defer func() {
		if r := recover(); r != nil {
			t.future.err = errors.Wrapf(ErrTaskPanicked, "%v", r)
			ctx.pool.stats.Panics.Inc()
		}
		//
		close(t.future.done)
	}()
	//
	t.future.value = t.fn(ctx)
}

func (t *futureTask[R]) cancel(err error) {
	t.future.cancel(err)
}
