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

// Task is a unit of work executed by a pool.
type Task interface {
	// Invoke this task on behalf of a given worker.
	Invoke(ctx Context)
}

// TaskFunc adapts an ordinary function into a Task.
type TaskFunc func(Context)

// Invoke calls the function.
func (f TaskFunc) Invoke(ctx Context) {
	f(ctx)
}

// A task which can be told it will never run.
type cancellable interface {
	cancel(err error)
}

// Scheduler is something tasks can be submitted through: either a Pool
// (submissions go to the global queue) or a worker's Context (submissions go
// to that worker's local queue).
type Scheduler interface {
	schedule(task Task) error
}

// Helper is something which can execute a single pending task, as used when
// waiting cooperatively on a future.
type Helper interface {
	RunTask() bool
}

// Context identifies the worker executing a task.  Submitting through a
// context routes to the front of that worker's local queue, so recently
// spawned sub-tasks are executed first.
type Context struct {
	pool   *Pool
	worker int
}

// Worker returns the index of the executing worker, or -1 when the task is
// being executed by a goroutine outside the pool.
func (c Context) Worker() int {
	return c.worker
}

// Pool returns the pool executing the task.
func (c Context) Pool() *Pool {
	return c.pool
}

// RunTask executes one pending task on behalf of this context's worker,
// returning false if there was nothing to do.
func (c Context) RunTask() bool {
	return c.pool.runTask(c.worker)
}

func (c Context) schedule(task Task) error {
	return c.pool.push(c.worker, task)
}
