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
package util

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/consensys/go-cxstl/pkg/util/workpool"
)

// MIN_BLOCK_SIZE is the smallest number of items handled by a single task in
// ParallelAccumulate.
const MIN_BLOCK_SIZE = 32

// SORT_CUTOFF is the size below which ParallelSort stops spawning tasks.
const SORT_CUTOFF = 16

// Summable captures those types which can be accumulated with +.
type Summable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ParallelAccumulate sums a slice of items (starting from init) by dividing
// it into contiguous blocks, one per worker, each of which holds at least
// MIN_BLOCK_SIZE items.  The final block is summed by the caller.
func ParallelAccumulate[T Summable](pool *workpool.Pool, items []T, init T) (T, error) {
	return ParallelAccumulateBlocks(pool, items, init, MIN_BLOCK_SIZE)
}

// ParallelAccumulateBlocks is ParallelAccumulate with a given minimum block
// size (which is treated as 1 if zero).
func ParallelAccumulateBlocks[T Summable](pool *workpool.Pool, items []T, init T, block uint) (T, error) {
	var n = len(items)
	//
	if n == 0 {
		return init, nil
	}
	//
	var (
		minimum = int(max(1, block))
		blocks  = min((n+minimum-1)/minimum, pool.Workers())
		size    = n / blocks
		futures = make([]*workpool.Future[T], blocks-1)
	)
	//
	for i := range futures {
		futures[i] = workpool.Submit(pool, workpool.Bind(accumulate[T], items[i*size:(i+1)*size]))
	}
	// Final block is handled here
	result := init + accumulate(workpool.Context{}, items[(blocks-1)*size:])
	//
	for _, f := range futures {
		sum, err := f.Get()
		if err != nil {
			return init, err
		}
		//
		result += sum
	}
	//
	return result, nil
}

func accumulate[T Summable](_ workpool.Context, items []T) T {
	var sum T
	//
	for _, item := range items {
		sum += item
	}
	//
	return sum
}

// ParallelSort sorts a slice in place using quicksort, where the partition
// below each pivot is submitted as a sub-task whilst the partition above is
// sorted directly.  Parents wait on their sub-tasks cooperatively, executing
// other pending tasks in the meantime.  If the pool is closed before sorting
// completes, an error wrapping workpool.ErrPoolClosed is returned and the
// slice is left partially sorted.
func ParallelSort[T cmp.Ordered](pool *workpool.Pool, items []T) error {
	f := workpool.Submit(pool, func(ctx workpool.Context) error {
		return parallelSort(ctx, items)
	})
	//
	serr, err := f.Wait(pool)
	//
	if err == nil {
		err = serr
	}
	//
	if err != nil {
		return errors.Wrapf(err, "sorting %d items", len(items))
	}
	//
	return nil
}

func parallelSort[T cmp.Ordered](ctx workpool.Context, items []T) error {
	if len(items) <= SORT_CUTOFF {
		slices.Sort(items)
		return nil
	}
	//
	lt, gt := partition(items)
	//
	lower := workpool.Submit(ctx, func(ctx workpool.Context) error {
		return parallelSort(ctx, items[:lt])
	})
	//
	upper := parallelSort(ctx, items[gt:])
	//
	lerr, err := lower.Wait(ctx)
	//
	return errors.CombineErrors(err, errors.CombineErrors(lerr, upper))
}

// Three-way partition around the median of the first, middle and last items.
// On return, items[:lt] are below the pivot, items[lt:gt] equal it and
// items[gt:] are above it.
func partition[T cmp.Ordered](items []T) (lt int, gt int) {
	var (
		n     = len(items)
		pivot = median(items[0], items[n/2], items[n-1])
	)
	//
	lt, gt = 0, n
	//
	for i := 0; i < gt; {
		switch {
		case items[i] < pivot:
			items[lt], items[i] = items[i], items[lt]
			lt++
			i++
		case pivot < items[i]:
			gt--
			items[i], items[gt] = items[gt], items[i]
		default:
			i++
		}
	}
	//
	return lt, gt
}

func median[T cmp.Ordered](a, b, c T) T {
	if b < a {
		a, b = b, a
	}
	//
	if c < b {
		b = max(a, c)
	}
	//
	return b
}
