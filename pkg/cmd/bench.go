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
package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/consensys/go-cxstl/pkg/metrics"
	"github.com/consensys/go-cxstl/pkg/util"
	"github.com/consensys/go-cxstl/pkg/util/collection/alloc"
	"github.com/consensys/go-cxstl/pkg/util/collection/deque"
	"github.com/consensys/go-cxstl/pkg/util/collection/tree"
	"github.com/consensys/go-cxstl/pkg/util/workpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags]",
	Short: "benchmark the containers against a shared heap.",
	Long: `Run a randomised workload of deque and tree operations, all drawing
	 memory from a single shared heap, followed by a parallel sort on the
	 work-stealing pool.  Optionally reports container, heap and pool
	 statistics in the Prometheus text format.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		var (
			ops       = GetUint(cmd, "ops")
			seed      = GetUint64(cmd, "seed")
			limit     = GetUint64(cmd, "heap")
			heap      = alloc.NewHeap(limit)
			buffers   = alloc.New[int](alloc.WithHeap(heap))
			collector = metrics.NewCollector()
			pool      = newPool(cmd)
		)
		//
		defer pool.Close()
		//
		collector.AddHeap("shared", heap)
		collector.AddAllocator("deque", buffers.Stats)
		collector.AddPool("main", pool)
		//
		// Report exhaustion once, then let the request fail.
		heap.SetOOMHandler(func() {
			log.Warnf("heap exhausted (%d of %d bytes in use)", heap.InUse(), heap.Limit())
			heap.SetOOMHandler(nil)
		})
		//
		if err := runBenchmark(ops, seed, heap, buffers, pool); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		//
		if GetFlag(cmd, "metrics") {
			registry := prometheus.NewRegistry()
			registry.MustRegister(collector)
			//
			if err := metrics.WriteText(os.Stdout, registry); err != nil {
				log.Error(err)
				os.Exit(1)
			}
		}
	},
}

// Run the benchmark workloads, recovering any out-of-memory failure raised by
// the containers.
func runBenchmark(ops uint, seed uint64, heap *alloc.Heap, buffers *alloc.Allocator[int],
	pool *workpool.Pool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			//
			panic(r)
		}
	}()
	//
	var (
		rng   = rand.New(rand.NewPCG(seed, seed))
		queue = deque.New(deque.WithAllocator(buffers))
		index = tree.NewMultiMap[int, uint](tree.WithHeap(heap))
	)
	// Deque workload
	stats := util.NewPerfStats()
	//
	for i := range ops {
		switch rng.IntN(4) {
		case 0:
			queue.PushFront(int(i))
		case 1, 2:
			queue.PushBack(int(i))
		default:
			if !queue.Empty() {
				queue.PopFront()
			}
		}
	}
	//
	stats.Log("Deque workload")
	fmt.Printf("deque: %d items (%s)\n", queue.Len(), buffers.Stats())
	// Tree workload
	stats = util.NewPerfStats()
	//
	for i := range ops {
		key := rng.IntN(int(max(1, ops/4)))
		//
		if rng.IntN(3) == 0 {
			index.Delete(key)
		} else {
			index.Put(key, i)
		}
	}
	//
	stats.Log("Tree workload")
	//
	if err := index.Tree().Check(); err != nil {
		return err
	}
	//
	fmt.Printf("tree: %d entries\n", index.Len())
	// Parallel sort of deque contents
	items := queue.ToSlice()
	stats = util.NewPerfStats()
	//
	if err := util.ParallelSort(pool, items); err != nil {
		return err
	}
	//
	stats.Log("Parallel sort")
	fmt.Printf("sort: %d items (%s)\n", len(items), pool.Stats())
	// Return all memory to the heap
	queue.Release()
	index.Tree().Clear()
	log.Debugf("heap: %d bytes in use after release", heap.InUse())
	//
	return nil
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().Uint("ops", 100000, "number of container operations")
	benchCmd.Flags().Uint64("seed", 0, "seed for random operation selection")
	benchCmd.Flags().Uint64("heap", 0, "shared heap limit in bytes (0 means unlimited)")
	benchCmd.Flags().Bool("metrics", false, "write statistics in the Prometheus text format")
}
