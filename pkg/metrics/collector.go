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

// Package metrics exposes the statistics of allocators, heaps and worker
// pools as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"
	"sync"

	"github.com/consensys/go-cxstl/pkg/util/collection/alloc"
	"github.com/consensys/go-cxstl/pkg/util/workpool"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// NAMESPACE prefixes every metric name.
const NAMESPACE = "cxstl"

// Collector gathers statistics from registered sources whenever it is
// scraped.  Allocators are not thread safe, so their statistics are obtained
// through a function which the owner must ensure is safe to call at scrape
// time.
type Collector struct {
	mux        sync.Mutex
	pools      map[string]*workpool.Pool
	heaps      map[string]*alloc.Heap
	allocators map[string]func() alloc.Stats
	//
	poolTasks  *prometheus.Desc
	poolIdle   *prometheus.Desc
	allocOps   *prometheus.Desc
	allocBytes *prometheus.Desc
	allocFree  *prometheus.Desc
	heapBytes  *prometheus.Desc
}

// NewCollector constructs a collector with no registered sources.
func NewCollector() *Collector {
	return &Collector{
		pools:      make(map[string]*workpool.Pool),
		heaps:      make(map[string]*alloc.Heap),
		allocators: make(map[string]func() alloc.Stats),
		poolTasks: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "pool", "tasks_total"),
			"Tasks handled by a worker pool.", []string{"pool", "kind"}, nil),
		poolIdle: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "pool", "idle_total"),
			"Scheduling steps which found no task.", []string{"pool"}, nil),
		allocOps: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "alloc", "operations_total"),
			"Allocator operations.", []string{"allocator", "op"}, nil),
		allocBytes: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "alloc", "bytes"),
			"Bytes obtained for chunks, or remaining in the pool.", []string{"allocator", "kind"}, nil),
		allocFree: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "alloc", "free_blocks"),
			"Reclaimed blocks held per size class.", []string{"allocator", "class"}, nil),
		heapBytes: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "heap", "bytes"),
			"Bytes in use, or the limit, of a heap.", []string{"heap", "kind"}, nil),
	}
}

// AddPool registers a worker pool under a given name.
func (c *Collector) AddPool(name string, pool *workpool.Pool) {
	c.mux.Lock()
	defer c.mux.Unlock()
	//
	c.pools[name] = pool
}

// AddHeap registers a heap under a given name.
func (c *Collector) AddHeap(name string, heap *alloc.Heap) {
	c.mux.Lock()
	defer c.mux.Unlock()
	//
	c.heaps[name] = heap
}

// AddAllocator registers a source of allocator statistics under a given name.
func (c *Collector) AddAllocator(name string, stats func() alloc.Stats) {
	c.mux.Lock()
	defer c.mux.Unlock()
	//
	c.allocators[name] = stats
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.poolTasks
	ch <- c.poolIdle
	ch <- c.allocOps
	ch <- c.allocBytes
	ch <- c.allocFree
	ch <- c.heapBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mux.Lock()
	defer c.mux.Unlock()
	//
	for name, pool := range c.pools {
		s := pool.Stats()
		//
		c.counter(ch, c.poolTasks, s.Submitted, name, "submitted")
		c.counter(ch, c.poolTasks, s.Executed, name, "executed")
		c.counter(ch, c.poolTasks, s.LocalPops, name, "local")
		c.counter(ch, c.poolTasks, s.GlobalPops, name, "global")
		c.counter(ch, c.poolTasks, s.Steals, name, "stolen")
		c.counter(ch, c.poolTasks, s.Panics, name, "panicked")
		c.counter(ch, c.poolIdle, s.IdleSpins, name)
	}
	//
	for name, heap := range c.heaps {
		c.gauge(ch, c.heapBytes, heap.InUse(), name, "in_use")
		c.gauge(ch, c.heapBytes, heap.Limit(), name, "limit")
	}
	//
	for name, stats := range c.allocators {
		s := stats()
		//
		c.counter(ch, c.allocOps, s.Allocations, name, "allocate")
		c.counter(ch, c.allocOps, s.Deallocations, name, "deallocate")
		c.counter(ch, c.allocOps, s.Oversize, name, "oversize")
		c.counter(ch, c.allocOps, s.Refills, name, "refill")
		c.counter(ch, c.allocOps, s.Chunks, name, "chunk")
		c.counter(ch, c.allocOps, s.Scavenges, name, "scavenge")
		c.gauge(ch, c.allocBytes, s.HeapSize, name, "heap")
		c.gauge(ch, c.allocBytes, s.PoolRemaining, name, "pool")
		//
		for i, n := range s.Free {
			c.gauge(ch, c.allocFree, uint64(n), name, fmt.Sprintf("%d", (i+1)*alloc.ALIGN))
		}
	}
}

func (c *Collector) counter(ch chan<- prometheus.Metric, desc *prometheus.Desc, v uint64, labels ...string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
}

func (c *Collector) gauge(ch chan<- prometheus.Metric, desc *prometheus.Desc, v uint64, labels ...string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v), labels...)
}

// WriteText gathers all metrics from a gatherer and writes them in the
// Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	//
	return Encode(w, families)
}

// Encode writes metric families in the Prometheus text exposition format.
func Encode(w io.Writer, families []*dto.MetricFamily) error {
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	//
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return err
		}
	}
	//
	return nil
}
