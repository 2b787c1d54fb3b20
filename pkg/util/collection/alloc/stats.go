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
package alloc

import "fmt"

// Stats captures a snapshot of allocator activity.
type Stats struct {
	// Number of successful calls to Allocate.
	Allocations uint64
	// Number of calls to Deallocate.
	Deallocations uint64
	// Number of allocations which bypassed the free lists.
	Oversize uint64
	// Number of times a free list was refilled from the pool.
	Refills uint64
	// Number of chunks obtained from the heap.
	Chunks uint64
	// Number of times a block from a larger size class was used as the pool.
	Scavenges uint64
	// Total bytes obtained from the heap for chunks.
	HeapSize uint64
	// Bytes left in the pool.
	PoolRemaining uint64
	// Number of reclaimed blocks held in each size class.
	Free [FREE_LIST_NUM]uint
}

// Outstanding returns the number of allocations not yet deallocated.
func (s Stats) Outstanding() uint64 {
	return s.Allocations - s.Deallocations
}

func (s Stats) String() string {
	return fmt.Sprintf("allocs=%d frees=%d oversize=%d refills=%d chunks=%d scavenges=%d heap=%d",
		s.Allocations, s.Deallocations, s.Oversize, s.Refills, s.Chunks, s.Scavenges, s.HeapSize)
}
