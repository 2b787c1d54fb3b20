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
package deque

import (
	"unsafe"

	log "github.com/sirupsen/logrus"
)

// Determine the number of elements held in each buffer.
func bufferCapacity[T any]() int {
	var dummy T
	//
	size := int(unsafe.Sizeof(dummy))
	//
	if size == 0 || size >= BUFFER_BYTES {
		return 1
	}
	//
	return BUFFER_BYTES / size
}

// Create a map large enough for n elements, with buffers allocated for all
// nodes needed.  The occupied nodes are centred within the map, so there is
// room to grow in both directions.  Both start and finish are positioned at
// the first slot.
func (d *Deque[T]) createMap(n int) {
	var (
		nodes   = n/d.bufCap + 1
		mapSize = max(INITIAL_MAP_SIZE, nodes+2)
	)
	//
	d.blocks = d.allocateMap(mapSize)
	first := (mapSize - nodes) / 2
	//
	for node := first; node < first+nodes; node++ {
		d.blocks[node] = d.allocateBuffer()
	}
	//
	d.start = Iterator[T]{d, first, 0}
	d.finish = Iterator[T]{d, first + nodes - 1, n % d.bufCap}
}

// Ensure there is room in the map for add more nodes, either before the start
// or after the finish.  When the map is more than twice the required size, the
// occupied nodes are simply recentred in place.  Otherwise, a larger map is
// allocated.  Buffers are never copied, only the references to them.
func (d *Deque[T]) reallocateMap(add int, atFront bool) {
	var (
		oldNodes = d.finish.node - d.start.node + 1
		newNodes = oldNodes + add
		first    int
	)
	//
	if len(d.blocks) > 2*newNodes {
		first = (len(d.blocks) - newNodes) / 2
		//
		if atFront {
			first += add
		}
		// copy permits overlap
		copy(d.blocks[first:], d.blocks[d.start.node:d.finish.node+1])
		clear(d.blocks[:first])
		clear(d.blocks[first+oldNodes:])
	} else {
		var (
			newSize = len(d.blocks) + max(len(d.blocks), add) + 2
			blocks  = d.allocateMap(newSize)
		)
		//
		first = (newSize - newNodes) / 2
		//
		if atFront {
			first += add
		}
		//
		copy(blocks[first:], d.blocks[d.start.node:d.finish.node+1])
		clear(d.blocks)
		d.maps.Deallocate(d.blocks, uint(len(d.blocks)))
		d.blocks = blocks
		//
		log.Debugf("deque map grown to %d slots (%d nodes in use)", newSize, oldNodes)
	}
	//
	d.start.node = first
	d.finish.node = first + oldNodes - 1
}

func (d *Deque[T]) allocateMap(n int) [][]T {
	blocks, err := d.maps.Allocate(uint(n))
	if err != nil {
		panic(err)
	}
	//
	return blocks
}

func (d *Deque[T]) allocateBuffer() []T {
	buffer, err := d.buffers.Allocate(uint(d.bufCap))
	if err != nil {
		panic(err)
	}
	//
	return buffer
}

// Return the buffer at a given node to the allocator, and clear the slot.
func (d *Deque[T]) releaseBuffer(node int) {
	d.buffers.Deallocate(d.blocks[node], uint(d.bufCap))
	d.blocks[node] = nil
}
