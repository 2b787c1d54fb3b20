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

// Package alloc provides a small-object allocator in the style of a
// size-classed free list.  Requests for at most MAX_BLOCK_SIZE bytes are
// rounded up to a multiple of ALIGN and served from the free list of that
// size class; free lists are refilled in batches carved from a memory pool
// which itself is refilled in exponentially growing chunks from a Heap.
// Larger requests bypass the free lists and go straight to the Heap.
package alloc

import (
	log "github.com/sirupsen/logrus"
)

// ALIGN is the granularity (in bytes) of size classes.
const ALIGN = 8

// MAX_BLOCK_SIZE is the largest request (in bytes) served from a free list.
const MAX_BLOCK_SIZE = 128

// FREE_LIST_NUM is the number of distinct size classes.
const FREE_LIST_NUM = MAX_BLOCK_SIZE / ALIGN

// DEFAULT_BATCH is the number of blocks requested when refilling a free list.
const DEFAULT_BATCH = 20

// Allocator is a free-list allocator for elements of type T.  An allocator is
// *not* thread safe: callers sharing one must serialise access themselves.
type Allocator[T any] struct {
	// raw allocator used for chunks and oversize blocks
	heap *Heap
	// size of an element in bytes
	size uint64
	// number of blocks obtained on each refill
	batch uint
	// reclaimed blocks for each size class
	freeLists [FREE_LIST_NUM][][]T
	// unused portion of the current chunk
	pool []T
	// total bytes obtained for chunks (never shrinks)
	heapSize uint64
	// statistics
	stats Stats
}

// Option configures an allocator.
type Option func(*options)

type options struct {
	heap  *Heap
	batch uint
}

// WithHeap sets the heap from which chunks and oversize blocks are obtained.
func WithHeap(heap *Heap) Option {
	return func(o *options) {
		o.heap = heap
	}
}

// WithBatch sets the number of blocks requested when refilling a free list.
func WithBatch(n uint) Option {
	return func(o *options) {
		o.batch = max(1, n)
	}
}

// New constructs a fresh allocator for elements of type T.  Unless a heap is
// given, the allocator uses its own unbounded heap.
func New[T any](opts ...Option) *Allocator[T] {
	var cfg = options{batch: DEFAULT_BATCH}
	//
	for _, opt := range opts {
		opt(&cfg)
	}
	//
	if cfg.heap == nil {
		cfg.heap = NewHeap(0)
	}
	//
	return &Allocator[T]{
		heap:  cfg.heap,
		size:  sizeOf[T](),
		batch: cfg.batch,
	}
}

// Heap returns the heap underlying this allocator.
func (p *Allocator[T]) Heap() *Heap {
	return p.heap
}

// Allocate returns storage for n contiguous elements.  The returned slice has
// length n, and must be returned via Deallocate with the same n.
func (p *Allocator[T]) Allocate(n uint) ([]T, error) {
	var bytes = uint64(n) * p.size
	//
	if n == 0 {
		return nil, nil
	} else if bytes > MAX_BLOCK_SIZE {
		block, err := Malloc[T](p.heap, n)
		if err != nil {
			return nil, err
		}
		//
		p.stats.Oversize++
		p.stats.Allocations++
		//
		return block, nil
	}
	//
	var (
		index = classIndex(bytes)
		list  = p.freeLists[index]
	)
	// Check whether a reclaimed block is available
	if m := len(list); m > 0 {
		block := list[m-1]
		p.freeLists[index] = list[:m-1]
		p.stats.Allocations++
		//
		return block[:n], nil
	}
	// Nothing available, so refill from the pool
	block, err := p.refill(index)
	if err != nil {
		return nil, err
	}
	//
	p.stats.Allocations++
	//
	return block[:n], nil
}

// Deallocate returns a block obtained from Allocate.  The block contents are
// cleared, and small blocks are pushed onto the free list of their size class
// (there is no coalescing).
func (p *Allocator[T]) Deallocate(block []T, n uint) {
	var bytes = uint64(n) * p.size
	//
	if n == 0 {
		return
	} else if bytes > MAX_BLOCK_SIZE {
		Free(p.heap, block)
		p.stats.Deallocations++
		//
		return
	}
	//
	index := classIndex(bytes)
	block = block[:cap(block)]
	// Sanity check block belongs to this size class
	if uint64(len(block)) != p.blockLength(index) {
		panic("block does not belong to its size class")
	}
	//
	clear(block)
	p.freeLists[index] = append(p.freeLists[index], block)
	p.stats.Deallocations++
}

// Stats returns a snapshot of the statistics for this allocator.
func (p *Allocator[T]) Stats() Stats {
	var stats = p.stats
	//
	stats.HeapSize = p.heapSize
	stats.PoolRemaining = uint64(len(p.pool)) * p.size
	//
	for i, list := range p.freeLists {
		stats.Free[i] = uint(len(list))
	}
	//
	return stats
}

// Refill the free list for a given size class, returning one block directly
// to the caller.
func (p *Allocator[T]) refill(index uint) ([]T, error) {
	var length = p.blockLength(index)
	//
	chunk, count, err := p.chunkAlloc(index, p.batch)
	if err != nil {
		return nil, err
	}
	//
	p.stats.Refills++
	// Thread remaining blocks onto the free list, such that they are handed
	// out in address order.
	for i := count - 1; i > 0; i-- {
		var (
			start = uint64(i) * length
			end   = start + length
		)
		//
		p.freeLists[index] = append(p.freeLists[index], chunk[start:end:end])
	}
	//
	return chunk[:length:length], nil
}

// Carve up to count blocks of the given size class from the pool, refilling
// the pool as necessary.  The number of blocks actually carved is returned,
// which may be less than requested (but is always at least one).
func (p *Allocator[T]) chunkAlloc(index uint, count uint) ([]T, uint, error) {
	var (
		length = p.blockLength(index)
		total  = length * uint64(count)
		left   = uint64(len(p.pool))
	)
	//
	if left >= total {
		// Enough space for the full batch
		return p.carve(total), count, nil
	} else if left >= length {
		// Enough space for a partial batch
		count = uint(left / length)
		//
		return p.carve(uint64(count) * length), count, nil
	}
	// Not even a single block fits, so donate leftover and obtain a new chunk.
	var bytesToGet = 2*total*p.size + roundUp(p.heapSize>>4)
	//
	p.donate()
	//
	chunk, ok := TryMalloc[T](p.heap, uint(ceilDiv(bytesToGet, p.size)))
	//
	if !ok {
		// Heap exhausted, so scavenge a spare block from a larger size class.
		for i := index + 1; i < FREE_LIST_NUM; i++ {
			if list := p.freeLists[i]; len(list) > 0 {
				p.pool = list[len(list)-1]
				p.freeLists[i] = list[:len(list)-1]
				p.stats.Scavenges++
				//
				log.Debugf("scavenged %d byte block for %d byte size class", (i+1)*ALIGN, (index+1)*ALIGN)
				//
				return p.chunkAlloc(index, count)
			}
		}
		// Nothing to scavenge, so try once more with the handler engaged.
		var err error
		//
		if chunk, err = Malloc[T](p.heap, uint(ceilDiv(bytesToGet, p.size))); err != nil {
			return nil, 0, err
		}
	}
	//
	p.pool = chunk
	p.heapSize += uint64(len(chunk)) * p.size
	p.stats.Chunks++
	//
	log.Debugf("obtained %d byte chunk (heap size %d bytes)", uint64(len(chunk))*p.size, p.heapSize)
	//
	return p.chunkAlloc(index, count)
}

// Remove the first n elements from the pool.
func (p *Allocator[T]) carve(n uint64) []T {
	result := p.pool[:n:n]
	p.pool = p.pool[n:]
	//
	return result
}

// Donate whatever remains of the pool to the largest size class which fits
// within it, and then empty the pool.
func (p *Allocator[T]) donate() {
	var bytes = uint64(len(p.pool)) * p.size
	//
	if bytes >= ALIGN {
		index := uint(min(bytes, MAX_BLOCK_SIZE)/ALIGN) - 1
		length := p.blockLength(index)
		//
		if length > 0 {
			p.freeLists[index] = append(p.freeLists[index], p.pool[:length:length])
		}
	}
	//
	p.pool = nil
}

// Determine the number of elements held by a block in a given size class.
func (p *Allocator[T]) blockLength(index uint) uint64 {
	return uint64(index+1) * ALIGN / p.size
}

// Round a byte count up to the nearest multiple of ALIGN.
func roundUp(bytes uint64) uint64 {
	return (bytes + ALIGN - 1) &^ (ALIGN - 1)
}

// Determine the size class for a (non-zero) byte count.
func classIndex(bytes uint64) uint {
	return uint(roundUp(bytes)/ALIGN) - 1
}

func ceilDiv(n, d uint64) uint64 {
	return (n + d - 1) / d
}
