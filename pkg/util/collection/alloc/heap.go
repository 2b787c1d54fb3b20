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

import (
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// ErrOutOfMemory is returned when a heap cannot satisfy a request and no
// out-of-memory handler recovered the situation.
var ErrOutOfMemory = errors.New("out of memory")

// Heap is the raw allocator sitting underneath every pool allocator.  It
// plays the role of malloc: requests are served directly by the Go runtime,
// but are accounted against an optional byte limit.  When a request would
// exceed the limit, the registered out-of-memory handler (if any) is invoked
// and the request retried, until it either succeeds or no handler remains.
// A Heap is safe for concurrent use.
type Heap struct {
	// limit on the number of bytes in use (0 means unbounded).
	limit atomic.Uint64
	// number of bytes currently handed out.
	inUse atomic.Uint64
	// handler invoked when the limit is hit.
	handler atomic.Pointer[func()]
}

// NewHeap constructs a heap with a given byte limit.  A limit of zero means
// the heap is unbounded.
func NewHeap(limit uint64) *Heap {
	var h Heap
	//
	h.limit.Store(limit)
	//
	return &h
}

// Limit returns the current byte limit of this heap.
func (h *Heap) Limit() uint64 {
	return h.limit.Load()
}

// SetLimit adjusts the byte limit of this heap.  Lowering the limit below the
// number of bytes in use does not release anything, but all further requests
// will fail until enough memory is released.
func (h *Heap) SetLimit(limit uint64) {
	h.limit.Store(limit)
}

// InUse returns the number of bytes currently handed out by this heap.
func (h *Heap) InUse() uint64 {
	return h.inUse.Load()
}

// SetOOMHandler registers a handler to be invoked whenever a request cannot
// be satisfied, returning the previously registered handler (or nil).  A nil
// handler means requests fail immediately with ErrOutOfMemory.
func (h *Heap) SetOOMHandler(handler func()) func() {
	var old *func()
	//
	if handler == nil {
		old = h.handler.Swap(nil)
	} else {
		old = h.handler.Swap(&handler)
	}
	//
	if old == nil {
		return nil
	}
	//
	return *old
}

// Release returns a number of bytes to this heap.
func (h *Heap) Release(bytes uint64) {
	for {
		used := h.inUse.Load()
		// Guard against underflow from mismatched releases.
		if bytes > used {
			panic("heap released more memory than was allocated")
		}
		//
		if h.inUse.CompareAndSwap(used, used-bytes) {
			return
		}
	}
}

// Attempt to account for a given number of bytes without consulting the
// out-of-memory handler.
func (h *Heap) tryReserve(bytes uint64) bool {
	for {
		var (
			used  = h.inUse.Load()
			limit = h.limit.Load()
		)
		//
		if limit != 0 && used+bytes > limit {
			return false
		} else if h.inUse.CompareAndSwap(used, used+bytes) {
			return true
		}
	}
}

// Account for a given number of bytes, following the out-of-memory protocol
// when the limit is hit.
func (h *Heap) reserve(bytes uint64) error {
	for attempt := 1; !h.tryReserve(bytes); attempt++ {
		handler := h.handler.Load()
		//
		if handler == nil {
			return errors.Wrapf(ErrOutOfMemory, "requested %d bytes (in use %d, limit %d)",
				bytes, h.InUse(), h.Limit())
		}
		//
		log.Debugf("heap exhausted requesting %d bytes, invoking handler (attempt %d)", bytes, attempt)
		//
		(*handler)()
	}
	//
	return nil
}

// Malloc allocates n elements of type T directly from the heap, following the
// out-of-memory protocol if the heap limit is reached.
func Malloc[T any](h *Heap, n uint) ([]T, error) {
	var size = sizeOf[T]()
	//
	if !fits(n, size) {
		return nil, errors.Wrapf(ErrOutOfMemory, "requested %d elements of %d bytes", n, size)
	} else if err := h.reserve(size * uint64(n)); err != nil {
		return nil, err
	}
	//
	return make([]T, n), nil
}

// TryMalloc allocates n elements of type T directly from the heap, without
// consulting the out-of-memory handler.  This returns false if the heap
// limit would be exceeded.
func TryMalloc[T any](h *Heap, n uint) ([]T, bool) {
	var size = sizeOf[T]()
	//
	if !fits(n, size) || !h.tryReserve(size*uint64(n)) {
		return nil, false
	}
	//
	return make([]T, n), true
}

// Free returns a block obtained from Malloc (or TryMalloc) to the heap.
func Free[T any](h *Heap, block []T) {
	h.Release(sizeOf[T]() * uint64(cap(block)))
}

// Check whether n elements of a given size can be represented as a slice.
func fits(n uint, size uint64) bool {
	return uint64(n) <= math.MaxInt/size
}

// Determine the size (in bytes) of an element.  Zero-sized types are treated
// as occupying a single byte so that size classes remain well-defined.
func sizeOf[T any]() uint64 {
	var dummy T
	//
	return max(1, uint64(unsafe.Sizeof(dummy)))
}
