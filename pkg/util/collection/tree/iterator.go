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
package tree

// Iterator identifies a value held in a tree, or the past-the-end position.
// Iterators carry the generation stamp of their node, so that an iterator
// whose value has since been erased can be detected via Valid.
type Iterator[K any, V any] struct {
	tree *Tree[K, V]
	// node at this position (nil for End)
	node *node[V]
	// generation of node when this iterator was created
	gen uint64
}

// Get returns the value at this position.
func (it Iterator[K, V]) Get() V {
	it.check()
	//
	return it.node.value
}

// Ptr returns a pointer to the value at this position, which remains valid
// until the value is erased.  The key of the value must not be modified
// through this pointer.
func (it Iterator[K, V]) Ptr() *V {
	it.check()
	//
	return &it.node.value
}

// Next returns the iterator for the following position.  Stepping forward
// from the maximum gives End.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	it.check()
	//
	return it.tree.iterator(successor(it.node))
}

// Prev returns the iterator for the preceding position.  Stepping back from
// End gives the maximum, whilst stepping back from the minimum gives End.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	if it.node != nil {
		it.check()
	}
	//
	return it.tree.iterator(it.tree.predecessor(it.node))
}

// Equal checks whether two iterators refer to the same position.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.node == other.node
}

// IsEnd checks whether this is the past-the-end iterator.
func (it Iterator[K, V]) IsEnd() bool {
	return it.node == nil
}

// Valid checks whether this iterator still refers to a value held in the
// tree.  The past-the-end iterator is always valid.
func (it Iterator[K, V]) Valid() bool {
	return it.node == nil || it.node.gen == it.gen
}

func (it Iterator[K, V]) check() {
	if it.node == nil {
		panic("cannot dereference end of tree")
	} else if it.node.gen != it.gen {
		panic("stale tree iterator")
	}
}
