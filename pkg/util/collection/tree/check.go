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

import (
	"github.com/cockroachdb/errors"
)

// Check that this tree satisfies the red-black invariants (the root is black,
// no red node has a red child, and every path from the root to a leaf passes
// through the same number of black nodes), that parent links are consistent,
// that values are in order, and that the size and cached extremes are
// accurate.
func (t *Tree[K, V]) Check() error {
	if t.root == nil {
		if t.size != 0 || t.min != nil || t.max != nil {
			return errors.Newf("empty tree with size %d", t.size)
		}
		//
		return nil
	} else if t.root.parent != nil {
		return errors.New("root has parent")
	} else if t.root.color != BLACK {
		return errors.New("root is red")
	}
	//
	if _, err := t.checkSubtree(t.root); err != nil {
		return err
	}
	//
	if t.min != minimum(t.root) {
		return errors.New("cached minimum incorrect")
	} else if t.max != maximum(t.root) {
		return errors.New("cached maximum incorrect")
	}
	// Check ordering
	var count uint = 1
	//
	for prev, n := t.min, successor(t.min); n != nil; prev, n = n, successor(n) {
		var (
			lhs = t.key(prev.value)
			rhs = t.key(n.value)
		)
		//
		if t.less(rhs, lhs) {
			return errors.Newf("values out of order at position %d", count)
		} else if !t.multi && !t.less(lhs, rhs) {
			return errors.Newf("duplicate key at position %d", count)
		}
		//
		count++
	}
	//
	if count != t.size {
		return errors.Newf("tree holds %d values, but has size %d", count, t.size)
	}
	//
	return nil
}

// Check a subtree, returning its black height.
func (t *Tree[K, V]) checkSubtree(n *node[V]) (uint, error) {
	if n == nil {
		return 1, nil
	} else if n.left != nil && n.left.parent != n {
		return 0, errors.New("inconsistent parent link")
	} else if n.right != nil && n.right.parent != n {
		return 0, errors.New("inconsistent parent link")
	} else if n.color == RED && (colorOf(n.left) == RED || colorOf(n.right) == RED) {
		return 0, errors.New("red node has red child")
	}
	//
	lh, err := t.checkSubtree(n.left)
	if err != nil {
		return 0, err
	}
	//
	rh, err := t.checkSubtree(n.right)
	if err != nil {
		return 0, err
	}
	//
	if lh != rh {
		return 0, errors.Newf("black height mismatch (%d vs %d)", lh, rh)
	} else if n.color == BLACK {
		return lh + 1, nil
	}
	//
	return lh, nil
}
