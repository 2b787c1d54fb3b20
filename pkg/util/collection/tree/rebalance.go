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

// Link a fresh red node holding value as the left (or right) child of y, or
// as the root when y is nil, and then restore the red-black invariants.
func (t *Tree[K, V]) insertAt(y *node[V], left bool, value V) *node[V] {
	x := t.allocate(value, RED)
	//
	switch {
	case y == nil:
		t.root, t.min, t.max = x, x, x
	case left:
		x.parent = y
		y.left = x
		//
		if y == t.min {
			t.min = x
		}
	default:
		x.parent = y
		y.right = x
		//
		if y == t.max {
			t.max = x
		}
	}
	//
	t.insertFixup(x)
	t.size++
	//
	return x
}

func (t *Tree[K, V]) insertFixup(x *node[V]) {
	for x != t.root && x.parent.color == RED {
		// Parent is red, hence not the root, hence grandparent exists.
		gp := x.parent.parent
		//
		if x.parent == gp.left {
			uncle := gp.right
			//
			if colorOf(uncle) == RED {
				x.parent.color = BLACK
				uncle.color = BLACK
				gp.color = RED
				x = gp
			} else {
				if x == x.parent.right {
					x = x.parent
					t.rotateLeft(x)
				}
				//
				x.parent.color = BLACK
				gp.color = RED
				t.rotateRight(gp)
			}
		} else {
			uncle := gp.left
			//
			if colorOf(uncle) == RED {
				x.parent.color = BLACK
				uncle.color = BLACK
				gp.color = RED
				x = gp
			} else {
				if x == x.parent.left {
					x = x.parent
					t.rotateRight(x)
				}
				//
				x.parent.color = BLACK
				gp.color = RED
				t.rotateLeft(gp)
			}
		}
	}
	//
	t.root.color = BLACK
}

// Unlink and release a node.  Rather than materialising a nil node, the
// (possibly nil) child x which takes the place of the spliced node is tracked
// together with its parent.
func (t *Tree[K, V]) erase(z *node[V]) {
	var (
		x, xParent *node[V]
		y          = z
		yColor     = y.color
	)
	// Maintain cached extremes
	if z == t.min {
		t.min = successor(z)
	}
	//
	if z == t.max {
		t.max = t.predecessor(z)
	}
	//
	switch {
	case z.left == nil:
		x, xParent = z.right, z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x, xParent = z.left, z.parent
		t.transplant(z, z.left)
	default:
		// Two children, so splice out the successor instead.
		y = minimum(z.right)
		yColor = y.color
		x = y.right
		//
		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		//
		t.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	//
	if yColor == BLACK {
		t.eraseFixup(x, xParent)
	}
	//
	t.release(z)
	t.size--
}

// Resolve the double-black deficiency at x, whose parent is xParent.
func (t *Tree[K, V]) eraseFixup(x *node[V], xParent *node[V]) {
	for x != t.root && colorOf(x) == BLACK {
		if x == xParent.left {
			w := xParent.right
			//
			if w.color == RED {
				w.color = BLACK
				xParent.color = RED
				t.rotateLeft(xParent)
				w = xParent.right
			}
			//
			if colorOf(w.left) == BLACK && colorOf(w.right) == BLACK {
				w.color = RED
				x, xParent = xParent, xParent.parent
			} else {
				if colorOf(w.right) == BLACK {
					w.left.color = BLACK
					w.color = RED
					t.rotateRight(w)
					w = xParent.right
				}
				//
				w.color = xParent.color
				xParent.color = BLACK
				w.right.color = BLACK
				t.rotateLeft(xParent)
				x, xParent = t.root, nil
			}
		} else {
			w := xParent.left
			//
			if w.color == RED {
				w.color = BLACK
				xParent.color = RED
				t.rotateRight(xParent)
				w = xParent.left
			}
			//
			if colorOf(w.left) == BLACK && colorOf(w.right) == BLACK {
				w.color = RED
				x, xParent = xParent, xParent.parent
			} else {
				if colorOf(w.left) == BLACK {
					w.right.color = BLACK
					w.color = RED
					t.rotateLeft(w)
					w = xParent.left
				}
				//
				w.color = xParent.color
				xParent.color = BLACK
				w.left.color = BLACK
				t.rotateRight(xParent)
				x, xParent = t.root, nil
			}
		}
	}
	//
	if x != nil {
		x.color = BLACK
	}
}

func (t *Tree[K, V]) rotateLeft(x *node[V]) {
	y := x.right
	x.right = y.left
	//
	if y.left != nil {
		y.left.parent = x
	}
	//
	t.transplant(x, y)
	y.left = x
	x.parent = y
}

func (t *Tree[K, V]) rotateRight(x *node[V]) {
	y := x.left
	x.left = y.right
	//
	if y.right != nil {
		y.right.parent = x
	}
	//
	t.transplant(x, y)
	y.right = x
	x.parent = y
}

// Replace the subtree rooted at u with that rooted at v (which may be nil) in
// the eyes of u's parent.  When u is the root, the root itself is updated.
func (t *Tree[K, V]) transplant(u *node[V], v *node[V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	//
	if v != nil {
		v.parent = u.parent
	}
}

// Absent children are black.
func colorOf[V any](n *node[V]) bool {
	return n == nil || n.color
}
