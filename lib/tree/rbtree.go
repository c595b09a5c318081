package tree

import (
	"sync/atomic"

	"github.com/PeddleSpam/redblacktree/lib/infra"
)

// rbNode is an intrusive pointer-graph node: it owns its children and
// holds a non-owning back-reference to its parent. The side tag is
// read by the rebalance cases before parent/child links are fully
// updated, so it is stored rather than derived from the parent's
// child pointers.
type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
	side   RBSide
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Side() RBSide {
	return node.side
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K, V]) Prev() RBNode[K, V] {
	if node == nil {
		return nil
	}
	return node.pred()
}

func (node *rbNode[K, V]) Next() RBNode[K, V] {
	if node == nil {
		return nil
	}
	return node.succ()
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted
// order. The ascent is driven by the side tag alone. When no smaller
// node exists the receiver itself is returned.
func (node *rbNode[K, V]) pred() *rbNode[K, V] {
	if node.left != nil {
		return node.left.maximum()
	}
	for aux := node; aux.parent != nil; aux = aux.parent {
		if aux.side == Greater {
			return aux.parent
		}
	}
	return node
}

// The succ node of the current node is its next node in sorted order.
// Wraps to the receiver once past the maximum.
func (node *rbNode[K, V]) succ() *rbNode[K, V] {
	if node.right != nil {
		return node.right.minimum()
	}
	for aux := node; aux.parent != nil; aux = aux.parent {
		if aux.side == Lesser {
			return aux.parent
		}
	}
	return node
}

// Leftmost node of the greater subtree, nil when there is none.
func (node *rbNode[K, V]) nextLargestChild() *rbNode[K, V] {
	next := node.right
	if next == nil {
		return nil
	}
	for next.left != nil {
		next = next.left
	}
	return next
}

// First ancestor reached through a lesser side, nil when node holds
// the maximum key of its subtree chain.
func nextLargestParent[K infra.OrderedKey, V any](node *rbNode[K, V]) *rbNode[K, V] {
	next := node.parent
	for next != nil {
		if node.side == Lesser {
			return next
		}
		node = next
		next = node.parent
	}
	return nil
}

// setChildRaw updates only the parent's child slot. The child's
// back-reference and side tag are left to the caller.
func (node *rbNode[K, V]) setChildRaw(side RBSide, child *rbNode[K, V]) {
	if side == Lesser {
		node.left = child
	} else {
		node.right = child
	}
}

// setChildAt links child under parent on the given side, fixing the
// child's back-reference and side tag. child may be nil.
func setChildAt[K infra.OrderedKey, V any](parent, child *rbNode[K, V], side RBSide) {
	if child != nil {
		child.parent = parent
		child.side = side
	}
	parent.setChildRaw(side, child)
}

func setLesserChild[K infra.OrderedKey, V any](parent, child *rbNode[K, V]) {
	if child != nil {
		child.parent = parent
		child.side = Lesser
	}
	parent.left = child
}

func setGreaterChild[K infra.OrderedKey, V any](parent, child *rbNode[K, V]) {
	if child != nil {
		child.parent = parent
		child.side = Greater
	}
	parent.right = child
}

// detach clears the structural links so a destroyed node cannot pin
// its old neighborhood.
func (node *rbNode[K, V]) detach() {
	node.parent = nil
	node.left = nil
	node.right = nil
}

type rbTree[K infra.OrderedKey, V any] struct {
	root   *rbNode[K, V]
	count  int64
	isDesc bool
	lessFn infra.OrderedKeyLess[K]
}

func (tree *rbTree[K, V]) keyLess(k1, k2 K) bool {
	if tree.isDesc {
		k1, k2 = k2, k1
	}
	if tree.lessFn != nil {
		return tree.lessFn(k1, k2)
	}
	return k1 < k2
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) Min() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.minimum()
}

func (tree *rbTree[K, V]) Max() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root.maximum()
}

func (tree *rbTree[K, V]) findNode(key K) *rbNode[K, V] {
	aux := tree.root
	for aux != nil {
		if tree.keyLess(key, aux.key) {
			aux = aux.left
		} else if tree.keyLess(aux.key, key) {
			aux = aux.right
		} else {
			return aux
		}
	}
	return nil
}

func (tree *rbTree[K, V]) Find(key K) RBNode[K, V] {
	if z := tree.findNode(key); z != nil {
		return z
	}
	return nil
}

// locate finds the attachment point for key: the last node visited and
// the side the new node would hang on. found is true on an equal key.
func (tree *rbTree[K, V]) locate(key K) (nearest *rbNode[K, V], side RBSide, found bool) {
	aux := tree.root
	side = Lesser
	for aux != nil {
		nearest = aux
		if tree.keyLess(key, aux.key) {
			aux = aux.left
			side = Lesser
		} else if tree.keyLess(aux.key, key) {
			aux = aux.right
			side = Greater
		} else {
			return nearest, Lesser, true
		}
	}
	return nearest, side, false
}

// Insert adds key to the tree. On a duplicate key the existing node is
// returned with false and the stored value is left untouched.
//
// A new node starts black with its parent back-reference and side tag
// set but the parent's child slot still empty; each fixup case splices
// this floating frontier into a rebalanced neighborhood and returns
// the node to re-examine one level up, until the frontier is the root.
func (tree *rbTree[K, V]) Insert(key K, val V) (RBNode[K, V], bool) {
	if tree.root == nil {
		tree.root = &rbNode[K, V]{key: key, val: val}
		atomic.AddInt64(&tree.count, 1)
		return tree.root, true
	}

	nearest, side, found := tree.locate(key)
	if found {
		return nearest, false
	}

	z := &rbNode[K, V]{key: key, val: val, parent: nearest, side: side}
	atomic.AddInt64(&tree.count, 1)

	for frontier := z; frontier != tree.root; {
		frontier = tree.insertFixup(frontier)
	}
	return z, true
}

func (tree *rbTree[K, V]) Remove(key K) bool {
	_, ok := tree.RemoveNext(key)
	return ok
}

// RemoveNext removes key and reports the in-order successor of the
// removed key (nil when the maximum was removed).
func (tree *rbTree[K, V]) RemoveNext(key K) (RBNode[K, V], bool) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, false
	}
	z := tree.findNode(key)
	if z == nil {
		return nil, false
	}
	next := tree.removeNode(z)
	if next == nil {
		return nil, true
	}
	return next, true
}

// RemoveNode removes the key held by node. The node must be a live
// node of this tree; a nil or foreign handle is a contract violation.
func (tree *rbTree[K, V]) RemoveNode(node RBNode[K, V]) bool {
	if node == nil {
		panic( /* debug assertion */ "[rbtree] remove a nil node")
	}
	z, ok := node.(*rbNode[K, V])
	if !ok || z == nil {
		panic( /* debug assertion */ "[rbtree] remove a foreign node")
	}
	tree.removeNode(z)
	return true
}

// RemoveMin removes the smallest key and returns a detached snapshot
// of it.
func (tree *rbTree[K, V]) RemoveMin() (RBNode[K, V], bool) {
	if atomic.LoadInt64(&tree.count) <= 0 {
		return nil, false
	}
	m := tree.root.minimum()
	if m == nil {
		return nil, false
	}
	snapshot := &rbNode[K, V]{key: m.key, val: m.val}
	tree.removeNode(m)
	return snapshot, true
}

// removeNode deletes the tree position finally left vacant by removing
// z's key and returns the in-order successor of that key.
//
// The node object destroyed is not always z: when z has two children
// its structure (children, parent, color, side) is swapped with its
// in-order successor so the object holding the removed key ends up in
// a leaf position. Callers must never cache node identity across a
// removal.
func (tree *rbTree[K, V]) removeNode(z *rbNode[K, V]) (next *rbNode[K, V]) {
	atomic.AddInt64(&tree.count, -1)

	next = z.nextLargestChild()
	swapped := next != nil
	if swapped {
		// z is not a leaf participant, relocate its position. The
		// successor object survives the removal holding z's old
		// position, so it already is the caller's next node.
		tree.swap(z, next)
		if z == tree.root {
			tree.root = next
		}
	}

	// z now has at most a lesser child.
	parent, left := z.parent, z.left
	if parent != nil {
		if !swapped {
			if z.side == Lesser {
				next = parent
			} else {
				next = nextLargestParent(parent)
			}
		}

		if z.isBlack() {
			if left != nil && left.isRed() {
				// z is the black participant of a leaf 3-node, its red
				// lesser child takes its place.
				if left.left != nil {
					panic( /* debug assertion */ "[rbtree] leaf 3-node with a grandchild")
				}
				setChildAt(parent, left, z.side)
				left.color = Black
				z.detach()
			} else {
				// z is a leaf 2-node; removing it under-populates the
				// parent, walk the deficiency up to the root.
				if z == tree.root {
					panic( /* debug assertion */ "[rbtree] 2-node leaf removal at the root")
				}
				for frontier := z; frontier != tree.root; {
					frontier = tree.removeFixup(frontier)
				}
			}
		} else {
			// z is the red extra key of a leaf 3-node.
			if left != nil {
				panic( /* debug assertion */ "[rbtree] red leaf with a child")
			}
			parent.left = nil
			z.detach()
		}
	} else {
		// z is both root and leaf.
		if z.isRed() {
			panic( /* debug assertion */ "[rbtree] red root")
		}
		if left != nil && left.isRed() {
			if atomic.LoadInt64(&tree.count) != 1 {
				panic( /* debug assertion */ "[rbtree] root 3-node with extra elements")
			}
			left.parent = nil
			left.color = Black
		}
		tree.root = left
		z.detach()
	}
	return next
}

// swap exchanges the tree positions of first and second: children,
// parent links, color and side tags all move, keys and values stay
// put. second must be in first's greater subtree. The statement order
// matters when the two nodes are adjacent; a stale self-link produced
// halfway through is overwritten before the swap completes.
func (tree *rbTree[K, V]) swap(first, second *rbNode[K, V]) {
	node1, node2 := first.left, second.left
	if node1 != nil {
		node1.parent = second
	}
	if node2 != nil {
		node2.parent = first
	}
	first.left, second.left = node2, node1

	node1, node2 = first.right, second.right
	if node1 != nil {
		node1.parent = second
	}
	if node2 != nil {
		node2.parent = first
	}
	first.right, second.right = node2, node1

	node1, node2 = first.parent, second.parent
	if node1 != nil {
		node1.setChildRaw(first.side, second)
	}
	if node2 != nil {
		node2.setChildRaw(second.side, first)
	}
	first.parent, second.parent = node2, node1

	first.color, second.color = second.color, first.color
	first.side, second.side = second.side, first.side
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

func (tree *rbTree[K, V]) Release() {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	tree.root = nil
	if size < 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		r := aux.right
		aux.right, aux.parent = nil, nil
		atomic.AddInt64(&tree.count, -1)
		stack = stack[:size-1]
		if r != nil {
			for aux = r; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isDesc = true
	}
}

// WithRBTreeLessFunc replaces the default "<" order with a caller
// supplied strict weak order.
func WithRBTreeLessFunc[K infra.OrderedKey, V any](less infra.OrderedKeyLess[K]) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.lessFn = less
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := &rbTree[K, V]{
		count: 0,
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}

// NewRBTreeFromKeys builds a tree by repeated insertion of keys with
// zero values. Duplicates in keys collapse to one element.
func NewRBTreeFromKeys[K infra.OrderedKey, V any](keys []K, opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := NewRBTree[K, V](opts...)
	var zero V
	for _, key := range keys {
		tree.Insert(key, zero)
	}
	return tree
}
