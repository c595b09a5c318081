package tree

// Insertion rebalances through the 2-3 tree reading of the encoding:
// a black node with a red lesser child is a 3-node holding two keys, a
// black node without one is a 2-node. Each case below mirrors the
// 2-3 tree key-insertion step for one neighborhood shape, splitting a
// full node and promoting its middle key when needed.
//
// The frontier node handed to the dispatcher is floating: black, with
// parent back-reference and side tag set, while the parent's child
// slot on that side has been vacated. Every case splices the frontier
// back in and returns the node the caller must re-examine one level
// up; the insert loop stops when that node is the root.
//
// <X> is a RED node.
// [X] is a BLACK node (or NIL).
//
// i1: Parent is a 2-node, frontier N on the lesser side. The parent
// absorbs N as its extra key; N is simply attached red.
//
//	  [P]            [P]
//	  /      ====>   /
//	 N             <N>
//
// i2: Parent is a 2-node, frontier N on the greater side. N takes the
// parent's structural position and the parent becomes N's red lesser
// child, so the absorbed key leans left.
//
//	 [P]             [N]
//	   \    ====>    /
//	    N          <P>
//
// i3: Parent is a 3-node, frontier N on the greater side. The split
// promotes the parent: its red lesser child is repainted black and
// the parent floats up as the next frontier.
//
//	   [P]            [P] ^
//	   / \   ====>    / \
//	 <L>  N         [L] [N]
//
// i4: Parent is the red extra key of a 3-node, frontier N on its
// lesser side. The three-key cluster is rebuilt as a triangle with the
// old parent M promoted (repainted black) as the next frontier; the
// old grandparent G inherits M's greater subtree.
//
//	     [G]              [M] ^
//	     /                / \
//	   <M>      ====>    N  [G]
//	   / \                  /
//	  N   (t)            (t)
//
// i5: Parent is the red extra key of a 3-node, frontier N on its
// greater side. N itself is the middle key: it is promoted and takes
// the old parent and grandparent as its children, both black.
//
//	   [G]                 [N] ^
//	   /                   / \
//	 <M>        ====>    [M] [G]
//	   \                   \  /
//	    N                 (nl)(nr)
func (tree *rbTree[K, V]) insertFixup(node *rbNode[K, V]) *rbNode[K, V] {
	target := node.parent
	if target == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert fixup on a detached frontier")
	}

	if target.isBlack() {
		if /* i1 */ node.side == Lesser {
			return tree.insertTwoLesser(node)
		}
		if left := target.left; left == nil || left.isBlack() {
			return tree.insertTwoGreater(node) // i2
		}
		return tree.insertThreeGreater(node) // i3
	}
	if /* i4 */ node.side == Lesser {
		return tree.insertThreeLesser(node)
	}
	return tree.insertThreeMiddle(node) // i5
}

// i1: the parent was a plain 2-node and gains node as its red extra
// key. Nothing above changes, the pass ends at the root.
func (tree *rbTree[K, V]) insertTwoLesser(node *rbNode[K, V]) *rbNode[K, V] {
	if node == nil || node.isRed() || node.side != Lesser {
		panic( /* debug assertion */ "[rbtree] insert violate (i1) frontier shape")
	}
	right := node.parent
	if right.left != nil || right.isRed() {
		panic( /* debug assertion */ "[rbtree] insert violate (i1) parent shape")
	}

	right.left = node
	node.side = Lesser
	node.color = Red
	return tree.root
}

// i2: node replaces its former parent structurally; the parent drops
// to the red lesser slot, keeping the 3-node leaning left.
func (tree *rbTree[K, V]) insertTwoGreater(node *rbNode[K, V]) *rbNode[K, V] {
	if node == nil || node.isRed() || node.side != Greater {
		panic( /* debug assertion */ "[rbtree] insert violate (i2) frontier shape")
	}
	left := node.parent
	if left.right != nil || left.isRed() {
		panic( /* debug assertion */ "[rbtree] insert violate (i2) parent shape")
	}

	setGreaterChild(left, node.left)

	parent := left.parent
	side := left.side
	if parent != nil {
		parent.setChildRaw(side, node)
	} else {
		tree.root = node
	}
	node.parent = parent
	node.side = side
	node.left = left
	left.parent = node
	left.side = Lesser
	left.color = Red
	return tree.root
}

// i3: the parent was already a 3-node; demote its red lesser child to
// a plain black 2-node and float the parent up as the next frontier.
func (tree *rbTree[K, V]) insertThreeGreater(node *rbNode[K, V]) *rbNode[K, V] {
	if node == nil || node.isRed() || node.side != Greater {
		panic( /* debug assertion */ "[rbtree] insert violate (i3) frontier shape")
	}
	middle := node.parent
	if middle.right != nil || middle.isRed() {
		panic( /* debug assertion */ "[rbtree] insert violate (i3) parent shape")
	}
	left := middle.left
	if left == nil || left.isBlack() {
		panic( /* debug assertion */ "[rbtree] insert violate (i3) missing extra key")
	}

	left.color = Black
	middle.right = node

	parent := middle.parent
	if parent != nil {
		parent.setChildRaw(middle.side, nil)
	} else {
		tree.root = middle
	}
	return middle
}

// i4: grandparent/parent/frontier collapse into a balanced triangle
// with the old parent promoted to the grandparent's slot.
func (tree *rbTree[K, V]) insertThreeLesser(node *rbNode[K, V]) *rbNode[K, V] {
	if node == nil || node.isRed() || node.side != Lesser {
		panic( /* debug assertion */ "[rbtree] insert violate (i4) frontier shape")
	}
	middle := node.parent
	if middle.left != nil || middle.isBlack() || middle.side != Lesser {
		panic( /* debug assertion */ "[rbtree] insert violate (i4) parent shape")
	}
	right := middle.parent
	if right == nil || right.isRed() {
		panic( /* debug assertion */ "[rbtree] insert violate (i4) grandparent shape")
	}

	parent := right.parent
	side := right.side
	if parent != nil {
		parent.setChildRaw(side, nil)
	} else {
		tree.root = middle
	}
	middle.parent = parent
	middle.side = side

	child := middle.right
	if child != nil {
		child.parent = right
		child.side = Lesser
	}
	right.left = child
	right.parent = middle
	right.side = Greater
	middle.right = right
	middle.left = node
	middle.color = Black
	return middle
}

// i5: the frontier itself is the middle key; it is promoted, taking
// the old parent and grandparent as its black children and handing
// its own subtrees over to them.
func (tree *rbTree[K, V]) insertThreeMiddle(node *rbNode[K, V]) *rbNode[K, V] {
	if node == nil || node.isRed() || node.side != Greater {
		panic( /* debug assertion */ "[rbtree] insert violate (i5) frontier shape")
	}
	left := node.parent
	if left.right != nil || left.isBlack() || left.side != Lesser {
		panic( /* debug assertion */ "[rbtree] insert violate (i5) parent shape")
	}
	right := left.parent
	if right == nil || right.isRed() {
		panic( /* debug assertion */ "[rbtree] insert violate (i5) grandparent shape")
	}

	parent := right.parent
	side := right.side
	if parent != nil {
		parent.setChildRaw(side, nil)
	} else {
		tree.root = node
	}
	node.parent = parent
	node.side = side

	child := node.left
	if child != nil {
		child.parent = left
		child.side = Greater
	}
	left.right = child

	child = node.right
	if child != nil {
		child.parent = right
		child.side = Lesser
	}
	right.left = child

	node.left = left
	node.right = right
	left.parent = node
	right.parent = node
	left.side = Lesser
	right.side = Greater
	left.color = Black
	return node
}
