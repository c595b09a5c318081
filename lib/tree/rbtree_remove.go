package tree

// Deletion rebalances by the same 2-3 tree reading as insertion.
// Removing a 2-node leaf leaves a vacancy that under-populates its
// parent; the dispatcher classifies the parent of the vacated
// position as a 2-node (black) or as part of a 3-node (red, with the
// vacancy at its left, middle or right position) and then picks one
// of two strategies by the shape of the nearest sibling:
//
//   - borrow: the sibling is a 3-node, one rotation/recolor moves a
//     key over and the deficiency dies locally;
//   - merge: the sibling is a 2-node, parent and sibling fuse into
//     one node and the deficiency moves up one level.
//
// The node handed to the dispatcher is a floating carrier for the
// vacancy: parent back-reference and side tag address the vacated
// slot while its lesser child carries the subtree that must fill it
// (nil at the leaf level). The parent's slot itself may still hold a
// stale pointer; every case overwrites it. Merge cases re-link the
// carrier one level up and return it as the next frontier; all other
// cases consume the carrier and return the root, ending the loop.
//
// <X> is a RED node.
// [X] is a BLACK node (or NIL).
// N marks the carrier, (t) its carried subtree.
func (tree *rbTree[K, V]) removeFixup(node *rbNode[K, V]) *rbNode[K, V] {
	parent := node.parent
	if parent == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] remove fixup on a detached carrier")
	}

	if parent.isBlack() {
		if node.side == Lesser {
			return tree.removeTwoLesser(node)
		}
		if left := parent.left; left != nil && left.isRed() {
			return tree.removeThreeGreater(node)
		}
		return tree.removeTwoGreater(node)
	}
	if node.side == Lesser {
		return tree.removeThreeLesser(node)
	}
	return tree.removeThreeMiddle(node)
}

// Vacancy on the lesser side of a 2-node parent. The strategy hangs
// on the right sibling's shape.
func (tree *rbTree[K, V]) removeTwoLesser(node *rbNode[K, V]) *rbNode[K, V] {
	sibling := node.parent.right
	if sibling == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser) missing sibling")
	}

	if nephew := sibling.left; nephew != nil && nephew.isRed() {
		// Sibling is a 3-node.
		return tree.removeTwoLesserBorrow(node)
	}
	// Sibling is a 2-node.
	return tree.removeTwoLesserMerge(node)
}

// merge:
//
//	   [A]              [B]
//	   / \       N       /
//	  N  [B]  ====>    <A>
//	 /   /             / \
//	(t) (s)          (t) (s)
//
// The fused node hangs under the carrier, which floats up one level.
func (tree *rbTree[K, V]) removeTwoLesserMerge(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser merge) parent shape")
	}
	b := a.right
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser merge) sibling shape")
	}

	x := a.parent
	xSide := a.side
	setLesserChild(a, node.left)
	setGreaterChild(a, b.left)
	setLesserChild(b, a)
	a.color = Red

	if x != nil {
		node.left = b
		node.parent = x
		node.side = xSide
		return node
	}
	b.parent = nil
	tree.root = b
	node.detach()
	return tree.root
}

// borrow:
//
//	   [A]                [B]
//	   / \                / \
//	  N  [C]   ====>    [A] [C]
//	 /   /              / \   \
//	(t) <B>           (t)(bl) (br)...
//
// The red middle key of the sibling 3-node is promoted black; done.
func (tree *rbTree[K, V]) removeTwoLesserBorrow(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser borrow) parent shape")
	}
	c := a.right
	if c == nil || c.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser borrow) sibling shape")
	}
	b := c.left
	if b == nil || b.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-lesser borrow) missing extra key")
	}

	x := a.parent
	xSide := a.side
	setLesserChild(a, node.left)
	setGreaterChild(a, b.left)
	setLesserChild(c, b.right)
	setLesserChild(b, a)
	setGreaterChild(b, c)
	b.color = Black

	if x != nil {
		setChildAt(x, b, xSide)
	} else {
		b.parent = nil
		tree.root = b
	}
	node.detach()
	return tree.root
}

// Vacancy on the greater side of a 2-node parent.
func (tree *rbTree[K, V]) removeTwoGreater(node *rbNode[K, V]) *rbNode[K, V] {
	sibling := node.parent.left
	if sibling == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater) missing sibling")
	}

	if nephew := sibling.left; nephew != nil && nephew.isRed() {
		// Sibling is a 3-node.
		return tree.removeTwoGreaterBorrow(node)
	}
	// Sibling is a 2-node.
	return tree.removeTwoGreaterMerge(node)
}

// merge: the sibling is repainted red so parent and sibling read as
// one fused node; the carrier floats up with the parent below it.
//
//	   [A]              [A]
//	   / \       N      / \
//	 [B]  N   ====>   <B> (t)
//	       \
//	       (t)
func (tree *rbTree[K, V]) removeTwoGreaterMerge(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater merge) parent shape")
	}
	b := a.left
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater merge) sibling shape")
	}

	x := a.parent
	xSide := a.side
	setGreaterChild(a, node.left)
	b.color = Red

	if x != nil {
		node.left = a
		node.parent = x
		node.side = xSide
		return node
	}
	a.parent = nil
	tree.root = a
	node.detach()
	return tree.root
}

// borrow: the extra key of the lesser-side 3-node rotates across the
// parent into the vacancy.
//
//	     [A]              [C]
//	     / \              / \
//	   [C]  N   ====>   [B] [A]
//	   / \   \              / \
//	 <B> (cr)(t)         (cr) (t)
func (tree *rbTree[K, V]) removeTwoGreaterBorrow(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater borrow) parent shape")
	}
	c := a.left
	if c == nil || c.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater borrow) sibling shape")
	}
	b := c.left
	if b == nil || b.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (2-greater borrow) missing extra key")
	}

	x := a.parent
	xSide := a.side
	setGreaterChild(a, node.left)
	setLesserChild(a, c.right)
	setGreaterChild(c, a)
	b.color = Black

	if x != nil {
		setChildAt(x, c, xSide)
	} else {
		c.parent = nil
		tree.root = c
	}
	node.detach()
	return tree.root
}

// Vacancy at the left position of a 3-node (the carrier hangs under
// the red extra key). A 3-node always has enough keys to absorb the
// deficiency, so none of these cases propagate.
func (tree *rbTree[K, V]) removeThreeLesser(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser) parent shape")
	}
	d := a.right
	if d == nil || d.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser) middle shape")
	}

	if c := d.left; c != nil && c.isRed() {
		// Middle is a 3-node.
		return tree.removeThreeLesserBorrow(node)
	}
	// Middle is a 2-node.
	return tree.removeThreeLesserMerge(node)
}

// merge: the red extra key A fuses with the middle sibling C under
// the 3-node's black anchor B.
//
//	      [B]            [B]
//	      /              /
//	    <A>    ====>   [C]
//	    / \            /
//	   N  [C]        <A>
//	  /   /          / \
//	(t) (cl)       (t) (cl)
func (tree *rbTree[K, V]) removeThreeLesserMerge(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	b := a.parent
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser merge) anchor shape")
	}
	c := a.right
	if c == nil || c.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser merge) sibling shape")
	}

	setLesserChild(a, node.left)
	setGreaterChild(a, c.left)
	setLesserChild(c, a)
	setLesserChild(b, c)

	node.detach()
	return tree.root
}

// borrow: the middle sibling is a 3-node; its extra key C is promoted
// to carry both neighbors.
//
//	      [B]              [B]
//	      /                /
//	    <A>      ====>   <C>
//	    / \              / \
//	   N  [D]         [A]  [D]
//	  /   /           / \    \
//	(t) <C>         (t)(cl) (cr)...
func (tree *rbTree[K, V]) removeThreeLesserBorrow(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	b := a.parent
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser borrow) anchor shape")
	}
	d := a.right
	c := d.left
	if c == nil || c.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-lesser borrow) missing extra key")
	}

	setLesserChild(a, node.left)
	setGreaterChild(a, c.left)
	setLesserChild(d, c.right)
	setLesserChild(c, a)
	setGreaterChild(c, d)
	setLesserChild(b, c)
	a.color = Black

	node.detach()
	return tree.root
}

// Vacancy at the middle position of a 3-node (carrier on the greater
// side of the red extra key).
func (tree *rbTree[K, V]) removeThreeMiddle(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if a == nil || a.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle) parent shape")
	}
	d := a.left
	if d == nil || d.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle) sibling shape")
	}

	if c := d.left; c != nil && c.isRed() {
		// Left sibling is a 3-node.
		return tree.removeThreeMiddleBorrow(node)
	}
	// Left sibling is a 2-node.
	return tree.removeThreeMiddleMerge(node)
}

// merge: the extra key A is demoted to a plain 2-node member and the
// left sibling C is pulled up as the new extra key.
//
//	    <A>            [A]
//	    / \    ====>   / \
//	  [C]  N         <C> (t)
//	        \
//	        (t)
func (tree *rbTree[K, V]) removeThreeMiddleMerge(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	if b := a.parent; b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle merge) anchor shape")
	}
	c := a.left
	if c == nil || c.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle merge) sibling shape")
	}

	setGreaterChild(a, node.left)
	a.color = Black
	c.color = Red

	node.detach()
	return tree.root
}

// borrow: the left sibling's extra key rotates through D into the
// vacated middle position.
//
//	      [B]               [B]
//	      /                 /
//	    <A>       ====>   <D>
//	    / \               / \
//	  [D]  N           [C]  [A]
//	  / \   \               / \
//	<C> (dr)(t)          (dr) (t)
func (tree *rbTree[K, V]) removeThreeMiddleBorrow(node *rbNode[K, V]) *rbNode[K, V] {
	a := node.parent
	b := a.parent
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle borrow) anchor shape")
	}
	d := a.left
	c := d.left
	if c == nil || c.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-middle borrow) missing extra key")
	}

	setLesserChild(a, d.right)
	setGreaterChild(a, node.left)
	setGreaterChild(d, a)
	setLesserChild(b, d)
	a.color = Black
	c.color = Black
	d.color = Red

	node.detach()
	return tree.root
}

// Vacancy at the right position of a 3-node: the parent B is the
// black anchor and its red lesser child A is the extra key. The far
// sibling is A's greater subtree.
func (tree *rbTree[K, V]) removeThreeGreater(node *rbNode[K, V]) *rbNode[K, V] {
	b := node.parent
	if b == nil || b.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater) anchor shape")
	}
	a := b.left
	if a == nil || a.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater) missing extra key")
	}
	f := a.right
	if f == nil || f.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater) middle shape")
	}

	if e := f.left; e != nil && e.isRed() {
		// Middle sibling is a 3-node.
		return tree.removeThreeGreaterBorrow(node)
	}
	// Middle sibling is a 2-node.
	return tree.removeThreeGreaterMerge(node)
}

// merge: the extra key A is promoted to the anchor position and B
// fuses with the middle sibling C below it.
//
//	      [B]              [A]
//	      / \              / \
//	    <A>  N   ====>  (al) [B]
//	    / \   \              / \
//	 (al) [C] (t)          <C> (t)
func (tree *rbTree[K, V]) removeThreeGreaterMerge(node *rbNode[K, V]) *rbNode[K, V] {
	b := node.parent
	a := b.left
	c := a.right
	if c == nil || c.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater merge) sibling shape")
	}
	if c.left != nil && c.left.isRed() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater merge) sibling not a 2-node")
	}

	x := b.parent
	xSide := b.side
	setLesserChild(b, c)
	setGreaterChild(b, node.left)
	setGreaterChild(a, b)
	a.color = Black
	c.color = Red

	if x != nil {
		setChildAt(x, a, xSide)
	} else {
		a.parent = nil
		tree.root = a
	}
	node.detach()
	return tree.root
}

// borrow: the middle sibling's extra key D is promoted to the anchor
// position, splitting the cluster evenly.
//
//	      [B]                  [D]
//	      / \                  / \
//	    <A>  N    ====>     <A>   [B]
//	    / \   \             / \   / \
//	 (al) [D] (t)        (al)[C](dr)(t)
//	      / \
//	    <C> (dr)
func (tree *rbTree[K, V]) removeThreeGreaterBorrow(node *rbNode[K, V]) *rbNode[K, V] {
	b := node.parent
	a := b.left
	d := a.right
	c := d.left
	if c == nil || c.isBlack() {
		panic( /* debug assertion */ "[rbtree] remove violate (3-greater borrow) missing extra key")
	}

	x := b.parent
	xSide := b.side
	setLesserChild(b, d.right)
	setGreaterChild(b, node.left)
	setGreaterChild(a, c)
	setLesserChild(d, a)
	setGreaterChild(d, b)
	c.color = Black

	if x != nil {
		setChildAt(x, d, xSide)
	} else {
		d.parent = nil
		tree.root = d
	}
	node.detach()
	return tree.root
}
