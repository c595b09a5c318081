package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/PeddleSpam/redblacktree/lib/infra"
)

var (
	ErrRootViolation     = errors.New("rbtree root violation")
	ErrOrderViolation    = errors.New("rbtree order violation")
	ErrRedViolation      = errors.New("rbtree red violation")
	ErrTwoThreeViolation = errors.New("rbtree 2-3 shape violation")
	ErrBlackViolation    = errors.New("rbtree black violation")
)

func isBlack[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

func isRoot[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo[K infra.OrderedKey, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// Validate walks the whole tree in sorted order through the successor
// chain and checks every structural invariant at every node: the root
// is black, the key order matches each node's side tag, red nodes are
// lesser children of black parents, and every local neighborhood is a
// well formed 2-node or 3-node. The first violation found is returned
// with its capture frame; nil means the tree is intact.
//
// Meant for tests after mutating sequences, not for production hot
// paths.
func (tree *rbTree[K, V]) Validate() error {
	node := tree.root
	if node == nil {
		return nil
	}
	if node.isRed() {
		return infra.WrapStackErr(ErrRootViolation)
	}

	// Descend to the minimum; pred wraps to self there.
	for next := node.pred(); node != next; next = node.pred() {
		node = next
	}

	for next := node.succ(); ; next = node.succ() {
		parent, left, right := node.parent, node.left, node.right

		if parent != nil {
			if node.side == Lesser {
				if !tree.keyLess(node.key, parent.key) {
					return infra.WrapStackErr(fmt.Errorf("%w (key=%v marked lesser)", ErrOrderViolation, node.key))
				}
			} else if tree.keyLess(node.key, parent.key) {
				return infra.WrapStackErr(fmt.Errorf("%w (key=%v marked greater)", ErrOrderViolation, node.key))
			}
		}

		if node.isRed() {
			if parent == nil || parent.isRed() || node.side != Lesser {
				return infra.WrapStackErr(fmt.Errorf("%w (key=%v)", ErrRedViolation, node.key))
			}
		}

		if left != nil {
			if left.isRed() {
				// An internal 3-node's extra key must be fully formed;
				// only a leaf-level 3-node may hang a bare red child.
				if right != nil && (left.left == nil || left.right == nil) {
					return infra.WrapStackErr(fmt.Errorf("%w (key=%v half-formed extra key)", ErrTwoThreeViolation, node.key))
				}
			} else if right == nil {
				return infra.WrapStackErr(fmt.Errorf("%w (key=%v black lesser child without greater)", ErrTwoThreeViolation, node.key))
			}
		}
		if right != nil && left == nil {
			return infra.WrapStackErr(fmt.Errorf("%w (key=%v greater child without lesser)", ErrTwoThreeViolation, node.key))
		}

		if node == next {
			return nil
		}
		node = next
	}
}

// rbtree rule validation utilities.

// Inorder traversal to validate the red rules of the left-leaning
// encoding: a red node hangs on the lesser side of a black parent and
// has no red child.
func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRed[K, V](aux) {
			if isRoot[K, V](aux) || isRed[K, V](aux.Parent()) ||
				aux.Side() != Lesser ||
				isRed[K, V](aux.Left()) || isRed[K, V](aux.Right()) {
				return ErrRedViolation
			}
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// Inorder traversal to validate the 2-3 node shapes: the root is
// black, no node has a greater child without a lesser one, a black
// lesser child implies a greater child, and an internal 3-node's
// extra key owns both of its children.
func TwoThreeViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var aux RBNode[K, V] = tree.Root()
	if aux == nil {
		return nil
	}
	if isRed[K, V](aux) {
		return ErrRootViolation
	}

	stack := make([]RBNode[K, V], 0, tree.Len()>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := int64(len(stack)); size > 0; size = int64(len(stack)) {
		aux = stack[size-1]
		l, r := aux.Left(), aux.Right()
		if l != nil {
			if isRed[K, V](l) {
				if r != nil && (l.Left() == nil || l.Right() == nil) {
					return ErrTwoThreeViolation
				}
			} else if r == nil {
				return ErrTwoThreeViolation
			}
		}
		if r != nil && l == nil {
			return ErrTwoThreeViolation
		}

		stack = stack[:size-1]
		if aux.Right() != nil {
			for aux = aux.Right(); aux != nil; aux = aux.Left() {
				stack = append(stack, aux)
			}
		}
	}
	return nil
}

// BFS traversal to load all leaves.
func bfsLeaves[K infra.OrderedKey, V any](tree RBTree[K, V]) []RBNode[K, V] {
	size := tree.Len()
	var aux RBNode[K, V] = tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	leaves := make([]RBNode[K, V], 0, size>>1+1)
	stack := make([]RBNode[K, V], 0, size>>1)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for len(stack) > 0 {
		aux = stack[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			stack = append(stack, l)
		}
		if r != nil {
			stack = append(stack, r)
		}
		stack = stack[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	leaves := bfsLeaves[K, V](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K, V](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if blackDepthTo[K, V](leaves[i], tree.Root()) != blackDepth {
			return ErrBlackViolation
		}
	}
	return nil
}

// StructuralValidate bundles every rule validator into one audit; the
// returned error aggregates each violated rule.
func StructuralValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	return multierr.Combine(
		RedViolationValidate[K, V](tree),
		TwoThreeViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
	)
}
