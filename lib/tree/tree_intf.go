package tree

import "github.com/PeddleSpam/redblacktree/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

// RBSide records on the node itself whether it is its parent's lesser
// or greater child. It is stored explicitly instead of being derived
// from a pointer comparison because the rebalance cases read it while
// parent and child links are only partially updated.
//
//go:generate stringer -type=RBSide
type RBSide uint8

const (
	Lesser RBSide = iota
	Greater
)

type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Side() RBSide
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
	// Prev and Next walk in sorted order without auxiliary state and
	// return the receiver itself once the ends of the tree are passed.
	Prev() RBNode[K, V]
	Next() RBNode[K, V]
}

// RBTree is balanced through its isomorphism to a 2-3 tree: a black
// node with a red lesser child forms a 3-node holding two keys, a
// black node without one is a plain 2-node. Red nodes only ever occur
// as lesser children, so the encoding leans left.
//
// A removal may destroy a different node object than the one that
// matched the removed key (two-child removals swap tree positions, not
// keys), so node handles must be re-resolved by key after any Remove.
type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V) (RBNode[K, V], bool)
	Find(key K) RBNode[K, V]
	Remove(key K) bool
	// RemoveNext removes key and reports the in-order successor of the
	// removed key, for range-iteration callers.
	RemoveNext(key K) (RBNode[K, V], bool)
	RemoveNode(node RBNode[K, V]) bool
	RemoveMin() (RBNode[K, V], bool)
	Min() RBNode[K, V]
	Max() RBNode[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Validate() error
	Release()
}
