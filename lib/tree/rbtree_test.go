package tree

import (
	"math"
	randv2 "math/rand"
	"sort"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/PeddleSpam/redblacktree/lib/id"
)

type checkData struct {
	color RBColor
	key   uint64
}

func requireInorder(t *testing.T, tree RBTree[uint64, uint64], expected []checkData) {
	t.Helper()
	count := int64(0)
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].key, key)
		count++
		return true
	})
	require.Equal(t, int64(len(expected)), count)
	require.Equal(t, int64(len(expected)), tree.Len())
	require.NoError(t, tree.Validate())
	require.NoError(t, StructuralValidate[uint64, uint64](tree))
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64, uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64, uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)
}

func TestRBTreeInsert_Ascending(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()

	tree.Insert(1, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1},
	})

	// 2-node root absorbs the new greater key and leans it left.
	tree.Insert(2, 1)
	requireInorder(t, tree, []checkData{
		{Red, 1}, {Black, 2},
	})

	// The root 3-node splits, demoting the extra key.
	tree.Insert(3, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Black, 2}, {Black, 3},
	})

	tree.Insert(4, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Black, 2}, {Red, 3}, {Black, 4},
	})

	// Splitting {3,4,5} promotes 4 all the way to the root.
	tree.Insert(5, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Red, 2}, {Black, 3}, {Black, 4}, {Black, 5},
	})
	require.Equal(t, uint64(4), tree.Root().Key())

	tree.Insert(6, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Red, 2}, {Black, 3}, {Black, 4}, {Red, 5}, {Black, 6},
	})

	tree.Insert(7, 1)
	requireInorder(t, tree, []checkData{
		{Black, 1}, {Black, 2}, {Black, 3}, {Black, 4}, {Black, 5}, {Black, 6}, {Black, 7},
	})
}

func TestRBTreeRemove_Ascending(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for i := uint64(1); i <= 7; i++ {
		tree.Insert(i, i)
	}

	// Merges cascade to the root and hand it to 6.
	next, ok := tree.RemoveNext(1)
	require.True(t, ok)
	require.NotNil(t, next)
	require.Equal(t, uint64(2), next.Key())
	requireInorder(t, tree, []checkData{
		{Red, 2}, {Black, 3}, {Red, 4}, {Black, 5}, {Black, 6}, {Black, 7},
	})
	require.Equal(t, uint64(6), tree.Root().Key())

	// 2 is the red extra key of a leaf 3-node, detached locally.
	next, ok = tree.RemoveNext(2)
	require.True(t, ok)
	require.Equal(t, uint64(3), next.Key())
	requireInorder(t, tree, []checkData{
		{Black, 3}, {Red, 4}, {Black, 5}, {Black, 6}, {Black, 7},
	})

	next, ok = tree.RemoveNext(3)
	require.True(t, ok)
	require.Equal(t, uint64(4), next.Key())
	requireInorder(t, tree, []checkData{
		{Red, 4}, {Black, 5}, {Black, 6}, {Black, 7},
	})

	next, ok = tree.RemoveNext(4)
	require.True(t, ok)
	require.Equal(t, uint64(5), next.Key())
	requireInorder(t, tree, []checkData{
		{Black, 5}, {Black, 6}, {Black, 7},
	})

	next, ok = tree.RemoveNext(5)
	require.True(t, ok)
	require.Equal(t, uint64(6), next.Key())
	requireInorder(t, tree, []checkData{
		{Red, 6}, {Black, 7},
	})

	next, ok = tree.RemoveNext(6)
	require.True(t, ok)
	require.Equal(t, uint64(7), next.Key())
	requireInorder(t, tree, []checkData{
		{Black, 7},
	})

	// Removing the maximum has no successor to report.
	next, ok = tree.RemoveNext(7)
	require.True(t, ok)
	require.Nil(t, next)
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.NoError(t, tree.Validate())
}

func TestRBTreeTenTwentyThirty(t *testing.T) {
	tree := NewRBTree[uint64, string]()
	tree.Insert(10, "ten")
	tree.Insert(20, "twenty")
	tree.Insert(30, "thirty")

	require.NoError(t, tree.Validate())
	require.Equal(t, uint64(20), tree.Root().Key())
	require.Equal(t, uint64(20), tree.Find(30).Prev().Key())
	require.Equal(t, uint64(20), tree.Find(10).Next().Key())

	// Prev/Next wrap to the receiver at the extremes.
	min, max := tree.Min(), tree.Max()
	require.Equal(t, min.Key(), min.Prev().Key())
	require.Equal(t, max.Key(), max.Next().Key())

	// Two-child removal: the successor object survives in the removed
	// node's position and is reported as next.
	next, ok := tree.RemoveNext(20)
	require.True(t, ok)
	require.Equal(t, uint64(30), next.Key())
	require.Equal(t, "thirty", next.Val())

	require.NoError(t, tree.Validate())
	require.Equal(t, int64(2), tree.Len())
	require.Nil(t, tree.Find(20))
	requireInorderKV(t, tree, []uint64{10, 30}, []RBColor{Red, Black})
}

func requireInorderKV(t *testing.T, tree RBTree[uint64, string], keys []uint64, colors []RBColor) {
	t.Helper()
	tree.Foreach(func(idx int64, color RBColor, key uint64, val string) bool {
		require.Equal(t, keys[idx], key)
		require.Equal(t, colors[idx], color)
		return true
	})
}

func TestRBTreeDuplicateInsert(t *testing.T) {
	tree := NewRBTree[uint64, string]()
	first, inserted := tree.Insert(7, "a")
	require.True(t, inserted)

	again, inserted := tree.Insert(7, "b")
	require.False(t, inserted)
	require.Equal(t, first, again)
	require.Equal(t, "a", again.Val())
	require.Equal(t, int64(1), tree.Len())
}

func TestRBTreeRemoveAbsent(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	require.False(t, tree.Remove(42))

	tree.Insert(1, 1)
	require.False(t, tree.Remove(42))
	require.False(t, tree.Remove(42))
	require.Equal(t, int64(1), tree.Len())

	_, ok := tree.RemoveMin()
	require.True(t, ok)
	_, ok = tree.RemoveMin()
	require.False(t, ok)
}

func TestRBTreeRemoveNode(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for i := uint64(1); i <= 10; i++ {
		tree.Insert(i, i)
	}

	node := tree.Find(4)
	require.NotNil(t, node)
	require.True(t, tree.RemoveNode(node))
	require.Nil(t, tree.Find(4))
	require.Equal(t, int64(9), tree.Len())
	require.NoError(t, tree.Validate())

	require.Panics(t, func() {
		tree.RemoveNode(nil)
	})
}

func TestRBTreeFindRoundTrip(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for _, key := range []uint64{13, 8, 17, 1, 11, 15, 25, 6, 22, 27} {
		node, inserted := tree.Insert(key, key*10)
		require.True(t, inserted)
		require.Equal(t, key, node.Key())

		found := tree.Find(key)
		require.NotNil(t, found)
		require.Equal(t, key, found.Key())
		require.Equal(t, key*10, found.Val())
	}

	require.True(t, tree.Remove(11))
	require.Nil(t, tree.Find(11))
	require.NoError(t, tree.Validate())
}

func TestRBTreeFromKeys(t *testing.T) {
	tree := NewRBTreeFromKeys[uint64, struct{}]([]uint64{5, 3, 9, 3, 5, 1})
	require.Equal(t, int64(4), tree.Len())
	require.NoError(t, tree.Validate())

	expected := []uint64{1, 3, 5, 9}
	tree.Foreach(func(idx int64, color RBColor, key uint64, val struct{}) bool {
		require.Equal(t, expected[idx], key)
		return true
	})
}

func TestRBTreeDesc(t *testing.T) {
	tree := NewRBTree[int64, uint64](WithRBTreeDesc[int64, uint64]())
	for i := int64(0); i < 100; i++ {
		tree.Insert(i, 1)
		require.NoError(t, tree.Validate())
	}
	tree.Foreach(func(idx int64, color RBColor, key int64, val uint64) bool {
		require.Equal(t, int64(99-idx), key)
		return true
	})
}

func TestRBTreeCustomLessFunc(t *testing.T) {
	// Order strings by length, ties by content.
	byLen := func(i, j string) bool {
		if len(i) != len(j) {
			return len(i) < len(j)
		}
		return i < j
	}
	tree := NewRBTree[string, int](WithRBTreeLessFunc[string, int](byLen))

	words := []string{"kiwi", "fig", "banana", "apple", "plum", "cherry"}
	for i, w := range words {
		tree.Insert(w, i)
	}
	require.NoError(t, tree.Validate())

	expected := []string{"fig", "kiwi", "plum", "apple", "banana", "cherry"}
	tree.Foreach(func(idx int64, color RBColor, key string, val int) bool {
		require.Equal(t, expected[idx], key)
		return true
	})

	// Equal under the supplied order means duplicate.
	_, inserted := tree.Insert("fig", 99)
	require.False(t, inserted)
}

func TestRBTreeSuccessorChain(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	total := uint64(512)
	for _, key := range lo.Shuffle(lo.RangeFrom(uint64(1), int(total))) {
		tree.Insert(key, key)
	}

	// Ascend through Next from the minimum.
	node := tree.Min()
	for want := uint64(1); want <= total; want++ {
		require.Equal(t, want, node.Key())
		node = node.Next()
	}
	require.Equal(t, total, node.Key()) // wrapped to self

	// Descend through Prev from the maximum.
	node = tree.Max()
	for want := total; want >= 1; want-- {
		require.Equal(t, want, node.Key())
		node = node.Prev()
	}
	require.Equal(t, uint64(1), node.Key())
}

func maxDepth(node RBNode[uint64, uint64]) int {
	if node == nil {
		return 0
	}
	l, r := maxDepth(node.Left()), maxDepth(node.Right())
	if l > r {
		return l + 1
	}
	return r + 1
}

func rbtreeRandomInsertAndRemoveRunCore(t *testing.T, total uint64, violationCheck bool) {
	idGen, err := id.MonotonicNonZeroID()
	require.NoError(t, err)

	insertElements := make([]uint64, 0, total)
	for i := uint64(0); i < total; i++ {
		insertElements = append(insertElements, idGen.Number())
	}
	insertElements = lo.Shuffle(insertElements)
	removeElements := lo.Shuffle(append([]uint64{}, insertElements...))

	tree := NewRBTree[uint64, uint64]()

	for i := uint64(0); i < total; i++ {
		_, inserted := tree.Insert(insertElements[i], i)
		require.True(t, inserted)
		if violationCheck {
			require.NoError(t, tree.Validate())
			require.NoError(t, StructuralValidate[uint64, uint64](tree))
		}
	}
	require.Equal(t, int64(total), tree.Len())
	require.NoError(t, tree.Validate())

	// Balanced height stays within ~2*log2(n+1).
	bound := int(2*math.Log2(float64(total)+1)) + 1
	require.LessOrEqual(t, maxDepth(tree.Root()), bound)

	sorted := append([]uint64{}, insertElements...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	tree.Foreach(func(idx int64, color RBColor, key uint64, val uint64) bool {
		require.Equal(t, sorted[idx], key)
		return true
	})

	for i := uint64(0); i < total; i++ {
		ok := tree.Remove(removeElements[i])
		require.Truef(t, ok, "key exp: %d", removeElements[i])
		if violationCheck {
			require.NoError(t, tree.Validate())
			require.NoError(t, StructuralValidate[uint64, uint64](tree))
		}
	}
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRBTreeRandomInsertAndRemove(t *testing.T) {
	type testcase struct {
		name           string
		total          uint64
		violationCheck bool
	}
	testcases := []testcase{
		{
			name:  "100000",
			total: 100_000,
		},
		{
			name:           "violation check 1000",
			total:          1000,
			violationCheck: true,
		},
		{
			name:           "violation check 5000",
			total:          5000,
			violationCheck: true,
		},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomInsertAndRemoveRunCore(tt, tc.total, tc.violationCheck)
		})
	}
}

func TestRBTreeRandomStringKeys(t *testing.T) {
	nanoID, err := id.ClassicNanoID(12)
	require.NoError(t, err)

	tree := NewRBTree[string, uint64]()
	keys := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		key := nanoID()
		if _, inserted := tree.Insert(key, uint64(i)); inserted {
			keys = append(keys, key)
		}
	}
	require.Equal(t, int64(len(keys)), tree.Len())
	require.NoError(t, tree.Validate())
	require.NoError(t, StructuralValidate[string, uint64](tree))

	sort.Strings(keys)
	tree.Foreach(func(idx int64, color RBColor, key string, val uint64) bool {
		require.Equal(t, keys[idx], key)
		return true
	})

	for _, key := range lo.Shuffle(keys) {
		require.True(t, tree.Remove(key))
		require.NoError(t, tree.Validate())
	}
	require.Equal(t, int64(0), tree.Len())
}

func TestRBTreeRelease(t *testing.T) {
	tree := NewRBTree[uint64, uint64]()
	for i := uint64(0); i < 10_000; i++ {
		tree.Insert(i, 1)
	}
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())

	// The tree stays usable after a release.
	tree.Insert(1, 1)
	require.Equal(t, int64(1), tree.Len())
	require.NoError(t, tree.Validate())
}

func BenchmarkRBTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewRBTree[int, []byte]()
	testByBytes := []byte(`abc`)

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rngArr[i], testByBytes)
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	b.StopTimer()
	tree := NewRBTree[int, []byte]()
	testByBytes := []byte(`abc`)

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(i, testByBytes)
	}
}
