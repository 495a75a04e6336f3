package trie

import (
	"cmp"
	"slices"
	"unsafe"

	"github.com/google/btree"
)

// ArrayMap is a trie whose nodes keep their branches in a rune-sorted slice.
// Lookups binary search the slice; it is the most compact map backend once
// Compact has trimmed the slices.
type ArrayMap struct{ mapTrie }

// NewArrayMap returns an empty sorted-slice trie.
func NewArrayMap() *ArrayMap {
	return &ArrayMap{mapTrie{newBranches: func() branchMap { return &arrayBranches{} }}}
}

// Compact trims every branch slice to its length.
func (t *ArrayMap) Compact() {
	stack := []*node{&t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, ok := n.next.(*arrayBranches)
		if !ok {
			continue
		}
		a.entries = slices.Clip(a.entries)
		for _, e := range a.entries {
			stack = append(stack, e.child)
		}
	}
}

type arrayEntry struct {
	r     rune
	child *node
}

type arrayBranches struct {
	entries []arrayEntry
}

func (a *arrayBranches) search(r rune) (int, bool) {
	return slices.BinarySearchFunc(a.entries, r, func(e arrayEntry, r rune) int {
		return cmp.Compare(e.r, r)
	})
}

func (a *arrayBranches) get(r rune) *node {
	if i, ok := a.search(r); ok {
		return a.entries[i].child
	}
	return nil
}

func (a *arrayBranches) put(r rune, child *node) {
	i, ok := a.search(r)
	if ok {
		a.entries[i].child = child
		return
	}
	a.entries = slices.Insert(a.entries, i, arrayEntry{r: r, child: child})
}

func (a *arrayBranches) len() int { return len(a.entries) }

func (a *arrayBranches) appendKeys(dst []rune) []rune {
	for _, e := range a.entries {
		dst = append(dst, e.r)
	}
	return dst
}

func (a *arrayBranches) heapSize() int {
	return int(unsafe.Sizeof(*a)) + cap(a.entries)*int(unsafe.Sizeof(arrayEntry{}))
}

// HashMap is a trie whose nodes keep their branches in a Go map: constant
// expected lookup at the price of per-node map overhead.
type HashMap struct{ mapTrie }

// NewHashMap returns an empty hash-map trie.
func NewHashMap() *HashMap {
	return &HashMap{mapTrie{newBranches: func() branchMap { return hashBranches{} }}}
}

type hashBranches map[rune]*node

func (h hashBranches) get(r rune) *node { return h[r] }

func (h hashBranches) put(r rune, child *node) { h[r] = child }

func (h hashBranches) len() int { return len(h) }

// appendKeys sorts the keys so enumeration order does not depend on map
// iteration order.
func (h hashBranches) appendKeys(dst []rune) []rune {
	start := len(dst)
	for r := range h {
		dst = append(dst, r)
	}
	slices.Sort(dst[start:])
	return dst
}

// hashBucketOverhead approximates the map header plus bucket slack per entry.
const hashBucketOverhead = 48

func (h hashBranches) heapSize() int {
	entry := int(unsafe.Sizeof(rune(0)) + unsafe.Sizeof(uintptr(0)))
	return hashBucketOverhead + 2*len(h)*entry
}

// btreeDegree keeps the per-node B-trees shallow; most nodes have a handful
// of branches.
const btreeDegree = 4

// BTreeMap is a trie whose nodes keep their branches in an ordered B-tree.
type BTreeMap struct {
	mapTrie
	free *btree.FreeListG[btreeEntry]
}

// NewBTreeMap returns an empty B-tree-map trie. All branch maps of one trie
// share a node free list.
func NewBTreeMap() *BTreeMap {
	t := &BTreeMap{free: btree.NewFreeListG[btreeEntry](btree.DefaultFreeListSize)}
	t.newBranches = func() branchMap {
		return btreeBranches{tree: btree.NewWithFreeListG(btreeDegree, lessEntry, t.free)}
	}
	return t
}

type btreeEntry struct {
	r     rune
	child *node
}

func lessEntry(a, b btreeEntry) bool { return a.r < b.r }

type btreeBranches struct {
	tree *btree.BTreeG[btreeEntry]
}

func (b btreeBranches) get(r rune) *node {
	if e, ok := b.tree.Get(btreeEntry{r: r}); ok {
		return e.child
	}
	return nil
}

func (b btreeBranches) put(r rune, child *node) {
	b.tree.ReplaceOrInsert(btreeEntry{r: r, child: child})
}

func (b btreeBranches) len() int { return b.tree.Len() }

func (b btreeBranches) appendKeys(dst []rune) []rune {
	b.tree.Ascend(func(e btreeEntry) bool {
		dst = append(dst, e.r)
		return true
	})
	return dst
}

func (b btreeBranches) heapSize() int {
	// one B-tree node holds up to 2*degree-1 items plus 2*degree children
	perNode := (2*btreeDegree-1)*int(unsafe.Sizeof(btreeEntry{})) + 2*btreeDegree*int(unsafe.Sizeof(uintptr(0)))
	nodes := (b.tree.Len() + 2*btreeDegree - 2) / (2*btreeDegree - 1)
	return int(unsafe.Sizeof(*b.tree)) + nodes*perNode
}
