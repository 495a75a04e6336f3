package trie

import (
	"iter"
	"unsafe"
)

// node is a trie node of the keyed-map backends. Each child is owned by
// exactly one parent.
type node struct {
	// next is nil until the node gets its first child
	next   branchMap
	accept bool
}

// branchMap maps a rune to the child node continuing the path with it.
type branchMap interface {
	get(r rune) *node
	put(r rune, child *node)
	len() int
	// appendKeys appends the keys in ascending order.
	appendKeys(dst []rune) []rune
	// heapSize excludes the children themselves.
	heapSize() int
}

// mapTrie is the trie shared by every keyed-map backend; only the branch map
// representation differs between them.
type mapTrie struct {
	root        node
	newBranches func() branchMap
}

func (t *mapTrie) Learn(word string) {
	n := &t.root
	for _, r := range word {
		if n.next == nil {
			n.next = t.newBranches()
		}
		child := n.next.get(r)
		if child == nil {
			child = &node{}
			n.next.put(r, child)
		}
		n = child
	}
	n.accept = true
}

func (t *mapTrie) Recognize(word string) bool {
	n := t.find(word)
	return n != nil && n.accept
}

func (t *mapTrie) find(prefix string) *node {
	n := &t.root
	for _, r := range prefix {
		if n.next == nil {
			return nil
		}
		if n = n.next.get(r); n == nil {
			return nil
		}
	}
	return n
}

func (t *mapTrie) PrefixSearch(prefix string) iter.Seq[string] {
	return seq(func() walker {
		n := t.find(prefix)
		if n == nil {
			return empty{}
		}
		path := pathBuffer([]rune(prefix))
		w := &mapWalker{path: path}
		if n.accept {
			w.pending, w.hasPending = prefix, true
		}
		w.enter(n, len(path))
		return w
	})
}

// HeapSize estimates the bytes held by the trie's nodes and branch maps.
func (t *mapTrie) HeapSize() int {
	size := int(unsafe.Sizeof(*t))
	stack := []*node{&t.root}
	var keys []rune
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != &t.root {
			size += int(unsafe.Sizeof(*n))
		}
		if n.next == nil {
			continue
		}
		size += n.next.heapSize()
		keys = n.next.appendKeys(keys[:0])
		for _, r := range keys {
			stack = append(stack, n.next.get(r))
		}
	}
	return size
}

type mapFrame struct {
	n     *node
	keys  []rune
	pos   int
	depth int
}

// mapWalker walks a subtree depth first, visiting branches in key order.
type mapWalker struct {
	stack      []mapFrame
	path       pathBuffer
	pending    string
	hasPending bool
}

func (w *mapWalker) enter(n *node, depth int) {
	if n.next == nil || n.next.len() == 0 {
		return
	}
	w.stack = append(w.stack, mapFrame{n: n, keys: n.next.appendKeys(nil), depth: depth})
}

func (w *mapWalker) next() (string, bool) {
	if w.hasPending {
		w.hasPending = false
		return w.pending, true
	}
	for len(w.stack) > 0 {
		top := len(w.stack) - 1
		f := &w.stack[top]
		if f.pos == len(f.keys) {
			w.stack = w.stack[:top]
			continue
		}
		r := f.keys[f.pos]
		f.pos++
		child, depth := f.n.next.get(r), f.depth
		w.path.push(depth, r)
		w.enter(child, depth+1)
		if child.accept {
			return string(w.path), true
		}
	}
	return "", false
}
