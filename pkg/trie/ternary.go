package trie

import (
	"iter"
	"unicode/utf8"
	"unsafe"
)

type ternaryNode struct {
	c          rune
	lo, eq, hi *ternaryNode
	accept     bool
}

// Ternary is a ternary search trie. Every node holds one rune and three
// children: lo and hi continue the search for the same position with smaller
// or greater runes, eq moves on to the next position.
//
// Branch depth depends on insertion order. Learning a sorted word list
// degenerates each lo/hi chain into a linked list, so callers building from
// sorted input should shuffle it first.
type Ternary struct {
	root *ternaryNode
	// the empty word has no node of its own
	emptyWord bool
}

// NewTernary returns an empty ternary search trie.
func NewTernary() *Ternary {
	return &Ternary{}
}

func (t *Ternary) Learn(word string) {
	if word == "" {
		t.emptyWord = true
		return
	}
	link := &t.root
	for len(word) > 0 {
		r, size := utf8.DecodeRuneInString(word)
		for {
			n := *link
			if n == nil {
				n = &ternaryNode{c: r}
				*link = n
			}
			if r < n.c {
				link = &n.lo
				continue
			}
			if r > n.c {
				link = &n.hi
				continue
			}
			word = word[size:]
			if word == "" {
				n.accept = true
			} else {
				link = &n.eq
			}
			break
		}
	}
}

func (t *Ternary) Recognize(word string) bool {
	if word == "" {
		return t.emptyWord
	}
	_, accept, ok := t.find(word)
	return ok && accept
}

// find walks prefix and returns the eq subtree holding its continuations and
// whether prefix itself was learned. ok is false when no word has prefix.
func (t *Ternary) find(prefix string) (sub *ternaryNode, accept bool, ok bool) {
	if prefix == "" {
		return t.root, t.emptyWord, true
	}
	n := t.root
	for {
		r, size := utf8.DecodeRuneInString(prefix)
		for n != nil && r != n.c {
			if r < n.c {
				n = n.lo
			} else {
				n = n.hi
			}
		}
		if n == nil {
			return nil, false, false
		}
		prefix = prefix[size:]
		if prefix == "" {
			return n.eq, n.accept, true
		}
		n = n.eq
	}
}

func (t *Ternary) PrefixSearch(prefix string) iter.Seq[string] {
	return seq(func() walker {
		sub, accept, ok := t.find(prefix)
		if !ok {
			return empty{}
		}
		path := pathBuffer([]rune(prefix))
		w := &ternaryWalker{path: path}
		if accept {
			w.pending, w.hasPending = prefix, true
		}
		if sub != nil {
			w.stack = append(w.stack, ternaryFrame{n: sub, depth: len(path)})
		}
		return w
	})
}

// HeapSize estimates the bytes held by the trie's nodes.
func (t *Ternary) HeapSize() int {
	nodes := 0
	stack := []*ternaryNode{}
	if t.root != nil {
		stack = append(stack, t.root)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++
		for _, c := range [...]*ternaryNode{n.lo, n.eq, n.hi} {
			if c != nil {
				stack = append(stack, c)
			}
		}
	}
	return int(unsafe.Sizeof(*t)) + nodes*int(unsafe.Sizeof(ternaryNode{}))
}

const (
	visitLo uint8 = iota
	visitEq
	visitHi
)

type ternaryFrame struct {
	n     *ternaryNode
	depth int
	state uint8
}

// ternaryWalker walks a ternary subtree in order (lo, node, eq, hi), which
// yields words in ascending rune order.
type ternaryWalker struct {
	stack      []ternaryFrame
	path       pathBuffer
	pending    string
	hasPending bool
}

func (w *ternaryWalker) next() (string, bool) {
	if w.hasPending {
		w.hasPending = false
		return w.pending, true
	}
	for len(w.stack) > 0 {
		top := len(w.stack) - 1
		f := w.stack[top]
		switch f.state {
		case visitLo:
			w.stack[top].state = visitEq
			if f.n.lo != nil {
				w.stack = append(w.stack, ternaryFrame{n: f.n.lo, depth: f.depth})
			}
		case visitEq:
			w.stack[top].state = visitHi
			w.path.push(f.depth, f.n.c)
			if f.n.eq != nil {
				w.stack = append(w.stack, ternaryFrame{n: f.n.eq, depth: f.depth + 1})
			}
			if f.n.accept {
				return string(w.path), true
			}
		default:
			w.stack = w.stack[:top]
			if f.n.hi != nil {
				w.stack = append(w.stack, ternaryFrame{n: f.n.hi, depth: f.depth})
			}
		}
	}
	return "", false
}
