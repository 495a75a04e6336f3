package trie

import "iter"

// walker is a resumable depth-first enumeration. Each call to next returns
// the following accepted word, or false once the subtree is exhausted.
type walker interface {
	next() (string, bool)
}

// empty is an exhausted walker.
type empty struct{}

func (empty) next() (string, bool) { return "", false }

// seq adapts a walker factory to a range-over-func sequence. The factory is
// called once per range loop so every loop starts a fresh walk.
func seq(newWalker func() walker) iter.Seq[string] {
	return func(yield func(string) bool) {
		w := newWalker()
		for {
			word, ok := w.next()
			if !ok || !yield(word) {
				return
			}
		}
	}
}

// pathBuffer is the rune path shared by a walk. Frames record the depth at
// which they were entered and truncate back to it before appending their own
// rune, which pops whatever a finished sibling subtree pushed.
type pathBuffer []rune

func (p *pathBuffer) push(depth int, r rune) {
	*p = append((*p)[:depth], r)
}
