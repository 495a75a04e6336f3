package trie

import (
	"errors"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

var errStopVisit = errors.New("visit stopped")

// Patricia is a trie backed by go-patricia, which compresses single-child
// paths into one node and keys on the UTF-8 bytes of each word.
type Patricia struct {
	trie      *patricia.Trie
	emptyWord bool
}

// NewPatricia returns an empty patricia trie.
func NewPatricia() *Patricia {
	return &Patricia{trie: patricia.NewTrie()}
}

func (t *Patricia) Learn(word string) {
	if word == "" {
		t.emptyWord = true
		return
	}
	t.trie.Insert(patricia.Prefix(word), struct{}{})
}

func (t *Patricia) Recognize(word string) bool {
	if word == "" {
		return t.emptyWord
	}
	return t.trie.Get(patricia.Prefix(word)) != nil
}

// PrefixSearch visits the matching subtree; yield returning false aborts the
// visit with a sentinel error.
func (t *Patricia) PrefixSearch(prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if prefix == "" && t.emptyWord {
			if !yield("") {
				return
			}
		}
		visit := func(p patricia.Prefix, _ patricia.Item) error {
			if !yield(string(p)) {
				return errStopVisit
			}
			return nil
		}
		var err error
		if prefix == "" {
			err = t.trie.Visit(visit)
		} else {
			err = t.trie.VisitSubtree(patricia.Prefix(prefix), visit)
		}
		if err != nil && !errors.Is(err, errStopVisit) {
			log.Errorf("Error visiting patricia subtree: %v", err)
		}
	}
}
