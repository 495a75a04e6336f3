// Package trie provides the word tries behind wildcard search: a learn/recognize/prefix-search
// contract with interchangeable node representations.
package trie

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Trie is a set of words supporting exact lookup and prefix enumeration.
//
// Learn is the only mutator. A Trie is not safe for concurrent Learn calls,
// but once building is done any number of goroutines may call Recognize and
// PrefixSearch at the same time.
type Trie interface {
	// Learn adds word to the trie. Learning a word twice is a no-op.
	Learn(word string)

	// Recognize reports whether word was learned exactly.
	Recognize(word string) bool

	// PrefixSearch returns every learned word starting with prefix, prefix
	// itself included when it was learned. The sequence is lazy: stopping
	// the range loop stops the walk.
	PrefixSearch(prefix string) iter.Seq[string]
}

// HeapSizer is implemented by tries that can estimate the bytes they own.
type HeapSizer interface {
	HeapSize() int
}

// Compacter is implemented by tries that can release spare capacity once
// building is finished.
type Compacter interface {
	Compact()
}

// Kind names a trie backend.
type Kind string

const (
	KindTernary  Kind = "ternary"
	KindArray    Kind = "array"
	KindHash     Kind = "hash"
	KindBTree    Kind = "btree"
	KindPatricia Kind = "patricia"
)

// ErrUnknownKind is returned for backend names that do not exist.
var ErrUnknownKind = errors.New("unknown trie kind")

var kinds = []Kind{KindTernary, KindArray, KindHash, KindBTree, KindPatricia}

// Kinds lists every supported backend.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a backend name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New returns an empty trie of the given kind.
func New(kind Kind) (Trie, error) {
	switch kind {
	case KindTernary:
		return NewTernary(), nil
	case KindArray:
		return NewArrayMap(), nil
	case KindHash:
		return NewHashMap(), nil
	case KindBTree:
		return NewBTreeMap(), nil
	case KindPatricia:
		return NewPatricia(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Collect drains a sequence into a slice, in yield order.
func Collect(seq iter.Seq[string]) []string {
	var out []string
	for w := range seq {
		out = append(out, w)
	}
	return out
}
