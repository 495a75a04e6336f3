// Package index holds the dual-trie index: one trie over every word as
// written and one over every word reversed, so both prefix and suffix
// lookups are prefix walks.
package index

import (
	"errors"
	"math/rand/v2"
	"slices"
	"unicode/utf8"

	"github.com/bastiangx/wildserve/internal/utils"
	"github.com/bastiangx/wildserve/pkg/trie"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/charmbracelet/log"
)

// ErrFrozen is returned by Learn once the index has been frozen.
var ErrFrozen = errors.New("index is frozen")

// defaultBloomCapacity sizes the bloom filter of indexes created with New,
// where the vocabulary size is not known up front.
const defaultBloomCapacity = 1 << 16

// Index owns a forward and a reverse trie of the same kind.
//
// Words are learned until Freeze is called; afterwards the index is
// read-only and safe to query from any number of goroutines.
type Index struct {
	kind    trie.Kind
	forward trie.Trie
	reverse trie.Trie
	filter  *bloom.BloomFilter
	words   int
	frozen  bool

	shuffle    bool
	shuffleSet bool
	seed       uint64
	bloomRate  float64
	capacity   uint
}

// Option configures an Index.
type Option func(*Index)

// WithKind selects the trie backend. The default is ternary.
func WithKind(kind trie.Kind) Option {
	return func(idx *Index) { idx.kind = kind }
}

// WithShuffle controls whether Build randomises word order before learning.
// A zero seed draws from the global source. By default only ternary indexes
// are shuffled, since their balance depends on insertion order.
func WithShuffle(enabled bool, seed uint64) Option {
	return func(idx *Index) {
		idx.shuffle, idx.shuffleSet, idx.seed = enabled, true, seed
	}
}

// WithBloom puts a bloom filter with the given false-positive rate in front
// of Recognize. A rate outside (0, 1) disables the filter.
func WithBloom(rate float64) Option {
	return func(idx *Index) { idx.bloomRate = rate }
}

// WithCapacity hints the expected number of words, used to size the bloom
// filter.
func WithCapacity(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.capacity = uint(n)
		}
	}
}

// New returns an empty, unfrozen index.
func New(opts ...Option) (*Index, error) {
	idx := &Index{kind: trie.KindTernary}
	for _, opt := range opts {
		opt(idx)
	}
	var err error
	if idx.forward, err = trie.New(idx.kind); err != nil {
		return nil, err
	}
	if idx.reverse, err = trie.New(idx.kind); err != nil {
		return nil, err
	}
	if !idx.shuffleSet {
		idx.shuffle = idx.kind == trie.KindTernary
	}
	if idx.bloomRate > 0 && idx.bloomRate < 1 {
		capacity := idx.capacity
		if capacity == 0 {
			capacity = defaultBloomCapacity
		}
		idx.filter = bloom.NewWithEstimates(capacity, idx.bloomRate)
	}
	return idx, nil
}

// Build learns every word into a new index and freezes it.
func Build(words []string, opts ...Option) (*Index, error) {
	opts = append([]Option{WithCapacity(len(words))}, opts...)
	idx, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if idx.shuffle {
		words = slices.Clone(words)
		idx.shuffleWords(words)
	}
	for _, w := range words {
		if err := idx.Learn(w); err != nil {
			return nil, err
		}
	}
	idx.Freeze()
	log.Debugf("Built %s index: %d distinct words from %d lines", idx.kind, idx.words, len(words))
	return idx, nil
}

func (idx *Index) shuffleWords(words []string) {
	swap := func(i, j int) { words[i], words[j] = words[j], words[i] }
	if idx.seed == 0 {
		rand.Shuffle(len(words), swap)
		return
	}
	rand.New(rand.NewPCG(idx.seed, idx.seed)).Shuffle(len(words), swap)
}

// Learn adds word to both tries.
func (idx *Index) Learn(word string) error {
	if idx.frozen {
		return ErrFrozen
	}
	if !idx.forward.Recognize(word) {
		idx.words++
	}
	idx.forward.Learn(word)
	idx.reverse.Learn(utils.Reverse(word))
	if idx.filter != nil {
		idx.filter.AddString(word)
	}
	return nil
}

// Freeze ends the build phase and compacts backends that support it.
// Freezing twice is a no-op.
func (idx *Index) Freeze() {
	if idx.frozen {
		return
	}
	for _, t := range []trie.Trie{idx.forward, idx.reverse} {
		if c, ok := t.(trie.Compacter); ok {
			c.Compact()
		}
	}
	idx.frozen = true
}

// Frozen reports whether Freeze has been called.
func (idx *Index) Frozen() bool { return idx.frozen }

// Forward returns the trie over words as written.
func (idx *Index) Forward() trie.Trie { return idx.forward }

// Reverse returns the trie over reversed words.
func (idx *Index) Reverse() trie.Trie { return idx.reverse }

// Kind returns the trie backend in use.
func (idx *Index) Kind() trie.Kind { return idx.kind }

// Len returns the number of distinct words learned.
func (idx *Index) Len() int { return idx.words }

// Recognize reports whether word was learned. With a bloom filter, most
// unknown words are rejected without touching the trie. Invalid UTF-8 is
// never a word.
func (idx *Index) Recognize(word string) bool {
	if !utf8.ValidString(word) {
		return false
	}
	if idx.filter != nil && !idx.filter.TestString(word) {
		return false
	}
	return idx.forward.Recognize(word)
}

// Stats describes an index. Heap sizes are -1 for backends that cannot
// estimate them.
type Stats struct {
	Kind        trie.Kind
	Words       int
	ForwardHeap int
	ReverseHeap int
	Bloom       bool
	Frozen      bool
}

// Stats reports the size of the index.
func (idx *Index) Stats() Stats {
	return Stats{
		Kind:        idx.kind,
		Words:       idx.words,
		ForwardHeap: heapSize(idx.forward),
		ReverseHeap: heapSize(idx.reverse),
		Bloom:       idx.filter != nil,
		Frozen:      idx.frozen,
	}
}

func heapSize(t trie.Trie) int {
	if s, ok := t.(trie.HeapSizer); ok {
		return s.HeapSize()
	}
	return -1
}
