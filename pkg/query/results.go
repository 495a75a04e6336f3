package query

import (
	"iter"
	"slices"
)

// Take yields at most n words of seq, stopping the underlying walk once the
// cap is reached. n <= 0 means no cap.
func Take(seq iter.Seq[string], n int) iter.Seq[string] {
	if n <= 0 {
		return seq
	}
	return func(yield func(string) bool) {
		taken := 0
		for w := range seq {
			if !yield(w) {
				return
			}
			if taken++; taken == n {
				return
			}
		}
	}
}

// Sorted drains seq into a deduplicated slice in ascending order, the fixed
// tie-break for output that must be stable across backends and runs.
func Sorted(seq iter.Seq[string]) []string {
	words := slices.Collect(seq)
	slices.Sort(words)
	return slices.Compact(words)
}

// Collect drains up to limit words of seq in yield order and reports
// whether more were available. limit <= 0 drains everything.
func Collect(seq iter.Seq[string], limit int) (words []string, truncated bool) {
	for w := range seq {
		if limit > 0 && len(words) == limit {
			return words, true
		}
		words = append(words, w)
	}
	return words, false
}

// Gather collects the answer to a query for display. Sorted output drains
// the whole sequence before the limit is applied; unsorted output stops the
// walk as soon as the limit is passed.
func Gather(seq iter.Seq[string], limit int, sorted bool) (words []string, truncated bool) {
	if !sorted {
		return Collect(seq, limit)
	}
	words = Sorted(seq)
	if limit > 0 && len(words) > limit {
		return words[:limit], true
	}
	return words, false
}
