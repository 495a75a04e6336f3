/*
Package query answers single-wildcard patterns over a dual-trie index.

A pattern holds exactly one '*' splitting it into a prefix and a suffix:

	hel*    prefix query, walks the forward trie
	*lp     suffix query, walks the reverse trie and reverses each hit
	h*p     circumfix query, walks one trie and filters on the other affix

For circumfix queries the planner picks the driving trie with a cost
heuristic: the forward trie drives when costFactor*len(prefix) <= len(suffix),
lengths counted in runes. The factor only moves work between the tries; the
result set is the same either way.

Results are lazy sequences. Stop ranging over them to stop the walk.
*/
package query

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wildserve/internal/utils"
	"github.com/bastiangx/wildserve/pkg/trie"
)

// Wildcard is the single supported wildcard marker.
const Wildcard = '*'

// DefaultCostFactor weighs prefix length against suffix length when picking
// the driving trie of a circumfix query.
const DefaultCostFactor = 2

var (
	// ErrInvalidPattern is returned for patterns without exactly one wildcard.
	ErrInvalidPattern = errors.New("sorry, only queries with one * are supported")
	// ErrDegenerateQuery is returned for the bare "*" pattern, which would
	// enumerate the whole vocabulary.
	ErrDegenerateQuery = errors.New("a lone * matches every word, refusing to list them all")
	// ErrInvalidUTF8 is returned for patterns that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("pattern is not valid UTF-8")
)

// PatternError reports a pattern that cannot be answered.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Source provides the forward and reverse tries of an index.
type Source interface {
	Forward() trie.Trie
	Reverse() trie.Trie
}

// Kind classifies a pattern by which affixes it carries.
type Kind int

const (
	KindPrefix Kind = iota
	KindSuffix
	KindCircumfix
)

func (k Kind) String() string {
	switch k {
	case KindPrefix:
		return "prefix"
	case KindSuffix:
		return "suffix"
	case KindCircumfix:
		return "circumfix"
	}
	return "unknown"
}

// Side names the trie that drives a query.
type Side int

const (
	SideForward Side = iota
	SideReverse
)

func (s Side) String() string {
	if s == SideReverse {
		return "reverse"
	}
	return "forward"
}

// Plan is the decomposition of a pattern and the trie chosen to answer it.
type Plan struct {
	Prefix string
	Suffix string
	Kind   Kind
	Drive  Side
}

// Split breaks pattern at its wildcard.
func Split(pattern string) (prefix, suffix string, err error) {
	if !utf8.ValidString(pattern) {
		return "", "", &PatternError{Pattern: pattern, Err: ErrInvalidUTF8}
	}
	parts := strings.Split(pattern, string(Wildcard))
	if len(parts) != 2 {
		return "", "", &PatternError{Pattern: pattern, Err: ErrInvalidPattern}
	}
	return parts[0], parts[1], nil
}

// Planner answers wildcard patterns against a Source.
type Planner struct {
	src        Source
	costFactor int
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithCostFactor overrides DefaultCostFactor. Negative values are clamped
// to zero, which always drives circumfix queries from the forward trie.
func WithCostFactor(f int) PlannerOption {
	return func(p *Planner) { p.costFactor = max(f, 0) }
}

// NewPlanner returns a planner over src.
func NewPlanner(src Source, opts ...PlannerOption) *Planner {
	p := &Planner{src: src, costFactor: DefaultCostFactor}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CostFactor returns the factor used to pick the driving trie.
func (p *Planner) CostFactor() int { return p.costFactor }

// Plan validates pattern and decides how it would be answered.
func (p *Planner) Plan(pattern string) (Plan, error) {
	prefix, suffix, err := Split(pattern)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Prefix: prefix, Suffix: suffix}
	switch {
	case prefix == "" && suffix == "":
		return Plan{}, &PatternError{Pattern: pattern, Err: ErrDegenerateQuery}
	case suffix == "":
		plan.Kind, plan.Drive = KindPrefix, SideForward
	case prefix == "":
		plan.Kind, plan.Drive = KindSuffix, SideReverse
	default:
		plan.Kind, plan.Drive = KindCircumfix, p.driveSide(prefix, suffix)
	}
	return plan, nil
}

func (p *Planner) driveSide(prefix, suffix string) Side {
	if p.costFactor*utf8.RuneCountInString(prefix) <= utf8.RuneCountInString(suffix) {
		return SideForward
	}
	return SideReverse
}

// Wildcard returns every word matching pattern.
func (p *Planner) Wildcard(pattern string) (iter.Seq[string], error) {
	plan, err := p.Plan(pattern)
	if err != nil {
		return nil, err
	}
	return p.Run(plan), nil
}

// Run executes a plan produced by Plan.
func (p *Planner) Run(plan Plan) iter.Seq[string] {
	switch plan.Kind {
	case KindPrefix:
		return p.Prefix(plan.Prefix)
	case KindSuffix:
		return p.Suffix(plan.Suffix)
	}
	return p.circumfix(plan.Prefix, plan.Suffix, plan.Drive)
}

// Prefix returns every word starting with prefix.
func (p *Planner) Prefix(prefix string) iter.Seq[string] {
	return p.src.Forward().PrefixSearch(prefix)
}

// Suffix returns every word ending with suffix.
func (p *Planner) Suffix(suffix string) iter.Seq[string] {
	reversed := p.src.Reverse().PrefixSearch(utils.Reverse(suffix))
	return func(yield func(string) bool) {
		for w := range reversed {
			if !yield(utils.Reverse(w)) {
				return
			}
		}
	}
}

// Circumfix returns every word starting with prefix and ending with suffix
// where the two do not overlap.
func (p *Planner) Circumfix(prefix, suffix string) iter.Seq[string] {
	return p.circumfix(prefix, suffix, p.driveSide(prefix, suffix))
}

func (p *Planner) circumfix(prefix, suffix string, side Side) iter.Seq[string] {
	minLen := len(prefix) + len(suffix)
	if side == SideForward {
		return filter(p.Prefix(prefix), func(w string) bool {
			return len(w) >= minLen && strings.HasSuffix(w, suffix)
		})
	}
	return filter(p.Suffix(suffix), func(w string) bool {
		return len(w) >= minLen && strings.HasPrefix(w, prefix)
	})
}

func filter(words iter.Seq[string], keep func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for w := range words {
			if keep(w) && !yield(w) {
				return
			}
		}
	}
}
