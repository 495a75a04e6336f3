package query

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bastiangx/wildserve/pkg/index"
	"github.com/bastiangx/wildserve/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var leakPatterns = []string{
	"a*", "ab*", "*a", "*ba", "a*a", "ab*ba", "b*", "*na", "ba*na", "c*e",
	"h*", "he*", "*lo", "h*o", "*x", "x*", "q*q", "日*", "*語",
}

// generated builds a vocabulary of every word over a small alphabet up to
// the given length.
func generated(alphabet string, maxLen int) []string {
	words := []string{""}
	frontier := []string{""}
	for range maxLen {
		var next []string
		for _, w := range frontier {
			for _, r := range alphabet {
				next = append(next, w+string(r))
			}
		}
		words = append(words, next...)
		frontier = next
	}
	return words
}

func TestConcurrentQueriesAgree(t *testing.T) {
	vocab := generated("abnh", 5)
	for _, kind := range trie.Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			idx, err := index.Build(vocab, index.WithKind(kind))
			require.NoError(t, err)
			p := NewPlanner(idx)

			expected := make(map[string][]string, len(leakPatterns))
			for _, pattern := range leakPatterns {
				seq, err := p.Wildcard(pattern)
				require.NoError(t, err)
				expected[pattern] = Sorted(seq)
			}

			var wg sync.WaitGroup
			var mismatches atomic.Int64
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 20 {
						for _, pattern := range leakPatterns {
							seq, _ := p.Wildcard(pattern)
							got := Sorted(seq)
							if fmt.Sprint(got) != fmt.Sprint(expected[pattern]) {
								mismatches.Add(1)
							}
						}
					}
				}()
			}
			wg.Wait()
			assert.Zero(t, mismatches.Load())
		})
	}
}

func TestNoGoroutineLeak(t *testing.T) {
	idx, err := index.Build(generated("abnh", 4))
	require.NoError(t, err)
	p := NewPlanner(idx)

	runtime.GC()
	baselineGoroutines := runtime.NumGoroutine()

	var ops atomic.Int64
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				for _, pattern := range leakPatterns {
					seq, _ := p.Wildcard(pattern)
					Collect(Take(seq, 3), 0)
					ops.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	runtime.GC()
	goroutineDelta := runtime.NumGoroutine() - baselineGoroutines
	t.Logf("ops=%d goroutine_delta=%d", ops.Load(), goroutineDelta)
	assert.LessOrEqual(t, goroutineDelta, 2, "goroutine leak detected")
}

func TestMemoryStabilityLongRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long-running memory stability test in short mode")
	}
	idx, err := index.Build(generated("abnh", 5), index.WithKind(trie.KindArray))
	require.NoError(t, err)
	p := NewPlanner(idx)

	var baseline, final runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&baseline)

	const cycles, opsPerCycle = 20, 100
	for range cycles {
		for i := range opsPerCycle {
			seq, _ := p.Wildcard(leakPatterns[i%len(leakPatterns)])
			Collect(seq, 10)
		}
	}

	runtime.GC()
	runtime.ReadMemStats(&final)
	retained := int64(final.HeapAlloc) - int64(baseline.HeapAlloc)
	t.Logf("cycles=%d ops=%d retained=%d bytes", cycles, cycles*opsPerCycle, retained)
	assert.Less(t, retained, int64(1<<20), "queries should not retain memory")
}
