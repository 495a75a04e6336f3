// Package cli provides the interactive query loop for testing patterns in real-time
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wildserve/pkg/query"
	"github.com/charmbracelet/log"
)

// DefaultPrompt is printed before every query.
const DefaultPrompt = "enter query:"

// maxReadErrors is how many read failures in a row end the loop.
const maxReadErrors = 3

// InputHandler reads patterns line by line and prints the matching words,
// one per line, followed by a blank separator.
type InputHandler struct {
	planner      *query.Planner
	in           io.Reader
	out          io.Writer
	prompt       string
	limit        int
	sorted       bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler. A limit of
// zero prints every match.
func NewInputHandler(planner *query.Planner, in io.Reader, out io.Writer, limit int, sorted bool) *InputHandler {
	return &InputHandler{
		planner: planner,
		in:      in,
		out:     out,
		prompt:  DefaultPrompt,
		limit:   limit,
		sorted:  sorted,
	}
}

// SetPrompt replaces the prompt text; empty keeps the current one.
func (h *InputHandler) SetPrompt(prompt string) {
	if prompt != "" {
		h.prompt = prompt
	}
}

// Start begins the interface loop.
// It prompts, reads a trimmed line and answers it until the input ends.
// End of input is a normal exit. A read error is printed and the loop goes
// on; maxReadErrors failures in a row are returned.
func (h *InputHandler) Start() error {
	reader := bufio.NewReader(h.in)
	w := bufio.NewWriter(h.out)
	defer w.Flush()

	failures := 0
	for {
		fmt.Fprintln(w, h.prompt)
		if err := w.Flush(); err != nil {
			return err
		}
		line, err := reader.ReadString('\n')
		if pattern := strings.TrimSpace(line); pattern != "" {
			h.handleInput(w, pattern)
		}
		switch {
		case err == nil:
			failures = 0
		case errors.Is(err, io.EOF):
			log.Debugf("Input closed after %d queries", h.requestCount)
			return nil
		default:
			failures++
			fmt.Fprintf(w, "failed to read query: %v\n", err)
			log.Warnf("Reading query (%d/%d): %v", failures, maxReadErrors, err)
			if failures >= maxReadErrors {
				return err
			}
		}
	}
}

// handleInput answers one pattern. Pattern errors are printed and the loop
// goes on.
func (h *InputHandler) handleInput(w io.Writer, pattern string) {
	h.requestCount++
	start := time.Now()

	plan, err := h.planner.Plan(pattern)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	log.Debug("Processing query", "pattern", pattern, "kind", plan.Kind, "drive", plan.Drive)

	words, truncated := query.Gather(h.planner.Run(plan), h.limit, h.sorted)
	for _, word := range words {
		fmt.Fprintln(w, word)
	}
	fmt.Fprintln(w)

	log.Debugf("Took [ %v ] for '%s': %d words, truncated=%t", time.Since(start), pattern, len(words), truncated)
}
