// Package dictionary reads word lists: one word per line, plain or compressed.
//
// Blank lines are empty-string words and duplicates are passed through;
// tries learn them idempotently. A line that is not valid UTF-8 is reported
// and skipped without ending the read.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// ErrInvalidUTF8 marks a line whose bytes are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// LineError reports a problem with a single line of a word list.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Stats counts what a read saw.
type Stats struct {
	Lines   int
	Words   int
	Blank   int
	Skipped int
}

// Scan reads r line by line and calls fn with every word. Line problems go
// to onErr, which may be nil, and the line is skipped. A read error ends the
// scan and is returned.
func Scan(r io.Reader, fn func(word string), onErr func(*LineError)) (Stats, error) {
	reader := bufio.NewReader(r)
	var stats Stats
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			stats.Lines++
			word := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			switch {
			case !utf8.ValidString(word):
				stats.Skipped++
				if onErr != nil {
					onErr(&LineError{Line: stats.Lines, Err: ErrInvalidUTF8})
				}
			default:
				if word == "" {
					stats.Blank++
				}
				stats.Words++
				fn(word)
			}
		}
		if err != nil {
			if err == io.EOF {
				return stats, nil
			}
			return stats, fmt.Errorf("failed to read line %d: %w", stats.Lines+1, err)
		}
	}
}

// LoadWords reads a whole word list file in any supported format.
func LoadWords(filename string) ([]string, Stats, error) {
	reader, format, err := Open(filename)
	if err != nil {
		return nil, Stats{}, err
	}
	defer reader.Close()

	log.Debugf("Loading %s from %s", format, filename)

	var words []string
	stats, err := Scan(reader, func(word string) {
		words = append(words, word)
	}, func(lineErr *LineError) {
		log.Warnf("Skipping %s: %v", filename, lineErr)
	})
	if err != nil {
		return words, stats, fmt.Errorf("failed to load word list %s: %w", filename, err)
	}

	log.Debugf("Loaded %d words (%d blank, %d skipped) from %s", stats.Words, stats.Blank, stats.Skipped, filename)
	return words, stats, nil
}
