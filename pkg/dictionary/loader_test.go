package dictionary

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordList = "hello\r\nhelp\n\nheld\nhello\n\xff\xfe\nübel"

func TestScan(t *testing.T) {
	var words []string
	var lineErrs []*LineError
	stats, err := Scan(strings.NewReader(wordList), func(w string) {
		words = append(words, w)
	}, func(e *LineError) {
		lineErrs = append(lineErrs, e)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "help", "", "held", "hello", "übel"}, words)
	assert.Equal(t, Stats{Lines: 7, Words: 6, Blank: 1, Skipped: 1}, stats)
	require.Len(t, lineErrs, 1)
	assert.Equal(t, 6, lineErrs[0].Line)
	assert.ErrorIs(t, lineErrs[0], ErrInvalidUTF8)
}

func TestScanTrailingNewline(t *testing.T) {
	var words []string
	stats, err := Scan(strings.NewReader("a\nb\n"), func(w string) { words = append(words, w) }, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, words, "final newline does not add an empty word")
	assert.Equal(t, 2, stats.Lines)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestScanReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Scan(io.MultiReader(strings.NewReader("a\n"), failingReader{boom}), func(string) {}, nil)
	assert.ErrorIs(t, err, boom)
}

func writeFile(t *testing.T, name string, write func(io.Writer) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, write(f))
	require.NoError(t, f.Close())
	return path
}

func TestLoadWords(t *testing.T) {
	plain := func(w io.Writer) error {
		_, err := io.WriteString(w, "alpha\nbeta\ngamma\n")
		return err
	}
	gz := func(w io.Writer) error {
		zw := gzip.NewWriter(w)
		if err := plain(zw); err != nil {
			return err
		}
		return zw.Close()
	}
	br := func(w io.Writer) error {
		bw := brotli.NewWriter(w)
		if err := plain(bw); err != nil {
			return err
		}
		return bw.Close()
	}

	testCases := []struct {
		name   string
		write  func(io.Writer) error
		format FileFormat
	}{
		{"words.txt", plain, FormatText},
		{"words", plain, FormatText},
		{"words.txt.gz", gz, FormatGzip},
		{"words.dat", gz, FormatGzip},
		{"words.br", br, FormatBrotli},
		{"en_US.dic", plain, FormatText},
		{"words.en", plain, FormatText},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, tc.name, tc.write)

			format, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)
			require.NoError(t, ValidateFileFormat(path, tc.format))

			words, stats, err := LoadWords(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "beta", "gamma"}, words)
			assert.Equal(t, 3, stats.Words)
		})
	}
}

func TestLoadWordsErrors(t *testing.T) {
	_, _, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	fake := writeFile(t, "words.gz", func(w io.Writer) error {
		_, err := io.WriteString(w, "not gzip\n")
		return err
	})
	_, _, err = LoadWords(fake)
	assert.Error(t, err)

	_, err = DetectFileFormat(fake)
	assert.Error(t, err)
	assert.Error(t, ValidateFileFormat(fake, FormatGzip))

	plainAsBrotli := writeFile(t, "words.txt", func(w io.Writer) error {
		_, err := io.WriteString(w, "a\n")
		return err
	})
	assert.Error(t, ValidateFileFormat(plainAsBrotli, FormatBrotli))
}

func TestFormatInfo(t *testing.T) {
	info, ok := GetFormatInfo(FormatGzip)
	require.True(t, ok)
	assert.Contains(t, info.Extensions, ".gz")
	assert.Equal(t, "Gzip Word List", FormatGzip.String())
	assert.Equal(t, "Unknown", FormatUnknown.String())

	formats := ListSupportedFormats()
	require.Len(t, formats, 3)
	assert.Equal(t, FormatText, formats[0].Format)
}
