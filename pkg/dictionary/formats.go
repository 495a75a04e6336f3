package dictionary

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/charmbracelet/log"
)

// FileFormat represents the supported word list encodings
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line
	FormatGzip               // gzip-compressed text
	FormatBrotli             // brotli-compressed text
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// FormatInfo contains metadata about a word list format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	Magic       []byte // leading bytes, nil when the format has none
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".lst", ".words", ""},
	},
	FormatGzip: {
		Format:      FormatGzip,
		Description: "Gzip Word List",
		Extensions:  []string{".gz"},
		Magic:       []byte{0x1f, 0x8b},
	},
	FormatBrotli: {
		Format:      FormatBrotli,
		Description: "Brotli Word List",
		Extensions:  []string{".br"},
	},
}

// DetectFileFormat works out the format of a word list from its magic bytes,
// then its extension. Unknown extensions are read as plain text.
func DetectFileFormat(filename string) (FileFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	head := make([]byte, 2)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	return detect(filename, head[:n])
}

func detect(filename string, head []byte) (FileFormat, error) {
	for _, info := range ListSupportedFormats() {
		if info.Magic != nil && bytes.HasPrefix(head, info.Magic) {
			return info.Format, nil
		}
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, info := range ListSupportedFormats() {
		if !slices.Contains(info.Extensions, ext) {
			continue
		}
		if info.Magic != nil {
			// extension claims a format the bytes do not back up
			return FormatUnknown, fmt.Errorf("file %s has a %s extension but no %s header", filename, ext, info.Description)
		}
		return info.Format, nil
	}
	// word lists come with all sorts of extensions (.dic, .en, ...)
	return FormatText, nil
}

// ValidateFileFormat checks that a file exists and decodes as expectedFormat.
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if _, exists := supportedFormats[expectedFormat]; !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}
	format, err := DetectFileFormat(filename)
	if err != nil {
		return err
	}
	if format != expectedFormat {
		return fmt.Errorf("file %s is %s, expected %s", filename, format, expectedFormat)
	}
	log.Debugf("Word list %s validated as %s", filename, format)
	return nil
}

// Open opens a word list and returns a reader of its decoded text.
func Open(filename string) (io.ReadCloser, FileFormat, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	buffered := bufio.NewReader(file)
	head, _ := buffered.Peek(2)

	format, err := detect(filename, head)
	if err != nil {
		file.Close()
		return nil, FormatUnknown, err
	}

	switch format {
	case FormatGzip:
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			file.Close()
			return nil, format, fmt.Errorf("failed to read gzip word list %s: %w", filename, err)
		}
		return &decodedFile{Reader: gz, closers: []io.Closer{gz, file}}, format, nil
	case FormatBrotli:
		return &decodedFile{Reader: brotli.NewReader(buffered), closers: []io.Closer{file}}, format, nil
	}
	return &decodedFile{Reader: buffered, closers: []io.Closer{file}}, format, nil
}

type decodedFile struct {
	io.Reader
	closers []io.Closer
}

func (d *decodedFile) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats, ordered by format
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for _, info := range supportedFormats {
		formats = append(formats, info)
	}
	slices.SortFunc(formats, func(a, b FormatInfo) int { return int(a.Format) - int(b.Format) })
	return formats
}
