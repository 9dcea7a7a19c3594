package core

// streaming.go decodes an uploaded AIDA64 log into text.
//
// AIDA64 writes logs with the Windows code page, so the unit row ("°C")
// frequently holds bytes that are not valid UTF-8. Some editors add a BOM
// when a log is re-saved. LogReader strips the BOM and enforces the upload
// size limit while the body is read; DecodeLog sanitises the result.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrFileTooLarge is returned once more than the configured limit has
	// been read.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned when the upload holds no bytes besides a BOM.
	ErrEmptyFile = errors.New("empty file")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LogReader wraps an upload body. It drops a leading UTF-8 BOM, counts the
// bytes it yields and fails with ErrFileTooLarge past limit. A limit of zero
// or less disables the check.
type LogReader struct {
	br      *bufio.Reader
	limit   int64
	n       int64
	checked bool
}

// NewLogReader wraps r.
func NewLogReader(r io.Reader, limit int64) *LogReader {
	return &LogReader{br: bufio.NewReader(r), limit: limit}
}

// Read implements io.Reader.
func (lr *LogReader) Read(p []byte) (int, error) {
	if !lr.checked {
		lr.checked = true
		if head, _ := lr.br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
			_, _ = lr.br.Discard(len(utf8BOM))
		}
	}

	n, err := lr.br.Read(p)
	lr.n += int64(n)
	if lr.limit > 0 && lr.n > lr.limit {
		return n, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, lr.limit)
	}
	return n, err
}

// BytesRead returns the number of bytes yielded so far, BOM excluded.
func (lr *LogReader) BytesRead() int64 {
	return lr.n
}

// DecodedLog is an upload ready for ingestion.
type DecodedLog struct {
	Text string
	// Bytes is the decoded size before sanitising.
	Bytes int64
	// Sanitized is set when invalid UTF-8 was replaced with U+FFFD.
	Sanitized bool
}

// DecodeLog reads r to EOF through a LogReader and returns valid UTF-8 text.
func DecodeLog(r io.Reader, limit int64) (DecodedLog, error) {
	lr := NewLogReader(r, limit)

	var buf strings.Builder
	if _, err := io.Copy(&buf, lr); err != nil {
		return DecodedLog{}, err
	}
	if lr.BytesRead() == 0 {
		return DecodedLog{}, ErrEmptyFile
	}

	text := buf.String()
	out := DecodedLog{Text: text, Bytes: lr.BytesRead()}
	if !utf8.ValidString(text) {
		out.Text = replaceInvalidUTF8(text)
		out.Sanitized = true
	}
	return out, nil
}

// replaceInvalidUTF8 substitutes U+FFFD for each byte that does not start a
// valid UTF-8 sequence, the way browsers decode text files.
func replaceInvalidUTF8(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteString(s[:size])
		}
		s = s[size:]
	}
	return b.String()
}
