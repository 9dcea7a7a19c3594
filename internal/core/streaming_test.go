package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLogReader_BOM(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "BOM stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "Date,Time"...),
			want:  "Date,Time",
		},
		{
			name:  "no BOM",
			input: []byte("Date,Time"),
			want:  "Date,Time",
		},
		{
			name:  "only BOM",
			input: []byte{0xEF, 0xBB, 0xBF},
			want:  "",
		},
		{
			name:  "partial BOM kept",
			input: []byte{0xEF, 0xBB, 'a'},
			want:  string([]byte{0xEF, 0xBB, 'a'}),
		},
		{
			name:  "shorter than BOM",
			input: []byte("a"),
			want:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogReader(bytes.NewReader(tt.input), 0)
			got, err := io.ReadAll(lr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if lr.BytesRead() != int64(len(tt.want)) {
				t.Errorf("BytesRead = %d, want %d", lr.BytesRead(), len(tt.want))
			}
		})
	}
}

func TestLogReader_Limit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		limit   int64
		wantErr bool
	}{
		{name: "under limit", size: 100, limit: 200},
		{name: "at limit", size: 200, limit: 200},
		{name: "over limit", size: 201, limit: 200, wantErr: true},
		{name: "limit disabled", size: 5000, limit: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogReader(strings.NewReader(strings.Repeat("x", tt.size)), tt.limit)
			_, err := io.ReadAll(lr)
			if tt.wantErr {
				if !errors.Is(err, ErrFileTooLarge) {
					t.Errorf("error = %v, want ErrFileTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDecodeLog(t *testing.T) {
	tests := []struct {
		name          string
		input         []byte
		want          string
		wantSanitized bool
		wantErr       error
	}{
		{
			name:  "plain log",
			input: []byte("Date,Time,UpTime,CPU\n"),
			want:  "Date,Time,UpTime,CPU\n",
		},
		{
			name:  "UTF-8 degree sign kept",
			input: []byte(",,,°C\n"),
			want:  ",,,°C\n",
		},
		{
			name:          "code page degree sign replaced",
			input:         []byte{',', ',', ',', 0xB0, 'C', '\n'},
			want:          ",,,\uFFFDC\n",
			wantSanitized: true,
		},
		{
			name:          "BOM and invalid byte",
			input:         []byte{0xEF, 0xBB, 0xBF, 'h', 'e', 0x80, 'l', 'o'},
			want:          "he\uFFFDlo",
			wantSanitized: true,
		},
		{
			name:          "each invalid byte replaced",
			input:         []byte{'a', 0xB0, 0xB0, 'b'},
			want:          "a\uFFFD\uFFFDb",
			wantSanitized: true,
		},
		{
			name:  "literal replacement character kept",
			input: []byte("x\uFFFDy"),
			want:  "x\uFFFDy",
		},
		{
			name:    "empty",
			input:   nil,
			wantErr: ErrEmptyFile,
		},
		{
			name:    "BOM only",
			input:   []byte{0xEF, 0xBB, 0xBF},
			wantErr: ErrEmptyFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLog(bytes.NewReader(tt.input), 1024)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
			if got.Sanitized != tt.wantSanitized {
				t.Errorf("Sanitized = %v, want %v", got.Sanitized, tt.wantSanitized)
			}
		})
	}
}

func TestDecodeLog_TooLarge(t *testing.T) {
	_, err := DecodeLog(strings.NewReader(strings.Repeat("1,", 600)), 1000)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}
