package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

func TestMapError(t *testing.T) {
	_, headerErr := aida.Ingest("no,header,here\n1,2,3,4\n")
	_, samplesErr := aida.Ingest("Date,Time,UpTime,CPU\n,,,C\n1,2,3,0\n")

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error", nil, ""},
		{"header not found", headerErr, "ING001"},
		{"no valid samples", samplesErr, "ING002"},
		{"wrapped ingest error", fmt.Errorf("ingest upload: %w", headerErr), "ING001"},
		{"file too large", fmt.Errorf("%w: exceeds 10 bytes", ErrFileTooLarge), "FILE001"},
		{"no file", ErrNoFile, "FILE004"},
		{"empty file", ErrEmptyFile, "FILE005"},
		{"busy", ErrTooManyIngests, "UPL002"},
		{"cancelled", context.Canceled, "UPL004"},
		{"deadline", fmt.Errorf("ingest: %w", context.DeadlineExceeded), "UPL005"},
		{"tokenizer failure", errors.New("parse log: bare quote"), "FILE002"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "DB004"},
		{"connection reset", errors.New("read: connection reset by peer"), "DB005"},
		{"driver timeout", errors.New("i/o timeout"), "DB006"},
		{"http body limit", errors.New("http: request body too large"), "FILE001"},
		{"rate limit", ErrRateLimited, "RATE001"},
		{"unauthorized", ErrUnauthorized, "AUTH001"},
		{"bad request", fmt.Errorf("%w: unexpected EOF", ErrBadRequest), "REQ001"},
		{"case insensitive", errors.New("CONNECTION REFUSED"), "DB004"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil && tt.wantCode != "" {
				t.Fatal("test setup produced a nil error")
			}
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrTooManyIngests)
	want := "Too many uploads in progress (Code: UPL002). Please wait a moment and try again"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"known sentinel", ErrEmptyFile, true},
		{"known pattern", errors.New("connection reset"), true},
		{"unknown", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	ue := NewUserError(ErrNoFile)
	if ue.User.Code != "FILE004" {
		t.Errorf("Code = %q, want FILE004", ue.User.Code)
	}
	if ue.Error() != "No file was selected" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, ErrNoFile) {
		t.Error("UserError should unwrap to the technical error")
	}
}
