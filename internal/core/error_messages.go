package core

// error_messages.go maps technical errors to messages shown on the dashboard.
//
// Every message carries a code that users can quote when reporting a problem:
//
//	ING001  No AIDA64 sensor header in the log
//	ING002  Header found but no usable temperature readings
//	FILE001 Upload exceeds the size limit
//	FILE002 Log could not be tokenised as CSV
//	FILE004 No file in the upload form
//	FILE005 Upload is empty
//	UPL002  Every ingest slot is busy
//	UPL004  Request cancelled by the client
//	UPL005  Ingest ran past its timeout
//	DB004   Database refused the connection
//	DB005   Database connection dropped
//	DB006   Database operation timed out
//	RATE001 Client exceeded its request budget
//	AUTH001 Missing or unknown API key
//	REQ001  Malformed request body
//	ERR000  Anything else; check the logs for the technical error
//
// Known sentinel errors are matched with errors.Is first. Errors from other
// layers (pgx, net/http) are then matched case-insensitively against text
// patterns; the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/thermodash/internal/aida"
)

// UserMessage is a user-facing explanation of an error.
type UserMessage struct {
	Message string `json:"message"`          // What happened
	Action  string `json:"action,omitempty"` // What to do about it
	Code    string `json:"code"`             // Support reference
}

var (
	msgHeaderNotFound = UserMessage{
		Message: "No AIDA64 sensor header was found in the log",
		Action:  "Export the sensor log from AIDA64 in CSV format and upload it unchanged",
		Code:    "ING001",
	}
	msgNoValidSamples = UserMessage{
		Message: "The log contains no temperature readings",
		Action:  "Let AIDA64 log for a few seconds before exporting",
		Code:    "ING002",
	}
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Trim the log to a shorter time range",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Make sure the file is a comma-separated AIDA64 log",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose an AIDA64 CSV log to upload",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a log with at least one reading",
		Code:    "FILE005",
	}
	msgBusy = UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
	}
	msgCancelled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL004",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller log or check your connection",
		Code:    "UPL005",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
	msgUnauthorized = UserMessage{
		Message: "A valid API key is required",
		Action:  "Send the key in the X-API-Key header",
		Code:    "AUTH001",
	}
	msgBadRequest = UserMessage{
		Message: "The request could not be understood",
		Action:  "Check the request body and try again",
		Code:    "REQ001",
	}
)

// ErrNoFile is returned by transports when an upload form carries no file.
var ErrNoFile = errors.New("no file provided")

// Transport errors that share the mapping.
var (
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrUnauthorized = errors.New("invalid or missing api key")
	ErrBadRequest   = errors.New("invalid request body")
)

var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{aida.ErrHeaderNotFound, msgHeaderNotFound},
	{aida.ErrNoValidSamples, msgNoValidSamples},
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrNoFile, msgNoFile},
	{ErrEmptyFile, msgEmptyFile},
	{ErrTooManyIngests, msgBusy},
	{ErrRateLimited, msgRateLimited},
	{ErrUnauthorized, msgUnauthorized},
	{ErrBadRequest, msgBadRequest},
	{context.DeadlineExceeded, msgTimeout},
	{context.Canceled, msgCancelled},
}

// errorPattern maps a lower-case substring of an error's text to a message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are tried in order; put specific patterns first.
var errorPatterns = []errorPattern{
	{"parse log", msgInvalidCSV},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
	{"request body too large", msgFileTooLarge},
	{"rate limit", msgRateLimited},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-facing message.
// It returns the zero UserMessage for a nil error.
//
//	msg := MapError(err)
//	// errors.Is(err, aida.ErrHeaderNotFound) -> msg.Code == "ING001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(text, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. It returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
