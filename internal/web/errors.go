package web

// errors.go renders errors for clients.
//
// Handlers call respondError with a technical error. The error is logged with
// the request ID; the client gets the message, action and code from
// core.MapError as JSON on API routes and as an HTML alert elsewhere.

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/thermodash/internal/core"
	"github.com/JonMunkholm/thermodash/internal/logging"
	"github.com/JonMunkholm/thermodash/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error. Failed uploads also
// carry the fallback dashboard state in CPU.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Action  string   `json:"action,omitempty"`
	Code    string   `json:"code"`
	CPU     *cpuView `json:"cpu,omitempty"`
}

func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	respondErrorWith(w, r, err, status, nil)
}

// respondErrorWith is respondError with the dashboard state attached.
func respondErrorWith(w http.ResponseWriter, r *http.Request, err error, status int, cpu *cpuView) {
	msg := core.MapError(err)

	// Mapped errors are client mistakes or expected rejections.
	level := slog.LevelError
	if core.IsUserFacing(err) {
		level = slog.LevelWarn
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
			CPU:     cpu,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
