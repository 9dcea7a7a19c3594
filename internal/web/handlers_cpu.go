package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/JonMunkholm/thermodash/internal/aida"
	"github.com/JonMunkholm/thermodash/internal/core"
	"github.com/JonMunkholm/thermodash/internal/store"
)

const (
	// multipartOverhead is allowed on top of the file size for form framing.
	multipartOverhead = 1 << 20

	// multipartMemory is kept in memory before parts spill to disk.
	multipartMemory = 8 << 20

	// maxJSONBody bounds small JSON request bodies.
	maxJSONBody = 1 << 10

	defaultHistoryLimit = 20
)

// ingestResponse is returned by a successful upload or sample ingest.
type ingestResponse struct {
	CPU       *cpuView           `json:"cpu"`
	Stats     aida.Stats         `json:"stats"`
	Record    store.IngestRecord `json:"record"`
	Sanitized bool               `json:"sanitized,omitempty"`
}

// handleGetCPU returns the current dashboard state.
func (s *Server) handleGetCPU(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, newCPUView(snap))
}

// handleUpload ingests a multipart AIDA64 log sent in the "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, fmt.Errorf("%w: limit %d bytes", core.ErrFileTooLarge, s.cfg.Upload.MaxFileSize), http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrBadRequest, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, core.ErrNoFile, http.StatusBadRequest)
		return
	}
	defer file.Close()

	ctx := withClient(r.Context(), r)
	out, err := s.service.IngestUpload(ctx, filepath.Base(header.Filename), file, header.Size)
	s.respondIngest(w, r, out, err)
}

// handleSample ingests the bundled sample log.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	out, err := s.service.IngestSample(withClient(r.Context(), r))
	s.respondIngest(w, r, out, err)
}

// respondIngest publishes and reports an ingest attempt. A rejected log
// still changes the dashboard, so the fallback state goes out with the error.
func (s *Server) respondIngest(w http.ResponseWriter, r *http.Request, out *core.IngestOutcome, err error) {
	if out == nil {
		respondError(w, r, err, ingestFailureStatus(err))
		return
	}

	s.PublishCPU(out.Snapshot)

	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, core.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondErrorWith(w, r, err, status, newCPUView(out.Snapshot))
		return
	}

	resp := ingestResponse{
		CPU:       newCPUView(out.Snapshot),
		Record:    out.Record,
		Sanitized: out.Sanitized,
	}
	if out.Result != nil {
		resp.Stats = out.Result.Stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// ingestFailureStatus maps errors that left the dashboard untouched.
func ingestFailureStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrTooManyIngests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// handleAutoRefresh switches the live variation on or off.
// Body: {"enabled": true}
func (s *Server) handleAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: %v", core.ErrBadRequest, err), http.StatusBadRequest)
		return
	}
	if req.Enabled == nil {
		respondError(w, r, fmt.Errorf("%w: enabled is required", core.ErrBadRequest), http.StatusBadRequest)
		return
	}

	snap, err := s.service.SetAutoRefresh(r.Context(), *req.Enabled)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	s.PublishCPU(snap)
	writeJSON(w, http.StatusOK, map[string]any{"cpu": newCPUView(snap)})
}

// handleHistory lists recent ingest attempts, newest first.
// Query: ?limit=20
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, r, fmt.Errorf("%w: limit must be a positive integer", core.ErrBadRequest), http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.IngestRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}
