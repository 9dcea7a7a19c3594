package web

import (
	"net/http"

	"github.com/JonMunkholm/thermodash/internal/core"
	"github.com/JonMunkholm/thermodash/internal/live"
	"github.com/JonMunkholm/thermodash/internal/logging"
)

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status      string             `json:"status"`
	Store       string             `json:"store"`
	LiveClients int                `json:"live_clients"`
	Ingests     core.LimiterStatus `json:"ingests"`
	Error       string             `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:      "ok",
		Store:       "memory",
		LiveClients: s.hub.ClientCount(),
		Ingests:     s.service.LimiterStatus(),
	}
	if s.cfg.Database.Enabled() {
		resp.Store = "postgres"
	}

	status := http.StatusOK
	if _, err := s.service.Snapshot(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Error = core.MapError(err).Message
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleWebSocket attaches a live client. The current state is sent first so
// the page does not wait for the next refresh.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	initial := []live.Message{
		{Type: live.TypeCPU, Payload: newCPUView(snap)},
		{Type: live.TypeLab, Payload: s.service.Lab()},
	}
	// The upgrader has already answered the client when this fails.
	if err := s.hub.ServeWS(w, r, initial...); err != nil {
		logging.FromContext(r.Context()).Warn("websocket connect failed", "error", err)
	}
}
