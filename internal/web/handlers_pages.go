package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/thermodash/internal/logging"
	"github.com/JonMunkholm/thermodash/internal/web/templates"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	render(w, r, templates.Dashboard(snap, s.service.Lab()))
}

func (s *Server) handleCPUPage(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Snapshot(r.Context())
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	render(w, r, templates.CPUMonitoring(snap))
}

func (s *Server) handleLabPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, templates.LabMonitoring(s.service.Lab()))
}

func (s *Server) handleGetLab(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Lab())
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}
