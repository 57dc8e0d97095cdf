package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iksnae/workflow-recorder/internal"
	"github.com/iksnae/workflow-recorder/internal/export"
)

const maxBodyBytes = 8 << 20 // screenshots arrive as data URLs

// tabSignal is a browser tab lifecycle notification
type tabSignal struct {
	Event  string         `json:"event"` // created, updated, activated, removed
	TabID  internal.TabID `json:"tabId"`
	Status string         `json:"status,omitempty"`
	URL    string         `json:"url,omitempty"`
	Title  string         `json:"title,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg internal.Message
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON message")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Controller.Handle(r.Context(), msg))
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	var sig tabSignal
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sig); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON tab signal")
		return
	}

	rec := s.deps.Controller.Recorder()
	info := internal.TabInfo{ID: sig.TabID, URL: sig.URL, Title: sig.Title, Status: sig.Status}
	switch sig.Event {
	case "created":
		rec.TabCreated(info)
	case "updated":
		rec.TabUpdated(info)
	case "activated":
		rec.TabActivated(sig.TabID)
	case "removed":
		rec.TabRemoved(sig.TabID)
	default:
		writeError(w, http.StatusBadRequest, "unknown_tab_event", "unknown tab event: "+sig.Event)
		return
	}
	writeJSON(w, http.StatusOK, internal.Response{Success: true})
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}
	list, err := s.deps.Archive.ListWorkflows(r.Context())
	if err != nil {
		s.writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}
	wf, err := s.deps.Archive.LoadWorkflow(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeArchiveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}
	if err := s.deps.Archive.DeleteWorkflow(r.Context(), r.PathValue("id")); err != nil {
		s.writeArchiveError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportWorkflow(w http.ResponseWriter, r *http.Request) {
	if !s.archiveEnabled(w) {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported_format", err.Error())
		return
	}
	wf, err := s.deps.Archive.LoadWorkflow(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeArchiveError(w, err)
		return
	}
	w.Header().Set("Content-Type", export.ContentType(exporter))
	w.Header().Set("Content-Disposition", `attachment; filename="`+wf.ID+"."+exporter.Extension()+`"`)
	if err := exporter.Export(wf, w); err != nil {
		internal.LogError("export %s as %s failed: %v", wf.ID, format, err)
	}
}

func (s *Server) archiveEnabled(w http.ResponseWriter) bool {
	if s.deps.Archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive_disabled", "workflow archive is not configured")
		return false
	}
	return true
}

func (s *Server) writeArchiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, internal.ErrWorkflowNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	internal.LogError("archive request failed: %v", err)
	writeError(w, http.StatusInternalServerError, "archive_error", "archive request failed")
}
