package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

// maxBodyBytes caps request bodies at 4 MiB.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	version := s.cfg.Version
	if version == "" {
		version = "dev"
	}
	writeAPIJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: version})
}

func (s *Server) handleGroupTasks(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	groups, err := s.engine.GroupTasks(r.Context(), req.Tasks)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, groups)
}

func (s *Server) handleInferDependencies(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Task == nil {
		writeError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    string(task.KindMissingRequiredField),
			Message: "request body must contain a task",
		})
		return
	}
	now, ok := s.resolveNow(w, r, req.Now)
	if !ok {
		return
	}
	inferred, err := s.engine.InferDependencies(r.Context(), *req.Task, now)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, inferred)
}

func (s *Server) handlePrioritizeTasks(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now, ok := s.resolveNow(w, r, req.Now)
	if !ok {
		return
	}
	assessments, err := s.engine.PrioritizeTasks(r.Context(), req.Tasks, now)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, assessments)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now, ok := s.resolveNow(w, r, req.Now)
	if !ok {
		return
	}
	items, err := s.engine.CreateSchedule(r.Context(), req.Tasks, now)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, items)
}

func (s *Server) handleScheduleBriefing(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now, ok := s.resolveNow(w, r, req.Now)
	if !ok {
		return
	}
	assessments, err := s.engine.PrioritizeTasks(r.Context(), req.Tasks, now)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	items := schedule.Build(schedule.Rank(assessments, req.Tasks), now)
	entries := briefing.Entries(items, req.Tasks, assessments)

	writeAPIJSON(w, http.StatusOK, BriefingResponse{
		Schedule: items,
		Briefing: s.briefer.Brief(r.Context(), entries),
	})
}

func (s *Server) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Target == nil {
		writeError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    string(task.KindMissingRequiredField),
			Message: "request body must contain a target task",
		})
		return
	}
	matches, err := s.engine.FindSimilar(r.Context(), *req.Target, req.Tasks, req.Threshold)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, SimilarResponse{Matches: matches})
}

// resolveNow parses the optional "now" override, falling back to the server clock.
func (s *Server) resolveNow(w http.ResponseWriter, r *http.Request, raw string) (time.Time, bool) {
	if raw == "" {
		return s.clock(), true
	}
	now, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    string(task.KindInvalidDateFormat),
			Message: fmt.Sprintf("now must be RFC 3339, got %q", raw),
		})
		return time.Time{}, false
	}
	return now, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, ErrorBody{
			Kind:    KindInvalidRequest,
			Message: "invalid JSON body: " + err.Error(),
		})
		return false
	}
	return true
}

// writeEngineError maps an engine error to an HTTP status by its kind.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var te *task.Error
	if !errors.As(err, &te) {
		slog.Error("request failed", "request_id", requestID(r.Context()), "error", err)
		writeError(w, r, http.StatusInternalServerError, ErrorBody{Kind: KindInternal, Message: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch te.Kind {
	case task.KindMissingRequiredField, task.KindInsufficientData, task.KindInvalidDateFormat:
		status = http.StatusBadRequest
	case task.KindOracleUnavailable:
		status = http.StatusServiceUnavailable
		slog.Warn("similarity oracle unavailable", "request_id", requestID(r.Context()), "error", err)
	}
	writeError(w, r, status, ErrorBody{
		Kind:    string(te.Kind),
		Message: te.Message,
		TaskID:  te.TaskID,
		Details: te.Details,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, body ErrorBody) {
	body.RequestID = requestID(r.Context())
	writeAPIJSON(w, status, ErrorResponse{Error: body})
}

// writeAPIJSON is a helper to write JSON responses
func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
