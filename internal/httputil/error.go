package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tablekeep/tablekeep/internal/rules"
	"github.com/tablekeep/tablekeep/internal/store"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

// JSON writes v with the given status. Encoding failures are logged, not
// surfaced; the status line has already gone out.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// WriteError maps service errors onto the HTTP surface. Engine denials keep
// their structure: authentication and authorization failures stay
// distinguishable from malformed documents, and schema denials carry the
// full violation list.
func WriteError(w http.ResponseWriter, msg string, err error) {
	var denied *rules.DecisionError
	switch {
	case errors.As(err, &denied):
		writeDecision(w, denied.Decision)
	case errors.Is(err, store.ErrNotFound):
		NotFound(w, msg, err)
	default:
		InternalServerError(w, msg, err)
	}
}

func writeDecision(w http.ResponseWriter, d rules.Decision) {
	status := http.StatusUnprocessableEntity
	switch d.Reason {
	case rules.ReasonUnauthenticated:
		status = http.StatusUnauthorized
	case rules.ReasonUnauthorized:
		status = http.StatusForbidden
	}
	slog.Warn("mutation denied", "reason", d.Reason, "violations", len(d.Violations))
	JSON(w, status, d)
}
