package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

// HandlerWithErr is an http handler that reports failures as an error.
type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

// Error is an error carrying the HTTP status to answer with.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message + " code=" + strconv.Itoa(e.Status)
}

// errorResponse matches the body FastAPI-style clients expect.
type errorResponse struct {
	Detail string `json:"detail"`
}

// Adapt turns a HandlerWithErr into an http.Handler. *Error values keep their
// status, any other error becomes a 500 with the error text as detail.
func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var statusErr *Error
		if errors.As(err, &statusErr) {
			writeJSON(w, statusErr.Status, errorResponse{Detail: statusErr.Message})
			return
		}
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "error", err)
	}
}
