package httpapi

import (
	"encoding/json"
	"net/http"

	"modelhost/internal/app"
	"modelhost/internal/engine"
	"modelhost/internal/installer"
	"modelhost/internal/supervisor"
	"modelhost/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusForError maps well-known core errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case app.IsNotFound(err), supervisor.IsModelNotInstalled(err):
		return http.StatusNotFound
	case engine.IsEngineUnavailable(err):
		return http.StatusServiceUnavailable
	case supervisor.IsHealthTimeout(err):
		return http.StatusGatewayTimeout
	case supervisor.IsSpawnError(err),
		installer.IsDownloadError(err),
		installer.IsDependencyInstallError(err):
		return http.StatusBadGateway
	case engine.IsTokenizationError(err):
		return http.StatusBadRequest
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
