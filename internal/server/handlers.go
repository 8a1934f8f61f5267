package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonathan/careerpage/internal/server/middleware"
	"github.com/jonathan/careerpage/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies. A careers page with many sections is
// still well under this.
const maxBodyBytes = 1 << 20

// responder writes JSON responses and maps errors to statuses.
type responder struct {
	logger *zap.Logger
}

// jsonResponse writes a JSON response
func (rs responder) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (rs responder) errorResponse(w http.ResponseWriter, status int, message string) {
	rs.jsonResponse(w, status, map[string]string{"error": message})
}

// fail maps err to a status and writes it. Causes of 5xx responses are logged
// and never sent to the client.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	rs.errorResponse(w, status, publicMessage(err, status))
}

// decodeJSON reads the request body into dst and, when dst carries validate
// tags, validates it. It writes the 400 itself and reports whether to go on.
func (rs responder) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			rs.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			rs.errorResponse(w, http.StatusBadRequest, "Request body is required")
		default:
			rs.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	if err := types.Validate(dst); err != nil {
		rs.errorResponse(w, http.StatusBadRequest, types.ValidationMessage(err))
		return false
	}
	return true
}

// identity returns the caller resolved by the auth gate. Routes reaching it
// without one are misconfigured, so a missing identity is a 401.
func identity(r *http.Request) (middleware.Identity, error) {
	id, ok := middleware.GetIdentity(r)
	if !ok {
		return middleware.Identity{}, &ErrUnauthorized{}
	}
	return id, nil
}

// pathUUID parses a UUID path value. Malformed IDs name nothing, so they are
// reported as not found.
func pathUUID(r *http.Request, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrNotFound{Resource: resource}
	}
	return id, nil
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}
