package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"moneyflow/internal/core"
	"moneyflow/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// errBadRequest marks request decoding problems.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps ledger error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrReferentialIntegrity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as JSON. Internal errors are logged and their
// details are not sent to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.slog.LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()))
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var ce *core.Error
		if errors.As(err, &ce) {
			return ce
		}
		if errors.Is(err, io.EOF) {
			return badRequest("request body is empty")
		}
		return badRequest("invalid JSON: %v", err)
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}
