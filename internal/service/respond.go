// Package service implements the HTTP/JSON surface of ApnaKhata: route
// registration, request decoding, and the mapping from domain errors to
// HTTP statuses. Business failures are classified into a fixed taxonomy
// at this boundary; raw storage errors never reach a response body.
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/apnakhata/apnakhata/internal/auth"
	"github.com/apnakhata/apnakhata/internal/middleware"
	"github.com/apnakhata/apnakhata/internal/money"
	"github.com/apnakhata/apnakhata/internal/storage"
)

// errForbidden rejects a caller who is neither owner nor participant of
// the book they are writing to.
var errForbidden = errors.New("not a participant of this book")

// validationError marks malformed or missing input; it maps to 400.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func errValidation(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError classifies err into the error taxonomy and writes the
// corresponding status with a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classifyError(err)
	if status >= 500 {
		slog.Error("Request error",
			"request_id", middleware.GetRequestID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func classifyError(err error) (int, string) {
	var ve *validationError

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.msg
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, errForbidden.Error()
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, storage.ErrNotFound.Error()
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict, storage.ErrConflict.Error()
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusInternalServerError, "storage unavailable, retry later"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// decodeBody decodes a JSON request body into dst, translating decoding
// failures into validation errors.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, money.ErrInvalidAmount) {
			return money.ErrInvalidAmount
		}
		return errValidation("invalid request body")
	}
	return nil
}

// pathID extracts a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, errValidation("invalid %s", name)
	}
	return id, nil
}
