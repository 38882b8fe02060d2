package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prepdeck/prepdeck/internal/domain"
)

// maxRequestBody caps JSON request bodies at 1MB. File uploads use
// multipart forms with their own limits.
const maxRequestBody = 1 << 20

// RespondJSON writes a JSON response with the given status code.
// Encoding failures are logged; the status line has already been sent.
func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// DecodeJSON reads and decodes a JSON request body into dst.
// Returns an EINVALID domain error on malformed input so callers can pass
// it straight to ErrorResponse.
func DecodeJSON(r *http.Request, dst interface{}) error {
	body := io.LimitReader(r.Body, maxRequestBody)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Invalid("", "Request body is required")
		}
		return domain.Invalid("", "Request body contains invalid JSON")
	}

	// A second decode catching anything means trailing garbage after the object.
	if dec.More() {
		return domain.Invalid("", "Request body must contain a single JSON object")
	}

	return nil
}

// PathUUID parses a UUID path parameter from the request.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Invalid("", "Invalid "+name+" in URL")
	}
	return id, nil
}
