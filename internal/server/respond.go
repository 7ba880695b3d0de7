package server

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/almanac/internal/platform/errors"
)

// errorResponse is the stable error envelope: a human-readable reason plus a
// machine code. Internal error details never reach the client.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeError maps a domain error to its HTTP status and stable envelope.
// Anything without a domain code is treated as an unexpected server failure:
// logged with detail, reported without it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	domainErr := apperrors.From(err)
	if domainErr == nil {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Code:  string(apperrors.CodeUnknown),
		})
		return
	}

	status := domainErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{
		Error: domainErr.Message,
		Code:  string(domainErr.Code),
	})
}

// decodeBody decodes a JSON request body into target, mapping malformed
// payloads to a client error.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return apperrors.New(apperrors.CodeInvalidBody, "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidBody, "request body is not valid JSON", err)
	}
	return nil
}
