package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	errs "github.com/matzehuels/glycodraw/pkg/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses. Uncoded errors are internal
// and their message is not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorBody{Error: "internal error", Code: string(errs.ErrCodeInternal)})
		return
	}
	writeJSON(w, status, errorBody{Error: errs.UserMessage(err), Code: string(code)})
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidKind,
		errs.ErrCodeInvalidName, errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeSessionNotFound, errs.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case errs.ErrCodeInvalidTarget, errs.ErrCodeSlotConflict:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeGestureActive:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body of at most maxBodyBytes. Unknown fields are
// rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func notFound(kind, id string) error {
	if kind == "session" {
		return errs.New(errs.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return errs.New(errs.ErrCodeNotFound, "%s %q not found", kind, id)
}

func badRequest(format string, args ...any) error {
	return errs.New(errs.ErrCodeInvalidInput, "%s", fmt.Sprintf(format, args...))
}
