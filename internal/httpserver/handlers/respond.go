package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cipherlab/internal/demo"
)

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type stateResponse struct {
	State demo.State `json:"state"`
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Code   demo.Code               `json:"code,omitempty"`
	Field  demo.Field              `json:"field,omitempty"`
	Fields []demo.ValidationResult `json:"fields,omitempty"`
	State  demo.State              `json:"state"`
}

// respondWorkflow writes st, or the workflow error together with st so the
// page can render field messages next to the values that caused them.
func respondWorkflow(w http.ResponseWriter, st demo.State, err error) {
	if err == nil {
		respondJSON(w, stateResponse{State: st})
		return
	}
	body := errorResponse{Error: err.Error(), State: st}
	var verr demo.ValidationErrors
	var derr *demo.Error
	switch {
	case errors.As(err, &verr):
		body.Code = "ValidationFailed"
		body.Fields = verr
	case errors.As(err, &derr):
		body.Code, body.Field, body.Error = derr.Code, derr.Field, derr.Message
	}
	respondStatus(w, statusFor(err), body)
}

func statusFor(err error) int {
	var verr demo.ValidationErrors
	switch {
	case errors.As(err, &verr), errors.Is(err, demo.ErrUnsupported):
		return http.StatusUnprocessableEntity
	case errors.Is(err, demo.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, demo.ErrGenerationFailed), errors.Is(err, demo.ErrCipherFailed):
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
