package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cipherlab/internal/auth"
	"cipherlab/internal/catalogue"
	"cipherlab/internal/demo"
)

func session(reg *demo.Registry, w http.ResponseWriter, r *http.Request) (*demo.Session, bool) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return nil, false
	}
	s, ok := reg.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// decodeOptional decodes a JSON body into v; an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// POST /v1/sessions
func CreateSession(cat *catalogue.Catalogue, reg *demo.Registry, signer *auth.Signer, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Algorithm string `json:"algorithm"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Algorithm) == "" {
			http.Error(w, "algorithm required", http.StatusBadRequest)
			return
		}
		spec, ok := cat.Lookup(req.Algorithm)
		if !ok {
			http.Error(w, "algorithm not found", http.StatusNotFound)
			return
		}
		sess := reg.Create(spec)
		token, err := signer.Sign(sess.ID)
		if err != nil {
			reg.Delete(sess.ID)
			lg.Errorw("sign session handle", "error", err)
			http.Error(w, "could not issue session token", http.StatusInternalServerError)
			return
		}
		lg.Infow("session created", "session", sess.ID, "algorithm", spec.ID)
		respondStatus(w, http.StatusCreated, map[string]any{
			"session_id": sess.ID,
			"token":      token,
			"expires_in": int(signer.TTL().Seconds()),
			"state":      sess.Snapshot(),
		})
	}
}

// GET /v1/sessions/{id}
func GetSession(reg *demo.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		respondJSON(w, stateResponse{State: sess.Snapshot()})
	}
}

// DELETE /v1/sessions/{id}
func DeleteSession(reg *demo.Registry, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !reg.Delete(id) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		lg.Infow("session discarded", "session", id)
		respondJSON(w, map[string]any{"deleted": true})
	}
}

// PATCH /v1/sessions/{id} applies one edit action or a list of them, in order.
// Application stops at the first rejected action.
func EditSession(reg *demo.Registry, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var actions []demo.Action
		if trimmed := strings.TrimSpace(string(body)); strings.HasPrefix(trimmed, "[") {
			err = json.Unmarshal(body, &actions)
		} else {
			var a demo.Action
			err = json.Unmarshal(body, &a)
			actions = []demo.Action{a}
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st := sess.Snapshot()
		for _, a := range actions {
			if !a.IsEdit() {
				http.Error(w, "unknown action "+string(a.Type), http.StatusBadRequest)
				return
			}
			if st, err = sess.Dispatch(a); err != nil {
				lg.Debugw("edit rejected", "session", sess.ID, "action", a.Type, "error", err)
				break
			}
		}
		respondWorkflow(w, st, err)
	}
}

// POST /v1/sessions/{id}/process
func Process(reg *demo.Registry, ctl *demo.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		st, err := ctl.Process(r.Context(), sess)
		respondWorkflow(w, st, err)
	}
}

type sizeRequest struct {
	Size int `json:"size"`
}

// POST /v1/sessions/{id}/generate with an optional {"size": bits}.
func Generate(reg *demo.Registry, ctl *demo.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		var req sizeRequest
		if err := decodeOptional(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := ctl.Generate(r.Context(), sess, req.Size)
		respondWorkflow(w, st, err)
	}
}

// POST /v1/sessions/{id}/switch-mode
func SwitchMode(reg *demo.Registry, ctl *demo.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		st, err := ctl.SwitchMode(r.Context(), sess)
		respondWorkflow(w, st, err)
	}
}

// POST /v1/sessions/{id}/key-size
func ChangeKeySize(reg *demo.Registry, ctl *demo.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(reg, w, r)
		if !ok {
			return
		}
		var req sizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		st, err := ctl.ChangeKeySize(r.Context(), sess, req.Size)
		respondWorkflow(w, st, err)
	}
}
