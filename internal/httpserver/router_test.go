package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"cipherlab/internal/auth"
	"cipherlab/internal/catalogue"
	"cipherlab/internal/demo"
	"cipherlab/internal/models"
	"cipherlab/internal/store"
)

type fakeLogs struct{ rows []models.AuditLog }

func (f *fakeLogs) WriteAudit(_ context.Context, l *models.AuditLog) error {
	f.rows = append(f.rows, *l)
	return nil
}

func (f *fakeLogs) SessionLogs(_ context.Context, id string, limit int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, l := range f.rows {
		if l.SessionID == id && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}

type testServer struct {
	t    *testing.T
	h    http.Handler
	logs *fakeLogs
}

func newTestServer(t *testing.T) *testServer {
	logs := &fakeLogs{}
	lg := zap.NewNop().Sugar()
	d := Deps{
		Catalogue: catalogue.Default(),
		Registry:  demo.NewRegistry(nil, time.Hour),
		Controller: demo.NewController(
			demo.WithDelayScale(0),
			demo.WithObserver(store.NewAuditor(logs, lg, nil)),
		),
		Signer: auth.NewSigner("test-secret", time.Hour, nil),
		Logs:   logs,
		Log:    lg,
	}
	return &testServer{t: t, h: NewRouter(d), logs: logs}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)
	var out map[string]any
	if rr.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			s.t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rr, out
}

func (s *testServer) create(alg string) (id, token string) {
	s.t.Helper()
	rr, out := s.do(http.MethodPost, "/v1/sessions", "", map[string]string{"algorithm": alg})
	if rr.Code != http.StatusCreated {
		s.t.Fatalf("create %s: %d %s", alg, rr.Code, rr.Body.String())
	}
	return out["session_id"].(string), out["token"].(string)
}

func state(out map[string]any) map[string]any {
	st, _ := out["state"].(map[string]any)
	return st
}

func TestAlgorithms(t *testing.T) {
	s := newTestServer(t)
	rr, out := s.do(http.MethodGet, "/v1/algorithms", "", nil)
	if rr.Code != http.StatusOK || out["count"].(float64) != 8 {
		t.Fatalf("list: %d %v", rr.Code, out["count"])
	}

	rr, out = s.do(http.MethodGet, "/v1/algorithms/twofish", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: %d", rr.Code)
	}
	hexChars := out["key_hex_chars"].(map[string]any)
	if hexChars["192"].(float64) != 48 || out["nonce_hex_chars"].(float64) != 32 {
		t.Fatalf("unexpected hex lengths %v %v", hexChars, out["nonce_hex_chars"])
	}
	if out["size_selectable"] != true {
		t.Fatalf("twofish should offer a size selector: %v", out["size_selectable"])
	}

	if rr, _ := s.do(http.MethodGet, "/v1/algorithms/des", "", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown algorithm: %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	rr, _ := newTestServer(t).do(http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rr.Code)
	}
}

func TestCreateSessionErrors(t *testing.T) {
	s := newTestServer(t)
	if rr, _ := s.do(http.MethodPost, "/v1/sessions", "", map[string]string{"algorithm": "ROT13"}); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown algorithm: %d", rr.Code)
	}
	if rr, _ := s.do(http.MethodPost, "/v1/sessions", "", map[string]string{}); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing algorithm: %d", rr.Code)
	}
}

func TestEncryptDecryptOverHTTP(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("AES")
	base := "/v1/sessions/" + id

	rr, out := s.do(http.MethodPatch, base, tok, []demo.Action{
		{Type: demo.SetMaterial, Field: demo.FieldKey, Value: "my passphrase"},
		{Type: demo.SetInput, Value: "attack at dawn"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: %d %s", rr.Code, rr.Body.String())
	}

	rr, out = s.do(http.MethodPost, base+"/process", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("process: %d %s", rr.Code, rr.Body.String())
	}
	token := state(out)["output_text"].(string)

	rr, out = s.do(http.MethodPost, base+"/switch-mode", tok, nil)
	if rr.Code != http.StatusOK || state(out)["mode"] != "decrypt" || state(out)["output_text"] != "" {
		t.Fatalf("switch: %d %v", rr.Code, state(out))
	}

	s.do(http.MethodPatch, base, tok, demo.Action{Type: demo.SetInput, Value: token})
	rr, out = s.do(http.MethodPost, base+"/process", tok, nil)
	if rr.Code != http.StatusOK || state(out)["output_text"] != "attack at dawn" {
		t.Fatalf("decrypt: %d %v", rr.Code, state(out))
	}
}

func TestValidationFailureReturnsFields(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("TWOFISH")
	base := "/v1/sessions/" + id

	s.do(http.MethodPatch, base, tok, demo.Action{Type: demo.SetKeyMode, Value: "manual"})
	rr, out := s.do(http.MethodPatch, base, tok, demo.Action{Type: demo.SetMaterial, Field: demo.FieldKey, Value: "XYZ"})
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: %d", rr.Code)
	}
	if msg := state(out)["errors"].(map[string]any)["key"]; msg == nil {
		t.Fatalf("manual key edit was not validated: %v", state(out))
	}

	rr, out = s.do(http.MethodPost, base+"/process", tok, nil)
	if rr.Code != http.StatusUnprocessableEntity || out["code"] != "ValidationFailed" {
		t.Fatalf("process: %d %v", rr.Code, out)
	}
	fields := out["fields"].([]any)
	if len(fields) != 3 {
		t.Fatalf("expected key, iv and input failures, got %v", fields)
	}
}

func TestKeySizeAndGenerate(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("RSA")
	base := "/v1/sessions/" + id

	rr, out := s.do(http.MethodPost, base+"/key-size", tok, map[string]int{"size": 1000})
	if rr.Code != http.StatusUnprocessableEntity || out["code"] != string(demo.UnsupportedSize) {
		t.Fatalf("bad size: %d %v", rr.Code, out)
	}

	rr, out = s.do(http.MethodPost, base+"/generate", tok, map[string]int{"size": 3072})
	if rr.Code != http.StatusOK || state(out)["key_size_bits"].(float64) != 3072 {
		t.Fatalf("generate: %d %v", rr.Code, out)
	}
	mats := state(out)["materials"].([]any)
	for _, m := range mats {
		if m.(map[string]any)["value"] == "" {
			t.Fatalf("material not generated: %v", m)
		}
	}

	// an empty body keeps the current size
	rr, _ = s.do(http.MethodPost, base+"/generate", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("generate without body: %d", rr.Code)
	}
}

func TestSessionAccessControl(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("ECC")
	otherID, _ := s.create("ECC")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/v1/sessions/" + id, "", http.StatusUnauthorized},
		{"forged token", "/v1/sessions/" + id, "abc.def.ghi", http.StatusUnauthorized},
		{"someone else's session", "/v1/sessions/" + otherID, tok, http.StatusForbidden},
		{"own session", "/v1/sessions/" + id, tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr, _ := s.do(http.MethodGet, tt.path, tt.token, nil); rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("SEED")
	base := "/v1/sessions/" + id
	if rr, _ := s.do(http.MethodDelete, base, tok, nil); rr.Code != http.StatusOK {
		t.Fatalf("delete: %d", rr.Code)
	}
	if rr, _ := s.do(http.MethodGet, base, tok, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", rr.Code)
	}
	if rr, _ := s.do(http.MethodDelete, base, tok, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rr.Code)
	}
}

func TestEditRejectsUnknownAction(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("CHACHA20")
	rr, _ := s.do(http.MethodPatch, "/v1/sessions/"+id, tok, map[string]string{"type": "process_finished", "value": "x"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	rr, out := s.do(http.MethodPatch, "/v1/sessions/"+id, tok, demo.Action{Type: demo.SetCounter, Value: "9"})
	if rr.Code != http.StatusUnprocessableEntity || state(out)["counter"] != "1" {
		t.Fatalf("bad counter: %d %v", rr.Code, out)
	}
}

func TestPatchCannotBypassAudit(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("TWOFISH")
	base := "/v1/sessions/" + id

	for _, a := range []demo.Action{{Type: demo.SwitchMode}, {Type: demo.ChangeKeySize, Size: 128}} {
		if rr, _ := s.do(http.MethodPatch, base, tok, a); rr.Code != http.StatusBadRequest {
			t.Fatalf("PATCH %s: status = %d", a.Type, rr.Code)
		}
	}
	_, out := s.do(http.MethodGet, base, tok, nil)
	if state(out)["mode"] != "encrypt" || state(out)["key_size_bits"].(float64) != 256 {
		t.Fatalf("PATCH changed the session: %v", state(out))
	}
	if len(s.logs.rows) != 0 {
		t.Fatalf("unexpected audit rows: %+v", s.logs.rows)
	}

	if rr, _ := s.do(http.MethodPost, base+"/switch-mode", tok, nil); rr.Code != http.StatusOK {
		t.Fatalf("switch-mode: %d", rr.Code)
	}
	if len(s.logs.rows) != 1 || s.logs.rows[0].SessionID != id || s.logs.rows[0].Action != "switch_mode" {
		t.Fatalf("audit rows = %+v", s.logs.rows)
	}
}

func TestSessionLogs(t *testing.T) {
	s := newTestServer(t)
	id, tok := s.create("AES")
	s.logs.rows = []models.AuditLog{
		{SessionID: id, Action: "process", Outcome: "ok"},
		{SessionID: id, Action: "switch_mode", Outcome: "ok"},
		{SessionID: "someone-else", Action: "process"},
	}
	rr, out := s.do(http.MethodGet, "/v1/sessions/"+id+"/logs?limit=1", tok, nil)
	if rr.Code != http.StatusOK || out["count"].(float64) != 1 {
		t.Fatalf("logs: %d %v", rr.Code, out)
	}
	if rr, _ := s.do(http.MethodGet, "/v1/sessions/"+id+"/logs?limit=zero", tok, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: %d", rr.Code)
	}
}
