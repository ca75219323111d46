package demo

import (
	"errors"
	"strings"
	"testing"

	"cipherlab/internal/catalogue"
)

func TestNewState(t *testing.T) {
	tw := NewState(mustSpec(t, catalogue.Twofish))
	if tw.Mode != Encrypt || tw.KeyMode != KeyGenerate || tw.KeySizeBits != 256 || tw.BlockMode != "cbc" {
		t.Fatalf("unexpected twofish state %+v", tw)
	}
	if len(tw.Materials) != 2 || tw.Materials[0].ExpectedLengthChars != 64 || tw.Materials[1].ExpectedLengthChars != 32 {
		t.Fatalf("unexpected twofish materials %+v", tw.Materials)
	}

	aes := NewState(mustSpec(t, catalogue.AES))
	if aes.KeyMode != KeyManual || aes.HasMaterial(FieldIV) {
		t.Fatalf("unexpected aes state %+v", aes)
	}

	ecc := NewState(mustSpec(t, catalogue.ECC))
	if ecc.Curve != "P-256" || !ecc.HasMaterial(FieldPublicKey) || !ecc.HasMaterial(FieldPrivateKey) || ecc.HasMaterial(FieldKey) {
		t.Fatalf("unexpected ecc state %+v", ecc)
	}
	if ecc.SizeLabel() != "P-256" {
		t.Fatalf("SizeLabel = %q", ecc.SizeLabel())
	}
}

func TestSwitchModeClearsText(t *testing.T) {
	spec := mustSpec(t, catalogue.ChaCha20)
	s := NewState(spec)
	s.InputText = "secret"
	s.OutputText = "token"
	s.Errors = map[Field]string{FieldInput: "bad", FieldKey: "keep"}

	next, err := Reduce(spec, s, Action{Type: SwitchMode})
	if err != nil {
		t.Fatal(err)
	}
	if next.Mode != Decrypt || next.InputText != "" || next.OutputText != "" {
		t.Fatalf("switch did not clear state: %+v", next)
	}
	if _, ok := next.Errors[FieldInput]; ok {
		t.Fatal("input error not cleared")
	}
	if next.Errors[FieldKey] != "keep" {
		t.Fatal("unrelated errors should survive a mode switch")
	}
	if s.InputText != "secret" || s.Errors[FieldInput] != "bad" {
		t.Fatal("Reduce mutated its input state")
	}

	back, _ := Reduce(spec, next, Action{Type: SwitchMode})
	if back.Mode != Encrypt {
		t.Fatalf("second switch should return to encrypt, got %s", back.Mode)
	}
}

func TestChangeKeySizeRevalidatesManualKey(t *testing.T) {
	spec := mustSpec(t, catalogue.Twofish)
	s := NewState(spec)
	s, _ = Reduce(spec, s, Action{Type: SetKeyMode, Value: string(KeyManual)})
	s, _ = Reduce(spec, s, Action{Type: ChangeKeySize, Size: 128})
	s, _ = Reduce(spec, s, Action{Type: SetMaterial, Field: FieldKey, Value: strings.Repeat("a", 32)})
	if s.Errors[FieldKey] != "" {
		t.Fatalf("valid key flagged: %q", s.Errors[FieldKey])
	}

	s, err := Reduce(spec, s, Action{Type: ChangeKeySize, Size: 256})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s.Errors[FieldKey], "64 hex characters") {
		t.Fatalf("expected length error after size change, got %q", s.Errors[FieldKey])
	}
	if s.Materials[0].ExpectedLengthChars != 64 {
		t.Fatalf("expected length not updated: %+v", s.Materials[0])
	}

	if _, err := Reduce(spec, s, Action{Type: ChangeKeySize, Size: 512}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestChangeKeySizeInGenerateModeDoesNotValidate(t *testing.T) {
	spec := mustSpec(t, catalogue.Twofish)
	s := NewState(spec)
	s.setMaterial(FieldKey, "short")
	s, _ = Reduce(spec, s, Action{Type: ChangeKeySize, Size: 128})
	if len(s.Errors) != 0 {
		t.Fatalf("unexpected errors in generate mode: %v", s.Errors)
	}
}

func TestEditActionsRejectUnsupportedSelections(t *testing.T) {
	tests := []struct {
		id string
		a  Action
	}{
		{catalogue.Twofish, Action{Type: SetBlockMode, Value: "xts"}},
		{catalogue.AES, Action{Type: SetBlockMode, Value: "cbc"}},
		{catalogue.ChaCha20, Action{Type: SetCounter, Value: "7"}},
		{catalogue.ECC, Action{Type: SetCurve, Value: "P-192"}},
		{catalogue.AES, Action{Type: SetMaterial, Field: FieldIV, Value: "00"}},
		{catalogue.AES, Action{Type: SetKeyMode, Value: string(KeyGenerate)}},
		{catalogue.RSA, Action{Type: SetKeyMode, Value: "random"}},
	}
	for _, tt := range tests {
		spec := mustSpec(t, tt.id)
		s := NewState(spec)
		next, err := Reduce(spec, s, tt.a)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s %+v: expected ErrUnsupported, got %v", tt.id, tt.a, err)
		}
		if next.BlockMode != s.BlockMode || next.Counter != s.Counter || next.Curve != s.Curve || next.KeyMode != s.KeyMode {
			t.Errorf("%s %+v: state changed on rejected action", tt.id, tt.a)
		}
	}
}

func TestWorkActionsGuardProcessing(t *testing.T) {
	spec := mustSpec(t, catalogue.AES)
	s, _ := Reduce(spec, NewState(spec), Action{Type: workStarted})
	if !s.IsProcessing {
		t.Fatal("work_started should set IsProcessing")
	}
	for _, a := range []Action{{Type: workStarted}, {Type: SwitchMode}, {Type: ChangeKeySize, Size: 128}} {
		if _, err := Reduce(spec, s, a); !errors.Is(err, ErrBusy) {
			t.Errorf("%s while processing: expected ErrBusy, got %v", a.Type, err)
		}
	}
	s, _ = Reduce(spec, s, Action{Type: processFinished, Value: "out"})
	if s.IsProcessing || s.OutputText != "out" {
		t.Fatalf("process_finished: %+v", s)
	}
}

func TestSessionDispatchRejectsInternalActions(t *testing.T) {
	sess := newSession("id", mustSpec(t, catalogue.AES), fixedTime)
	if _, err := sess.Dispatch(Action{Type: processFinished, Value: "forged"}); err == nil {
		t.Fatal("internal action accepted")
	}
	if sess.Snapshot().OutputText != "" {
		t.Fatal("output forged through Dispatch")
	}
	st, err := sess.Dispatch(Action{Type: SetInput, Value: "hi"})
	if err != nil || st.InputText != "hi" {
		t.Fatalf("SetInput: %+v, %v", st, err)
	}
}
