package demo

import (
	"fmt"

	"cipherlab/internal/catalogue"
)

type ActionType string

// Edit actions, accepted from the presentation layer.
const (
	SetInput      ActionType = "set_input"
	SetMaterial   ActionType = "set_material"
	SetKeyMode    ActionType = "set_key_mode"
	SetBlockMode  ActionType = "set_block_mode"
	SetCounter    ActionType = "set_counter"
	SetCurve      ActionType = "set_curve"
	SwitchMode    ActionType = "switch_mode"
	ChangeKeySize ActionType = "change_key_size"
)

// Workflow actions, dispatched by the Controller around suspension points.
const (
	validated        ActionType = "validated"
	workStarted      ActionType = "work_started"
	processFinished  ActionType = "process_finished"
	generateFinished ActionType = "generate_finished"
	workFailed       ActionType = "work_failed"
)

type Action struct {
	Type  ActionType `json:"type"`
	Field Field      `json:"field,omitempty"`
	Value string     `json:"value,omitempty"`
	Size  int        `json:"size,omitempty"`

	results   []ValidationResult
	materials map[Field]string
	err       *Error
}

// IsEdit reports whether a is one of the actions callers may dispatch directly.
// SwitchMode and ChangeKeySize go through the Controller so they are observed.
func (a Action) IsEdit() bool {
	switch a.Type {
	case SetInput, SetMaterial, SetKeyMode, SetBlockMode, SetCounter, SetCurve:
		return true
	}
	return false
}

// Reduce computes the state that follows s after a. s is never modified; on
// error the returned state equals s.
func Reduce(spec catalogue.Spec, s State, a Action) (State, error) {
	next := s.clone()
	switch a.Type {
	case SetInput:
		next.InputText = a.Value
		delete(next.Errors, FieldInput)

	case SetMaterial:
		if !next.HasMaterial(a.Field) {
			return s, &Error{Code: UnsupportedSize, Field: a.Field, Message: fmt.Sprintf("%s does not use %s", spec.ID, a.Field)}
		}
		next.setMaterial(a.Field, a.Value)
		if next.KeyMode == KeyManual {
			next.setError(validateField(a.Field, next, spec))
		}

	case SetKeyMode:
		km := KeyMode(a.Value)
		if km != KeyGenerate && km != KeyManual {
			return s, &Error{Code: UnsupportedSize, Message: fmt.Sprintf("unknown key mode %q", a.Value)}
		}
		if !spec.SelectableKeyMode && km != next.KeyMode {
			return s, &Error{Code: UnsupportedSize, Message: fmt.Sprintf("%s only supports %s keys", spec.ID, next.KeyMode)}
		}
		next.KeyMode = km

	case SetBlockMode:
		if !spec.HasBlockMode(a.Value) {
			return s, unsupported("block mode", a.Value, spec)
		}
		next.BlockMode = a.Value

	case SetCounter:
		if !spec.HasCounter(a.Value) {
			return s, unsupported("counter", a.Value, spec)
		}
		next.Counter = a.Value

	case SetCurve:
		if !spec.HasCurve(a.Value) {
			return s, unsupported("curve", a.Value, spec)
		}
		next.Curve = a.Value

	case SwitchMode:
		if s.IsProcessing {
			return s, ErrBusy
		}
		if next.Mode == Encrypt {
			next.Mode = Decrypt
		} else {
			next.Mode = Encrypt
		}
		next.InputText = ""
		next.OutputText = ""
		delete(next.Errors, FieldInput)

	case ChangeKeySize:
		if s.IsProcessing {
			return s, ErrBusy
		}
		if !spec.HasKeySize(a.Size) {
			return s, unsupported("key size", fmt.Sprint(a.Size), spec)
		}
		next.resize(spec, a.Size)

	case validated:
		for _, r := range a.results {
			next.setError(r)
		}

	case workStarted:
		if s.IsProcessing {
			return s, ErrBusy
		}
		next.IsProcessing = true

	case processFinished:
		next.IsProcessing = false
		next.OutputText = a.Value
		delete(next.Errors, FieldInput)

	case generateFinished:
		next.IsProcessing = false
		for f, v := range a.materials {
			next.setMaterial(f, v)
			delete(next.Errors, f)
		}

	case workFailed:
		next.IsProcessing = false
		if a.Size != 0 && a.Size != next.KeySizeBits {
			next.resize(spec, a.Size)
		}
		if a.err != nil && a.err.Field != "" {
			next.setError(ValidationResult{Field: a.err.Field, Code: a.err.Code, Message: a.err.Message})
		}

	default:
		return s, fmt.Errorf("unknown action %q", a.Type)
	}
	return next, nil
}

func (s *State) resize(spec catalogue.Spec, bits int) {
	s.KeySizeBits = bits
	for i := range s.Materials {
		if s.Materials[i].Field == FieldKey && spec.HexKey() {
			s.Materials[i].ExpectedLengthChars = spec.KeyHexChars(bits)
		}
	}
	if s.KeyMode == KeyManual && s.Material(FieldKey) != "" {
		s.setError(validateField(FieldKey, *s, spec))
	}
}

func unsupported(what, v string, spec catalogue.Spec) *Error {
	return &Error{Code: UnsupportedSize, Message: fmt.Sprintf("%s %q is not available for %s", what, v, spec.ID)}
}

func validateField(f Field, s State, spec catalogue.Spec) ValidationResult {
	if f == FieldIV {
		return ValidateIV(s.Material(FieldIV), spec, s.KeyMode)
	}
	return ValidateKey(f, s.Material(f), spec, s.KeyMode, s.KeySizeBits)
}
