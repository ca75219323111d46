package demo

import (
	"maps"
	"slices"
	"strconv"

	"cipherlab/internal/catalogue"
)

type Mode string

const (
	Encrypt Mode = "encrypt"
	Decrypt Mode = "decrypt"
)

type KeyMode string

const (
	KeyGenerate KeyMode = "generate"
	KeyManual   KeyMode = "manual"
)

type Field string

const (
	FieldInput      Field = "input"
	FieldKey        Field = "key"
	FieldIV         Field = "iv"
	FieldPublicKey  Field = "public_key"
	FieldPrivateKey Field = "private_key"
)

type MaterialField struct {
	Field               Field                 `json:"field"`
	Value               string                `json:"value"`
	Encoding            catalogue.KeyEncoding `json:"encoding"`
	ExpectedLengthChars int                   `json:"expected_length_chars,omitempty"`
}

// State is the view-state of one demo page. It changes only through Reduce.
type State struct {
	Algorithm    string           `json:"algorithm"`
	Mode         Mode             `json:"mode"`
	KeyMode      KeyMode          `json:"key_mode"`
	InputText    string           `json:"input_text"`
	OutputText   string           `json:"output_text"`
	Materials    []MaterialField  `json:"materials"`
	KeySizeBits  int              `json:"key_size_bits,omitempty"`
	Curve        string           `json:"curve,omitempty"`
	BlockMode    string           `json:"block_mode,omitempty"`
	Counter      string           `json:"counter,omitempty"`
	IsProcessing bool             `json:"is_processing"`
	Errors       map[Field]string `json:"errors,omitempty"`
}

// NewState returns the initial state of a freshly mounted page for spec.
func NewState(spec catalogue.Spec) State {
	s := State{
		Algorithm:   spec.ID,
		Mode:        Encrypt,
		KeyMode:     KeyManual,
		KeySizeBits: spec.DefaultKeySizeBits,
		Curve:       spec.DefaultCurve,
		BlockMode:   spec.DefaultBlockMode,
		Counter:     spec.DefaultCounter,
	}
	if spec.SelectableKeyMode {
		s.KeyMode = KeyGenerate
	}
	if spec.KeyPair {
		s.Materials = []MaterialField{
			{Field: FieldPublicKey, Encoding: catalogue.KeyPEM},
			{Field: FieldPrivateKey, Encoding: catalogue.KeyPEM},
		}
		return s
	}
	key := MaterialField{Field: FieldKey, Encoding: spec.KeyEncoding}
	if spec.HexKey() {
		key.ExpectedLengthChars = spec.KeyHexChars(s.KeySizeBits)
	}
	s.Materials = []MaterialField{key}
	if spec.RequiresNonceOrIV {
		s.Materials = append(s.Materials, MaterialField{
			Field:               FieldIV,
			Encoding:            catalogue.KeyHex,
			ExpectedLengthChars: spec.NonceHexChars(),
		})
	}
	return s
}

func (s State) Material(f Field) string {
	for _, m := range s.Materials {
		if m.Field == f {
			return m.Value
		}
	}
	return ""
}

func (s State) HasMaterial(f Field) bool {
	return slices.ContainsFunc(s.Materials, func(m MaterialField) bool { return m.Field == f })
}

// SizeLabel is the key-size selection as shown to the user: a bit count or a curve name.
func (s State) SizeLabel() string {
	if s.Curve != "" {
		return s.Curve
	}
	return strconv.Itoa(s.KeySizeBits)
}

func (s State) clone() State {
	s.Materials = slices.Clone(s.Materials)
	s.Errors = maps.Clone(s.Errors)
	return s
}

func (s *State) setMaterial(f Field, v string) {
	for i := range s.Materials {
		if s.Materials[i].Field == f {
			s.Materials[i].Value = v
			return
		}
	}
}

func (s *State) setError(r ValidationResult) {
	if r.OK {
		delete(s.Errors, r.Field)
		return
	}
	if s.Errors == nil {
		s.Errors = make(map[Field]string)
	}
	s.Errors[r.Field] = r.Message
}
