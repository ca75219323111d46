package catalogue

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"cipherlab/internal/util"
)

type KeyEncoding string

const (
	KeyHex  KeyEncoding = "hex"
	KeyPEM  KeyEncoding = "pem"
	KeyUTF8 KeyEncoding = "utf8"
)

const (
	CategorySymmetric  = "symmetric"
	CategoryAsymmetric = "asymmetric"
	CategoryStream     = "stream"
)

// Spec describes the key, IV/nonce and option requirements of one algorithm page.
// Specs are values; the catalogue hands out copies so callers cannot mutate shared state.
type Spec struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`

	KeySizesBits       []int       `yaml:"key_sizes_bits" json:"key_sizes_bits,omitempty"`
	DefaultKeySizeBits int         `yaml:"default_key_size_bits" json:"default_key_size_bits,omitempty"`
	KeyFixedSizeBits   int         `yaml:"key_fixed_size_bits" json:"key_fixed_size_bits,omitempty"`
	KeyEncoding        KeyEncoding `yaml:"key_encoding" json:"key_encoding"`
	KeyPair            bool        `yaml:"key_pair" json:"key_pair"`
	SelectableKeyMode  bool        `yaml:"selectable_key_mode" json:"selectable_key_mode"`

	Curves       []string `yaml:"curves" json:"curves,omitempty"`
	DefaultCurve string   `yaml:"default_curve" json:"default_curve,omitempty"`

	RequiresNonceOrIV bool   `yaml:"requires_nonce_or_iv" json:"requires_nonce_or_iv"`
	NonceSizeBits     int    `yaml:"nonce_size_bits" json:"nonce_size_bits,omitempty"`
	NonceLabel        string `yaml:"nonce_label" json:"nonce_label,omitempty"`

	BlockModes       []string `yaml:"block_modes" json:"block_modes,omitempty"`
	DefaultBlockMode string   `yaml:"default_block_mode" json:"default_block_mode,omitempty"`
	Counters         []string `yaml:"counters" json:"counters,omitempty"`
	DefaultCounter   string   `yaml:"default_counter" json:"default_counter,omitempty"`

	ProcessDelay  time.Duration `yaml:"process_delay" json:"-"`
	GenerateDelay time.Duration `yaml:"generate_delay" json:"-"`
}

func (s Spec) HasKeySize(bits int) bool { return slices.Contains(s.KeySizesBits, bits) }
func (s Spec) HasCurve(c string) bool { return slices.Contains(s.Curves, c) }
func (s Spec) HasBlockMode(m string) bool { return slices.Contains(s.BlockModes, strings.ToLower(m)) }
func (s Spec) HasCounter(c string) bool { return slices.Contains(s.Counters, c) }
func (s Spec) SizeSelectable() bool { return len(s.KeySizesBits) > 1 }
func (s Spec) HexKey() bool { return s.KeyEncoding == KeyHex }
func (s Spec) NonceHexChars() int { return util.SizeInHexChars(s.NonceSizeBits) }
func (s Spec) KeyHexChars(bits int) int { return util.SizeInHexChars(bits) }

// Validate checks the structural invariants of a spec. Built-in specs always pass;
// specs loaded from a catalogue file are rejected when they do not.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("spec id is required")
	}
	switch s.KeyEncoding {
	case KeyHex, KeyPEM, KeyUTF8:
	default:
		return fmt.Errorf("%s: unsupported key_encoding %q", s.ID, s.KeyEncoding)
	}
	if s.KeyPair && s.KeyEncoding != KeyPEM {
		return fmt.Errorf("%s: key pairs must use pem encoding", s.ID)
	}
	if len(s.KeySizesBits) == 0 && len(s.Curves) == 0 {
		return fmt.Errorf("%s: key_sizes_bits or curves required", s.ID)
	}
	for _, bits := range s.KeySizesBits {
		if bits <= 0 {
			return fmt.Errorf("%s: key size %d must be positive", s.ID, bits)
		}
		if s.KeyEncoding == KeyHex && bits%8 != 0 {
			return fmt.Errorf("%s: hex key size %d is not a multiple of 8", s.ID, bits)
		}
	}
	if len(s.KeySizesBits) > 0 && !s.HasKeySize(s.DefaultKeySizeBits) {
		return fmt.Errorf("%s: default key size %d not in %v", s.ID, s.DefaultKeySizeBits, s.KeySizesBits)
	}
	if s.KeyFixedSizeBits != 0 && (len(s.KeySizesBits) != 1 || s.KeySizesBits[0] != s.KeyFixedSizeBits) {
		return fmt.Errorf("%s: fixed key size %d must be the only listed size", s.ID, s.KeyFixedSizeBits)
	}
	if len(s.Curves) > 0 && !s.HasCurve(s.DefaultCurve) {
		return fmt.Errorf("%s: default curve %q not in %v", s.ID, s.DefaultCurve, s.Curves)
	}
	if s.RequiresNonceOrIV && (s.NonceSizeBits <= 0 || s.NonceSizeBits%8 != 0) {
		return fmt.Errorf("%s: nonce size %d must be a positive multiple of 8", s.ID, s.NonceSizeBits)
	}
	if len(s.BlockModes) > 0 && !s.HasBlockMode(s.DefaultBlockMode) {
		return fmt.Errorf("%s: default block mode %q not in %v", s.ID, s.DefaultBlockMode, s.BlockModes)
	}
	if len(s.Counters) > 0 && !s.HasCounter(s.DefaultCounter) {
		return fmt.Errorf("%s: default counter %q not in %v", s.ID, s.DefaultCounter, s.Counters)
	}
	if s.ProcessDelay < 0 || s.GenerateDelay < 0 {
		return fmt.Errorf("%s: delays must not be negative", s.ID)
	}
	return nil
}

func (s Spec) clone() Spec {
	s.KeySizesBits = slices.Clone(s.KeySizesBits)
	s.Curves = slices.Clone(s.Curves)
	s.BlockModes = slices.Clone(s.BlockModes)
	s.Counters = slices.Clone(s.Counters)
	return s
}
