package demo

import (
	"fmt"
	"strings"

	"cipherlab/internal/catalogue"
	"cipherlab/internal/util"
)

// ValidationResult is the outcome of checking one field.
type ValidationResult struct {
	Field   Field  `json:"field"`
	OK      bool   `json:"ok"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// TokenChecker reports whether text is well-formed output of an engine's Encrypt.
type TokenChecker func(token string) error

func pass(f Field) ValidationResult { return ValidationResult{Field: f, OK: true} }

func fail(f Field, c Code, format string, args ...any) ValidationResult {
	return ValidationResult{Field: f, Code: c, Message: fmt.Sprintf(format, args...)}
}

func fieldLabel(f Field, spec catalogue.Spec) string {
	switch f {
	case FieldKey:
		return "Key"
	case FieldPublicKey:
		return "Public key"
	case FieldPrivateKey:
		return "Private key"
	case FieldIV:
		if spec.NonceLabel == "IV" || spec.NonceLabel == "" {
			return "IV"
		}
		return spec.NonceLabel
	}
	return "Input"
}

// ValidateKey checks a key (or key-pair half) against spec. Charset and length
// are only enforced for hex keys typed in manual mode.
func ValidateKey(f Field, value string, spec catalogue.Spec, km KeyMode, keySizeBits int) ValidationResult {
	label := fieldLabel(f, spec)
	if strings.TrimSpace(value) == "" {
		return fail(f, Required, "%s is required", label)
	}
	if km != KeyManual || !spec.HexKey() {
		return pass(f)
	}
	if !util.IsHex(value) {
		return fail(f, InvalidCharset, "%s must contain only hexadecimal characters (0-9, A-F)", label)
	}
	want := spec.KeyHexChars(keySizeBits)
	if len(value) != want {
		return fail(f, LengthMismatch, "%s must be exactly %d bytes (%d hex characters) for %d-bit encryption. Current length: %d",
			label, util.SizeInBytes(keySizeBits), want, keySizeBits, len(value))
	}
	return pass(f)
}

// ValidateIV checks the IV/nonce. It always passes when spec needs none.
func ValidateIV(value string, spec catalogue.Spec, km KeyMode) ValidationResult {
	if !spec.RequiresNonceOrIV {
		return pass(FieldIV)
	}
	label := fieldLabel(FieldIV, spec)
	if strings.TrimSpace(value) == "" {
		if label == "IV" {
			return fail(FieldIV, Required, "Initialization Vector (IV) is required")
		}
		return fail(FieldIV, Required, "%s is required", label)
	}
	if km != KeyManual {
		return pass(FieldIV)
	}
	if !util.IsHex(value) {
		return fail(FieldIV, InvalidCharset, "%s must contain only hexadecimal characters (0-9, A-F)", label)
	}
	want := spec.NonceHexChars()
	if len(value) != want {
		return fail(FieldIV, LengthMismatch, "%s must be exactly %d bytes (%d hex characters). Current length: %d",
			label, util.SizeInBytes(spec.NonceSizeBits), want, len(value))
	}
	return pass(FieldIV)
}

// ValidateInput checks the message box. In Decrypt mode the text must be a
// well-formed token according to check.
func ValidateInput(text string, mode Mode, check TokenChecker) ValidationResult {
	if strings.TrimSpace(text) == "" {
		return fail(FieldInput, Required, "Input text is required")
	}
	if mode == Decrypt && check != nil {
		if err := check(text); err != nil {
			return fail(FieldInput, InvalidEncoding, "Input must be a valid encrypted token for decryption")
		}
	}
	return pass(FieldInput)
}

// ValidateAll evaluates every field relevant to spec and the current mode,
// without short-circuiting, so all messages can be shown together.
func ValidateAll(s State, spec catalogue.Spec, check TokenChecker) ([]ValidationResult, bool) {
	var results []ValidationResult
	if spec.KeyPair {
		f := FieldPublicKey
		if s.Mode == Decrypt {
			f = FieldPrivateKey
		}
		results = append(results, ValidateKey(f, s.Material(f), spec, s.KeyMode, s.KeySizeBits))
	} else {
		results = append(results,
			ValidateKey(FieldKey, s.Material(FieldKey), spec, s.KeyMode, s.KeySizeBits),
			ValidateIV(s.Material(FieldIV), spec, s.KeyMode),
		)
	}
	results = append(results, ValidateInput(s.InputText, s.Mode, check))

	ok := true
	for _, r := range results {
		ok = ok && r.OK
	}
	return results, ok
}

func failures(results []ValidationResult) ValidationErrors {
	var out ValidationErrors
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
