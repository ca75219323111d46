package demo

import (
	"fmt"
	"strings"
)

type Code string

const (
	Required         Code = "Required"
	InvalidCharset   Code = "InvalidCharset"
	LengthMismatch   Code = "LengthMismatch"
	InvalidEncoding  Code = "InvalidEncoding"
	InvalidToken     Code = "InvalidToken"
	GenerationFailed Code = "GenerationFailed"
	Busy             Code = "Busy"
	UnsupportedSize  Code = "UnsupportedSize"
	CipherFailed     Code = "CipherFailed"
)

// Error is a recoverable workflow failure scoped to one field (or none).
type Error struct {
	Code    Code   `json:"code"`
	Field   Field  `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Is matches on Code, and on Field when the target names one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

var (
	ErrBusy             = &Error{Code: Busy, Message: "an operation is already in progress"}
	ErrInvalidToken     = &Error{Code: InvalidToken, Message: "input is not a valid encrypted token"}
	ErrGenerationFailed = &Error{Code: GenerationFailed, Message: "could not generate key material"}
	ErrUnsupported      = &Error{Code: UnsupportedSize, Message: "selection is not supported by this algorithm"}
	ErrCipherFailed     = &Error{Code: CipherFailed, Message: "cipher rejected the input"}
)

// ValidationErrors holds every failing field of one validation pass.
type ValidationErrors []ValidationResult

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, r := range v {
		msgs = append(msgs, string(r.Field)+": "+r.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is lets errors.Is find a field-level code inside the aggregate.
func (v ValidationErrors) Is(target error) bool {
	for _, r := range v {
		if (&Error{Code: r.Code, Field: r.Field}).Is(target) {
			return true
		}
	}
	return false
}
