package demo

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
)

// InvalidTokenText is shown in place of output when a token cannot be decoded.
const InvalidTokenText = "Invalid encrypted text"

// Params is the material and options snapshot handed to an Engine.
type Params struct {
	Algorithm   string
	Key         string
	IV          string
	KeySizeBits int
	Curve       string
	BlockMode   string
	Counter     string
}

// Engine is the seam where a real cipher replaces the demo transform. Failures
// are returned as errors, never panics.
type Engine interface {
	Encrypt(plaintext string, p Params) (string, error)
	Decrypt(token string, p Params) (string, error)
	Check(token string) error
}

const (
	tokenDelimiter = "|"
	keySnapshot    = 10
	ivSnapshot     = 6
)

// DemoEngine packs the plaintext together with a truncated snapshot of the
// parameters and base64-encodes the result. It performs no cryptography.
type DemoEngine struct{}

func (DemoEngine) Encrypt(plaintext string, p Params) (string, error) {
	fields := []string{plaintext, truncate(p.Key, keySnapshot)}
	if p.IV != "" {
		fields = append(fields, truncate(p.IV, ivSnapshot))
	}
	if p.Curve != "" {
		fields = append(fields, p.Curve)
	} else {
		fields = append(fields, strconv.Itoa(p.KeySizeBits))
	}
	if p.BlockMode != "" {
		fields = append(fields, p.BlockMode)
	}
	if p.Counter != "" {
		fields = append(fields, p.Counter)
	}
	for i, f := range fields {
		fields[i] = url.QueryEscape(f)
	}
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, tokenDelimiter))), nil
}

// Decrypt returns the plaintext packed into token. On failure it returns
// InvalidTokenText together with ErrInvalidToken.
func (DemoEngine) Decrypt(token string, _ Params) (string, error) {
	pt, err := unpack(token)
	if err != nil {
		return InvalidTokenText, err
	}
	return pt, nil
}

func (DemoEngine) Check(token string) error {
	_, err := unpack(token)
	return err
}

func unpack(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", ErrInvalidToken
	}
	parts := strings.Split(string(raw), tokenDelimiter)
	if len(parts) < 2 {
		return "", ErrInvalidToken
	}
	pt, err := url.QueryUnescape(parts[0])
	if err != nil || pt == "" {
		return "", ErrInvalidToken
	}
	return pt, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
