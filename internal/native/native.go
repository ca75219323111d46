// Package native provides real-cipher engines behind the demo.Engine seam for
// the symmetric catalogue entries. Tokens are standard base64 of the raw
// ciphertext, prefixed by whatever per-message values decryption needs.
package native

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"cipherlab/internal/catalogue"
	"cipherlab/internal/demo"
	"cipherlab/internal/util"
)

// Engines returns a native engine for every catalogue entry that has one.
// RSA and ECC are not included and keep the demo engine.
func Engines(r io.Reader, kdf KDF) map[string]demo.Engine {
	if r == nil {
		r = rand.Reader
	}
	return map[string]demo.Engine{
		catalogue.AES:      &PasswordEngine{Cipher: AESGCM, KDF: kdf, Rand: r},
		catalogue.Blowfish: &PasswordEngine{Cipher: BlowfishCBC, KDF: kdf, Rand: r},
		catalogue.Twofish:  &BlockEngine{Name: catalogue.Twofish, NewCipher: newTwofish},
		catalogue.Camellia: &BlockEngine{Name: catalogue.Camellia, NewCipher: newCamellia},
		catalogue.SEED:     &BlockEngine{Name: catalogue.SEED, NewCipher: newSEED},
		catalogue.ChaCha20: &StreamEngine{Rand: r},
	}
}

func encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func decode(token string, minLen int) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, demo.ErrInvalidToken
	}
	if len(raw) < minLen || len(raw) == 0 {
		return nil, fmt.Errorf("%w: %d bytes is too short", demo.ErrInvalidToken, len(raw))
	}
	return raw, nil
}

func hexParam(name, v string) ([]byte, error) {
	b, err := util.DecodeHex(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex", demo.ErrCipherFailed, name)
	}
	return b, nil
}

func cipherFailed(err error) error {
	return fmt.Errorf("%w: %v", demo.ErrCipherFailed, err)
}

func invalidToken(err error) (string, error) {
	return demo.InvalidTokenText, fmt.Errorf("%w: %v", demo.ErrInvalidToken, err)
}

func randomBytes(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
