package native

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/chacha20"

	"cipherlab/internal/demo"
)

const counterPrefix = 4

// StreamEngine is ChaCha20 keyed by the 256-bit hex key and 96-bit hex nonce.
// The initial block counter is written in front of the ciphertext so the
// "random" counter option can be decrypted.
type StreamEngine struct {
	Rand io.Reader
}

func (e *StreamEngine) counter(sel string) (uint32, error) {
	switch sel {
	case "", "random":
		r := e.Rand
		if r == nil {
			r = rand.Reader
		}
		b, err := randomBytes(r, counterPrefix)
		if err != nil {
			return 0, err
		}
		// keep clear of the 2^32 block limit
		return binary.BigEndian.Uint32(b) >> 1, nil
	}
	n, err := strconv.ParseUint(sel, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", sel, err)
	}
	return uint32(n), nil
}

func (e *StreamEngine) xor(p demo.Params, counter uint32, in []byte) ([]byte, error) {
	key, err := hexParam("key", p.Key)
	if err != nil {
		return nil, err
	}
	nonce, err := hexParam("nonce", p.IV)
	if err != nil {
		return nil, err
	}
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, cipherFailed(err)
	}
	if uint64(counter)+uint64(len(in))/64+1 > 1<<32 {
		return nil, cipherFailed(errors.New("message too long for counter"))
	}
	c.SetCounter(counter)
	out := make([]byte, len(in))
	c.XORKeyStream(out, in)
	return out, nil
}

func (e *StreamEngine) Encrypt(plaintext string, p demo.Params) (string, error) {
	counter, err := e.counter(p.Counter)
	if err != nil {
		return "", cipherFailed(err)
	}
	ct, err := e.xor(p, counter, []byte(plaintext))
	if err != nil {
		return "", err
	}
	out := binary.BigEndian.AppendUint32(make([]byte, 0, counterPrefix+len(ct)), counter)
	return encode(append(out, ct...)), nil
}

func (e *StreamEngine) Decrypt(token string, p demo.Params) (string, error) {
	raw, err := decode(token, counterPrefix+1)
	if err != nil {
		return demo.InvalidTokenText, err
	}
	pt, err := e.xor(p, binary.BigEndian.Uint32(raw), raw[counterPrefix:])
	if err != nil {
		return invalidToken(err)
	}
	return string(pt), nil
}

func (e *StreamEngine) Check(token string) error {
	_, err := decode(token, counterPrefix+1)
	return err
}
