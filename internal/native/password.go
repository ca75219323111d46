package native

import (
	"crypto/aes"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blowfish"

	"cipherlab/internal/demo"
)

const saltSize = 16

// KDF holds the argon2id cost parameters used to stretch free-text keys.
type KDF struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
}

var DefaultKDF = KDF{Time: 3, MemoryKiB: 64 * 1024, Threads: 4}

func (k KDF) derive(password string, salt []byte, n int) []byte {
	return argon2.IDKey([]byte(password), salt, k.Time, k.MemoryKiB, k.Threads, uint32(n))
}

// PasswordCipher describes how a derived key is used.
type PasswordCipher struct {
	Name     string
	IVSize   int
	Overhead int
	Seal     func(key, iv, pt []byte) ([]byte, error)
	Open     func(key, iv, ct []byte) ([]byte, error)
}

var AESGCM = PasswordCipher{
	Name:     "AES-GCM",
	IVSize:   gcmNonceSize,
	Overhead: 16,
	Seal: func(key, iv, pt []byte) ([]byte, error) {
		blk, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return seal("gcm", blk, iv, pt)
	},
	Open: func(key, iv, ct []byte) ([]byte, error) {
		blk, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return open("gcm", blk, iv, ct)
	},
}

var BlowfishCBC = PasswordCipher{
	Name:     "Blowfish-CBC",
	IVSize:   blowfish.BlockSize,
	Overhead: blowfish.BlockSize,
	Seal: func(key, iv, pt []byte) ([]byte, error) {
		blk, err := blowfish.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return seal("cbc", blk, iv, pt)
	},
	Open: func(key, iv, ct []byte) ([]byte, error) {
		blk, err := blowfish.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return open("cbc", blk, iv, ct)
	},
}

// PasswordEngine stretches the free-text key to KeySizeBits with argon2id.
// A fresh salt and IV are drawn per message and carried as salt||iv||ciphertext.
type PasswordEngine struct {
	Cipher PasswordCipher
	KDF    KDF
	Rand   io.Reader
}

func (e *PasswordEngine) reader() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

func (e *PasswordEngine) minLen() int { return saltSize + e.Cipher.IVSize + e.Cipher.Overhead }

func (e *PasswordEngine) Encrypt(plaintext string, p demo.Params) (string, error) {
	if p.Key == "" || p.KeySizeBits <= 0 {
		return "", cipherFailed(fmt.Errorf("%s needs a key and key size", e.Cipher.Name))
	}
	head, err := randomBytes(e.reader(), saltSize+e.Cipher.IVSize)
	if err != nil {
		return "", cipherFailed(err)
	}
	salt, iv := head[:saltSize], head[saltSize:]
	ct, err := e.Cipher.Seal(e.KDF.derive(p.Key, salt, p.KeySizeBits/8), iv, []byte(plaintext))
	if err != nil {
		return "", cipherFailed(err)
	}
	return encode(append(head, ct...)), nil
}

func (e *PasswordEngine) Decrypt(token string, p demo.Params) (string, error) {
	raw, err := decode(token, e.minLen())
	if err != nil {
		return demo.InvalidTokenText, err
	}
	salt := raw[:saltSize]
	iv := raw[saltSize : saltSize+e.Cipher.IVSize]
	pt, err := e.Cipher.Open(e.KDF.derive(p.Key, salt, p.KeySizeBits/8), iv, raw[saltSize+e.Cipher.IVSize:])
	if err != nil {
		return invalidToken(err)
	}
	return string(pt), nil
}

func (e *PasswordEngine) Check(token string) error {
	_, err := decode(token, e.minLen())
	return err
}
