package demo

import (
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"io"

	"cipherlab/internal/catalogue"
	"cipherlab/internal/util"
)

// Generator produces demo-grade key material. Nothing it returns is a usable key.
type Generator struct {
	Rand io.Reader
}

func (g Generator) reader() io.Reader {
	if g.Rand == nil {
		return rand.Reader
	}
	return g.Rand
}

type SymmetricMaterial struct {
	Key string
	IV  string
}

type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// Symmetric returns a random hex key of exactly keySizeBits/4 characters and,
// when spec needs one, a random hex IV/nonce. Either everything is returned or nothing.
func (g Generator) Symmetric(spec catalogue.Spec, keySizeBits int) (SymmetricMaterial, error) {
	if !spec.HasKeySize(keySizeBits) {
		return SymmetricMaterial{}, fmt.Errorf("%w: %d-bit key for %s", ErrUnsupported, keySizeBits, spec.ID)
	}
	key, err := util.RandomHex(g.reader(), keySizeBits)
	if err != nil {
		return SymmetricMaterial{}, fmt.Errorf("%w: key: %v", ErrGenerationFailed, err)
	}
	out := SymmetricMaterial{Key: key}
	if spec.RequiresNonceOrIV {
		iv, err := util.RandomHex(g.reader(), spec.NonceSizeBits)
		if err != nil {
			return SymmetricMaterial{}, fmt.Errorf("%w: iv: %v", ErrGenerationFailed, err)
		}
		out.IV = iv
	}
	return out, nil
}

// typical DER body lengths (public, private) per curve
var curveBodyBytes = map[string][2]int{
	"P-256":     {91, 138},
	"P-384":     {120, 185},
	"P-521":     {158, 241},
	"secp256k1": {88, 135},
}

// KeyPair returns PEM-shaped placeholder text. RSA-style specs are sized by
// keySizeBits, curve-based specs by curve.
func (g Generator) KeyPair(spec catalogue.Spec, keySizeBits int, curve string) (KeyPair, error) {
	var pubLen, privLen int
	switch {
	case len(spec.Curves) > 0:
		sz, ok := curveBodyBytes[curve]
		if !ok || !spec.HasCurve(curve) {
			return KeyPair{}, fmt.Errorf("%w: curve %q for %s", ErrUnsupported, curve, spec.ID)
		}
		pubLen, privLen = sz[0], sz[1]
	case spec.HasKeySize(keySizeBits):
		pubLen = keySizeBits/8 + 38
		privLen = keySizeBits/8*9/2 + 26
	default:
		return KeyPair{}, fmt.Errorf("%w: %d-bit key pair for %s", ErrUnsupported, keySizeBits, spec.ID)
	}
	pub, err := g.pemBlock("PUBLIC KEY", pubLen)
	if err != nil {
		return KeyPair{}, err
	}
	priv, err := g.pemBlock("PRIVATE KEY", privLen)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

func (g Generator) pemBlock(kind string, n int) (string, error) {
	body := make([]byte, n)
	if _, err := io.ReadFull(g.reader(), body); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrGenerationFailed, kind, err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: kind, Bytes: body})), nil
}
