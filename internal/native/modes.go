package native

import (
	"bytes"
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"
)

const gcmNonceSize = 12

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("ciphertext is not a whole number of blocks")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, errors.New("bad padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("bad padding")
		}
	}
	return b[:len(b)-n], nil
}

// seal encrypts pt under blk in the named mode. ECB and CBC pad with PKCS#7;
// GCM uses the first 12 bytes of iv as its nonce.
func seal(mode string, blk cipher.Block, iv, pt []byte) ([]byte, error) {
	bs := blk.BlockSize()
	switch strings.ToLower(mode) {
	case "ecb":
		src := pkcs7Pad(pt, bs)
		ct := make([]byte, len(src))
		for off := 0; off < len(src); off += bs {
			blk.Encrypt(ct[off:off+bs], src[off:off+bs])
		}
		return ct, nil
	case "cbc":
		if len(iv) != bs {
			return nil, fmt.Errorf("cbc needs a %d-byte IV, got %d", bs, len(iv))
		}
		src := pkcs7Pad(pt, bs)
		ct := make([]byte, len(src))
		cipher.NewCBCEncrypter(blk, iv).CryptBlocks(ct, src)
		return ct, nil
	case "ctr":
		if len(iv) != bs {
			return nil, fmt.Errorf("ctr needs a %d-byte IV, got %d", bs, len(iv))
		}
		ct := make([]byte, len(pt))
		cipher.NewCTR(blk, iv).XORKeyStream(ct, pt)
		return ct, nil
	case "gcm":
		if len(iv) < gcmNonceSize {
			return nil, fmt.Errorf("gcm needs at least %d IV bytes, got %d", gcmNonceSize, len(iv))
		}
		aead, err := cipher.NewGCM(blk)
		if err != nil {
			return nil, err
		}
		return aead.Seal(nil, iv[:gcmNonceSize], pt, nil), nil
	}
	return nil, fmt.Errorf("unsupported block mode %q", mode)
}

// open reverses seal.
func open(mode string, blk cipher.Block, iv, ct []byte) ([]byte, error) {
	bs := blk.BlockSize()
	switch strings.ToLower(mode) {
	case "ecb":
		if len(ct) == 0 || len(ct)%bs != 0 {
			return nil, errors.New("ciphertext is not a whole number of blocks")
		}
		pt := make([]byte, len(ct))
		for off := 0; off < len(ct); off += bs {
			blk.Decrypt(pt[off:off+bs], ct[off:off+bs])
		}
		return pkcs7Unpad(pt, bs)
	case "cbc":
		if len(iv) != bs {
			return nil, fmt.Errorf("cbc needs a %d-byte IV, got %d", bs, len(iv))
		}
		if len(ct) == 0 || len(ct)%bs != 0 {
			return nil, errors.New("ciphertext is not a whole number of blocks")
		}
		pt := make([]byte, len(ct))
		cipher.NewCBCDecrypter(blk, iv).CryptBlocks(pt, ct)
		return pkcs7Unpad(pt, bs)
	case "ctr":
		if len(iv) != bs {
			return nil, fmt.Errorf("ctr needs a %d-byte IV, got %d", bs, len(iv))
		}
		pt := make([]byte, len(ct))
		cipher.NewCTR(blk, iv).XORKeyStream(pt, ct)
		return pt, nil
	case "gcm":
		if len(iv) < gcmNonceSize {
			return nil, fmt.Errorf("gcm needs at least %d IV bytes, got %d", gcmNonceSize, len(iv))
		}
		aead, err := cipher.NewGCM(blk)
		if err != nil {
			return nil, err
		}
		return aead.Open(nil, iv[:gcmNonceSize], ct, nil)
	}
	return nil, fmt.Errorf("unsupported block mode %q", mode)
}
