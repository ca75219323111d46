package native

import (
	"crypto/cipher"

	goseed "github.com/RyuaNerin/go-krypto/seed"
	"github.com/aead/camellia"
	"golang.org/x/crypto/twofish"

	"cipherlab/internal/demo"
)

func newTwofish(key []byte) (cipher.Block, error)  { return twofish.NewCipher(key) }
func newCamellia(key []byte) (cipher.Block, error) { return camellia.NewCipher(key) }
func newSEED(key []byte) (cipher.Block, error)     { return goseed.NewCipher(key) }

// BlockEngine runs a 128-bit block cipher keyed by the hex key and IV the
// user supplied, in the block mode selected on the session.
type BlockEngine struct {
	Name      string
	NewCipher func(key []byte) (cipher.Block, error)
}

func (e *BlockEngine) block(p demo.Params) (cipher.Block, []byte, error) {
	key, err := hexParam("key", p.Key)
	if err != nil {
		return nil, nil, err
	}
	iv, err := hexParam("iv", p.IV)
	if err != nil {
		return nil, nil, err
	}
	blk, err := e.NewCipher(key)
	if err != nil {
		return nil, nil, cipherFailed(err)
	}
	return blk, iv, nil
}

func (e *BlockEngine) Encrypt(plaintext string, p demo.Params) (string, error) {
	blk, iv, err := e.block(p)
	if err != nil {
		return "", err
	}
	ct, err := seal(p.BlockMode, blk, iv, []byte(plaintext))
	if err != nil {
		return "", cipherFailed(err)
	}
	return encode(ct), nil
}

func (e *BlockEngine) Decrypt(token string, p demo.Params) (string, error) {
	raw, err := decode(token, 1)
	if err != nil {
		return demo.InvalidTokenText, err
	}
	blk, iv, err := e.block(p)
	if err != nil {
		return invalidToken(err)
	}
	pt, err := open(p.BlockMode, blk, iv, raw)
	if err != nil {
		return invalidToken(err)
	}
	return string(pt), nil
}

func (e *BlockEngine) Check(token string) error {
	_, err := decode(token, 1)
	return err
}
