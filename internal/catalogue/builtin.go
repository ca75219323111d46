package catalogue

import "time"

const (
	AES      = "AES"
	RSA      = "RSA"
	ECC      = "ECC"
	ChaCha20 = "CHACHA20"
	Blowfish = "BLOWFISH"
	Twofish  = "TWOFISH"
	Camellia = "CAMELLIA"
	SEED     = "SEED"
)

const (
	shortDelay    = 500 * time.Millisecond
	standardDelay = 800 * time.Millisecond
	generateDelay = 1000 * time.Millisecond
)

// Builtin returns the algorithm pages served by default, in display order.
func Builtin() []Spec {
	return []Spec{
		{
			ID: AES, Name: "AES", Category: CategorySymmetric,
			KeySizesBits: []int{128, 192, 256}, DefaultKeySizeBits: 256,
			KeyEncoding:  KeyUTF8,
			ProcessDelay: shortDelay, GenerateDelay: generateDelay,
		},
		{
			ID: RSA, Name: "RSA", Category: CategoryAsymmetric,
			KeySizesBits: []int{1024, 2048, 3072, 4096}, DefaultKeySizeBits: 2048,
			KeyEncoding: KeyPEM, KeyPair: true, SelectableKeyMode: true,
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
		{
			ID: ECC, Name: "ECC", Category: CategoryAsymmetric,
			Curves: []string{"P-256", "P-384", "P-521", "secp256k1"}, DefaultCurve: "P-256",
			KeyEncoding: KeyPEM, KeyPair: true, SelectableKeyMode: true,
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
		{
			ID: ChaCha20, Name: "ChaCha20", Category: CategoryStream,
			KeySizesBits: []int{256}, DefaultKeySizeBits: 256, KeyFixedSizeBits: 256,
			KeyEncoding: KeyHex, SelectableKeyMode: true,
			RequiresNonceOrIV: true, NonceSizeBits: 96, NonceLabel: "Nonce",
			Counters: []string{"0", "1", "random"}, DefaultCounter: "1",
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
		{
			ID: Blowfish, Name: "Blowfish", Category: CategorySymmetric,
			KeySizesBits: []int{32, 64, 128, 160, 192, 256, 448}, DefaultKeySizeBits: 128,
			KeyEncoding:  KeyUTF8,
			ProcessDelay: shortDelay, GenerateDelay: generateDelay,
		},
		{
			ID: Twofish, Name: "Twofish", Category: CategorySymmetric,
			KeySizesBits: []int{128, 192, 256}, DefaultKeySizeBits: 256,
			KeyEncoding: KeyHex, SelectableKeyMode: true,
			RequiresNonceOrIV: true, NonceSizeBits: 128, NonceLabel: "IV",
			BlockModes: []string{"ecb", "cbc", "ctr", "gcm"}, DefaultBlockMode: "cbc",
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
		{
			ID: Camellia, Name: "Camellia", Category: CategorySymmetric,
			KeySizesBits: []int{128, 192, 256}, DefaultKeySizeBits: 128,
			KeyEncoding: KeyHex, SelectableKeyMode: true,
			RequiresNonceOrIV: true, NonceSizeBits: 128, NonceLabel: "IV",
			BlockModes: []string{"ecb", "cbc", "ctr", "gcm"}, DefaultBlockMode: "cbc",
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
		{
			ID: SEED, Name: "SEED", Category: CategorySymmetric,
			KeySizesBits: []int{128}, DefaultKeySizeBits: 128, KeyFixedSizeBits: 128,
			KeyEncoding: KeyHex, SelectableKeyMode: true,
			RequiresNonceOrIV: true, NonceSizeBits: 128, NonceLabel: "IV",
			BlockModes: []string{"ecb", "cbc", "ctr"}, DefaultBlockMode: "cbc",
			ProcessDelay: standardDelay, GenerateDelay: generateDelay,
		},
	}
}
