// Package identity ties the rescue-code protected unlock key to the rest of
// an identity: deriving the working keypairs from it, backing it up as a
// mnemonic phrase, and persisting it through the block container.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/idlock/idlock/pkg/unlock"
)

const (
	hkdfInfoSigning    = "idlock/identity/signing/v1"
	hkdfInfoEncryption = "idlock/identity/encryption/v1"
)

// Keys holds the working key material derived from an identity unlock key.
// Rotating the unlock key rotates all of these.
type Keys struct {
	SigningKey       ed25519.PrivateKey
	SigningPublicKey ed25519.PublicKey
	EncryptionSeed   [32]byte
}

// GenerateUnlockKey returns a fresh random 256-bit identity unlock key.
func GenerateUnlockKey() ([unlock.KeySize]byte, error) {
	var iuk [unlock.KeySize]byte
	if _, err := rand.Read(iuk[:]); err != nil {
		return iuk, fmt.Errorf("failed to generate unlock key: %w", err)
	}
	return iuk, nil
}

// DeriveKeys expands the unlock key into the identity's working keys with
// domain-separated HKDF. The same unlock key always yields the same keys, so
// recovering the unlock key recovers the whole identity.
func DeriveKeys(iuk [unlock.KeySize]byte) (*Keys, error) {
	signingSeed, err := hkdfExpand(iuk[:], hkdfInfoSigning, ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	encryptionSeed, err := hkdfExpand(iuk[:], hkdfInfoEncryption, 32)
	if err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(signingSeed)
	keys := &Keys{
		SigningKey:       priv,
		SigningPublicKey: priv.Public().(ed25519.PublicKey),
	}
	copy(keys.EncryptionSeed[:], encryptionSeed)
	return keys, nil
}

func hkdfExpand(seed []byte, info string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, seed, nil, []byte(info))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
