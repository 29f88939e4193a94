package enscrypt

import (
	"errors"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the width of every derived key.
	KeySize = 32
	// blockSizeFactor is the scrypt r parameter. Fixed: it is not part of the
	// wire format, so varying it would break recovery of existing blocks.
	blockSizeFactor = 256
)

var (
	ErrEmptySecret = errors.New("cannot derive a key from an empty secret")
	ErrZeroEffort  = errors.New("effort multiplier cannot be 0")
)

// DeriveKey stretches the secret into a 256-bit key by XOR-chaining
// iterationFactor*effort scrypt passes: the first pass is salted with the
// config's salt, each subsequent pass with the previous pass's output, and
// the results of all passes are XORed into the returned key.
//
// A config with an all-zero salt is given a fresh one as a side effect, so a
// zero-value config never silently derives from a predictable salt. Every
// call re-derives from scratch; nothing is cached.
func DeriveKey(secret []byte, cfg *ScryptConfig, effort uint32) ([KeySize]byte, error) {
	var key [KeySize]byte
	if len(secret) == 0 {
		return key, ErrEmptySecret
	}
	if effort == 0 {
		return key, ErrZeroEffort
	}
	if cfg.salt == [saltSize]byte{} {
		if err := cfg.RefreshSalt(); err != nil {
			return key, err
		}
	}

	rounds := cfg.iterationFactor * effort
	prev := cfg.salt[:]
	for i := uint32(0); i < rounds; i++ {
		out, err := scrypt.Key(secret, prev,
			1<<cfg.logNFactor, blockSizeFactor, int(cfg.parallelFactor), KeySize)
		if err != nil {
			return [KeySize]byte{}, err
		}
		for j := range key {
			key[j] ^= out[j]
		}
		prev = out
	}
	return key, nil
}
