package unlock

import (
	"bytes"
	"encoding/binary"

	"github.com/idlock/idlock/pkg/enscrypt"
	"github.com/idlock/idlock/pkg/rescue"
	"github.com/idlock/idlock/pkg/storage"
)

const (
	// bodyLen is the declared on-wire body length: the scrypt config plus the
	// ciphertext plus the tag. Any change to a field width breaks the format.
	bodyLen = uint16(enscrypt.EncodedSize + KeySize + TagSize)

	// unlockEffort scales key derivation cost for rescue-code protection.
	// Recovery is rare, security critical, and exposed to offline guessing,
	// so it runs much hotter than the container's quick derivations.
	unlockEffort uint32 = 7
)

// Block is the rescue-code protected record of an identity unlock key.
//
// A Block is either uninitialized (all-zero ciphertext, nothing protected yet)
// or protected. The all-zero ciphertext doubles as the uninitialized marker:
// GCM output colliding with it is negligible.
type Block struct {
	cfg          enscrypt.ScryptConfig
	encryptedKey [KeySize]byte
	tag          [TagSize]byte
}

// New protects the given identity unlock key in a fresh block, returning the
// block and the rescue code that recovers the key. The code is not stored
// anywhere; display it to the user before discarding it.
func New(iuk [KeySize]byte, opts ...enscrypt.ConfigOpt) (*Block, string, error) {
	cfg, err := enscrypt.NewScryptConfig(opts...)
	if err != nil {
		return nil, "", err
	}
	b := &Block{cfg: *cfg}
	// The empty rescue code is valid only here: the block is uninitialized,
	// so rotation has no previous secret to recover.
	code, _, err := b.Rotate("", iuk)
	if err != nil {
		return nil, "", err
	}
	return b, code, nil
}

// Rotate replaces the protected unlock key. If the block already protects a
// key, currentCode must be the rescue code issued by the previous rotation;
// the recovered previous key is returned so the caller can re-wrap anything
// else derived from it. A brand-new rescue code is generated and returned on
// every rotation, invalidating the old one.
//
// On any error the block is left exactly as it was.
func (b *Block) Rotate(currentCode string, newKey [KeySize]byte) (string, [KeySize]byte, error) {
	var prev [KeySize]byte
	if b.Protected() {
		recovered, err := b.RecoverUnlockKey(currentCode)
		if err != nil {
			return "", prev, err
		}
		prev = recovered
	}

	code, raw, err := rescue.Generate()
	if err != nil {
		return "", [KeySize]byte{}, err
	}

	// Work against a copy so a failure below cannot leave the stored config
	// out of step with the stored ciphertext.
	cfg := b.cfg
	if err := cfg.RefreshSalt(); err != nil {
		return "", [KeySize]byte{}, err
	}
	key, err := enscrypt.DeriveKey(raw, &cfg, unlockEffort)
	if err != nil {
		return "", [KeySize]byte{}, err
	}
	aad, err := buildAAD(&cfg)
	if err != nil {
		return "", [KeySize]byte{}, err
	}
	ct, tag, err := seal(&key, newKey, aad)
	if err != nil {
		return "", [KeySize]byte{}, err
	}

	// Sole mutation point.
	b.cfg = cfg
	b.encryptedKey = ct
	b.tag = tag
	return code, prev, nil
}

// RecoverUnlockKey decrypts the protected unlock key with the rescue code
// issued by the most recent rotation. A wrong code surfaces as
// ErrAuthenticationFailed; the block is never modified.
func (b *Block) RecoverUnlockKey(code string) ([KeySize]byte, error) {
	raw, err := rescue.Decode(code)
	if err != nil {
		return [KeySize]byte{}, err
	}
	cfg := b.cfg
	key, err := enscrypt.DeriveKey(raw, &cfg, unlockEffort)
	if err != nil {
		return [KeySize]byte{}, err
	}
	aad, err := buildAAD(&b.cfg)
	if err != nil {
		return [KeySize]byte{}, err
	}
	return open(&key, b.encryptedKey, b.tag, aad)
}

// Protected reports whether the block holds a protected unlock key.
func (b *Block) Protected() bool {
	return b.encryptedKey != [KeySize]byte{}
}

// buildAAD serializes the block header authenticated alongside the
// ciphertext: declared body length, type tag, then the scrypt config.
func buildAAD(cfg *enscrypt.ScryptConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, bodyLen); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint16(storage.TypeRescueCode)); err != nil {
		return nil, err
	}
	if err := cfg.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
