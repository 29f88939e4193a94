package unlock

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

const (
	// KeySize is the width of the protected identity unlock key.
	KeySize = 32
	// TagSize is the width of the GCM authentication tag.
	TagSize = 16
)

var (
	ErrAuthenticationFailed = errors.New("rescue code authentication failed")
)

// seal encrypts a 32-byte secret under a freshly derived key. The nonce is the
// canonical all-zero value of the cipher's nonce width, which is sound only
// because the key is used for this one seal; the key buffer is zeroed before
// returning to make reuse impossible.
func seal(key *[KeySize]byte, plaintext [KeySize]byte, aad []byte) (ct [KeySize]byte, tag [TagSize]byte, err error) {
	defer zeroKey(key)
	gcm, err := newGCM(key)
	if err != nil {
		return ct, tag, err
	}
	out := gcm.Seal(nil, make([]byte, gcm.NonceSize()), plaintext[:], aad)
	copy(ct[:], out[:KeySize])
	copy(tag[:], out[KeySize:])
	zeroBytes(out)
	return ct, tag, nil
}

// open reverses seal. A tag mismatch, whether from a wrong rescue code or
// tampered ciphertext or header, returns ErrAuthenticationFailed. The key
// buffer is zeroed before returning.
func open(key *[KeySize]byte, ct [KeySize]byte, tag [TagSize]byte, aad []byte) ([KeySize]byte, error) {
	var plaintext [KeySize]byte
	defer zeroKey(key)
	gcm, err := newGCM(key)
	if err != nil {
		return plaintext, err
	}
	sealed := make([]byte, 0, KeySize+TagSize)
	sealed = append(sealed, ct[:]...)
	sealed = append(sealed, tag[:]...)
	out, err := gcm.Open(nil, make([]byte, gcm.NonceSize()), sealed, aad)
	if err != nil {
		return plaintext, ErrAuthenticationFailed
	}
	copy(plaintext[:], out)
	zeroBytes(out)
	return plaintext, nil
}

func newGCM(key *[KeySize]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func zeroKey(key *[KeySize]byte) {
	zeroBytes(key[:])
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
