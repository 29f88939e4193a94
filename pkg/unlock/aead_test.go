package unlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSealOpen(t *testing.T) {
	key := testUnlockKey(0x42)
	plaintext := testUnlockKey(0x77)
	aad := []byte("header bytes")

	sealKey := key
	ct, tag, err := seal(&sealKey, plaintext, aad)
	assert.NoError(t, err)
	assert.NotEqual(t, plaintext, ct)

	openKey := key
	recovered, err := open(&openKey, ct, tag, aad)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, recovered)
}

func TestSealOpen_KeyConsumed(t *testing.T) {
	key := testUnlockKey(0x42)
	_, _, err := seal(&key, testUnlockKey(1), nil)
	assert.NoError(t, err)
	assert.Equal(t, [KeySize]byte{}, key, "seal must zero the key so it cannot be reused")
}

func TestOpen_AADMismatch(t *testing.T) {
	key := testUnlockKey(0x42)
	sealKey := key
	ct, tag, err := seal(&sealKey, testUnlockKey(1), []byte("genuine header"))
	assert.NoError(t, err)

	openKey := key
	_, err = open(&openKey, ct, tag, []byte("tampered header"))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpen_TamperedCiphertextOrTag(t *testing.T) {
	key := testUnlockKey(0x42)
	aad := []byte("header")
	sealKey := key
	ct, tag, err := seal(&sealKey, testUnlockKey(1), aad)
	assert.NoError(t, err)

	flippedCT := ct
	flippedCT[0] ^= 1
	openKey := key
	_, err = open(&openKey, flippedCT, tag, aad)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	flippedTag := tag
	flippedTag[0] ^= 1
	openKey = key
	_, err = open(&openKey, ct, flippedTag, aad)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
