package enscrypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fastConfig(t *testing.T) *ScryptConfig {
	t.Helper()
	cfg, err := NewScryptConfig(SetLogNFactor(1), SetIterationFactor(1))
	assert.NoError(t, err)
	return cfg
}

func TestDeriveKey_Deterministic(t *testing.T) {
	cfg := fastConfig(t)
	secret := []byte("123456789012345678901234")

	first, err := DeriveKey(secret, cfg, 2)
	assert.NoError(t, err)
	second, err := DeriveKey(secret, cfg, 2)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEqual(t, [KeySize]byte{}, first)
}

func TestDeriveKey_EffortChangesKey(t *testing.T) {
	cfg := fastConfig(t)
	secret := []byte("123456789012345678901234")

	low, err := DeriveKey(secret, cfg, 1)
	assert.NoError(t, err)
	high, err := DeriveKey(secret, cfg, 7)
	assert.NoError(t, err)
	assert.NotEqual(t, low, high)
}

func TestDeriveKey_SaltChangesKey(t *testing.T) {
	cfg := fastConfig(t)
	secret := []byte("123456789012345678901234")

	before, err := DeriveKey(secret, cfg, 1)
	assert.NoError(t, err)
	assert.NoError(t, cfg.RefreshSalt())
	after, err := DeriveKey(secret, cfg, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestDeriveKey_SecretChangesKey(t *testing.T) {
	cfg := fastConfig(t)

	a, err := DeriveKey([]byte("123456789012345678901234"), cfg, 1)
	assert.NoError(t, err)
	b, err := DeriveKey([]byte("123456789012345678901233"), cfg, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveKey_ZeroSaltRefreshed(t *testing.T) {
	// A zero-value config must not derive from a predictable all-zero salt.
	var cfg ScryptConfig
	cfg.logNFactor = 1
	cfg.iterationFactor = 1
	cfg.parallelFactor = 1

	_, err := DeriveKey([]byte("secret"), &cfg, 1)
	assert.NoError(t, err)
	assert.NotEqual(t, [saltSize]byte{}, cfg.salt)
}

func TestDeriveKey_BadInput(t *testing.T) {
	cfg := fastConfig(t)
	_, err := DeriveKey(nil, cfg, 1)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = DeriveKey([]byte("secret"), cfg, 0)
	assert.ErrorIs(t, err, ErrZeroEffort)
}
