package unlock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idlock/idlock/pkg/enscrypt"
	"github.com/idlock/idlock/pkg/rescue"
)

// Low-cost derivation settings so tests don't burn minutes in scrypt.
func fastOpts() []enscrypt.ConfigOpt {
	return []enscrypt.ConfigOpt{
		enscrypt.SetLogNFactor(1),
		enscrypt.SetIterationFactor(1),
	}
}

func testUnlockKey(fill byte) [KeySize]byte {
	var iuk [KeySize]byte
	for i := range iuk {
		iuk[i] = fill
	}
	return iuk
}

func TestNew_RoundTrip(t *testing.T) {
	iuk := testUnlockKey(0xa5)
	b, code, err := New(iuk, fastOpts()...)
	assert.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.True(t, b.Protected())

	recovered, err := b.RecoverUnlockKey(code)
	assert.NoError(t, err)
	assert.Equal(t, iuk, recovered)
}

func TestUninitializedSentinel(t *testing.T) {
	var b Block
	assert.False(t, b.Protected())
	assert.Equal(t, [KeySize]byte{}, b.encryptedKey)

	// The first rotation needs no rescue code and recovers nothing.
	code, prev, err := b.Rotate("", testUnlockKey(1))
	assert.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, [KeySize]byte{}, prev)
	assert.True(t, b.Protected())
}

func TestRecover_WrongCode(t *testing.T) {
	b, code, err := New(testUnlockKey(0x11), fastOpts()...)
	assert.NoError(t, err)

	wrong, _, err := rescue.Generate()
	assert.NoError(t, err)
	assert.NotEqual(t, code, wrong)

	_, err = b.RecoverUnlockKey(wrong)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRecover_MalformedCode(t *testing.T) {
	b, _, err := New(testUnlockKey(0x11), fastOpts()...)
	assert.NoError(t, err)

	_, err = b.RecoverUnlockKey("not-a-code")
	assert.ErrorIs(t, err, rescue.ErrInvalidRescueCode)
}

func TestRotate(t *testing.T) {
	first := testUnlockKey(0xaa)
	second := testUnlockKey(0xbb)

	b, firstCode, err := New(first, fastOpts()...)
	assert.NoError(t, err)

	secondCode, prev, err := b.Rotate(firstCode, second)
	assert.NoError(t, err)
	assert.Equal(t, first, prev, "rotation must hand back the previously protected key")
	assert.NotEqual(t, firstCode, secondCode)

	recovered, err := b.RecoverUnlockKey(secondCode)
	assert.NoError(t, err)
	assert.Equal(t, second, recovered)

	// The old code died with the rotation.
	_, err = b.RecoverUnlockKey(firstCode)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRotate_WrongCodeLeavesBlockUntouched(t *testing.T) {
	b, code, err := New(testUnlockKey(0xcc), fastOpts()...)
	assert.NoError(t, err)
	snapshot := *b

	wrong, _, err := rescue.Generate()
	assert.NoError(t, err)
	_, _, err = b.Rotate(wrong, testUnlockKey(0xdd))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Equal(t, snapshot, *b)

	// The original code still works.
	_, err = b.RecoverUnlockKey(code)
	assert.NoError(t, err)
}
