package rescue

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var codePattern = regexp.MustCompile(`^\d{4}(-\d{4}){5}$`)

func TestGenerate(t *testing.T) {
	code, raw, err := Generate()
	assert.NoError(t, err)
	assert.Regexp(t, codePattern, code)
	assert.Len(t, raw, codeDigits)

	decoded, err := Decode(code)
	assert.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestGenerate_Unique(t *testing.T) {
	first, _, err := Generate()
	assert.NoError(t, err)
	second, _, err := Generate()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDecode_Separators(t *testing.T) {
	raw, err := Decode("1234 5678-9012 3456-7890 1234")
	assert.NoError(t, err)
	assert.Equal(t, []byte("123456789012345678901234"), raw)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("1234-5678")
	assert.ErrorIs(t, err, ErrInvalidRescueCode)

	_, err = Decode("1234-5678-9012-3456-7890-123a")
	assert.ErrorIs(t, err, ErrInvalidRescueCode)

	_, err = Decode("")
	assert.ErrorIs(t, err, ErrInvalidRescueCode)
}
