package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/idlock/idlock/pkg/unlock"
)

var (
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
)

// ExportMnemonic encodes the unlock key as a 24-word BIP-39 phrase for paper
// backup. The phrase is equivalent to the unlock key itself: anyone holding
// it holds the identity.
func ExportMnemonic(iuk [unlock.KeySize]byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(iuk[:])
	if err != nil {
		return "", fmt.Errorf("failed to encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ImportMnemonic recovers an unlock key from its paper-backup phrase.
func ImportMnemonic(mnemonic string) ([unlock.KeySize]byte, error) {
	var iuk [unlock.KeySize]byte
	entropy, err := bip39.EntropyFromMnemonic(strings.TrimSpace(mnemonic))
	if err != nil {
		return iuk, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	if len(entropy) != unlock.KeySize {
		return iuk, fmt.Errorf("%w: phrase encodes %d bytes, need %d", ErrInvalidMnemonic, len(entropy), unlock.KeySize)
	}
	copy(iuk[:], entropy)
	return iuk, nil
}
