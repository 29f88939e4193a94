package identity

import (
	"errors"
	"io"

	"github.com/idlock/idlock/pkg/enscrypt"
	"github.com/idlock/idlock/pkg/storage"
	"github.com/idlock/idlock/pkg/unlock"
)

var (
	ErrNoUnlockBlock = errors.New("identity file has no unlock key block")
)

// Identity is the persisted identity: today that is the rescue-code protected
// unlock key block, loaded from and saved to the block container.
type Identity struct {
	Unlock *unlock.Block
}

// New creates an identity around a fresh unlock key. It returns the identity,
// the derived working keys, and the rescue code protecting the unlock key.
func New(opts ...enscrypt.ConfigOpt) (*Identity, *Keys, string, error) {
	iuk, err := GenerateUnlockKey()
	if err != nil {
		return nil, nil, "", err
	}
	block, code, err := unlock.New(iuk, opts...)
	if err != nil {
		return nil, nil, "", err
	}
	keys, err := DeriveKeys(iuk)
	if err != nil {
		return nil, nil, "", err
	}
	return &Identity{Unlock: block}, keys, code, nil
}

// Load reads an identity file and picks out the unlock key block.
func Load(data []byte) (*Identity, error) {
	blocks, err := storage.Read(data)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		if ub, ok := b.(*unlock.Block); ok {
			return &Identity{Unlock: ub}, nil
		}
	}
	return nil, ErrNoUnlockBlock
}

// Save writes the identity file.
func (i *Identity) Save(w io.Writer) error {
	return storage.Write(w, i.Unlock)
}

// Rotate replaces the unlock key with a fresh one, returning the new rescue
// code and the new working keys. The old rescue code stops working.
func (i *Identity) Rotate(currentCode string) (string, *Keys, error) {
	iuk, err := GenerateUnlockKey()
	if err != nil {
		return "", nil, err
	}
	code, _, err := i.Unlock.Rotate(currentCode, iuk)
	if err != nil {
		return "", nil, err
	}
	keys, err := DeriveKeys(iuk)
	if err != nil {
		return "", nil, err
	}
	return code, keys, nil
}

// Recover rebuilds the working keys from the rescue code.
func (i *Identity) Recover(code string) (*Keys, error) {
	iuk, err := i.Unlock.RecoverUnlockKey(code)
	if err != nil {
		return nil, err
	}
	return DeriveKeys(iuk)
}
