package unlock

import (
	"io"

	"github.com/idlock/idlock/pkg/enscrypt"
	"github.com/idlock/idlock/pkg/storage"
)

func init() {
	storage.Register(storage.TypeRescueCode, func(cur *storage.Cursor) (storage.DataBlock, error) {
		return DecodeBlock(cur)
	})
}

func (b *Block) Type() storage.BlockType {
	return storage.TypeRescueCode
}

func (b *Block) Len() uint16 {
	return bodyLen
}

// EncodeBody writes the block body: scrypt config, ciphertext, tag. The outer
// length and type framing belongs to the container.
func (b *Block) EncodeBody(w io.Writer) error {
	if err := b.cfg.Encode(w); err != nil {
		return err
	}
	if _, err := w.Write(b.encryptedKey[:]); err != nil {
		return err
	}
	_, err := w.Write(b.tag[:])
	return err
}

// DecodeBlock reads a block body in strict field order. Insufficient bytes at
// any step surface as storage.ErrTruncated.
func DecodeBlock(cur *storage.Cursor) (*Block, error) {
	cfg, err := enscrypt.DecodeScryptConfig(cur)
	if err != nil {
		return nil, err
	}
	ct, err := cur.Next(KeySize)
	if err != nil {
		return nil, err
	}
	tag, err := cur.Next(TagSize)
	if err != nil {
		return nil, err
	}
	b := &Block{cfg: cfg}
	copy(b.encryptedKey[:], ct)
	copy(b.tag[:], tag)
	return b, nil
}
