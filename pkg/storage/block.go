package storage

import (
	"errors"
	"io"
)

// BlockType identifies a block within the container's type registry.
type BlockType uint16

const (
	// TypeUserAccess is the password-protected access block.
	TypeUserAccess BlockType = 1
	// TypeRescueCode is the rescue-code protected unlock key block.
	TypeRescueCode BlockType = 2
	// TypePreviousIdentity holds retired unlock keys.
	TypePreviousIdentity BlockType = 3
)

var (
	ErrLengthMismatch = errors.New("block length mismatch")
)

// DataBlock is implemented by every block type stored in an identity file.
// The container owns the outer length and type framing; EncodeBody emits the
// body only, and the emitted byte count must always equal Len.
type DataBlock interface {
	Type() BlockType
	Len() uint16
	EncodeBody(w io.Writer) error
}

// DecodeFunc decodes a block body from a cursor limited to the declared length.
type DecodeFunc func(cur *Cursor) (DataBlock, error)

var registry = make(map[BlockType]DecodeFunc)

// Register installs the body decoder for a block type. Block packages call
// this from init.
func Register(t BlockType, fn DecodeFunc) {
	registry[t] = fn
}
