package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrTruncated = errors.New("truncated block data")
)

// Cursor is a consuming view over a byte slice, used to decode block bodies in
// strict field order. Reading past the end returns ErrTruncated rather than
// zero-filling.
type Cursor struct {
	data []byte
	off  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Next consumes and returns the next n bytes. The returned slice aliases the
// underlying data and must not be modified.
func (c *Cursor) Next(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", ErrTruncated, n)
	}
	if c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, c.Remaining())
	}
	out := c.data[c.off : c.off+n]
	c.off += n
	return out, nil
}

// ReadUint16 consumes a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	raw, err := c.Next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(raw), nil
}

// Remaining reports the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}
