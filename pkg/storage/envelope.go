package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// fileMagic marks the start of an identity file.
var fileMagic = []byte("idlkdata")

var (
	ErrBadMagic = errors.New("not an identity file")
)

// Write emits an identity file: the magic header followed by each block framed
// with its declared body length and type tag, both little-endian uint16.
func Write(w io.Writer, blocks ...DataBlock) error {
	if _, err := w.Write(fileMagic); err != nil {
		return err
	}
	for _, b := range blocks {
		var body bytes.Buffer
		if err := b.EncodeBody(&body); err != nil {
			return err
		}
		if body.Len() != int(b.Len()) {
			return fmt.Errorf("%w: type %d declares %d bytes, emitted %d",
				ErrLengthMismatch, b.Type(), b.Len(), body.Len())
		}
		if err := binary.Write(w, binary.LittleEndian, b.Len()); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(b.Type())); err != nil {
			return err
		}
		if _, err := w.Write(body.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Read walks the block list of an identity file, dispatching each body to its
// registered decoder. Blocks with no registered decoder are skipped so newer
// files remain loadable.
func Read(data []byte) ([]DataBlock, error) {
	cur := NewCursor(data)
	magic, err := cur.Next(len(fileMagic))
	if err != nil || !bytes.Equal(magic, fileMagic) {
		return nil, ErrBadMagic
	}
	var blocks []DataBlock
	for cur.Remaining() > 0 {
		length, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}
		blockType, err := cur.ReadUint16()
		if err != nil {
			return nil, err
		}
		body, err := cur.Next(int(length))
		if err != nil {
			return nil, err
		}
		fn, ok := registry[BlockType(blockType)]
		if !ok {
			continue
		}
		block, err := fn(NewCursor(body))
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
