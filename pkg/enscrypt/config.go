package enscrypt

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	bin "github.com/saylorsolutions/binmap"

	"github.com/idlock/idlock/pkg/storage"
)

const (
	saltSize = 16
	// EncodedSize is the fixed wire width of a ScryptConfig. Changing any
	// field width is a format-breaking change for every block that embeds the
	// config in its body and authenticated data.
	EncodedSize = saltSize + 1 + 4 + 4

	DefaultLogNFactor      uint8  = 9
	DefaultIterationFactor uint32 = 4
	DefaultParallelFactor  uint32 = 1

	maxLogNFactor = 16
)

// ScryptConfig holds the per-block cost parameters for key stretching. Each
// block owns its own config; salts are refreshed independently across blocks
// and rotations, so the config must never be shared process-wide.
type ScryptConfig struct {
	salt            [saltSize]byte
	logNFactor      uint8
	iterationFactor uint32
	parallelFactor  uint32
}

type ConfigOpt = func(*ScryptConfig) error

// SetLogNFactor sets the scrypt CPU/memory cost to 2^n.
// Only use this option if you know what you're doing.
func SetLogNFactor(n uint8) ConfigOpt {
	return func(cfg *ScryptConfig) error {
		if n < 1 || n > maxLogNFactor {
			return fmt.Errorf("log N factor must be between 1 and %d", maxLogNFactor)
		}
		cfg.logNFactor = n
		return nil
	}
}

// SetIterationFactor sets the base number of chained scrypt passes. The
// effective pass count is this value times the caller's effort multiplier.
func SetIterationFactor(n uint32) ConfigOpt {
	return func(cfg *ScryptConfig) error {
		if n == 0 {
			return errors.New("iteration factor cannot be 0")
		}
		cfg.iterationFactor = n
		return nil
	}
}

// SetParallelFactor sets the scrypt parallelization parameter.
// Only use this option if you know what you're doing.
func SetParallelFactor(n uint32) ConfigOpt {
	return func(cfg *ScryptConfig) error {
		if n == 0 {
			return errors.New("parallel factor cannot be 0")
		}
		cfg.parallelFactor = n
		return nil
	}
}

// NewScryptConfig creates a config with a fresh random salt, applying zero or
// more ConfigOpt over the defaults.
func NewScryptConfig(opts ...ConfigOpt) (*ScryptConfig, error) {
	cfg := &ScryptConfig{
		logNFactor:      DefaultLogNFactor,
		iterationFactor: DefaultIterationFactor,
		parallelFactor:  DefaultParallelFactor,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.RefreshSalt(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RefreshSalt replaces the salt with fresh random bytes, invalidating every
// key previously derived from this config.
func (c *ScryptConfig) RefreshSalt() error {
	if _, err := rand.Read(c.salt[:]); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	return nil
}

func (c *ScryptConfig) mapper() bin.Mapper {
	return bin.MapSequence(
		bin.Byte(&c.logNFactor),
		bin.Int(&c.iterationFactor),
		bin.Int(&c.parallelFactor),
	)
}

// Encode writes the fixed-width binary form: the salt followed by the cost
// scalars, all little-endian.
func (c *ScryptConfig) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, c.salt); err != nil {
		return err
	}
	return c.mapper().Write(w, binary.LittleEndian)
}

// DecodeScryptConfig consumes exactly EncodedSize bytes from the cursor.
func DecodeScryptConfig(cur *storage.Cursor) (ScryptConfig, error) {
	var cfg ScryptConfig
	raw, err := cur.Next(EncodedSize)
	if err != nil {
		return cfg, err
	}
	r := bytes.NewReader(raw)
	if err := binary.Read(r, binary.LittleEndian, &cfg.salt); err != nil {
		return cfg, err
	}
	if err := cfg.mapper().Read(r, binary.LittleEndian); err != nil {
		return cfg, err
	}
	return cfg, nil
}
