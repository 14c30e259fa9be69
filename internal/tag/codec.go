package tag

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
)

// ErrEmptyBlob is returned by Decode when given no bytes.
var ErrEmptyBlob = errors.New("tag: empty blob")

// Encode serializes c with gob and compresses it with gzip.
func Encode(c *Compound) ([]byte, error) {
	if c == nil {
		c = NewCompound()
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := gob.NewEncoder(gz)
	if err := enc.Encode(c); err != nil {
		gz.Close()
		return nil, fmt.Errorf("failed to encode compound: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decompresses and decodes a blob produced by Encode.
func Decode(blob []byte) (*Compound, error) {
	if len(blob) == 0 {
		return nil, ErrEmptyBlob
	}
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	c := NewCompound()
	if err := gob.NewDecoder(gz).Decode(c); err != nil {
		return nil, fmt.Errorf("failed to decode compound: %w", err)
	}
	return c, nil
}
