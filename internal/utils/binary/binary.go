// internal/utils/binary/binary.go
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrShortBuffer is returned when a read runs past the end of account data.
var ErrShortBuffer = errors.New("account data too short")

// Layout reads little-endian fields at fixed offsets of raw account data.
type Layout []byte

func (l Layout) span(offset, size int) ([]byte, error) {
	if offset < 0 || offset+size > len(l) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortBuffer, size, offset, len(l))
	}
	return l[offset : offset+size], nil
}

// Uint8 reads a single byte.
func (l Layout) Uint8(offset int) (uint8, error) {
	b, err := l.span(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint32 reads a little-endian uint32.
func (l Layout) Uint32(offset int) (uint32, error) {
	b, err := l.span(offset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads a little-endian uint64.
func (l Layout) Uint64(offset int) (uint64, error) {
	b, err := l.span(offset, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// PubKey reads a 32-byte public key.
func (l Layout) PubKey(offset int) (solana.PublicKey, error) {
	b, err := l.span(offset, solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

// PutUint32 writes a little-endian uint32. Used to build fixtures.
func PutUint32(data []byte, offset int, val uint32) {
	binary.LittleEndian.PutUint32(data[offset:offset+4], val)
}

// PutUint64 writes a little-endian uint64.
func PutUint64(data []byte, offset int, val uint64) {
	binary.LittleEndian.PutUint64(data[offset:offset+8], val)
}

// PutPubKey writes a public key.
func PutPubKey(data []byte, offset int, key solana.PublicKey) {
	copy(data[offset:offset+solana.PublicKeyLength], key[:])
}
