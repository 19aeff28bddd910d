package random

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

func NewSeed() int64 {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// NewSource returns a math/rand source seeded from crypto/rand.
func NewSource() rand.Source {
	return rand.NewSource(NewSeed())
}
