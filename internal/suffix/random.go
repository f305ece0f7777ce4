package suffix

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// RandomHex returns z random lowercase-hex characters from crypto/rand.
func RandomHex(z int) string {
	s, err := HexFrom(rand.Reader, z)
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms.
		panic(fmt.Sprintf("suffix: read random bytes: %v", err))
	}
	return s
}

// HexFrom reads enough bytes from r to produce z lowercase-hex characters.
func HexFrom(r io.Reader, z int) (string, error) {
	if z <= 0 {
		return "", nil
	}
	b := make([]byte, (z+1)/2)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b)[:z], nil
}
