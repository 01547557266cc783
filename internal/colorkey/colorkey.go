// Package colorkey defines the 6-hex-digit color key shared by the mosaic
// client and the sprite server.
package colorkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Length is the number of hex digits in a key.
const Length = 6

// Black is the key returned for tiles that yield no samples.
const Black Key = "000000"

var ErrInvalidKey = errors.New("invalid color key")

// Key is a 24-bit RGB color written as 6 lower-case hex digits.
type Key string

// Parse validates s and returns it normalized to lower case.
func Parse(s string) (Key, error) {
	if len(s) != Length {
		return "", fmt.Errorf("%w: %q has length %d", ErrInvalidKey, s, len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, s)
		}
	}
	return Key(strings.ToLower(s)), nil
}

// FromRGB packs three channels into a key.
func FromRGB(r, g, b uint8) Key {
	return Key(fmt.Sprintf("%06x", uint32(r)<<16|uint32(g)<<8|uint32(b)))
}

// RGB unpacks the key into its channels.
func (k Key) RGB() (r, g, b uint8, err error) {
	if len(k) != Length {
		return 0, 0, 0, fmt.Errorf("%w: %q has length %d", ErrInvalidKey, string(k), len(k))
	}
	v, err := strconv.ParseUint(string(k), 16, 24)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, string(k))
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// Hex returns the key prefixed with '#'.
func (k Key) Hex() string {
	return "#" + string(k)
}

func (k Key) String() string {
	return string(k)
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
