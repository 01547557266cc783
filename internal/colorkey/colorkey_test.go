package colorkey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizesCase(t *testing.T) {
	key, err := Parse("AaBbCc")
	require.NoError(t, err)
	assert.Equal(t, Key("aabbcc"), key)
	assert.Equal(t, "#aabbcc", key.Hex())
}

func TestParseRejectsMalformedKeys(t *testing.T) {
	for _, in := range []string{"", "abc", "zzzzzz", "aabbccd", "12345g", "#abcde"} {
		_, err := Parse(in)
		assert.True(t, errors.Is(err, ErrInvalidKey), "input %q", in)
	}
}

func TestFromRGBIsFixedWidth(t *testing.T) {
	assert.Equal(t, Black, FromRGB(0, 0, 0))
	assert.Equal(t, Key("00010a"), FromRGB(0, 1, 10))
	assert.Equal(t, Key("ffffff"), FromRGB(255, 255, 255))
}

func TestRGBRoundTrip(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {0x12, 0xab, 0x34}, {255, 255, 255}, {1, 0, 254}} {
		r, g, b, err := FromRGB(c[0], c[1], c[2]).RGB()
		require.NoError(t, err)
		assert.Equal(t, c, [3]uint8{r, g, b})
	}

	for _, k := range []Key{"", "abc", "zzzzzz", "+12345", "1234567"} {
		_, _, _, err := k.RGB()
		assert.True(t, errors.Is(err, ErrInvalidKey), "key %q", k)
	}
}
