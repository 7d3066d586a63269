package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with float32 channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// ErrInvalidHex is returned by ParseHex for malformed color strings.
var ErrInvalidHex = errors.New("invalid hex color")

// ParseHex parses "#rrggbb", "rrggbb" or the short form "#rgb".
// Alpha is always 1.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
		A: 1,
	}, nil
}

// MustParseHex is ParseHex for compile-time constants; it panics on error.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as lowercase "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

func channelByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
