package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrInvalidHex is returned by ParseHex for anything that is not #RGB or #RRGGBB.
var ErrInvalidHex = errors.New("invalid hex colour")

// RGB is an opaque 8-bit colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black is the initial draw colour.
var Black = RGB{}

// Hex formats the colour as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// NRGBA converts to the standard library colour type used by the UI and exporters.
func (c RGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// ParseHex accepts "#RGB" and "#RRGGBB", with or without the leading '#'.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var digits [6]uint8
	switch len(h) {
	case 3:
		for i := 0; i < 3; i++ {
			v, ok := hexDigit(h[i])
			if !ok {
				return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			digits[2*i], digits[2*i+1] = v, v
		}
	case 6:
		for i := 0; i < 6; i++ {
			v, ok := hexDigit(h[i])
			if !ok {
				return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
			}
			digits[i] = v
		}
	default:
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return RGB{
		R: digits[0]<<4 | digits[1],
		G: digits[2]<<4 | digits[3],
		B: digits[4]<<4 | digits[5],
	}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Swatch is a named quick colour.
type Swatch struct {
	Name  string
	Color RGB
}

// Swatches are the quick colours offered next to the picker.
var Swatches = []Swatch{
	{"Black", RGB{0x00, 0x00, 0x00}},
	{"Red", RGB{0xFF, 0x00, 0x00}},
	{"Green", RGB{0x00, 0xFF, 0x00}},
	{"Blue", RGB{0x00, 0x00, 0xFF}},
	{"Yellow", RGB{0xFF, 0xFF, 0x00}},
	{"Magenta", RGB{0xFF, 0x00, 0xFF}},
	{"Cyan", RGB{0x00, 0xFF, 0xFF}},
	{"Orange", RGB{0xFF, 0x88, 0x00}},
	{"Purple", RGB{0x88, 0x00, 0xFF}},
	{"Pink", RGB{0xFF, 0x66, 0xCC}},
}

// SwatchName returns the quick colour name for c, or its hex form.
func SwatchName(c RGB) string {
	for _, s := range Swatches {
		if s.Color == c {
			return s.Name
		}
	}
	return c.Hex()
}
