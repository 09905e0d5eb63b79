package palette

import "math"

// HSL holds hue in degrees [0,360) and saturation/lightness in percent [0,100].
type HSL struct {
	H, S, L float64
}

// Clamp wraps the hue into [0,360) and clamps S and L into [0,100].
// NaN components become zero.
func (c HSL) Clamp() HSL {
	return HSL{H: wrapHue(c.H), S: clampPercent(c.S), L: clampPercent(c.L)}
}

func wrapHue(h float64) float64 {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// HSLToRGB converts after clamping, so the result is always a valid colour.
func HSLToRGB(c HSL) RGB {
	c = c.Clamp()
	h := c.H / 360
	s := c.S / 100
	l := c.L / 100

	chroma := (1 - math.Abs(2*l-1)) * s
	x := chroma * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := l - chroma/2

	var r, g, b float64
	switch {
	case h < 1.0/6:
		r, g, b = chroma, x, 0
	case h < 2.0/6:
		r, g, b = x, chroma, 0
	case h < 3.0/6:
		r, g, b = 0, chroma, x
	case h < 4.0/6:
		r, g, b = 0, x, chroma
	case h < 5.0/6:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}

	return RGB{R: to8(r + m), G: to8(g + m), B: to8(b + m)}
}

func to8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGBToHSL is the inverse of HSLToRGB. Greys report hue and saturation 0.
func RGBToHSL(c RGB) HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l := (hi + lo) / 2
	if hi == lo {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	d := hi - lo
	s := d / (1 - math.Abs(2*l-1))

	var h float64
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}

	return HSL{H: h * 60, S: s * 100, L: l * 100}.Clamp()
}
