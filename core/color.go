package core

// Color is a straight-alpha RGBA color with channels in [0, 1]
// Opaque to the simulation; effects collaborators interpret it
type Color struct {
	R, G, B, A float32
}

// RGB stores explicit 8-bit color channels for terminal output
type RGB struct {
	R, G, B uint8
}

// Predefined colors used by the default missile visuals
var (
	ColorLightGray            = Color{0.827, 0.827, 0.827, 1}
	ColorLightGoldenrodYellow = Color{0.980, 0.980, 0.824, 1}
	ColorDarkOrange           = Color{1.000, 0.549, 0.000, 1}
	ColorWhite                = Color{1, 1, 1, 1}
)

// Lerp interpolates channel-wise between c and to, t clamped to [0, 1]
func (c Color) Lerp(to Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return to
	}
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// WithAlpha returns c with alpha replaced
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// RGB quantizes to 8-bit channels, premultiplying alpha against black
func (c Color) RGB() RGB {
	q := func(v float32) uint8 {
		v *= c.A
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return RGB{R: q(c.R), G: q(c.G), B: q(c.B)}
}
