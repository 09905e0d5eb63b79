package palette

// Picker is the colour picker model behind the toolbar: a saturation/lightness
// surface at the current hue, a hue slider, and quick-colour swatches.
type Picker struct {
	hsl HSL
	rgb RGB

	// OnChanged is called with the derived colour after every change.
	OnChanged func(RGB)
}

// NewPicker starts at c.
func NewPicker(c RGB) *Picker {
	return &Picker{hsl: RGBToHSL(c), rgb: c}
}

func (p *Picker) HSL() HSL   { return p.hsl }
func (p *Picker) Color() RGB { return p.rgb }

func (p *Picker) SetHue(h float64) {
	p.hsl.H = h
	p.update()
}

func (p *Picker) SetSaturation(s float64) {
	p.hsl.S = s
	p.update()
}

func (p *Picker) SetLightness(l float64) {
	p.hsl.L = l
	p.update()
}

// SetFromSurface maps a position on a w x h surface: x is saturation,
// y grows downwards and is lightness inverted.
func (p *Picker) SetFromSurface(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	p.hsl.S = x / w * 100
	p.hsl.L = (1 - y/h) * 100
	p.update()
}

// SetFromHueSlider maps x on a slider of width w linearly onto [0,360).
func (p *Picker) SetFromHueSlider(x, w float64) {
	if w <= 0 {
		return
	}
	if x < 0 {
		x = 0
	}
	if x > w {
		x = w
	}
	p.hsl.H = x / w * 360
	p.update()
}

// SelectSwatch makes c the active colour and resynchronises the sliders
// so fine adjustment continues from it.
func (p *Picker) SelectSwatch(c RGB) {
	p.hsl = RGBToHSL(c)
	p.rgb = c
	p.notify()
}

func (p *Picker) update() {
	p.hsl = p.hsl.Clamp()
	p.rgb = HSLToRGB(p.hsl)
	p.notify()
}

func (p *Picker) notify() {
	if p.OnChanged != nil {
		p.OnChanged(p.rgb)
	}
}
