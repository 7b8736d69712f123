package render

import "image/color"

// Band edges of the amplitude colour ramp.
const (
	lowBandEnd = 0.4
	midBandEnd = 0.7
)

// AmplitudeColor maps a in [0,1] onto a three-band green → yellow → red
// ramp, interpolating each channel linearly within a band.
func AmplitudeColor(a float32) color.NRGBA {
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}

	switch {
	case a < lowBandEnd:
		t := a / lowBandEnd
		return rgb(80+100*t, 200+55*t, 120-20*t)
	case a < midBandEnd:
		t := (a - lowBandEnd) / (midBandEnd - lowBandEnd)
		return rgb(180+75*t, 255-55*t, 100-50*t)
	default:
		t := (a - midBandEnd) / (1 - midBandEnd)
		return rgb(255, 200-120*t, 50+30*t)
	}
}

func rgb(r, g, b float32) color.NRGBA {
	return color.NRGBA{R: channel(r), G: channel(g), B: channel(b), A: 255}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
