// Package render composites waveform state into packed RGBA pixel buffers.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/Snehit70/voice-cli/internal/waveform"
)

// BytesPerPixel is the size of one packed RGBA pixel.
const BytesPerPixel = 4

const (
	BarWidth         = 4.0
	BarSpacing       = 3.0
	BarRadius        = 2.0
	MinBarHeight     = 4.0
	ContainerRadius  = 24.0
	ContainerPadding = 12.0
	PillWidth        = 400.0
)

// PillColor is the translucent background behind the bars.
var PillColor = color.NRGBA{R: 20, G: 20, B: 25, A: 220}

// Bar is the geometry and colour of one drawn bar.
type Bar struct {
	X, Y, Width, Height float32
	Amplitude           float32
	Color               color.NRGBA
}

// Render draws snap into a new width*height*4 byte buffer of premultiplied
// RGBA, row-major. Sizes below 1 are treated as 1.
func Render(snap waveform.Snapshot, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, atLeastOne(width), atLeastOne(height)))
	RenderInto(img, snap)
	return img.Pix
}

// RenderInto draws snap over the whole of dst, replacing its contents.
func RenderInto(dst *image.RGBA, snap waveform.Snapshot) {
	clear(dst.Pix)
	if !snap.Recording {
		return
	}

	width, height := dst.Bounds().Dx(), dst.Bounds().Dy()
	z := vector.NewRasterizer(0, 0)

	pillW := float32(math.Min(PillWidth, float64(width)))
	pillX := (float32(width) - pillW) / 2
	fillRoundedRect(dst, z, pillX, 0, pillW, float32(height), ContainerRadius, PillColor)

	for _, b := range Bars(snap.History, width, height) {
		fillRoundedRect(dst, z, b.X, b.Y, b.Width, b.Height, BarRadius, b.Color)
	}
}

// Bars lays out the most recent history values as bars, newest first and
// leftmost, centered as a group. history is ordered oldest to newest.
func Bars(history []float32, width, height int) []Bar {
	numBars := min(len(history), MaxBars(width))
	if numBars <= 0 {
		return nil
	}

	barTotal := float32(BarWidth + BarSpacing)
	groupWidth := float32(numBars)*barTotal - BarSpacing
	startX := (float32(width) - groupWidth) / 2

	maxBarHeight := float32(height) - 2*ContainerPadding
	bars := make([]Bar, 0, numBars)
	for i := 0; i < numBars; i++ {
		a := waveform.Clamp(history[len(history)-1-i])
		h := max(a*maxBarHeight, MinBarHeight)
		h = min(h, float32(height))
		bars = append(bars, Bar{
			X:         startX + float32(i)*barTotal,
			Y:         (float32(height) - h) / 2,
			Width:     BarWidth,
			Height:    h,
			Amplitude: a,
			Color:     AmplitudeColor(a),
		})
	}
	return bars
}

// MaxBars is the number of bars that fit in width after padding.
func MaxBars(width int) int {
	available := float64(width) - 2*ContainerPadding
	if available <= 0 {
		return 0
	}
	return int(math.Floor(available / (BarWidth + BarSpacing)))
}

// fillRoundedRect rasterizes only the shape's bounding box, so each bar
// costs its own area rather than the whole frame.
func fillRoundedRect(dst *image.RGBA, z *vector.Rasterizer, x, y, w, h, radius float32, c color.NRGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	box := image.Rect(
		int(math.Floor(float64(x))), int(math.Floor(float64(y))),
		int(math.Ceil(float64(x+w))), int(math.Ceil(float64(y+h))),
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	z.Reset(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	roundedRectPath(z, x-float32(box.Min.X), y-float32(box.Min.Y), w, h, radius)
	z.Draw(dst, box, image.NewUniform(c), image.Point{})
}

// pathBuilder is the subset of vector.Rasterizer used to trace shapes.
type pathBuilder interface {
	MoveTo(ax, ay float32)
	LineTo(bx, by float32)
	QuadTo(bx, by, cx, cy float32)
	ClosePath()
}

// roundedRectPath traces four edges joined by quadratic corners. The radius
// is clamped to half the smaller side.
func roundedRectPath(p pathBuilder, x, y, w, h, radius float32) {
	r := min(radius, w/2, h/2)

	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.QuadTo(x+w, y, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.QuadTo(x+w, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.QuadTo(x, y+h, x, y+h-r)
	p.LineTo(x, y+r)
	p.QuadTo(x, y, x+r, y)
	p.ClosePath()
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
