package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// ToARGB8888 reorders a packed RGBA frame in place into the little-endian
// ARGB8888 layout (B, G, R, A in memory) used by shared-memory surfaces.
func ToARGB8888(frame []byte) {
	for i := 0; i+3 < len(frame); i += BytesPerPixel {
		frame[i], frame[i+2] = frame[i+2], frame[i]
	}
}

// FrameSize is the byte length of a width x height frame.
func FrameSize(width, height int) int {
	return width * height * BytesPerPixel
}

// EncodePNG writes a packed RGBA frame as a PNG image.
func EncodePNG(w io.Writer, frame []byte, width, height int) error {
	if len(frame) != FrameSize(width, height) {
		return fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(frame), FrameSize(width, height), width, height)
	}
	img := &image.RGBA{
		Pix:    frame,
		Stride: width * BytesPerPixel,
		Rect:   image.Rect(0, 0, width, height),
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
