//go:build unix

package surface

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/Snehit70/voice-cli/internal/render"
)

// PixelFormat selects the byte order written into shared memory.
type PixelFormat string

const (
	FormatRGBA     PixelFormat = "rgba"
	FormatARGB8888 PixelFormat = "argb8888"
)

// MmapSink presents frames into a file-backed shared memory region sized
// width*height*4, the way a compositor's shm pool is filled.
type MmapSink struct {
	path   string
	format PixelFormat
	file   *os.File
	data   []byte
	logger *zap.Logger

	// scratch holds the converted frame so the mapping is written once.
	scratch []byte
}

// OpenMmapSink creates (or truncates) the backing file at path.
func OpenMmapSink(path string, format PixelFormat, logger *zap.Logger) (*MmapSink, error) {
	switch format {
	case FormatRGBA, FormatARGB8888:
	case "":
		format = FormatARGB8888
	default:
		return nil, fmt.Errorf("unsupported pixel format %q", format)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open shm file: %w", err)
	}
	return &MmapSink{
		path:   path,
		format: format,
		file:   f,
		logger: logger.With(zap.String("shm", path)),
	}, nil
}

// Present copies frame into the mapping, remapping first if the size
// changed. Writes never extend past the mapped length.
func (s *MmapSink) Present(frame []byte, width, height int) error {
	size := render.FrameSize(width, height)
	if len(frame) != size {
		return fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(frame), size, width, height)
	}
	if s.file == nil {
		return fmt.Errorf("shm sink closed")
	}
	if len(s.data) != size {
		if err := s.remap(size); err != nil {
			return err
		}
		s.logger.Info("shm mapped", zap.Int("width", width), zap.Int("height", height), zap.Int("bytes", size))
	}

	if s.format == FormatARGB8888 {
		s.scratch = append(s.scratch[:0], frame...)
		render.ToARGB8888(s.scratch)
		frame = s.scratch
	}
	copy(s.data, frame)
	return nil
}

func (s *MmapSink) remap(size int) error {
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			return fmt.Errorf("munmap: %w", err)
		}
		s.data = nil
	}
	if err := s.file.Truncate(int64(size)); err != nil {
		return fmt.Errorf("resize shm file: %w", err)
	}
	data, err := unix.Mmap(int(s.file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	s.data = data
	return nil
}

// Len returns the size of the current mapping.
func (s *MmapSink) Len() int {
	return len(s.data)
}

// Close unmaps the region and closes the backing file. The file is left
// in place for readers that still hold it open.
func (s *MmapSink) Close() error {
	var firstErr error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			firstErr = fmt.Errorf("munmap: %w", err)
		}
		s.data = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close shm file: %w", err)
		}
		s.file = nil
	}
	return firstErr
}
