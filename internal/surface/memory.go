package surface

import (
	"fmt"
	"sync"

	"github.com/Snehit70/voice-cli/internal/render"
)

// MemorySink keeps a copy of the most recent frame.
type MemorySink struct {
	mu            sync.Mutex
	frame         []byte
	width, height int
	presented     int
}

// Present copies frame.
func (m *MemorySink) Present(frame []byte, width, height int) error {
	if len(frame) != render.FrameSize(width, height) {
		return fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(frame), render.FrameSize(width, height), width, height)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = append(m.frame[:0], frame...)
	m.width, m.height = width, height
	m.presented++
	return nil
}

// Latest returns a copy of the last presented frame and its size.
func (m *MemorySink) Latest() ([]byte, int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.frame...), m.width, m.height
}

// Presented returns how many frames were accepted.
func (m *MemorySink) Presented() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented
}
