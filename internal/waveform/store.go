package waveform

import (
	"math"
	"sync"

	"github.com/Snehit70/voice-cli/internal/ringbuffer"
)

// HistorySize is the default number of amplitudes kept for display.
const HistorySize = 60

// Snapshot is a read-only copy of the store at one instant.
// History is ordered oldest to newest.
type Snapshot struct {
	History   []float32 `json:"history"`
	Recording bool      `json:"recording"`
}

// Store holds the bounded amplitude history and the recording flag.
// It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	history   *ringbuffer.RingBuffer
	recording bool
}

// NewStore creates a store that keeps at most capacity amplitudes.
func NewStore(capacity int) *Store {
	return &Store{history: ringbuffer.New(capacity)}
}

// Update clamps amplitude to [0,1], appends it to the history and sets the
// recording flag.
func (s *Store) Update(amplitude float32, recording bool) {
	a := Clamp(amplitude)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = recording
	s.history.Push(a)
}

// Snapshot returns a copy of the current history and recording flag.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		History:   s.history.Snapshot(),
		Recording: s.recording,
	}
}

// SnapshotInto is Snapshot writing the history into buf.
func (s *Store) SnapshotInto(buf []float32) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		History:   s.history.SnapshotInto(buf),
		Recording: s.recording,
	}
}

// Reset empties the history and clears the recording flag.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Reset()
	s.recording = false
}

// Len returns the number of amplitudes in the history.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// Capacity returns the maximum history length.
func (s *Store) Capacity() int {
	return s.history.Capacity()
}

// Clamp limits a to [0,1]. NaN maps to 0.
func Clamp(a float32) float32 {
	switch {
	case math.IsNaN(float64(a)):
		return 0
	case a < 0:
		return 0
	case a > 1:
		return 1
	}
	return a
}
