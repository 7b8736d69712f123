// Package pipeline drives the render tick: it drains samples, folds them
// into the waveform store and hands composited frames to a sink.
package pipeline

import (
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/ipc"
	"github.com/Snehit70/voice-cli/internal/metrics"
	"github.com/Snehit70/voice-cli/internal/render"
	"github.com/Snehit70/voice-cli/internal/waveform"
)

// DefaultFPS is the periodic redraw rate.
const DefaultFPS = 30

// FrameSink receives composited frames. frame is width*height*4 bytes of
// premultiplied RGBA and is only valid for the duration of the call.
type FrameSink interface {
	Present(frame []byte, width, height int) error
}

// Frame triggers recorded in metrics.
const (
	TriggerData     = "data"
	TriggerDeadline = "deadline"
	TriggerResize   = "resize"
)

// Coordinator owns the receive end of the sample queue. It has no
// goroutine of its own: the host calls Tick from its event loop.
type Coordinator struct {
	queue    *ipc.Queue
	store    *waveform.Store
	sink     FrameSink
	interval time.Duration
	logger   *zap.Logger

	// Tick-side state, touched only from the host loop.
	lastFrame time.Time
	resized   bool
	frame     *image.RGBA
	history   []float32

	mu            sync.Mutex
	width, height int
}

// New creates a coordinator that redraws at least fps times per second.
func New(queue *ipc.Queue, store *waveform.Store, sink FrameSink, fps int, logger *zap.Logger) *Coordinator {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Coordinator{
		queue:    queue,
		store:    store,
		sink:     sink,
		interval: time.Second / time.Duration(fps),
		logger:   logger,
		history:  make([]float32, 0, store.Capacity()),
	}
}

// Resize records a new surface size. It applies to the next composite.
// Non-positive sizes are ignored.
func (c *Coordinator) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if width == c.width && height == c.height {
		return
	}
	c.width, c.height = width, height
	c.resized = true
	metrics.SurfacePixels.Set(float64(width * height))
	c.logger.Info("surface resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the negotiated surface size, or 1x1 before any is known.
func (c *Coordinator) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.width == 0 || c.height == 0 {
		return 1, 1
	}
	return c.width, c.height
}

// Tick drains the queue without blocking and composites at most one frame:
// when samples arrived, the surface was resized, or the redraw interval has
// passed since the previous frame. It reports whether a frame was presented.
// Sink errors are wrapped and returned; the host treats them as fatal.
func (c *Coordinator) Tick(now time.Time) (bool, error) {
	metrics.QueueDepth.Set(float64(c.queue.Len()))
	drained := c.queue.Drain(func(s ipc.Sample) {
		c.store.Update(s.Amplitude, s.Recording)
	})
	metrics.SamplesPerTick.Observe(float64(drained))

	c.mu.Lock()
	resized := c.resized
	c.resized = false
	c.mu.Unlock()

	trigger := ""
	switch {
	case drained > 0:
		trigger = TriggerData
	case resized:
		trigger = TriggerResize
	case c.lastFrame.IsZero() || now.Sub(c.lastFrame) >= c.interval:
		trigger = TriggerDeadline
	default:
		return false, nil
	}

	if err := c.present(); err != nil {
		metrics.SinkErrorsTotal.Inc()
		return false, err
	}
	c.lastFrame = now
	metrics.FramesTotal.WithLabelValues(trigger).Inc()
	return true, nil
}

// Close releases the receive end. The IPC client sees the consumer as gone.
func (c *Coordinator) Close() {
	c.queue.Close()
}

func (c *Coordinator) present() error {
	width, height := c.Size()
	if c.frame == nil || c.frame.Rect.Dx() != width || c.frame.Rect.Dy() != height {
		c.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	}

	start := time.Now()
	snap := c.store.SnapshotInto(c.history)
	c.history = snap.History
	render.RenderInto(c.frame, snap)
	metrics.RenderDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)

	if err := c.sink.Present(c.frame.Pix, width, height); err != nil {
		return fmt.Errorf("present %dx%d frame: %w", width, height, err)
	}
	return nil
}
