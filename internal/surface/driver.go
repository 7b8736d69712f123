// Package surface stands in for the display host: it owns the event loop
// that calls the render tick and the buffers frames are presented into.
package surface

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/pipeline"
)

// DefaultPollInterval is how often the driver ticks the coordinator. The
// coordinator itself decides whether a tick composites.
const DefaultPollInterval = 8 * time.Millisecond

// Size is a surface size in pixels.
type Size struct {
	Width, Height int
}

// Ticker is the part of the coordinator the driver needs.
type Ticker interface {
	Resize(width, height int)
	Tick(now time.Time) (bool, error)
}

var _ Ticker = (*pipeline.Coordinator)(nil)

// Driver calls Tick on a fixed poll interval and forwards size changes.
type Driver struct {
	target Ticker
	poll   time.Duration
	resize chan Size
	logger *zap.Logger
}

// NewDriver creates a driver polling target every poll interval.
func NewDriver(target Ticker, poll time.Duration, logger *zap.Logger) *Driver {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Driver{
		target: target,
		poll:   poll,
		resize: make(chan Size, 1),
		logger: logger,
	}
}

// Resize queues a size change. Only the latest pending size is kept.
func (d *Driver) Resize(width, height int) {
	s := Size{Width: width, Height: height}
	for {
		select {
		case d.resize <- s:
			return
		default:
		}
		select {
		case <-d.resize:
		default:
		}
	}
}

// Run ticks until ctx is cancelled, returning nil, or until the sink fails,
// returning that error.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.poll)
	defer ticker.Stop()

	d.logger.Info("surface driver started", zap.Duration("poll", d.poll))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("surface driver stopped")
			return nil
		case s := <-d.resize:
			d.target.Resize(s.Width, s.Height)
			if _, err := d.target.Tick(time.Now()); err != nil {
				return err
			}
		case now := <-ticker.C:
			if _, err := d.target.Tick(now); err != nil {
				return err
			}
		}
	}
}
