package feed

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/Snehit70/voice-cli/internal/ipc"
)

// Envelope produces a synthetic speech-like amplitude curve. Recording
// toggles every Period/2.
type Envelope struct {
	Rate   time.Duration
	Period time.Duration
	rng    *rand.Rand
}

// NewEnvelope creates an envelope emitting one sample per rate.
func NewEnvelope(rate, period time.Duration, seed int64) *Envelope {
	return &Envelope{
		Rate:   rate,
		Period: period,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// At returns the sample for elapsed time since the envelope started.
func (e *Envelope) At(elapsed time.Duration) ipc.Sample {
	half := e.Period / 2
	recording := half <= 0 || (elapsed/half)%2 == 0
	if !recording {
		return ipc.Sample{}
	}
	t := elapsed.Seconds()
	syllable := 0.5 + 0.5*math.Sin(2*math.Pi*3*t)
	phrase := 0.6 + 0.4*math.Sin(2*math.Pi*0.4*t)
	noise := 0.15 * e.rng.Float64()
	a := syllable*phrase*0.85 + noise
	return ipc.Sample{Amplitude: float32(math.Min(a, 1)), Recording: true}
}

// Run broadcasts envelope samples through s until ctx is cancelled.
func (e *Envelope) Run(ctx context.Context, s *Server) error {
	if e.Rate <= 0 {
		return fmt.Errorf("envelope rate must be positive, got %s", e.Rate)
	}
	ticker := time.NewTicker(e.Rate)
	defer ticker.Stop()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if _, err := s.Broadcast(e.At(now.Sub(start))); err != nil {
				return err
			}
		}
	}
}
