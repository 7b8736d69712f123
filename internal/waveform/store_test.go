package waveform

import (
	"math"
	"sync"
	"testing"
)

func TestUpdateClamps(t *testing.T) {
	s := NewStore(HistorySize)
	s.Update(1.7, true)
	s.Update(-0.3, true)
	s.Update(float32(math.NaN()), true)
	s.Update(0.25, true)

	snap := s.Snapshot()
	want := []float32{1, 0, 0, 0.25}
	if len(snap.History) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(snap.History))
	}
	for i := range want {
		if snap.History[i] != want[i] {
			t.Errorf("value %d: expected %v, got %v", i, want[i], snap.History[i])
		}
	}
}

func TestHistoryBoundedFIFO(t *testing.T) {
	s := NewStore(HistorySize)
	total := HistorySize + 25
	for i := 0; i < total; i++ {
		s.Update(float32(i)/float32(total), true)
		if s.Len() > HistorySize {
			t.Fatalf("history grew to %d after %d updates", s.Len(), i+1)
		}
	}

	snap := s.Snapshot()
	if len(snap.History) != HistorySize {
		t.Fatalf("expected %d values, got %d", HistorySize, len(snap.History))
	}
	for i, v := range snap.History {
		want := float32(total-HistorySize+i) / float32(total)
		if v != want {
			t.Errorf("value %d: expected %v, got %v", i, want, v)
			break
		}
	}
}

func TestRecordingFlagFollowsLastUpdate(t *testing.T) {
	s := NewStore(4)
	s.Update(0.5, true)
	if !s.Snapshot().Recording {
		t.Error("expected recording after update(…, true)")
	}
	s.Update(0.5, false)
	if s.Snapshot().Recording {
		t.Error("expected not recording after update(…, false)")
	}
}

func TestReset(t *testing.T) {
	s := NewStore(4)
	s.Update(0.5, true)
	s.Update(0.6, true)
	s.Reset()

	snap := s.Snapshot()
	if len(snap.History) != 0 {
		t.Errorf("expected empty history after reset, got %v", snap.History)
	}
	if snap.Recording {
		t.Error("expected recording cleared after reset")
	}
}

func TestConcurrentSnapshots(t *testing.T) {
	s := NewStore(HistorySize)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Update(0.5, true)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if n := len(s.Snapshot().History); n > HistorySize {
				t.Errorf("snapshot exceeded capacity: %d", n)
				return
			}
		}
	}()
	wg.Wait()
}
