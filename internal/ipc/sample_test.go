package ipc

import (
	"errors"
	"math"
	"testing"

	"github.com/Snehit70/voice-cli/internal/waveform"
)

func TestDecodeValid(t *testing.T) {
	s, err := Decode([]byte(`{"amplitude":0.42,"recording":true}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Amplitude != 0.42 || !s.Recording {
		t.Errorf("unexpected sample %+v", s)
	}
}

func TestDecodeOutOfRangeIsNotRejected(t *testing.T) {
	s, err := Decode([]byte(`{"amplitude":1.7,"recording":false}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Amplitude != 1.7 {
		t.Errorf("expected raw amplitude 1.7, got %v", s.Amplitude)
	}

	for line, wantInf := range map[string]int{
		`{"amplitude":1e40,"recording":true}`:  1,
		`{"amplitude":-1e40,"recording":true}`: -1,
	} {
		s, err := Decode([]byte(line))
		if err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		if !math.IsInf(float64(s.Amplitude), wantInf) {
			t.Errorf("%s: expected saturated amplitude, got %v", line, s.Amplitude)
		}
	}

	// Saturated values land on the ends of the store's range.
	store := waveform.NewStore(waveform.HistorySize)
	s, _ = Decode([]byte(`{"amplitude":1e40,"recording":true}`))
	store.Update(s.Amplitude, s.Recording)
	s, _ = Decode([]byte(`{"amplitude":-1e40,"recording":true}`))
	store.Update(s.Amplitude, s.Recording)
	if h := store.Snapshot().History; h[0] != 1 || h[1] != 0 {
		t.Errorf("expected history [1 0], got %v", h)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, line := range []string{
		`{not json}`,
		`[]`,
		`{"amplitude":"loud","recording":true}`,
		`{"recording":true}`,
		`{"amplitude":0.5}`,
		`{"amplitude":0.5,"recording":true} trailing`,
		`{"AMPLITUDE":0.5,"Recording":true}`,
		`{"Amplitude":0.5,"recording":true}`,
		`{"amplitude":null,"recording":true}`,
		`{"amplitude":0.5,"recording":null}`,
		`{"amplitude":0.5,"recording":"yes"}`,
	} {
		_, err := Decode([]byte(line))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%q: expected DecodeError, got %v", line, err)
			continue
		}
		if de.Line != line {
			t.Errorf("%q: error carries line %q", line, de.Line)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	line, err := Encode(Sample{Amplitude: 0.25, Recording: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if line[len(line)-1] != '\n' {
		t.Fatal("expected trailing newline")
	}
	s, err := Decode(line[:len(line)-1])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s != (Sample{Amplitude: 0.25, Recording: true}) {
		t.Errorf("unexpected sample %+v", s)
	}
}
