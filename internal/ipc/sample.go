package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Sample is one amplitude reading from the producer.
type Sample struct {
	Amplitude float32 `json:"amplitude"`
	Recording bool    `json:"recording"`
}

// DecodeError reports a line that is not a valid sample. It is never fatal
// to the connection.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode sample %q: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errMissingAmplitude = errors.New("missing field amplitude")
	errMissingRecording = errors.New("missing field recording")

	// ErrLineTooLong marks a line longer than the reader's limit. The line
	// is discarded and reading continues with the next one.
	ErrLineTooLong = errors.New("line too long")
)

// Decode parses one JSON line into a Sample. Both fields are required and
// their names are matched exactly. Amplitude is not range checked here;
// values beyond float32 saturate to ±Inf.
func Decode(line []byte) (Sample, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(line, &fields); err != nil {
		return Sample{}, &DecodeError{Line: string(line), Err: err}
	}

	var amplitude *float64
	if err := decodeField(fields, "amplitude", &amplitude); err != nil {
		return Sample{}, &DecodeError{Line: string(line), Err: err}
	}
	if amplitude == nil {
		return Sample{}, &DecodeError{Line: string(line), Err: errMissingAmplitude}
	}

	var recording *bool
	if err := decodeField(fields, "recording", &recording); err != nil {
		return Sample{}, &DecodeError{Line: string(line), Err: err}
	}
	if recording == nil {
		return Sample{}, &DecodeError{Line: string(line), Err: errMissingRecording}
	}

	return Sample{Amplitude: saturate(*amplitude), Recording: *recording}, nil
}

// decodeField unmarshals fields[name] into dst. A missing or null field
// leaves dst untouched.
func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %s: %w", name, err)
	}
	return nil
}

func saturate(v float64) float32 {
	switch {
	case v > math.MaxFloat32:
		return float32(math.Inf(1))
	case v < -math.MaxFloat32:
		return float32(math.Inf(-1))
	}
	return float32(v)
}

// Encode renders s as one newline-terminated JSON line.
func Encode(s Sample) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode sample: %w", err)
	}
	return append(b, '\n'), nil
}
