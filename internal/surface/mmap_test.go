//go:build unix

package surface

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestMmapSinkWritesFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame")
	s, err := OpenMmapSink(path, FormatRGBA, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenMmapSink: %v", err)
	}
	defer s.Close()

	frame := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := s.Present(frame, 2, 1); err != nil {
		t.Fatalf("Present: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read shm file: %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("expected %v, got %v", frame, got)
	}
}

func TestMmapSinkRemapsOnResize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame")
	s, err := OpenMmapSink(path, FormatARGB8888, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenMmapSink: %v", err)
	}
	defer s.Close()

	if err := s.Present(make([]byte, 4*4*4), 4, 4); err != nil {
		t.Fatalf("Present 4x4: %v", err)
	}
	if s.Len() != 64 {
		t.Errorf("expected 64-byte mapping, got %d", s.Len())
	}

	frame := []byte{10, 20, 30, 40}
	if err := s.Present(frame, 1, 1); err != nil {
		t.Fatalf("Present 1x1: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("expected file shrunk to 4 bytes, got %d", info.Size())
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, []byte{30, 20, 10, 40}) {
		t.Errorf("expected ARGB8888 byte order, got %v", got)
	}
}

func TestMmapSinkRejectsMismatchedFrame(t *testing.T) {
	s, err := OpenMmapSink(filepath.Join(t.TempDir(), "frame"), FormatRGBA, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenMmapSink: %v", err)
	}
	defer s.Close()

	if err := s.Present(make([]byte, 100), 2, 2); err == nil {
		t.Error("expected error for oversized frame")
	}
	if s.Len() != 0 {
		t.Errorf("mapping created for rejected frame: %d bytes", s.Len())
	}
}

func TestMmapSinkUnknownFormat(t *testing.T) {
	if _, err := OpenMmapSink(filepath.Join(t.TempDir(), "frame"), "yuv", zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for unknown pixel format")
	}
}

func TestMmapSinkPresentAfterClose(t *testing.T) {
	s, err := OpenMmapSink(filepath.Join(t.TempDir(), "frame"), FormatRGBA, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenMmapSink: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Present(make([]byte, 4), 1, 1); err == nil {
		t.Error("expected error presenting to a closed sink")
	}
}

func TestMmapSinkConvertsOutsideMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame")
	s, err := OpenMmapSink(path, FormatARGB8888, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("OpenMmapSink: %v", err)
	}
	defer s.Close()

	frame := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := s.Present(frame, 2, 1); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !bytes.Equal(frame, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("caller frame modified: %v", frame)
	}
	if !bytes.Equal(s.data, []byte{3, 2, 1, 4, 7, 6, 5, 8}) {
		t.Errorf("expected converted frame in mapping, got %v", s.data)
	}
	if !bytes.Equal(s.scratch, s.data) {
		t.Errorf("expected conversion staged in scratch, got %v", s.scratch)
	}

	// A second frame of the same size reuses the staging buffer.
	staged := &s.scratch[0]
	if err := s.Present([]byte{9, 9, 0, 255, 0, 9, 9, 255}, 2, 1); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if &s.scratch[0] != staged {
		t.Error("expected scratch buffer reused")
	}
	got, _ := os.ReadFile(path)
	if !bytes.Equal(got, []byte{0, 9, 9, 255, 9, 9, 0, 255}) {
		t.Errorf("unexpected file contents %v", got)
	}
}
