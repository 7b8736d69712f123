// Package feed is the producer side of the overlay socket. It accepts any
// number of overlay connections and broadcasts samples to all of them.
package feed

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/ipc"
)

const writeTimeout = time.Second

// Server listens on a unix socket and fans samples out to every connected
// overlay.
type Server struct {
	path   string
	ln     net.Listener
	logger *zap.Logger

	mu      sync.Mutex
	clients map[net.Conn]struct{}
	closed  bool

	recording atomic.Bool
	wg        sync.WaitGroup
}

// Listen removes any stale socket at path and starts accepting clients.
func Listen(path string, logger *zap.Logger) (*Server, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	s := &Server{
		path:    path,
		ln:      ln,
		logger:  logger.With(zap.String("socket", path)),
		clients: make(map[net.Conn]struct{}),
	}
	s.wg.Add(1)
	go s.acceptLoop()
	s.logger.Info("feed listening")
	return s, nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("accept failed", zap.Error(err))
			continue
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.clients[conn] = struct{}{}
		n := len(s.clients)
		s.mu.Unlock()
		s.logger.Info("overlay connected", zap.Int("clients", n))
	}
}

// Broadcast writes sample to every client. Clients whose write fails are
// dropped. It returns the number of clients that received the sample.
func (s *Server) Broadcast(sample ipc.Sample) (int, error) {
	line, err := ipc.Encode(sample)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sent := 0
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if _, err := conn.Write(line); err != nil {
			s.logger.Info("dropping overlay client", zap.Error(err))
			conn.Close()
			delete(s.clients, conn)
			continue
		}
		sent++
	}
	return sent, nil
}

// SetRecording sets the flag attached to samples sent with SendAmplitude.
func (s *Server) SetRecording(recording bool) {
	s.recording.Store(recording)
}

// SendAmplitude broadcasts amplitude with the current recording flag. It is
// a no-op while no overlay is connected.
func (s *Server) SendAmplitude(amplitude float32) error {
	if s.Clients() == 0 {
		return nil
	}
	_, err := s.Broadcast(ipc.Sample{Amplitude: amplitude, Recording: s.recording.Load()})
	return err
}

// Clients returns the number of connected overlays.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Path returns the socket path.
func (s *Server) Path() string { return s.path }

// Close stops accepting, disconnects every client and removes the socket
// file. Safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
	s.mu.Unlock()

	err := s.ln.Close()
	s.wg.Wait()
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
		err = rmErr
	}
	s.logger.Info("feed closed")
	return err
}
