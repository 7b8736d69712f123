package ipc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Snehit70/voice-cli/internal/metrics"
)

// DefaultSocketPath is where the producer listens unless told otherwise.
const DefaultSocketPath = "/tmp/voice-cli-overlay.sock"

const (
	defaultBackoff      = 2 * time.Second
	defaultMaxLineBytes = 64 * 1024
)

// State constants for the client connection lifecycle.
const (
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"
	StateBackoff      = "backoff"
	StateStopped      = "stopped"
)

// ConnectError wraps a failed dial. The client backs off and retries.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// ReadError wraps a transport failure on an established connection. The
// client backs off and retries.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DialFunc opens a byte stream to addr.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Options tune the client. Zero values select the defaults.
type Options struct {
	Network      string        // "unix" unless set
	Backoff      time.Duration // wait after a failed connect or read
	MaxLineBytes int
	Dial         DialFunc
}

// Status is a snapshot of the client's connection state.
type Status struct {
	State        string `json:"state"`
	Address      string `json:"address"`
	ConnectionID string `json:"connectionId,omitempty"`
	Connects     int64  `json:"connects"`
	Samples      int64  `json:"samples"`
	DecodeErrors int64  `json:"decodeErrors"`
	LastError    string `json:"lastError,omitempty"`
}

// Client reads newline-delimited samples from the producer and republishes
// them on a Queue, reconnecting for as long as it runs.
type Client struct {
	logger       *zap.Logger
	network      string
	backoff      time.Duration
	maxLineBytes int
	dial         DialFunc

	mu        sync.Mutex
	state     string
	addr      string
	connID    string
	lastError string

	connects     atomic.Int64
	samples      atomic.Int64
	decodeErrors atomic.Int64
}

// NewClient creates a client. It does not connect until Listen is called.
func NewClient(logger *zap.Logger, opts Options) *Client {
	c := &Client{
		logger:       logger,
		network:      opts.Network,
		backoff:      opts.Backoff,
		maxLineBytes: opts.MaxLineBytes,
		dial:         opts.Dial,
		state:        StateDisconnected,
	}
	if c.network == "" {
		c.network = "unix"
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	if c.maxLineBytes <= 0 {
		c.maxLineBytes = defaultMaxLineBytes
	}
	if c.dial == nil {
		c.dial = (&net.Dialer{}).DialContext
	}
	return c
}

// Listen connects to addr and forwards decoded samples to out until ctx is
// cancelled or out's consumer is gone. Both end the client with a nil
// error; transport and decode failures are logged and retried.
func (c *Client) Listen(ctx context.Context, addr string, out *Queue) error {
	if out == nil {
		return errors.New("ipc: nil output queue")
	}

	c.mu.Lock()
	c.addr = addr
	c.mu.Unlock()
	defer c.setState(StateStopped)

	for {
		if ctx.Err() != nil {
			return nil
		}

		err := c.connectAndRead(ctx, addr, out)
		switch {
		case errors.Is(err, ErrConsumerGone):
			c.logger.Info("sample consumer gone, stopping ipc client")
			return nil
		case ctx.Err() != nil:
			return nil
		case err == nil:
			c.logger.Info("connection closed by producer, reconnecting")
			continue
		}

		c.setError(err)
		c.logger.Warn("ipc error, retrying",
			zap.Error(err),
			zap.Duration("backoff", c.backoff),
		)
		if !c.wait(ctx) {
			return nil
		}
	}
}

// wait sleeps for the backoff interval. It returns false if ctx ended first.
func (c *Client) wait(ctx context.Context) bool {
	c.setState(StateBackoff)
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) connectAndRead(ctx context.Context, addr string, out *Queue) error {
	c.setState(StateConnecting)
	metrics.ConnectAttemptsTotal.Inc()
	c.logger.Debug("connecting", zap.String("addr", addr))

	conn, err := c.dial(ctx, c.network, addr)
	if err != nil {
		metrics.ConnectFailuresTotal.Inc()
		return &ConnectError{Addr: addr, Err: err}
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := c.logger.With(zap.String("conn", connID))
	c.connects.Add(1)
	c.setConnected(connID)
	metrics.IPCConnected.Set(1)
	defer metrics.IPCConnected.Set(0)
	logger.Info("connected", zap.String("addr", addr))

	// Closing the connection unblocks a pending read on shutdown.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reader := bufio.NewReaderSize(conn, c.maxLineBytes)
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, readErr := readLine(reader)
		if errors.Is(readErr, ErrLineTooLong) {
			c.decodeErrors.Add(1)
			metrics.DecodeErrorsTotal.Inc()
			logger.Warn("discarding oversized line", zap.Int("limit", c.maxLineBytes))
			continue
		}

		if line = bytes.TrimSpace(line); len(line) > 0 {
			if err := c.deliver(ctx, logger, line, out); err != nil {
				return err
			}
		}

		if readErr != nil {
			if ctx.Err() != nil || errors.Is(readErr, io.EOF) {
				return nil
			}
			metrics.ReadErrorsTotal.Inc()
			return &ReadError{Err: readErr}
		}
	}
}

// deliver decodes one line and sends it on. Decode errors are counted and
// swallowed; only a gone consumer is returned.
func (c *Client) deliver(ctx context.Context, logger *zap.Logger, line []byte, out *Queue) error {
	sample, err := Decode(line)
	if err != nil {
		c.decodeErrors.Add(1)
		metrics.DecodeErrorsTotal.Inc()
		logger.Warn("failed to parse message", zap.Error(err))
		return nil
	}

	if ce := logger.Check(zap.DebugLevel, "received"); ce != nil {
		ce.Write(
			zap.Float32("amplitude", sample.Amplitude),
			zap.Bool("recording", sample.Recording),
		)
	}

	if err := out.Send(ctx, sample); err != nil {
		if errors.Is(err, ErrConsumerGone) {
			return ErrConsumerGone
		}
		// Shutdown; the read loop sees the closed connection next.
		return nil
	}
	c.samples.Add(1)
	metrics.SamplesReceivedTotal.Inc()
	return nil
}

// readLine returns the next line including its newline. A final
// line without a newline is returned together with io.EOF. A line that does
// not fit the reader's buffer is consumed up to its newline and reported as
// ErrLineTooLong; the returned slice is only valid until the next read.
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if !errors.Is(err, bufio.ErrBufferFull) {
		return line, err
	}
	for errors.Is(err, bufio.ErrBufferFull) {
		_, err = r.ReadSlice('\n')
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return nil, ErrLineTooLong
}

// Status returns a snapshot of the client's connection state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:        c.state,
		Address:      c.addr,
		ConnectionID: c.connID,
		Connects:     c.connects.Load(),
		Samples:      c.samples.Load(),
		DecodeErrors: c.decodeErrors.Load(),
		LastError:    c.lastError,
	}
}

func (c *Client) setState(state string) {
	c.mu.Lock()
	c.state = state
	if state != StateConnected {
		c.connID = ""
	}
	c.mu.Unlock()
}

func (c *Client) setConnected(connID string) {
	c.mu.Lock()
	c.state = StateConnected
	c.connID = connID
	c.mu.Unlock()
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.lastError = err.Error()
	c.mu.Unlock()
}
