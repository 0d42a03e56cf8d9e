// transport/transport.go
package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// Defaults for APT controllers. The line settings are fixed by the
// hardware; only the baud rate and read timeout are knobs in practice.
const (
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 100 * time.Millisecond
)

// Port is the subset of serial.Port the guard relies on. It exists so
// tests can substitute a fake.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	SetReadTimeout(t time.Duration) error
	SetRTS(level bool) error
	ResetInputBuffer() error
	ResetOutputBuffer() error
	Close() error
}

// Settings are the configurable line parameters.
type Settings struct {
	BaudRate    int
	ReadTimeout time.Duration
}

func (s *Settings) applyDefaults() {
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
}

// Guard wraps a single serial channel with flush-on-write and an
// idempotent close.
//
// The guard does NOT enforce mutual exclusion between operations: the
// engine funnels every read and write through one goroutine, so exactly
// one logical writer executes at a time. Callers outside the engine must
// respect that precondition.
type Guard struct {
	port Port
	log  *logrus.Logger

	mu     sync.Mutex // guards closed only
	closed bool
}

// Open opens and configures a serial port for APT traffic: 8 data bits,
// no parity, one stop bit, bounded reads. It then performs the buffer
// reset dance (assert RTS, clear both buffers, deassert RTS) so bytes the
// controller buffered before we started listening are flushed.
func Open(portName string, s Settings, log *logrus.Logger) (*Guard, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s.applyDefaults()

	mode := &serial.Mode{
		BaudRate: s.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("transport: opening %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(s.ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("transport: setting read timeout: %w", err)
	}

	g := &Guard{port: port, log: log}
	if err := g.ResetBuffers(); err != nil {
		port.Close()
		return nil, err
	}
	log.WithFields(logrus.Fields{"port": portName, "baud": s.BaudRate}).Info("transport: serial port open")
	return g, nil
}

// Wrap builds a Guard around an already-open Port. Used by tests and by
// callers that manage port configuration themselves.
func Wrap(port Port, log *logrus.Logger) *Guard {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Guard{port: port, log: log}
}

// ResetBuffers toggles RTS around clearing the input and output buffers.
// Some controllers buffer unsolicited status bytes before the host opens
// the port; they must be discarded before normal operation begins.
func (g *Guard) ResetBuffers() error {
	if err := g.port.SetRTS(true); err != nil {
		return fmt.Errorf("transport: asserting rts: %w", err)
	}
	if err := g.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("transport: resetting input buffer: %w", err)
	}
	if err := g.port.ResetOutputBuffer(); err != nil {
		return fmt.Errorf("transport: resetting output buffer: %w", err)
	}
	if err := g.port.SetRTS(false); err != nil {
		return fmt.Errorf("transport: deasserting rts: %w", err)
	}
	return nil
}

// Read reads available bytes, bounded by the configured read timeout.
// A timeout returns (0, nil).
func (g *Guard) Read(p []byte) (int, error) {
	return g.port.Read(p)
}

// Write transmits a frame and flushes so OS-level buffering never delays
// delivery.
func (g *Guard) Write(frame []byte) error {
	if _, err := g.port.Write(frame); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	if err := g.port.Drain(); err != nil {
		return fmt.Errorf("transport: flush: %w", err)
	}
	return nil
}

// Close releases the underlying handle. Calling Close on an already
// closed guard is a no-op.
func (g *Guard) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.port.Close(); err != nil {
		return fmt.Errorf("transport: close: %w", err)
	}
	return nil
}

// ErrNoDevice is returned by Find when no attached port matches the filter.
var ErrNoDevice = errors.New("transport: no matching device found")
