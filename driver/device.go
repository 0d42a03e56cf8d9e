// driver/device.go
package driver

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/optomech/aptdrive/apt"
	"github.com/optomech/aptdrive/config"
	"github.com/optomech/aptdrive/transport"
)

// State is the lifecycle state of a Device. Transitions are monotonic;
// StateClosed is terminal.
type State int32

const (
	StateUnopened State = iota
	StateRunning
	StateStopping
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateClosed:
		return "closed"
	}
	return "invalid"
}

// Wire is the transport the engine drives: bounded reads, flush-on-write
// writes, idempotent close. *transport.Guard satisfies it; tests use fakes.
type Wire interface {
	Read(p []byte) (int, error)
	Write(frame []byte) error
	Close() error
}

// Device is a connection to one APT controller. All motion and
// configuration calls are fire-and-forget: they enqueue a command frame
// for the engine goroutine and return immediately. Effects show up later
// in the status records or through error callbacks.
type Device struct {
	log     *logrus.Logger
	wire    Wire
	unpack  *apt.Unpacker
	profile Profile

	queue     pendingQueue
	callbacks callbackRegistry

	bayIndex map[apt.EndPoint]int
	records  [][]*StatusRecord // [bay][channel]

	state atomic.Int32
	stop  chan struct{}
	kick  chan struct{}
	done  chan struct{}
}

// New builds a Device on an already-open transport and launches the
// engine goroutine. Startup ordering is deliberate: the start-update
// request for every bay (and the optional homing moves) is queued before
// the engine starts, so they are the first frames transmitted.
func New(wire Wire, profile Profile, log *logrus.Logger) (*Device, error) {
	if wire == nil {
		return nil, errors.New("driver: nil wire")
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	profile = profile.withDefaults()

	d := &Device{
		log:     log,
		wire:    wire,
		profile: profile,
		stop:    make(chan struct{}),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	d.unpack = apt.NewUnpacker(wire, apt.UnpackerConfig{
		Policy: apt.PolicyWarn,
		Logger: log,
	})

	d.bayIndex = make(map[apt.EndPoint]int, len(profile.Bays))
	d.records = make([][]*StatusRecord, len(profile.Bays))
	for bi, bay := range profile.Bays {
		d.bayIndex[bay] = bi
		d.records[bi] = make([]*StatusRecord, len(profile.Channels))
		for ci := range profile.Channels {
			d.records[bi][ci] = &StatusRecord{swapLimits: profile.SwapLimitSwitches}
		}
	}

	// Queue the initial command burst in bay order.
	for _, bay := range profile.Bays {
		d.queue.push(apt.HwStartUpdateMsgs(apt.Host, bay))
	}
	if profile.HomeOnStart {
		for _, bay := range profile.Bays {
			d.queue.push(apt.MotMoveHome(apt.Host, bay, profile.Channels[0]))
		}
	}

	d.state.Store(int32(StateRunning))
	go d.run()
	return d, nil
}

// Open resolves a serial port from the config (discovering one when no
// port is given), opens it and builds the Device. Device-not-found is
// the one fatal, caller-visible construction failure.
func Open(cfg *config.Config, log *logrus.Logger) (*Device, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	portName := cfg.Serial.Port
	if portName == "" {
		var err error
		portName, err = transport.Find(transport.Filter{
			SerialNumber: cfg.Serial.SerialNumber,
			Product:      cfg.Serial.Product,
			VID:          cfg.Serial.VID,
			PID:          cfg.Serial.PID,
		})
		if err != nil {
			return nil, err
		}
	}

	guard, err := transport.Open(portName, transport.Settings{
		BaudRate:    cfg.Serial.BaudRate,
		ReadTimeout: time.Duration(cfg.Serial.ReadTimeoutMs) * time.Millisecond,
	}, log)
	if err != nil {
		return nil, err
	}

	profile, err := ProfileFromConfig(cfg.Device)
	if err != nil {
		guard.Close()
		return nil, err
	}
	if cfg.Engine.ReadIntervalMs > 0 {
		profile.ReadInterval = time.Duration(cfg.Engine.ReadIntervalMs) * time.Millisecond
	}
	if cfg.Engine.KeepaliveIntervalMs > 0 {
		profile.KeepaliveInterval = time.Duration(cfg.Engine.KeepaliveIntervalMs) * time.Millisecond
	}

	d, err := New(guard, profile, log)
	if err != nil {
		guard.Close()
		return nil, err
	}
	return d, nil
}

// State returns the current lifecycle state.
func (d *Device) State() State {
	return State(d.state.Load())
}

// Profile returns the device's immutable identity.
func (d *Device) Profile() Profile {
	return d.profile
}

// Status returns a copy of the live status record for a bay/channel pair
// (both 0-based indices).
func (d *Device) Status(bay, channel int) (Status, error) {
	if bay < 0 || bay >= len(d.records) || channel < 0 || channel >= len(d.records[bay]) {
		return Status{}, fmt.Errorf("driver: no status record for bay=%d channel=%d", bay, channel)
	}
	return d.records[bay][channel].Snapshot(), nil
}

// RegisterErrorCallback registers fn for device error/event
// notifications. A nil fn is logged and ignored; the returned handle is
// then zero. Duplicate registrations of the same function are
// independent.
func (d *Device) RegisterErrorCallback(fn ErrorCallback) CallbackHandle {
	h := d.callbacks.register(fn)
	if h == 0 {
		d.log.Warn("driver: attempted to register a nil error callback")
	}
	return h
}

// UnregisterErrorCallback removes a previously registered callback.
// Unknown handles are logged and ignored.
func (d *Device) UnregisterErrorCallback(h CallbackHandle) {
	if !d.callbacks.unregister(h) {
		d.log.Warn("driver: attempted to unregister an unknown callback handle")
	}
}

// submit hands a command frame to the engine. It never blocks. After
// shutdown has begun the frame is dropped; a submission racing the stop
// request may be either transmitted or dropped, both outcomes are
// allowed.
func (d *Device) submit(frame []byte) {
	if d.State() != StateRunning {
		d.log.Debug("driver: dropping command submitted after shutdown")
		return
	}
	if !d.queue.push(frame) {
		d.log.Debug("driver: dropping command submitted after shutdown")
		return
	}
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Close requests shutdown and returns immediately. The engine goroutine
// observes the request, sends the best-effort stop-updates and
// disconnect frames, closes the transport and moves the device to
// StateClosed. Close is idempotent.
func (d *Device) Close() {
	if d.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		d.log.Debug("driver: stop requested")
		close(d.stop)
	}
}

// Wait blocks until the engine goroutine has terminated and the
// transport is closed.
func (d *Device) Wait() {
	<-d.done
}

// CloseAndWait is the exit-safety hook: it guarantees the serial port is
// released before returning even if Close was never called.
func (d *Device) CloseAndWait() {
	d.Close()
	d.Wait()
}
