// driver/status.go
package driver

import (
	"sync"

	"github.com/optomech/aptdrive/apt"
)

// Status is a read-side copy of a channel's operating state.
type Status struct {
	Position     int32
	Velocity     uint16
	EncoderCount int32

	ForwardLimitSwitch bool
	ReverseLimitSwitch bool
	MovingForward      bool
	MovingReverse      bool
	JoggingForward     bool
	JoggingReverse     bool
	MotorConnected     bool
	Homing             bool
	Homed              bool
	Tracking           bool
	Interlock          bool
	Settled            bool
	MotionError        bool
	CurrentLimit       bool
	ChannelEnabled     bool
}

// StatusRecord is the live state for one bay/channel pair. It has a
// single writer (the engine goroutine) and any number of readers.
// Updates merge field-by-field: a message only overwrites the fields it
// carries. Readers may observe an in-flight merge, which is the accepted
// weak-consistency tradeoff.
type StatusRecord struct {
	mu         sync.RWMutex
	s          Status
	swapLimits bool
}

// Snapshot returns a copy of the current state.
func (r *StatusRecord) Snapshot() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s
}

// applyDC merges a DC status report: position, velocity and the flag bits.
func (r *StatusRecord) applyDC(m apt.DCStatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Position = m.Position
	r.s.Velocity = m.Velocity
	r.applyBits(m.StatusBits)
}

// applyStepper merges a stepper status report: position, encoder count
// and the flag bits. Velocity is not reported by this message type and
// is left untouched.
func (r *StatusRecord) applyStepper(m apt.StatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Position = m.Position
	r.s.EncoderCount = m.EncCount
	r.applyBits(m.StatusBits)
}

// applyHomed records a completed homing operation. Only the homing
// flags are touched.
func (r *StatusRecord) applyHomed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Homing = false
	r.s.Homed = true
}

// applyBits expands the 32-bit status field. Caller holds the lock.
func (r *StatusRecord) applyBits(bits uint32) {
	fwdLimit := bits&apt.StatusForwardLimit != 0
	revLimit := bits&apt.StatusReverseLimit != 0
	if r.swapLimits {
		fwdLimit, revLimit = revLimit, fwdLimit
	}
	r.s.ForwardLimitSwitch = fwdLimit
	r.s.ReverseLimitSwitch = revLimit
	r.s.MovingForward = bits&apt.StatusMovingForward != 0
	r.s.MovingReverse = bits&apt.StatusMovingReverse != 0
	r.s.JoggingForward = bits&apt.StatusJoggingForward != 0
	r.s.JoggingReverse = bits&apt.StatusJoggingReverse != 0
	r.s.MotorConnected = bits&apt.StatusMotorConnected != 0
	r.s.Homing = bits&apt.StatusHoming != 0
	r.s.Homed = bits&apt.StatusHomed != 0
	r.s.Tracking = bits&apt.StatusTracking != 0
	r.s.Interlock = bits&apt.StatusInterlock != 0
	r.s.Settled = bits&apt.StatusSettled != 0
	r.s.MotionError = bits&apt.StatusMotionError != 0
	r.s.CurrentLimit = bits&apt.StatusCurrentLimit != 0
	r.s.ChannelEnabled = bits&apt.StatusChannelEnabled != 0
}
