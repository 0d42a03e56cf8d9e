// driver/motor.go
package driver

import (
	"github.com/sirupsen/logrus"

	"github.com/optomech/aptdrive/apt"
)

// Direction of a velocity or jog move. On the wire forward is 1 and
// reverse is 2; anything else falls back to forward with a warning.
type Direction byte

const (
	Forward Direction = 1
	Reverse Direction = 2
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "invalid"
}

// ParseDirection converts the permissive direction spellings accepted by
// the vendor tooling: booleans (true=forward), strings ("reverse" is
// reverse, anything else forward) and numbers (odd=forward,
// even=reverse). Unrecognized values log a warning and default to
// forward; this never fails.
func ParseDirection(v any, log *logrus.Logger) Direction {
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch t := v.(type) {
	case Direction:
		if t == Forward || t == Reverse {
			return t
		}
	case bool:
		if t {
			return Forward
		}
		return Reverse
	case string:
		if t == "reverse" {
			return Reverse
		}
		return Forward
	case int:
		return numericDirection(t)
	case int32:
		return numericDirection(int(t))
	case int64:
		return numericDirection(int(t))
	case float64:
		return numericDirection(int(t))
	}
	log.WithField("direction", v).Warn("driver: unknown direction, defaulting to forward")
	return Forward
}

func numericDirection(n int) Direction {
	if n%2 == 0 {
		return Reverse
	}
	return Forward
}

// direction normalizes dir to a wire value, applying the profile's
// inverted direction logic.
func (d *Device) direction(dir Direction) byte {
	v := byte(dir)
	if v != byte(Forward) && v != byte(Reverse) {
		d.log.WithField("direction", dir).Warn("driver: unknown direction, defaulting to forward")
		v = byte(Forward)
	}
	invert := byte(0)
	if d.profile.InvertDirectionLogic {
		invert = 1
	}
	return 2 - (v+invert)%2
}

// bayChan resolves 0-based bay and channel indices to wire identifiers.
// Out-of-range indices drop the command with a warning; motion calls are
// fire-and-forget and never return errors.
func (d *Device) bayChan(bay, channel int) (apt.EndPoint, uint16, bool) {
	if bay < 0 || bay >= len(d.profile.Bays) || channel < 0 || channel >= len(d.profile.Channels) {
		d.log.WithFields(logrus.Fields{"bay": bay, "channel": channel}).
			Warn("driver: command for unconfigured bay/channel dropped")
		return 0, 0, false
	}
	return d.profile.Bays[bay], d.profile.Channels[channel], true
}

// Home starts a homing move on the given bay/channel.
func (d *Device) Home(bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.log.WithFields(logrus.Fields{"bay": dest, "channel": ch}).Debug("driver: homing")
	d.submit(apt.MotMoveHome(apt.Host, dest, ch))
}

// MoveRelative moves by distance encoder counts. With now=false the
// distance is stored for a later triggered move instead of starting one.
func (d *Device) MoveRelative(distance int32, now bool, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	if now {
		d.submit(apt.MotMoveRelative(apt.Host, dest, ch, distance))
		return
	}
	d.submit(apt.MotSetMoveRelParams(apt.Host, dest, ch, distance))
}

// MoveAbsolute moves to position in encoder counts. With now=false the
// position is stored for a later triggered move instead of starting one.
func (d *Device) MoveAbsolute(position int32, now bool, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	if now {
		d.submit(apt.MotMoveAbsolute(apt.Host, dest, ch, position))
		return
	}
	d.submit(apt.MotSetMoveAbsParams(apt.Host, dest, ch, position))
}

// Stop halts any current movement, immediately or along the profiled
// velocity curve.
func (d *Device) Stop(immediate bool, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	stopMode := byte(2) // profiled
	if immediate {
		stopMode = 1
	}
	d.submit(apt.MotMoveStop(apt.Host, dest, ch, stopMode))
}

// MoveVelocity starts a constant-velocity move in the given direction.
func (d *Device) MoveVelocity(dir Direction, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.submit(apt.MotMoveVelocity(apt.Host, dest, ch, d.direction(dir)))
}

// SetVelocityParams configures move acceleration (counts/s/s) and
// maximum velocity (counts/s).
func (d *Device) SetVelocityParams(acceleration, maxVelocity int32, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.submit(apt.MotSetVelParams(apt.Host, dest, ch, 0, acceleration, maxVelocity))
}

// SetEnabled enables or disables a channel.
func (d *Device) SetEnabled(enabled bool, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	state := byte(2) // disabled
	if enabled {
		state = 1
	}
	d.submit(apt.ModSetChanEnableState(apt.Host, dest, ch, state))
}

// SetJogParams configures jog moves: step size in encoder counts,
// acceleration, maximum velocity, continuous or single-step mode and the
// stop profile.
func (d *Device) SetJogParams(size, acceleration, maxVelocity int32, continuous, immediateStop bool, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	jogMode := uint16(2) // single step
	if continuous {
		jogMode = 1
	}
	stopMode := uint16(2) // profiled
	if immediateStop {
		stopMode = 1
	}
	d.submit(apt.MotSetJogParams(apt.Host, dest, ch, size, 0, acceleration, maxVelocity, jogMode, stopMode))
}

// MoveJog starts a jog move in the given direction.
func (d *Device) MoveJog(dir Direction, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.submit(apt.MotMoveJog(apt.Host, dest, ch, d.direction(dir)))
}

// SetMoveParams sets the backlash compensation distance in encoder counts.
func (d *Device) SetMoveParams(backlashDistance int32, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.submit(apt.MotSetGenMoveParams(apt.Host, dest, ch, backlashDistance))
}

// SetLEDMode configures the controller's status LED behavior; compose
// mode from the apt.LED* bits.
func (d *Device) SetLEDMode(mode apt.LEDMode, bay, channel int) {
	dest, ch, ok := d.bayChan(bay, channel)
	if !ok {
		return
	}
	d.submit(apt.MotSetAVModes(apt.Host, dest, ch, mode))
}

// Identify flashes the front panel LEDs of the unit. A negative channel
// addresses the USB controller endpoint directly, which some
// single-channel devices require.
func (d *Device) Identify(channel int) {
	if channel < 0 {
		d.submit(apt.ModIdentify(apt.Host, apt.USB, 0))
		return
	}
	if channel >= len(d.profile.Channels) {
		d.log.WithField("channel", channel).Warn("driver: identify for unconfigured channel dropped")
		return
	}
	d.submit(apt.ModIdentify(apt.Host, d.profile.Controller, d.profile.Channels[channel]))
}
