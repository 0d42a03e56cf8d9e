// driver/route.go
package driver

import (
	"github.com/sirupsen/logrus"

	"github.com/optomech/aptdrive/apt"
)

// route dispatches one decoded message: error notifications fan out to
// the registered callbacks, status-bearing messages merge into the
// matching status record, everything else is logged and ignored for
// forward compatibility.
func (d *Device) route(msg apt.Message) {
	switch m := msg.(type) {
	case apt.HwResponse:
		d.log.WithField("source", m.Src).Warn("driver: event notification from device")
		// The generic notification carries no fields; report the
		// documented defaults.
		d.fanOut(m.Src, 0, -1, "unknown")

	case apt.HwRichResponse:
		d.log.WithFields(logrus.Fields{
			"source": m.Src,
			"code":   m.Code,
			"notes":  m.Notes,
		}).Warn("driver: error notification from device")
		d.fanOut(m.Src, m.MsgID, m.Code, m.Notes)

	case apt.MoveCompleted:
		d.mergeDC(m.DCStatusUpdate)

	case apt.MoveStopped:
		d.mergeDC(m.DCStatusUpdate)

	case apt.DCStatusUpdate:
		if d.profile.Kind != KindDC {
			d.logUnhandled(msg)
			return
		}
		d.mergeDC(m)

	case apt.StatusUpdate:
		if d.profile.Kind != KindStepper {
			d.logUnhandled(msg)
			return
		}
		if r := d.recordFor(m.Src, m.ChanIdent); r != nil {
			r.applyStepper(m)
		}

	case apt.MoveHomed:
		if r := d.recordFor(m.Src, m.ChanIdent); r != nil {
			r.applyHomed()
		}

	default:
		d.logUnhandled(msg)
	}
}

func (d *Device) mergeDC(m apt.DCStatusUpdate) {
	if r := d.recordFor(m.Src, m.ChanIdent); r != nil {
		r.applyDC(m)
	}
}

// fanOut invokes every registered callback exactly once. A panicking
// callback is isolated so it cannot take down the engine or starve the
// remaining callbacks.
func (d *Device) fanOut(source apt.EndPoint, msgID uint16, code int, notes string) {
	for _, fn := range d.callbacks.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.log.WithField("panic", r).Error("driver: error callback panicked")
				}
			}()
			fn(source, msgID, code, notes)
		}()
	}
}

// recordFor resolves a status record from a message's source endpoint
// and channel identifier. Messages from unconfigured bays or channels
// are dropped with a debug log.
func (d *Device) recordFor(src apt.EndPoint, chanIdent uint16) *StatusRecord {
	bi, ok := d.bayIndex[src]
	if !ok {
		d.log.WithField("source", src).Debug("driver: status report from unconfigured bay")
		return nil
	}
	for ci, ch := range d.profile.Channels {
		if ch == chanIdent {
			return d.records[bi][ci]
		}
	}
	d.log.WithFields(logrus.Fields{
		"source":  src,
		"channel": chanIdent,
	}).Debug("driver: status report for unconfigured channel")
	return nil
}

func (d *Device) logUnhandled(msg apt.Message) {
	d.log.WithFields(logrus.Fields{
		"tag":    msg.Tag().String(),
		"source": msg.Source(),
	}).Debug("driver: unhandled message")
}
