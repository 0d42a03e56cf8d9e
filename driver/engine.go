// driver/engine.go
package driver

import (
	"time"

	"github.com/optomech/aptdrive/apt"
)

// run is the engine goroutine: a single-threaded cooperative loop
// multiplexing three activities over one transport. Activities never
// overlap; the only blocking point is the bounded read inside readPoll,
// so keep-alives and queued commands stay responsive even when the
// controller is silent.
func (d *Device) run() {
	defer close(d.done)

	readTicker := time.NewTicker(d.profile.ReadInterval)
	defer readTicker.Stop()
	keepTicker := time.NewTicker(d.profile.KeepaliveInterval)
	defer keepTicker.Stop()

	// The initial burst (start-update requests, optional homing) was
	// queued before launch; transmit it before either schedule fires.
	d.drainQueue()

	for {
		select {
		case <-d.stop:
			d.shutdown()
			return
		case <-readTicker.C:
			d.readPoll()
			d.drainQueue()
		case <-keepTicker.C:
			d.enqueueKeepalives()
			d.drainQueue()
		case <-d.kick:
			d.drainQueue()
		}
	}
}

// readPoll drains every complete frame currently available and routes it.
func (d *Device) readPoll() {
	msgs, err := d.unpack.Drain()
	if err != nil {
		d.log.WithError(err).Warn("driver: serial read failed")
	}
	for _, m := range msgs {
		d.route(m)
	}
}

// enqueueKeepalives queues the periodic status acknowledgement for each
// bay. Without it the controller assumes the host is gone and stops
// streaming updates.
func (d *Device) enqueueKeepalives() {
	for _, bay := range d.profile.Bays {
		d.queue.push(apt.MotAckDCStatusUpdate(apt.Host, bay))
	}
}

// drainQueue transmits pending command frames in FIFO order. A failed
// write loses that one frame; the loop carries on.
func (d *Device) drainQueue() {
	for _, frame := range d.queue.drain() {
		if err := d.wire.Write(frame); err != nil {
			d.log.WithError(err).Warn("driver: command write failed, frame lost")
		}
	}
}

// shutdown runs the Stopping -> Closed sequence exactly once, on the
// engine goroutine. The stop-updates and disconnect notifications are
// best-effort: the port may already be unusable, and shutdown must
// always reach Closed.
func (d *Device) shutdown() {
	d.state.Store(int32(StateStopping))
	d.queue.shutdown()

	for _, bay := range d.profile.Bays {
		if err := d.wire.Write(apt.HwStopUpdateMsgs(apt.Host, bay)); err != nil {
			d.log.WithError(err).Debug("driver: unable to send stop-updates")
		}
	}
	if err := d.wire.Write(apt.HwDisconnect(apt.Host, d.profile.Controller)); err != nil {
		d.log.WithError(err).Debug("driver: unable to send disconnect")
	}

	if err := d.wire.Close(); err != nil {
		d.log.WithError(err).Warn("driver: transport close failed")
	}
	d.state.Store(int32(StateClosed))
	d.log.Info("driver: connection closed")
}
