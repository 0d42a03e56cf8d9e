// driver/status_test.go
package driver

import (
	"testing"

	"github.com/optomech/aptdrive/apt"
)

func TestStatusMergeIdempotence(t *testing.T) {
	r := &StatusRecord{}
	m := apt.DCStatusUpdate{
		Src:        apt.Bay0,
		ChanIdent:  1,
		Position:   9000,
		Velocity:   12,
		StatusBits: apt.StatusMovingForward | apt.StatusChannelEnabled,
	}

	r.applyDC(m)
	first := r.Snapshot()
	r.applyDC(m)
	second := r.Snapshot()

	if first != second {
		t.Fatalf("merge not idempotent: %+v vs %+v", first, second)
	}
}

func TestStatusMergePartiality(t *testing.T) {
	r := &StatusRecord{}
	r.applyDC(apt.DCStatusUpdate{
		Position:   -500,
		Velocity:   3,
		StatusBits: apt.StatusHoming | apt.StatusChannelEnabled,
	})

	// MoveHomed only carries the homing outcome; position, velocity and
	// the other flags must keep their prior values.
	r.applyHomed()

	st := r.Snapshot()
	if st.Position != -500 || st.Velocity != 3 || !st.ChannelEnabled {
		t.Fatalf("homed merge touched unrelated fields: %+v", st)
	}
	if st.Homing || !st.Homed {
		t.Fatalf("homed merge wrong: %+v", st)
	}
}

func TestStatusStepperMergeKeepsVelocity(t *testing.T) {
	r := &StatusRecord{}
	r.applyDC(apt.DCStatusUpdate{Velocity: 44})
	r.applyStepper(apt.StatusUpdate{Position: 7, EncCount: 21})

	st := r.Snapshot()
	if st.Velocity != 44 {
		t.Fatalf("stepper merge overwrote velocity: %+v", st)
	}
	if st.Position != 7 || st.EncoderCount != 21 {
		t.Fatalf("stepper merge wrong: %+v", st)
	}
}

func TestStatusSwapLimitSwitches(t *testing.T) {
	plain := &StatusRecord{}
	swapped := &StatusRecord{swapLimits: true}
	m := apt.DCStatusUpdate{StatusBits: apt.StatusForwardLimit}

	plain.applyDC(m)
	swapped.applyDC(m)

	if st := plain.Snapshot(); !st.ForwardLimitSwitch || st.ReverseLimitSwitch {
		t.Fatalf("plain limits wrong: %+v", st)
	}
	if st := swapped.Snapshot(); st.ForwardLimitSwitch || !st.ReverseLimitSwitch {
		t.Fatalf("swapped limits wrong: %+v", st)
	}
}
