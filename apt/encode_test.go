// apt/encode_test.go
package apt

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestHwStartUpdateMsgsFrame(t *testing.T) {
	got := HwStartUpdateMsgs(Host, Bay0)
	want := []byte{0x11, 0x00, 0x00, 0x00, 0x21, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("frame = % x, want % x", got, want)
	}
}

func TestMotMoveVelocityDirectionByte(t *testing.T) {
	fwd := MotMoveVelocity(Host, Bay1, 1, 1)
	if fwd[3] != 1 {
		t.Fatalf("forward direction byte = %d, want 1", fwd[3])
	}
	rev := MotMoveVelocity(Host, Bay1, 1, 2)
	if rev[3] != 2 {
		t.Fatalf("reverse direction byte = %d, want 2", rev[3])
	}
}

func TestMotMoveRelativeLongFrame(t *testing.T) {
	got := MotMoveRelative(Host, Bay0, 1, -1000)

	if len(got) != 12 {
		t.Fatalf("frame length = %d, want 12", len(got))
	}
	if id := binary.LittleEndian.Uint16(got[0:2]); id != MsgMotMoveRelative {
		t.Fatalf("message id = 0x%04x, want 0x%04x", id, MsgMotMoveRelative)
	}
	if dl := binary.LittleEndian.Uint16(got[2:4]); dl != 6 {
		t.Fatalf("data length = %d, want 6", dl)
	}
	if got[4] != byte(Bay0)|longForm {
		t.Fatalf("dest byte = 0x%02x, want 0x%02x", got[4], byte(Bay0)|longForm)
	}
	if got[5] != byte(Host) {
		t.Fatalf("source byte = 0x%02x, want 0x%02x", got[5], byte(Host))
	}
	if ch := binary.LittleEndian.Uint16(got[6:8]); ch != 1 {
		t.Fatalf("chan ident = %d, want 1", ch)
	}
	if dist := int32(binary.LittleEndian.Uint32(got[8:12])); dist != -1000 {
		t.Fatalf("distance = %d, want -1000", dist)
	}
}

func TestMotSetJogParamsLayout(t *testing.T) {
	got := MotSetJogParams(Host, Bay0, 1, 2048, 0, 5000, 90000, 1, 2)
	if len(got) != 6+22 {
		t.Fatalf("frame length = %d, want 28", len(got))
	}
	data := got[6:]
	if jm := binary.LittleEndian.Uint16(data[2:4]); jm != 1 {
		t.Fatalf("jog mode = %d, want 1", jm)
	}
	if sm := binary.LittleEndian.Uint16(data[20:22]); sm != 2 {
		t.Fatalf("stop mode = %d, want 2", sm)
	}
	if accel := int32(binary.LittleEndian.Uint32(data[12:16])); accel != 5000 {
		t.Fatalf("acceleration = %d, want 5000", accel)
	}
}

func TestBayEndPoints(t *testing.T) {
	ep, err := Bay(2)
	if err != nil {
		t.Fatalf("Bay(2) err=%v", err)
	}
	if ep != Bay2 {
		t.Fatalf("Bay(2) = %v, want %v", ep, Bay2)
	}
	if _, err := Bay(10); err == nil {
		t.Fatal("Bay(10) expected error")
	}
	if !ValidEndPoint(byte(Bay9)) || ValidEndPoint(0xFF) {
		t.Fatal("ValidEndPoint misclassified")
	}
}
