// transport/transport_test.go
package transport

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial/enumerator"
)

// ---- fake port ----

type fakePort struct {
	ops      []string
	written  []byte
	writeErr error
	drainErr error
	closeErr error
	closes   int
}

func (f *fakePort) Read(p []byte) (int, error) { f.ops = append(f.ops, "read"); return 0, nil }

func (f *fakePort) Write(p []byte) (int, error) {
	f.ops = append(f.ops, "write")
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, p...)
	return len(p), nil
}

func (f *fakePort) Drain() error {
	f.ops = append(f.ops, "drain")
	return f.drainErr
}

func (f *fakePort) SetReadTimeout(time.Duration) error {
	f.ops = append(f.ops, "timeout")
	return nil
}

func (f *fakePort) SetRTS(level bool) error {
	if level {
		f.ops = append(f.ops, "rts+")
	} else {
		f.ops = append(f.ops, "rts-")
	}
	return nil
}

func (f *fakePort) ResetInputBuffer() error  { f.ops = append(f.ops, "reset-in"); return nil }
func (f *fakePort) ResetOutputBuffer() error { f.ops = append(f.ops, "reset-out"); return nil }

func (f *fakePort) Close() error {
	f.ops = append(f.ops, "close")
	f.closes++
	return f.closeErr
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// ---- guard ----

func TestGuardWriteFlushes(t *testing.T) {
	fp := &fakePort{}
	g := Wrap(fp, quietLogger())

	if err := g.Write([]byte{0x11, 0x00, 0x00, 0x00, 0x21, 0x01}); err != nil {
		t.Fatalf("Write() err=%v", err)
	}
	if len(fp.ops) != 2 || fp.ops[0] != "write" || fp.ops[1] != "drain" {
		t.Fatalf("ops = %v, want [write drain]", fp.ops)
	}
	if len(fp.written) != 6 {
		t.Fatalf("written %d bytes, want 6", len(fp.written))
	}
}

func TestGuardWriteErrors(t *testing.T) {
	boom := errors.New("boom")

	fp := &fakePort{writeErr: boom}
	if err := Wrap(fp, quietLogger()).Write([]byte{0x00}); !errors.Is(err, boom) {
		t.Fatalf("write error not propagated: %v", err)
	}

	fp = &fakePort{drainErr: boom}
	if err := Wrap(fp, quietLogger()).Write([]byte{0x00}); !errors.Is(err, boom) {
		t.Fatalf("drain error not propagated: %v", err)
	}
}

func TestGuardResetBuffersSequence(t *testing.T) {
	fp := &fakePort{}
	if err := Wrap(fp, quietLogger()).ResetBuffers(); err != nil {
		t.Fatalf("ResetBuffers() err=%v", err)
	}
	want := []string{"rts+", "reset-in", "reset-out", "rts-"}
	if len(fp.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", fp.ops, want)
	}
	for i := range want {
		if fp.ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", fp.ops, want)
		}
	}
}

func TestGuardCloseIdempotent(t *testing.T) {
	fp := &fakePort{}
	g := Wrap(fp, quietLogger())

	if err := g.Close(); err != nil {
		t.Fatalf("first Close() err=%v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close() err=%v", err)
	}
	if fp.closes != 1 {
		t.Fatalf("port closed %d times, want 1", fp.closes)
	}
}

// ---- discovery matching ----

func TestMatchPrefix(t *testing.T) {
	cases := []struct {
		expr  string
		value string
		want  bool
	}{
		{"", "anything", true},
		{"83", "83837825", true},
		{"83", "738378", false},
		{".*25$", "83837825", true},
		{".*25$", "83837826", false},
		{"APT", "APT DC Motor Controller", true},
	}
	for _, tc := range cases {
		got, err := matchPrefix(tc.expr, tc.value)
		if err != nil {
			t.Fatalf("matchPrefix(%q, %q) err=%v", tc.expr, tc.value, err)
		}
		if got != tc.want {
			t.Errorf("matchPrefix(%q, %q) = %v, want %v", tc.expr, tc.value, got, tc.want)
		}
	}

	if _, err := matchPrefix("(", "value"); err == nil {
		t.Fatal("expected error for bad expression")
	}
}

func TestMatchPort(t *testing.T) {
	details := &enumerator.PortDetails{
		Name:         "/dev/ttyUSB0",
		IsUSB:        true,
		VID:          "0403",
		PID:          "FAF0",
		SerialNumber: "83837825",
		Product:      "APT DC Motor Controller",
	}

	cases := []struct {
		name string
		f    Filter
		want bool
	}{
		{"zero filter", Filter{}, true},
		{"serial prefix", Filter{SerialNumber: "83"}, true},
		{"serial mismatch", Filter{SerialNumber: "45"}, false},
		{"vid case-insensitive", Filter{VID: "0403", PID: "faf0"}, true},
		{"pid mismatch", Filter{PID: "0001"}, false},
		{"product", Filter{Product: "APT DC"}, true},
		{"all fields", Filter{SerialNumber: "838", Product: "APT", VID: "0403", PID: "FAF0"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := matchPort(tc.f, details)
			if err != nil {
				t.Fatalf("matchPort err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("matchPort = %v, want %v", got, tc.want)
			}
		})
	}
}
