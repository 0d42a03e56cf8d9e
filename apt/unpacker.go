// apt/unpacker.go
package apt

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrorPolicy selects how the Unpacker reacts to malformed bytes.
type ErrorPolicy int

const (
	// PolicyWarn logs the offending bytes, discards them and
	// resynchronizes at the next plausible frame boundary. The stream is
	// never terminated.
	PolicyWarn ErrorPolicy = iota
	// PolicyRaise returns the decode error to the caller. The offending
	// bytes are still consumed, so the next call resumes decoding.
	PolicyRaise
)

// maxDataLen bounds the long-form data packet length. The largest frame
// the protocol defines is well under this; anything bigger is garbage.
const maxDataLen = 255

// readChunk is the size of a single read from the underlying source.
const readChunk = 512

// FrameError reports a malformed byte sequence in the inbound stream.
type FrameError struct {
	Discarded int
	Reason    string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("apt: %s (%d bytes discarded)", e.Reason, e.Discarded)
}

// UnpackerConfig configures decode-error handling.
type UnpackerConfig struct {
	Policy  ErrorPolicy
	OnError func(error) // optional hook, called once per decode error
	Logger  *logrus.Logger
}

// Unpacker decodes the inbound byte stream into discrete messages.
//
// Each Drain call pulls whatever bytes are currently available (bounded
// by the source's read timeout), appends them to an internal buffer and
// returns every complete frame found. A trailing partial frame is
// retained for completion on the next call. Messages are never reordered
// relative to arrival.
type Unpacker struct {
	r   io.Reader
	cfg UnpackerConfig
	log *logrus.Logger
	buf []byte
}

// NewUnpacker creates an Unpacker reading from r.
func NewUnpacker(r io.Reader, cfg UnpackerConfig) *Unpacker {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Unpacker{r: r, cfg: cfg, log: log}
}

// Drain pulls everything currently available from the source and
// returns all complete messages decoded so far. Reads repeat until a
// short or empty chunk, so a backlog larger than one chunk is still
// consumed in a single call. A timed-out read with no data returns
// (nil, nil). With PolicyRaise a decode error is returned alongside any
// messages already decoded.
func (u *Unpacker) Drain() ([]Message, error) {
	var readErr error
	for {
		var chunk [readChunk]byte
		n, err := u.r.Read(chunk[:])
		if n > 0 {
			u.buf = append(u.buf, chunk[:n]...)
		}
		if err != nil {
			if err != io.EOF {
				readErr = err
			}
			break
		}
		if n < readChunk {
			break
		}
	}

	var msgs []Message
	for len(u.buf) >= 6 {
		id := binary.LittleEndian.Uint16(u.buf[0:2])
		p1, p2 := u.buf[2], u.buf[3]
		dest, src := u.buf[4], u.buf[5]
		long := dest&longForm != 0

		if !headerPlausible(dest, src) {
			if err := u.resync("implausible frame header"); err != nil {
				return msgs, err
			}
			continue
		}

		if !long {
			msgs = append(msgs, decodeShort(id, p1, p2, EndPoint(src)))
			u.buf = u.buf[6:]
			continue
		}

		dataLen := int(binary.LittleEndian.Uint16(u.buf[2:4]))
		if dataLen > maxDataLen {
			if err := u.resync("data length out of range"); err != nil {
				return msgs, err
			}
			continue
		}
		if len(u.buf) < 6+dataLen {
			break // partial tail, finish next call
		}
		data := make([]byte, dataLen)
		copy(data, u.buf[6:6+dataLen])
		u.buf = u.buf[6+dataLen:]

		msg, ferr := decodeLong(id, p1, p2, EndPoint(src), data)
		if ferr != nil {
			if err := u.handleErr(ferr); err != nil {
				return msgs, err
			}
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(u.buf) == 0 {
		u.buf = nil
	}
	return msgs, readErr
}

// resync discards bytes up to the next plausible frame header and
// signals a single decode error for the discarded span. Bytes too close
// to the buffer end to judge are retained for the next call.
func (u *Unpacker) resync(reason string) error {
	n := 1
	for ; n+6 <= len(u.buf); n++ {
		if headerPlausible(u.buf[n+4], u.buf[n+5]) {
			break
		}
	}
	u.buf = u.buf[n:]
	return u.handleErr(&FrameError{Discarded: n, Reason: reason})
}

func (u *Unpacker) handleErr(ferr *FrameError) error {
	if u.cfg.OnError != nil {
		u.cfg.OnError(ferr)
	}
	if u.cfg.Policy == PolicyRaise {
		return ferr
	}
	u.log.WithFields(logrus.Fields{
		"reason":    ferr.Reason,
		"discarded": ferr.Discarded,
	}).Warn("apt: resynchronizing inbound stream")
	return nil
}

// headerPlausible applies the plausibility rules for inbound frames: the
// destination must be the host and the source a defined endpoint.
func headerPlausible(dest, src byte) bool {
	return dest&^longForm == byte(Host) && ValidEndPoint(src)
}

func decodeShort(id uint16, p1, p2 byte, src EndPoint) Message {
	switch id {
	case MsgHwResponse:
		return HwResponse{Src: src}
	case MsgMotMoveHomed:
		return MoveHomed{Src: src, ChanIdent: uint16(p1)}
	}
	return Unknown{ID: id, Src: src, Param1: p1, Param2: p2}
}

func decodeLong(id uint16, p1, p2 byte, src EndPoint, data []byte) (Message, *FrameError) {
	switch id {
	case MsgHwRichResponse:
		if len(data) < 4 {
			return nil, &FrameError{Reason: "short rich response payload"}
		}
		notes := ""
		if len(data) > 4 {
			notes = strings.TrimRight(string(data[4:]), "\x00")
		}
		return HwRichResponse{
			Src:   src,
			MsgID: binary.LittleEndian.Uint16(data[0:2]),
			Code:  int(int16(binary.LittleEndian.Uint16(data[2:4]))),
			Notes: notes,
		}, nil

	case MsgMotGetDCStatusUpdate, MsgMotMoveCompleted, MsgMotMoveStopped:
		if len(data) < 14 {
			return nil, &FrameError{Reason: "short dc status payload"}
		}
		st := DCStatusUpdate{
			Src:        src,
			ChanIdent:  binary.LittleEndian.Uint16(data[0:2]),
			Position:   int32(binary.LittleEndian.Uint32(data[2:6])),
			Velocity:   binary.LittleEndian.Uint16(data[6:8]),
			StatusBits: binary.LittleEndian.Uint32(data[10:14]),
		}
		switch id {
		case MsgMotMoveCompleted:
			return MoveCompleted{st}, nil
		case MsgMotMoveStopped:
			return MoveStopped{st}, nil
		}
		return st, nil

	case MsgMotGetStatusUpdate:
		if len(data) < 14 {
			return nil, &FrameError{Reason: "short status payload"}
		}
		return StatusUpdate{
			Src:        src,
			ChanIdent:  binary.LittleEndian.Uint16(data[0:2]),
			Position:   int32(binary.LittleEndian.Uint32(data[2:6])),
			EncCount:   int32(binary.LittleEndian.Uint32(data[6:10])),
			StatusBits: binary.LittleEndian.Uint32(data[10:14]),
		}, nil
	}
	return Unknown{ID: id, Src: src, Param1: p1, Param2: p2, Data: data}, nil
}
