// apt/endpoints.go
package apt

import "fmt"

// EndPoint identifies a logical participant on the APT bus.
// Values are fixed by the protocol and MUST NOT be changed.
type EndPoint byte

const (
	Host EndPoint = 0x01
	Rack EndPoint = 0x11
	Bay0 EndPoint = 0x21
	Bay1 EndPoint = 0x22
	Bay2 EndPoint = 0x23
	Bay3 EndPoint = 0x24
	Bay4 EndPoint = 0x25
	Bay5 EndPoint = 0x26
	Bay6 EndPoint = 0x27
	Bay7 EndPoint = 0x28
	Bay8 EndPoint = 0x29
	Bay9 EndPoint = 0x2A
	USB  EndPoint = 0x50
)

// longForm is OR'd into the destination byte when a frame carries a
// variable-length data packet after the 6-byte header.
const longForm byte = 0x80

// Bay returns the EndPoint for a 0-based bay index.
func Bay(i int) (EndPoint, error) {
	if i < 0 || i > 9 {
		return 0, fmt.Errorf("apt: bay index %d out of range", i)
	}
	return Bay0 + EndPoint(i), nil
}

// ValidEndPoint reports whether b is a defined EndPoint value.
func ValidEndPoint(b byte) bool {
	ep := EndPoint(b)
	switch {
	case ep == Host, ep == Rack, ep == USB:
		return true
	case ep >= Bay0 && ep <= Bay9:
		return true
	}
	return false
}

func (e EndPoint) String() string {
	switch {
	case e == Host:
		return "host"
	case e == Rack:
		return "rack"
	case e == USB:
		return "usb"
	case e >= Bay0 && e <= Bay9:
		return fmt.Sprintf("bay%d", int(e-Bay0))
	}
	return fmt.Sprintf("endpoint(0x%02x)", byte(e))
}

// LEDMode bits for MotSetAVModes. Compose with OR.
type LEDMode uint16

const (
	LEDIdent  LEDMode = 0x0001 // flash on identify
	LEDLimit  LEDMode = 0x0002 // lit when at a limit switch
	LEDMoving LEDMode = 0x0008 // lit when moving
)
