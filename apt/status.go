// apt/status.go
package apt

// Status bit masks for the 32-bit status field in motor status reports.
// Protocol-locked.
const (
	StatusForwardLimit   uint32 = 0x00000001
	StatusReverseLimit   uint32 = 0x00000002
	StatusMovingForward  uint32 = 0x00000010
	StatusMovingReverse  uint32 = 0x00000020
	StatusJoggingForward uint32 = 0x00000040
	StatusJoggingReverse uint32 = 0x00000080
	StatusMotorConnected uint32 = 0x00000100
	StatusHoming         uint32 = 0x00000200
	StatusHomed          uint32 = 0x00000400
	StatusTracking       uint32 = 0x00001000
	StatusSettled        uint32 = 0x00002000
	StatusMotionError    uint32 = 0x00004000
	StatusInterlock      uint32 = 0x00010000
	StatusCurrentLimit   uint32 = 0x01000000
	StatusChannelEnabled uint32 = 0x80000000
)
