// apt/encode.go
package apt

import "encoding/binary"

// Command frame encoders. Pure byte packing: no IO, no side effects.
// Short frames are the fixed 6-byte header; long frames set the long-form
// bit on the destination and append a little-endian data packet.

func shortFrame(id uint16, p1, p2 byte, dest, src EndPoint) []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint16(b[0:2], id)
	b[2] = p1
	b[3] = p2
	b[4] = byte(dest)
	b[5] = byte(src)
	return b
}

func longFrame(id uint16, dest, src EndPoint, data []byte) []byte {
	b := make([]byte, 6+len(data))
	binary.LittleEndian.PutUint16(b[0:2], id)
	binary.LittleEndian.PutUint16(b[2:4], uint16(len(data)))
	b[4] = byte(dest) | longForm
	b[5] = byte(src)
	copy(b[6:], data)
	return b
}

// ---- HW / MOD ----

// ModIdentify flashes the front panel LED of the addressed unit.
func ModIdentify(src, dest EndPoint, chanIdent uint16) []byte {
	return shortFrame(MsgModIdentify, byte(chanIdent), 0, dest, src)
}

// ModSetChanEnableState enables (1) or disables (2) a channel.
func ModSetChanEnableState(src, dest EndPoint, chanIdent uint16, enableState byte) []byte {
	return shortFrame(MsgModSetChanEnableState, byte(chanIdent), enableState, dest, src)
}

// HwStartUpdateMsgs requests the unit to begin streaming status reports.
func HwStartUpdateMsgs(src, dest EndPoint) []byte {
	return shortFrame(MsgHwStartUpdateMsgs, 0, 0, dest, src)
}

// HwStopUpdateMsgs requests the unit to stop streaming status reports.
func HwStopUpdateMsgs(src, dest EndPoint) []byte {
	return shortFrame(MsgHwStopUpdateMsgs, 0, 0, dest, src)
}

// HwDisconnect notifies the unit that the host is disconnecting.
func HwDisconnect(src, dest EndPoint) []byte {
	return shortFrame(MsgHwDisconnect, 0, 0, dest, src)
}

// MotAckDCStatusUpdate is the keep-alive acknowledgement. Without it the
// controller stops streaming status reports after about one second.
func MotAckDCStatusUpdate(src, dest EndPoint) []byte {
	return shortFrame(MsgMotAckDCStatusUpdate, 0, 0, dest, src)
}

// ---- MOT moves ----

// MotMoveHome starts a homing move.
func MotMoveHome(src, dest EndPoint, chanIdent uint16) []byte {
	return shortFrame(MsgMotMoveHome, byte(chanIdent), 0, dest, src)
}

// MotMoveRelative starts an immediate relative move.
func MotMoveRelative(src, dest EndPoint, chanIdent uint16, distance int32) []byte {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(distance))
	return longFrame(MsgMotMoveRelative, dest, src, data)
}

// MotSetMoveRelParams stores the relative distance for a later triggered move.
func MotSetMoveRelParams(src, dest EndPoint, chanIdent uint16, relativeDistance int32) []byte {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(relativeDistance))
	return longFrame(MsgMotSetMoveRelParams, dest, src, data)
}

// MotMoveAbsolute starts an immediate absolute move.
func MotMoveAbsolute(src, dest EndPoint, chanIdent uint16, position int32) []byte {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(position))
	return longFrame(MsgMotMoveAbsolute, dest, src, data)
}

// MotSetMoveAbsParams stores the absolute position for a later triggered move.
func MotSetMoveAbsParams(src, dest EndPoint, chanIdent uint16, absolutePosition int32) []byte {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(absolutePosition))
	return longFrame(MsgMotSetMoveAbsParams, dest, src, data)
}

// MotMoveStop stops motion. stopMode 1 is immediate, 2 is profiled.
func MotMoveStop(src, dest EndPoint, chanIdent uint16, stopMode byte) []byte {
	return shortFrame(MsgMotMoveStop, byte(chanIdent), stopMode, dest, src)
}

// MotMoveVelocity starts a constant-velocity move. direction 1 is forward,
// 2 is reverse.
func MotMoveVelocity(src, dest EndPoint, chanIdent uint16, direction byte) []byte {
	return shortFrame(MsgMotMoveVelocity, byte(chanIdent), direction, dest, src)
}

// MotMoveJog starts a jog move. direction 1 is forward, 2 is reverse.
func MotMoveJog(src, dest EndPoint, chanIdent uint16, direction byte) []byte {
	return shortFrame(MsgMotMoveJog, byte(chanIdent), direction, dest, src)
}

// ---- MOT parameters ----

// MotSetVelParams configures the velocity profile for moves.
func MotSetVelParams(src, dest EndPoint, chanIdent uint16, minVelocity, acceleration, maxVelocity int32) []byte {
	data := make([]byte, 14)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(minVelocity))
	binary.LittleEndian.PutUint32(data[6:10], uint32(acceleration))
	binary.LittleEndian.PutUint32(data[10:14], uint32(maxVelocity))
	return longFrame(MsgMotSetVelParams, dest, src, data)
}

// MotSetJogParams configures jog moves. jogMode 1 is continuous, 2 is
// single step; stopMode 1 is immediate, 2 is profiled.
func MotSetJogParams(src, dest EndPoint, chanIdent uint16, stepSize, minVelocity, acceleration, maxVelocity int32, jogMode, stopMode uint16) []byte {
	data := make([]byte, 22)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint16(data[2:4], jogMode)
	binary.LittleEndian.PutUint32(data[4:8], uint32(stepSize))
	binary.LittleEndian.PutUint32(data[8:12], uint32(minVelocity))
	binary.LittleEndian.PutUint32(data[12:16], uint32(acceleration))
	binary.LittleEndian.PutUint32(data[16:20], uint32(maxVelocity))
	binary.LittleEndian.PutUint16(data[20:22], stopMode)
	return longFrame(MsgMotSetJogParams, dest, src, data)
}

// MotSetGenMoveParams sets the backlash compensation distance.
func MotSetGenMoveParams(src, dest EndPoint, chanIdent uint16, backlashDistance int32) []byte {
	data := make([]byte, 6)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint32(data[2:6], uint32(backlashDistance))
	return longFrame(MsgMotSetGenMoveParams, dest, src, data)
}

// MotSetAVModes configures the controller's status LED behavior.
func MotSetAVModes(src, dest EndPoint, chanIdent uint16, modeBits LEDMode) []byte {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[0:2], chanIdent)
	binary.LittleEndian.PutUint16(data[2:4], uint16(modeBits))
	return longFrame(MsgMotSetAVModes, dest, src, data)
}
