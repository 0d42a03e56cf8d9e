// apt/messages.go
package apt

// Message IDs for the frames this driver sends or interprets.
// IDs are protocol-locked.
const (
	MsgModIdentify            uint16 = 0x0223
	MsgModSetChanEnableState  uint16 = 0x0210
	MsgHwDisconnect           uint16 = 0x0002
	MsgHwResponse             uint16 = 0x0080
	MsgHwRichResponse         uint16 = 0x0081
	MsgHwStartUpdateMsgs      uint16 = 0x0011
	MsgHwStopUpdateMsgs       uint16 = 0x0012
	MsgMotSetVelParams        uint16 = 0x0413
	MsgMotSetJogParams        uint16 = 0x0416
	MsgMotSetGenMoveParams    uint16 = 0x043A
	MsgMotSetMoveRelParams    uint16 = 0x0445
	MsgMotSetMoveAbsParams    uint16 = 0x0450
	MsgMotMoveHome            uint16 = 0x0443
	MsgMotMoveHomed           uint16 = 0x0444
	MsgMotMoveRelative        uint16 = 0x0448
	MsgMotMoveAbsolute        uint16 = 0x0453
	MsgMotMoveVelocity        uint16 = 0x0457
	MsgMotMoveCompleted       uint16 = 0x0464
	MsgMotMoveStop            uint16 = 0x0465
	MsgMotMoveStopped         uint16 = 0x0466
	MsgMotMoveJog             uint16 = 0x046A
	MsgMotGetStatusUpdate     uint16 = 0x0481
	MsgMotGetDCStatusUpdate   uint16 = 0x0491
	MsgMotAckDCStatusUpdate   uint16 = 0x0492
	MsgMotSetAVModes          uint16 = 0x04B3
)

// Tag is the closed variant discriminator for decoded messages.
// Unrecognized-but-well-formed frames decode to TagUnknown so callers can
// stay forward compatible with protocol messages we do not yet interpret.
type Tag int

const (
	TagUnknown Tag = iota
	TagHwResponse
	TagHwRichResponse
	TagDCStatusUpdate
	TagStatusUpdate
	TagMoveCompleted
	TagMoveStopped
	TagMoveHomed
)

func (t Tag) String() string {
	switch t {
	case TagHwResponse:
		return "hw_response"
	case TagHwRichResponse:
		return "hw_rich_response"
	case TagDCStatusUpdate:
		return "mot_get_dcstatusupdate"
	case TagStatusUpdate:
		return "mot_get_statusupdate"
	case TagMoveCompleted:
		return "mot_move_completed"
	case TagMoveStopped:
		return "mot_move_stopped"
	case TagMoveHomed:
		return "mot_move_homed"
	}
	return "unknown"
}

// Message is a decoded inbound frame. Implementations are immutable value
// types; ownership passes to whoever pulls them from the Unpacker.
type Message interface {
	Tag() Tag
	Source() EndPoint
}

// HwResponse is the generic event/error notification. It carries no
// payload fields beyond its source.
type HwResponse struct {
	Src EndPoint
}

func (m HwResponse) Tag() Tag         { return TagHwResponse }
func (m HwResponse) Source() EndPoint { return m.Src }

// HwRichResponse is the rich event/error notification with an error code
// and a human-readable note.
type HwRichResponse struct {
	Src   EndPoint
	MsgID uint16
	Code  int
	Notes string
}

func (m HwRichResponse) Tag() Tag         { return TagHwRichResponse }
func (m HwRichResponse) Source() EndPoint { return m.Src }

// DCStatusUpdate is the periodic status report from DC motor controllers.
type DCStatusUpdate struct {
	Src        EndPoint
	ChanIdent  uint16
	Position   int32
	Velocity   uint16
	StatusBits uint32
}

func (m DCStatusUpdate) Tag() Tag         { return TagDCStatusUpdate }
func (m DCStatusUpdate) Source() EndPoint { return m.Src }

// StatusUpdate is the periodic status report from stepper controllers.
type StatusUpdate struct {
	Src        EndPoint
	ChanIdent  uint16
	Position   int32
	EncCount   int32
	StatusBits uint32
}

func (m StatusUpdate) Tag() Tag         { return TagStatusUpdate }
func (m StatusUpdate) Source() EndPoint { return m.Src }

// MoveCompleted is sent when a move finishes. Payload matches the DC
// status report.
type MoveCompleted struct {
	DCStatusUpdate
}

func (m MoveCompleted) Tag() Tag { return TagMoveCompleted }

// MoveStopped is sent when a move is stopped. Payload matches the DC
// status report.
type MoveStopped struct {
	DCStatusUpdate
}

func (m MoveStopped) Tag() Tag { return TagMoveStopped }

// MoveHomed is sent when a homing operation completes.
type MoveHomed struct {
	Src       EndPoint
	ChanIdent uint16
}

func (m MoveHomed) Tag() Tag         { return TagMoveHomed }
func (m MoveHomed) Source() EndPoint { return m.Src }

// Unknown is a well-formed frame whose message ID this driver does not
// interpret. Data is nil for short-form frames.
type Unknown struct {
	ID     uint16
	Src    EndPoint
	Param1 byte
	Param2 byte
	Data   []byte
}

func (m Unknown) Tag() Tag         { return TagUnknown }
func (m Unknown) Source() EndPoint { return m.Src }
