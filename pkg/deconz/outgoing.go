package deconz

import (
	"encoding/binary"
	"fmt"
)

const frameMinLen = 5

// outgoingPayload is the sum type of wire payload bodies an OutgoingMessage
// can carry.
type outgoingPayload interface {
	hasVariableLength() bool
	length() int
	write(out []byte) error
}

type outgoingEmpty struct{}

func (outgoingEmpty) hasVariableLength() bool { return true }
func (outgoingEmpty) length() int { return 0 }
func (outgoingEmpty) write(out []byte) error { return nil }

type outgoingReadParameter struct {
	parameter ParameterCode
}

func (outgoingReadParameter) hasVariableLength() bool { return true }
func (outgoingReadParameter) length() int { return 1 }
func (p outgoingReadParameter) write(out []byte) error {
	out[0] = byte(p.parameter)
	return nil
}

type outgoingWriteParameter struct {
	parameter ParameterCode
	value ParameterValue
}

func (outgoingWriteParameter) hasVariableLength() bool { return true }
func (p outgoingWriteParameter) length() int { return 1 + p.value.Length() }
func (p outgoingWriteParameter) write(out []byte) error {
	out[0] = byte(p.parameter)
	putUintLE(out[1:1+p.value.Length()], p.value.Uint64(), p.value.Length())
	return nil
}

type outgoingDeviceState struct{}

func (outgoingDeviceState) hasVariableLength() bool { return false }
func (outgoingDeviceState) length() int { return 3 }
func (outgoingDeviceState) write(out []byte) error {
	out[0], out[1], out[2] = 0, 0, 0
	return nil
}

type outgoingChangeNetworkState struct {
	state NetworkStateCode
}

func (outgoingChangeNetworkState) hasVariableLength() bool { return false }
func (outgoingChangeNetworkState) length() int { return 1 }
func (p outgoingChangeNetworkState) write(out []byte) error {
	out[0] = byte(p.state)
	return nil
}

type outgoingApsDataRequest struct {
	requestID uint8
	destination Address
	profileID uint16
	clusterID uint16
	sourceEndpoint uint8
	asdu []byte
	radius uint8
}

func (outgoingApsDataRequest) hasVariableLength() bool { return true }

func (p outgoingApsDataRequest) addressLen() int {
	switch p.destination.(type) {
	case GroupAddress:
		return 2
	case NWKAddress:
		return 3
	case IEEEAddress:
		return 9
	default:
		return 0
	}
}

func (p outgoingApsDataRequest) length() int {
	return 12 + p.addressLen() + len(p.asdu)
}

func (p outgoingApsDataRequest) write(out []byte) error {
	out[0] = p.requestID
	out[1] = 0x00
	out[2] = byte(p.destination.Mode())

	var next int
	switch addr := p.destination.(type) {
	case GroupAddress:
		binary.LittleEndian.PutUint16(out[3:5], addr.Group)
		next = 5
	case NWKAddress:
		binary.LittleEndian.PutUint16(out[3:5], addr.Address)
		out[5] = addr.Endpoint
		next = 6
	case IEEEAddress:
		binary.LittleEndian.PutUint64(out[3:11], addr.Address)
		out[11] = addr.Endpoint
		next = 12
	default:
		return &EncodingError{Msg: "unknown destination address type"}
	}

	binary.LittleEndian.PutUint16(out[next:next+2], p.profileID)
	next += 2
	binary.LittleEndian.PutUint16(out[next:next+2], p.clusterID)
	next += 2
	out[next] = p.sourceEndpoint
	next++
	binary.LittleEndian.PutUint16(out[next:next+2], uint16(len(p.asdu)))
	next += 2
	copy(out[next:next+len(p.asdu)], p.asdu)
	next += len(p.asdu)
	out[next] = 0x04 // tx_options, fixed
	next++
	out[next] = p.radius
	return nil
}

// putUintLE writes value into out as a little-endian unsigned integer of
// the given byte width.
func putUintLE(out []byte, value uint64, width int) {
	for i := 0; i < width; i++ {
		out[i] = byte(value >> (8 * i))
	}
}

// OutgoingMessage is a caller-constructed request or notification-request
// ready to be serialized onto the wire.
type OutgoingMessage struct {
	Command CommandCode
	Seq uint8
	payload outgoingPayload
}

// NewReadParameter builds a ReadParameter request for the given parameter.
func NewReadParameter(seq uint8, parameter ParameterCode) OutgoingMessage {
	return OutgoingMessage{Command: CommandReadParameter, Seq: seq, payload: outgoingReadParameter{parameter: parameter}}
}

// NewWriteParameter builds a WriteParameter request. The caller is
// responsible for matching value's width to parameter.Len(); this is not
// validated here.
func NewWriteParameter(seq uint8, parameter ParameterCode, value ParameterValue) OutgoingMessage {
	return OutgoingMessage{Command: CommandWriteParameter, Seq: seq, payload: outgoingWriteParameter{parameter: parameter, value: value}}
}

// NewDeviceState builds a DeviceState request.
func NewDeviceState(seq uint8) OutgoingMessage {
	return OutgoingMessage{Command: CommandDeviceState, Seq: seq, payload: outgoingDeviceState{}}
}

// NewChangeNetworkState builds a ChangeNetworkState request.
func NewChangeNetworkState(seq uint8, state NetworkStateCode) OutgoingMessage {
	return OutgoingMessage{Command: CommandChangeNetworkState, Seq: seq, payload: outgoingChangeNetworkState{state: state}}
}

// NewApsDataIndication builds a request for the next queued APS data indication.
func NewApsDataIndication(seq uint8) OutgoingMessage {
	return OutgoingMessage{Command: CommandApsDataIndication, Seq: seq, payload: outgoingEmpty{}}
}

// NewApsDataRequest builds an APS data request addressed to destination.
func NewApsDataRequest(seq uint8, requestID uint8, destination Address, profileID, clusterID uint16, sourceEndpoint uint8, radius uint8, asdu []byte) OutgoingMessage {
	return OutgoingMessage{
		Command: CommandApsDataRequest,
		Seq: seq,
		payload: outgoingApsDataRequest{
			requestID: requestID,
			destination: destination,
			profileID: profileID,
			clusterID: clusterID,
			sourceEndpoint: sourceEndpoint,
			asdu: asdu,
			radius: radius,
		},
	}
}

// NewApsDataConfirm builds a request for the pending APS data confirm.
func NewApsDataConfirm(seq uint8) OutgoingMessage {
	return OutgoingMessage{Command: CommandApsDataConfirm, Seq: seq, payload: outgoingEmpty{}}
}

// Write serializes m into out, returning the number of bytes written
// (equal to the computed frame_len). It fails with *EncodingError if out
// is too small.
func (m OutgoingMessage) Write(out []byte) (int, error) {
	frameLen := frameMinLen + m.payload.length()
	if m.payload.hasVariableLength() {
		frameLen += 2
	}
	if len(out) < frameLen {
		return 0, &EncodingError{Msg: fmt.Sprintf("not enough space for encoding this frame: need %d, have %d", frameLen, len(out))}
	}

	out[0] = byte(m.Command)
	out[1] = m.Seq
	out[2] = 0x00
	binary.LittleEndian.PutUint16(out[3:5], uint16(frameLen))

	next := frameMinLen
	if m.payload.hasVariableLength() {
		binary.LittleEndian.PutUint16(out[5:7], uint16(m.payload.length()))
		next = 7
	}
	if err := m.payload.write(out[next:frameLen]); err != nil {
		return 0, err
	}
	return frameLen, nil
}
