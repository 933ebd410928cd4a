package deconz

import "encoding/binary"

// IncomingPayload is the sum type of payload bodies a deCONZ response or
// notification can carry.
type IncomingPayload interface {
	isIncomingPayload()
}

// ReadParameterPayload is the response to a ReadParameter request.
type ReadParameterPayload struct {
	Parameter ParameterCode
	Value ParameterValue
}

func (ReadParameterPayload) isIncomingPayload() {}

// WriteParameterPayload is the response to a WriteParameter request.
type WriteParameterPayload struct {
	Parameter ParameterCode
}

func (WriteParameterPayload) isIncomingPayload() {}

// DeviceStatePayload carries the device-state bit layout.
// It is the shared payload for both the DeviceState response and the
// DeviceStateChanged notification.
type DeviceStatePayload struct {
	State NetworkStateCode
	ApsdeDataConfirm bool
	ApsdeDataIndication bool
	ConfigurationChanged bool
	ApsdeDataRequest bool
}

func (DeviceStatePayload) isIncomingPayload() {}

// ChangeNetworkStatePayload is the response to a ChangeNetworkState request.
type ChangeNetworkStatePayload struct {
	State NetworkStateCode
}

func (ChangeNetworkStatePayload) isIncomingPayload() {}

// ApsDataIndicationPayload is an inbound ZigBee application frame delivered
// in response to an ApsDataIndication request.
type ApsDataIndicationPayload struct {
	Source Address
	Destination Address
	ProfileID uint16
	ClusterID uint16
	Asdu []byte
	Lqi uint8
	Rssi int8
}

func (ApsDataIndicationPayload) isIncomingPayload() {}

// decodeDeviceState unpacks the bit layout of a device-state byte.
func decodeDeviceState(b byte) (DeviceStatePayload, error) {
	state, ok := networkStateFromByte(b & 0x03)
	if !ok {
		return DeviceStatePayload{}, &DecodingError{Msg: "cannot decode device state"}
	}
	return DeviceStatePayload{
		State: state,
		ApsdeDataConfirm: b&0x04 != 0,
		ApsdeDataIndication: b&0x08 != 0,
		ConfigurationChanged: b&0x10 != 0,
		ApsdeDataRequest: b&0x20 != 0,
	}, nil
}

// decodeAddress reads an address triple (mode byte + address + endpoint,
// where applicable) starting at input[offset]. It returns the address and
// the offset immediately following it.
func decodeAddress(input []byte, offset int) (Address, int, error) {
	if offset >= len(input) {
		return nil, 0, &DecodingError{Msg: "truncated address"}
	}
	switch input[offset] {
	case byte(DestinationGroup):
		if offset+3 > len(input) {
			return nil, 0, &DecodingError{Msg: "truncated group address"}
		}
		addr := binary.LittleEndian.Uint16(input[offset+1 : offset+3])
		return GroupAddress{Group: addr}, offset + 4, nil // +1 filler byte, like the NWK/IEEE endpoint slot
	case byte(DestinationNWK):
		if offset+4 > len(input) {
			return nil, 0, &DecodingError{Msg: "truncated NWK address"}
		}
		addr := binary.LittleEndian.Uint16(input[offset+1 : offset+3])
		endpoint := input[offset+3]
		return NWKAddress{Address: addr, Endpoint: endpoint}, offset + 4, nil
	case byte(DestinationIEEE):
		if offset+10 > len(input) {
			return nil, 0, &DecodingError{Msg: "truncated IEEE address"}
		}
		addr := binary.LittleEndian.Uint64(input[offset+1 : offset+9])
		endpoint := input[offset+9]
		return IEEEAddress{Address: addr, Endpoint: endpoint}, offset + 10, nil
	default:
		return nil, 0, &DecodingError{Msg: "unknown address mode"}
	}
}

// readPayload dispatches payload parsing by command.
func readPayload(command CommandCode, input []byte) (IncomingPayload, error) {
	switch command {
	case CommandReadParameter:
		if len(input) <= 3 {
			return nil, &DecodingError{Msg: "too short payload for ReadParameter"}
		}
		payloadLen := int(binary.LittleEndian.Uint16(input[0:2]))
		if len(input) < payloadLen {
			return nil, &DecodingError{Msg: "too short payload: incorrect payload length"}
		}
		valueLen := payloadLen - 1
		if valueLen < 0 || 3+valueLen > len(input) {
			return nil, &DecodingError{Msg: "too short payload: invalid value length"}
		}
		parameter, ok := parameterCodeFromByte(input[2])
		if !ok {
			return nil, &DecodingError{Msg: "unknown parameter id"}
		}
		rawValue := readUintLE(input[3 : 3+valueLen])
		value, ok := parameterValueFromWidth(rawValue, valueLen)
		if !ok {
			return nil, &DecodingError{Msg: "unsupported parameter value width"}
		}
		return ReadParameterPayload{Parameter: parameter, Value: value}, nil

	case CommandWriteParameter:
		if len(input) < 3 {
			return nil, &DecodingError{Msg: "too short payload for WriteParameter"}
		}
		payloadLen := int(binary.LittleEndian.Uint16(input[0:2]))
		if payloadLen < 1 {
			return nil, &DecodingError{Msg: "invalid payload length for WriteParameter"}
		}
		parameter, ok := parameterCodeFromByte(input[2])
		if !ok {
			return nil, &DecodingError{Msg: "unknown parameter id"}
		}
		return WriteParameterPayload{Parameter: parameter}, nil

	case CommandDeviceState:
		if len(input) < 1 {
			return nil, &DecodingError{Msg: "too short payload for DeviceState"}
		}
		return decodeDeviceState(input[0])

	case CommandChangeNetworkState:
		if len(input) < 1 {
			return nil, &DecodingError{Msg: "too short payload for ChangeNetworkState"}
		}
		state, ok := networkStateFromByte(input[0])
		if !ok {
			return nil, &DecodingError{Msg: "unknown network state"}
		}
		return ChangeNetworkStatePayload{State: state}, nil

	case CommandDeviceStateChanged:
		if len(input) < 1 {
			return nil, &DecodingError{Msg: "too short payload for DeviceStateChanged"}
		}
		return decodeDeviceState(input[0])

	case CommandApsDataIndication:
		if len(input) < 2 {
			return nil, &DecodingError{Msg: "too short payload for ApsDataIndication"}
		}
		payloadLen := int(binary.LittleEndian.Uint16(input[0:2]))
		if len(input) < 2+payloadLen {
			return nil, &DecodingError{Msg: "too short payload for ApsDataIndication: invalid payload_length"}
		}
		// input[2] is the device-state byte; its bit layout isn't surfaced
		// here, only the address/profile/cluster/asdu/lqi/rssi fields are.
		destination, next, err := decodeAddress(input, 3)
		if err != nil {
			return nil, err
		}
		source, next, err := decodeAddress(input, next)
		if err != nil {
			return nil, err
		}
		if next+6 > len(input) {
			return nil, &DecodingError{Msg: "truncated ApsDataIndication header"}
		}
		profileID := binary.LittleEndian.Uint16(input[next : next+2])
		clusterID := binary.LittleEndian.Uint16(input[next+2 : next+4])
		asduLen := int(binary.LittleEndian.Uint16(input[next+4 : next+6]))
		asduStart := next + 6
		if asduStart+asduLen+8 > len(input) {
			return nil, &DecodingError{Msg: "truncated ApsDataIndication asdu/trailer"}
		}
		asdu := make([]byte, asduLen)
		copy(asdu, input[asduStart:asduStart+asduLen])
		afterAsdu := asduStart + asduLen
		lqi := input[afterAsdu+2]
		rssi := int8(input[afterAsdu+7])
		return ApsDataIndicationPayload{
			Source: source,
			Destination: destination,
			ProfileID: profileID,
			ClusterID: clusterID,
			Asdu: asdu,
			Lqi: lqi,
			Rssi: rssi,
		}, nil

	default:
		return nil, &DecodingError{Msg: "this command decoder is not yet implemented"}
	}
}

// readUintLE reads data as an unsigned little-endian integer of len(data) bytes.
func readUintLE(data []byte) uint64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * i)
	}
	return v
}

// IncomingMessage is a decoded response or notification.
type IncomingMessage struct {
	Command CommandCode
	Seq uint8
	Status StatusCode
	Payload IncomingPayload
}

// ReadIncomingMessage parses a deframed, checksum-stripped message body.
// It does not verify any checksum.
func ReadIncomingMessage(input []byte) (IncomingMessage, error) {
	if len(input) < frameMinLen {
		return IncomingMessage{}, &DecodingError{Msg: "frame is too short: cannot read header"}
	}
	command, ok := commandCodeFromByte(input[0])
	if !ok {
		return IncomingMessage{}, &DecodingError{Msg: "invalid command code"}
	}
	seq := input[1]
	status, ok := statusCodeFromByte(input[2])
	if !ok {
		return IncomingMessage{}, &DecodingError{Msg: "invalid status code"}
	}
	frameLen := int(binary.LittleEndian.Uint16(input[3:5]))
	if len(input) < frameLen {
		return IncomingMessage{}, &DecodingError{Msg: "frame is too short: invalid Frame length value"}
	}

	payload, err := readPayload(command, input[5:frameLen])
	if err != nil {
		return IncomingMessage{}, err
	}
	return IncomingMessage{Command: command, Seq: seq, Status: status, Payload: payload}, nil
}
