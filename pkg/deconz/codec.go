package deconz

import (
	"github.com/rs/zerolog/log"
)

// Wire frame: SLIP( message_bytes || checksum_le16 ), terminated by SLIP END.
// The codec writes the checksum on encode but does not verify it on decode,
// a known, intentional gap.

const (
	scratchBufLen = 300
	slipOutBufLen = 600
	maxFrameBytes = slipOutBufLen * 2 // guards FrameReader's accumulator against a runaway stream with no END
)

// computeChecksum implements the two's-complement-of-sum check:
// crc = (~sum) + 1, in modular 16-bit arithmetic.
func computeChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return ^sum + 1
}

// EncodeFrame serializes an OutgoingMessage to a complete wire frame:
// message bytes, a trailing little-endian checksum, SLIP-stuffed, and
// terminated with the SLIP END byte.
func EncodeFrame(msg OutgoingMessage) ([]byte, error) {
	scratch := make([]byte, scratchBufLen)
	n, err := msg.Write(scratch)
	if err != nil {
		return nil, err
	}
	data := scratch[:n]

	crc := computeChecksum(data)
	withCRC := make([]byte, n+2)
	copy(withCRC, data)
	withCRC[n] = byte(crc)
	withCRC[n+1] = byte(crc >> 8)

	stuffed := slipStuff(withCRC)
	if len(stuffed) > slipOutBufLen {
		return nil, &EncodingError{Msg: "SLIP-encoded frame exceeds output buffer"}
	}

	out := make([]byte, len(stuffed)+1)
	copy(out, stuffed)
	out[len(stuffed)] = slipEnd

	log.Debug().
		Str("command", msg.Command.String()).
		Uint8("seq", msg.Seq).
		Int("len", len(out)).
		Msg("encoded outgoing frame")

	return out, nil
}

// FrameReader incrementally reassembles SLIP frames out of a byte stream
// that may deliver 0, 1, or many frames per Feed call, and may split a
// frame across calls.
type FrameReader struct {
	buf []byte
}

// NewFrameReader creates an empty FrameReader.
func NewFrameReader() *FrameReader {
	return &FrameReader{buf: make([]byte, 0, slipOutBufLen)}
}

// Feed appends chunk to the reader's internal accumulator and returns every
// complete, successfully-decoded message found. A frame that fails to
// parse is discarded with a warning log. A single garbled frame never
// propagates an error up the stream.
func (r *FrameReader) Feed(chunk []byte) []IncomingMessage {
	var messages []IncomingMessage

	for _, b := range chunk {
		if b == slipEnd {
			if len(r.buf) > 0 {
				if msg, ok := r.decodeAccumulated(); ok {
					messages = append(messages, msg)
				}
				r.buf = r.buf[:0]
			}
			continue
		}
		r.buf = append(r.buf, b)
		if len(r.buf) > maxFrameBytes {
			log.Warn().Int("len", len(r.buf)).Msg("SLIP frame exceeded maximum length, discarding")
			r.buf = r.buf[:0]
		}
	}

	return messages
}

// decodeAccumulated unstuffs and parses the bytes collected since the last
// SLIP END, stripping the two trailing checksum bytes (not verified).
func (r *FrameReader) decodeAccumulated() (IncomingMessage, bool) {
	raw, err := slipUnstuff(r.buf)
	if err != nil {
		log.Warn().Err(err).Msg("discarding frame with invalid SLIP encoding")
		return IncomingMessage{}, false
	}
	if len(raw) < 2 {
		log.Warn().Int("len", len(raw)).Msg("discarding frame shorter than checksum trailer")
		return IncomingMessage{}, false
	}

	messageBytes := raw[:len(raw)-2]
	msg, err := ReadIncomingMessage(messageBytes)
	if err != nil {
		log.Warn().Err(err).Msg("discarding malformed frame")
		return IncomingMessage{}, false
	}

	log.Debug().
		Str("command", msg.Command.String()).
		Uint8("seq", msg.Seq).
		Msg("decoded incoming frame")

	return msg, true
}
