package deconz

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
)

// Transport is the opaque byte stream a Client multiplexes requests and
// responses over. *Serial satisfies it; so does any io.ReadWriteCloser, for
// tests.
type Transport interface {
	io.Reader
	io.Writer
	io.Closer
}

// pendingKey is how a Client pairs a response to the request that's
// waiting for it: (seq, command_code), not seq alone. A DeviceStateChanged
// notification can otherwise collide with an in-flight DeviceState request
// sharing the same seq.
type pendingKey struct {
	seq uint8
	command CommandCode
}

// Client is a request/response multiplexer over a single deCONZ serial
// link. It owns the link's one read loop, assigns sequence numbers, and
// routes each decoded frame either to the Call awaiting it or, when no Call
// is waiting (e.g. an unsolicited DeviceStateChanged), onto its
// notification stream.
// One background reader, a map of response channels keyed by the request
// identity, one send path guarded by a mutex.
type Client struct {
	transport Transport
	frameReader *FrameReader

	writeMu sync.Mutex

	seqMu sync.Mutex
	nextSeq uint8

	pendingMu sync.Mutex
	pending map[pendingKey]*Call

	notifications chan IncomingPayload

	closeOnce sync.Once
	done chan struct{}
}

// NewClient starts a Client over transport. The returned channel delivers
// every payload that no Call is waiting for (unsolicited DeviceStateChanged
// frames, unmatched responses) until the Client is closed, at which point
// it is closed.
func NewClient(transport Transport) (*Client, <-chan IncomingPayload, error) {
	c := &Client{
		transport: transport,
		frameReader: NewFrameReader(),
		pending: make(map[pendingKey]*Call),
		notifications: make(chan IncomingPayload, 16),
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c, c.notifications, nil
}

// Close shuts the Client down: the transport is closed, the read loop is
// allowed to exit, and every outstanding Call is resolved as cancelled.
func (c *Client) Close() error {
	err := c.shutdown()
	<-c.done
	return err
}

// Closed reports whether the Client's read loop has exited, e.g. after
// Close or a transport error.
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) shutdown() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.transport.Close()

		c.pendingMu.Lock()
		for key, call := range c.pending {
			call.cancel()
			delete(c.pending, key)
		}
		c.pendingMu.Unlock()
	})
	return err
}

func (c *Client) readLoop() {
	// Only this goroutine ever sends on notifications, so only it may
	// close it, and only once no further route() call can happen.
	defer close(c.notifications)
	defer close(c.done)

	buf := make([]byte, 256)
	for {
		n, err := c.transport.Read(buf)
		if n > 0 {
			for _, msg := range c.frameReader.Feed(buf[:n]) {
				c.route(msg)
			}
		}
		if err != nil {
			if err != io.EOF {
				log.Warn().Err(err).Msg("deconz transport read failed, shutting down client")
			}
			c.shutdown()
			return
		}
	}
}

// route delivers a decoded message to whatever is waiting for it: the
// pending Call for its (seq, command) pair, or the notification stream if
// no Call is waiting (an unsolicited DeviceStateChanged, or an
// ApsDataIndication response arriving after its caller gave up).
func (c *Client) route(msg IncomingMessage) {
	key := pendingKey{seq: msg.Seq, command: msg.Command}
	c.pendingMu.Lock()
	call, ok := c.pending[key]
	if ok {
		delete(c.pending, key)
	}
	c.pendingMu.Unlock()

	if !ok {
		select {
		case c.notifications <- msg.Payload:
		case <-c.done:
		}
		return
	}
	call.resolve(msg.Payload, msg.Status)
}

// allocSeq returns the next sequence number, wrapping modulo 256.
func (c *Client) allocSeq() uint8 {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()
	seq := c.nextSeq
	c.nextSeq++
	return seq
}

func (c *Client) writeFrame(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err := c.transport.Write(frame)
	return err
}

// call runs one request/response round trip: it assigns a seq, registers a
// Call under (seq, command), encodes and writes the request built by
// build, then awaits the response or ctx's cancellation.
func (c *Client) call(ctx context.Context, command CommandCode, build func(seq uint8) OutgoingMessage) (IncomingPayload, StatusCode, error) {
	seq := c.allocSeq()
	key := pendingKey{seq: seq, command: command}

	call := newCall()
	c.pendingMu.Lock()
	c.pending[key] = call
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, key)
		c.pendingMu.Unlock()
	}()

	frame, err := EncodeFrame(build(seq))
	if err != nil {
		return nil, 0, err
	}
	if err := c.writeFrame(frame); err != nil {
		return nil, 0, err
	}
	return call.wait(ctx)
}

// ReadParameter reads a module configuration parameter.
func (c *Client) ReadParameter(ctx context.Context, parameter ParameterCode) (ParameterValue, error) {
	payload, status, err := c.call(ctx, CommandReadParameter, func(seq uint8) OutgoingMessage {
		return NewReadParameter(seq, parameter)
	})
	if err != nil {
		return nil, err
	}
	if status != StatusSuccess {
		return nil, &NonSuccessResponseError{Status: status}
	}
	resp, ok := payload.(ReadParameterPayload)
	if !ok {
		return nil, &UnexpectedResponsePayloadError{Expected: "ReadParameterPayload", Actual: payload}
	}
	return resp.Value, nil
}

// WriteParameter writes a module configuration parameter. The
// caller must match value's width to parameter.Len().
func (c *Client) WriteParameter(ctx context.Context, parameter ParameterCode, value ParameterValue) error {
	payload, status, err := c.call(ctx, CommandWriteParameter, func(seq uint8) OutgoingMessage {
		return NewWriteParameter(seq, parameter, value)
	})
	if err != nil {
		return err
	}
	if status != StatusSuccess {
		return &NonSuccessResponseError{Status: status}
	}
	if _, ok := payload.(WriteParameterPayload); !ok {
		return &UnexpectedResponsePayloadError{Expected: "WriteParameterPayload", Actual: payload}
	}
	return nil
}

// DeviceState queries the module's current device state.
func (c *Client) DeviceState(ctx context.Context) (DeviceStatePayload, error) {
	payload, status, err := c.call(ctx, CommandDeviceState, func(seq uint8) OutgoingMessage {
		return NewDeviceState(seq)
	})
	if err != nil {
		return DeviceStatePayload{}, err
	}
	if status != StatusSuccess {
		return DeviceStatePayload{}, &NonSuccessResponseError{Status: status}
	}
	resp, ok := payload.(DeviceStatePayload)
	if !ok {
		return DeviceStatePayload{}, &UnexpectedResponsePayloadError{Expected: "DeviceStatePayload", Actual: payload}
	}
	return resp, nil
}

// ChangeNetworkState requests a network state transition.
func (c *Client) ChangeNetworkState(ctx context.Context, state NetworkStateCode) (NetworkStateCode, error) {
	payload, status, err := c.call(ctx, CommandChangeNetworkState, func(seq uint8) OutgoingMessage {
		return NewChangeNetworkState(seq, state)
	})
	if err != nil {
		return 0, err
	}
	if status != StatusSuccess {
		return 0, &NonSuccessResponseError{Status: status}
	}
	resp, ok := payload.(ChangeNetworkStatePayload)
	if !ok {
		return 0, &UnexpectedResponsePayloadError{Expected: "ChangeNetworkStatePayload", Actual: payload}
	}
	return resp.State, nil
}

// ApsDataIndication pulls the next queued inbound APS data frame.
func (c *Client) ApsDataIndication(ctx context.Context) (ApsDataIndicationPayload, error) {
	payload, status, err := c.call(ctx, CommandApsDataIndication, func(seq uint8) OutgoingMessage {
		return NewApsDataIndication(seq)
	})
	if err != nil {
		return ApsDataIndicationPayload{}, err
	}
	if status != StatusSuccess {
		return ApsDataIndicationPayload{}, &NonSuccessResponseError{Status: status}
	}
	resp, ok := payload.(ApsDataIndicationPayload)
	if !ok {
		return ApsDataIndicationPayload{}, &UnexpectedResponsePayloadError{Expected: "ApsDataIndicationPayload", Actual: payload}
	}
	return resp, nil
}
