package deconz

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"
)

// buildIncomingFrame hand-assembles a complete wire frame the same way a
// real module would, for use as a canned response from the fake device
// below. It bypasses the package's own encoder deliberately, so tests stay
// independent of it.
func buildIncomingFrame(command CommandCode, seq uint8, status StatusCode, body []byte) []byte {
	msg := make([]byte, 5+len(body))
	msg[0] = byte(command)
	msg[1] = seq
	msg[2] = byte(status)
	frameLen := len(msg)
	msg[3] = byte(frameLen)
	msg[4] = byte(frameLen >> 8)
	copy(msg[5:], body)

	crc := computeChecksum(msg)
	withCRC := append(msg, byte(crc), byte(crc>>8))
	stuffed := slipStuff(withCRC)
	return append(stuffed, slipEnd)
}

// readParameterResponseBody builds the payload bytes ReadParameter's
// decoder expects: payload_length LE16, parameter code, value bytes.
func readParameterResponseBody(parameter ParameterCode, value ParameterValue) []byte {
	body := make([]byte, 2+1+value.Length())
	payloadLen := 1 + value.Length()
	body[0] = byte(payloadLen)
	body[1] = byte(payloadLen >> 8)
	body[2] = byte(parameter)
	putUintLE(body[3:3+value.Length()], value.Uint64(), value.Length())
	return body
}

// apsDataIndicationBody builds a minimal but well-formed ApsDataIndication
// response body: payload_length LE16, device-state byte, a Group
// destination, an NWK source, profile/cluster ids, an empty asdu, and the
// trailing lqi/rssi pair.
func apsDataIndicationBody() []byte {
	return []byte{
		0x17, 0x00, // payload_length (23)
		0x00,       // device-state byte, ignored here
		0x01, 0x07, 0x00, 0x00, // destination: Group mode, group=7, filler
		0x02, 0x02, 0x00, 0x04, // source: NWK mode, addr=2, endpoint=4
		0x01, 0x00, // profile_id = 1
		0x02, 0x00, // cluster_id = 2
		0x00, 0x00, // asdu_len = 0
		0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00, 0x0A, // trailer: lqi=9, rssi=10
	}
}

// fakeDevice plays the module side of a net.Pipe: it watches for complete
// request frames and, for each, calls respond to produce the canned
// answer frame to write back.
func fakeDevice(t *testing.T, conn net.Conn, respond func(command CommandCode, seq uint8) []byte) {
	go func() {
		buf := make([]byte, 256)
		var acc []byte
		for {
			n, err := conn.Read(buf)
			for i := 0; i < n; i++ {
				b := buf[i]
				if b == slipEnd {
					if len(acc) > 0 {
						raw, uerr := slipUnstuff(acc)
						acc = acc[:0]
						if uerr == nil && len(raw) >= 2 {
							resp := respond(CommandCode(raw[0]), raw[1])
							if resp != nil {
								_, _ = conn.Write(resp)
							}
						}
					}
					continue
				}
				acc = append(acc, b)
			}
			if err != nil {
				return
			}
		}
	}()
}

func TestClient_ReadParameter_Success(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	fakeDevice(t, deviceConn, func(command CommandCode, seq uint8) []byte {
		body := readParameterResponseBody(ParameterMacAddress, ParameterValueU64(15))
		return buildIncomingFrame(command, seq, StatusSuccess, body)
	})

	client, _, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	value, err := client.ReadParameter(ctx, ParameterMacAddress)
	if err != nil {
		t.Fatalf("ReadParameter returned error: %v", err)
	}
	if value.Uint64() != 15 {
		t.Errorf("value = %v, want 15", value)
	}
}

func TestClient_ReadParameter_NonSuccessStatus(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	fakeDevice(t, deviceConn, func(command CommandCode, seq uint8) []byte {
		body := readParameterResponseBody(ParameterMacAddress, ParameterValueU64(0))
		return buildIncomingFrame(command, seq, StatusFailure, body)
	})

	client, _, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = client.ReadParameter(ctx, ParameterMacAddress)
	nonSuccess, ok := err.(*NonSuccessResponseError)
	if !ok {
		t.Fatalf("err = %T, want *NonSuccessResponseError", err)
	}
	if nonSuccess.Status != StatusFailure {
		t.Errorf("Status = %v, want StatusFailure", nonSuccess.Status)
	}
}

func TestClient_DeviceStateChanged_DeliveredAsNotification(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	fakeDevice(t, deviceConn, func(command CommandCode, seq uint8) []byte {
		body := readParameterResponseBody(ParameterMacAddress, ParameterValueU64(1))
		return buildIncomingFrame(command, seq, StatusSuccess, body)
	})

	client, notifications, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	// Push an unsolicited DeviceStateChanged frame before any request is made.
	deviceConn.Write(buildIncomingFrame(CommandDeviceStateChanged, 0, StatusSuccess, []byte{0x02}))

	select {
	case payload := <-notifications:
		state, ok := payload.(DeviceStatePayload)
		if !ok || state.State != NetworkStateConnected {
			t.Errorf("notification payload = %+v, want DeviceStatePayload{State: Connected}", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for DeviceStateChanged notification")
	}
}

func TestClient_UnmatchedApsDataIndication_DeliveredAsNotification(t *testing.T) {
	clientConn, deviceConn := net.Pipe()

	client, notifications, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	// No ApsDataIndication request was ever made, so there is no pending
	// Call for this (seq, command). The response must still be published
	// to the notification stream rather than discarded.
	deviceConn.Write(buildIncomingFrame(CommandApsDataIndication, 5, StatusSuccess, apsDataIndicationBody()))

	select {
	case payload := <-notifications:
		indication, ok := payload.(ApsDataIndicationPayload)
		if !ok {
			t.Fatalf("notification payload = %T, want ApsDataIndicationPayload", payload)
		}
		dest, ok := indication.Destination.(GroupAddress)
		if !ok || dest.Group != 7 {
			t.Errorf("Destination = %+v, want GroupAddress{Group: 7}", indication.Destination)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for unmatched ApsDataIndication notification")
	}
}

func TestClient_ConcurrentRequestsSameCommand_EachGetsOwnResponse(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	fakeDevice(t, deviceConn, func(command CommandCode, seq uint8) []byte {
		// Echo seq itself as the parameter value so each caller's
		// response is distinguishable from every other in-flight call.
		body := readParameterResponseBody(ParameterCurrentChannel, ParameterValueU8(seq))
		return buildIncomingFrame(command, seq, StatusSuccess, body)
	})

	client, _, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	const n = 50
	results := make([]uint64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			value, err := client.ReadParameter(ctx, ParameterCurrentChannel)
			if err != nil {
				t.Errorf("ReadParameter returned error: %v", err)
				return
			}
			results[i] = value.Uint64()
		}(i)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, v := range results {
		if seen[v] {
			t.Errorf("duplicate response value %d: a request was routed to the wrong caller", v)
		}
		seen[v] = true
	}
}

func TestClient_AllocSeq_WrapsModulo256(t *testing.T) {
	client := &Client{pending: make(map[pendingKey]*Call)}

	var last uint8
	for i := 0; i < 300; i++ {
		last = client.allocSeq()
	}
	if last != 43 { // 300 allocations starting at 0: (300-1) mod 256 == 43
		t.Errorf("300th allocSeq() = %d, want 43", last)
	}
}

func TestClient_Close_CancelsOutstandingCalls(t *testing.T) {
	clientConn, deviceConn := net.Pipe()
	defer deviceConn.Close()
	// The device reads the request (so the write completes) but never answers.
	fakeDevice(t, deviceConn, func(command CommandCode, seq uint8) []byte { return nil })

	client, _, err := NewClient(clientConn)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := client.ReadParameter(ctx, ParameterMacAddress)
		done <- err
	}()

	// Give the request time to register before closing underneath it.
	time.Sleep(20 * time.Millisecond)
	client.Close()

	select {
	case err := <-done:
		if err != ErrChannelCanceled {
			t.Errorf("err = %v, want ErrChannelCanceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the outstanding call to be cancelled")
	}
}
