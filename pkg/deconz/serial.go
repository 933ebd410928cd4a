package deconz

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Serial wraps a UART connection to a deCONZ coordinator module. It
// satisfies Transport.
type Serial struct {
	port serial.Port
	mu sync.Mutex
}

// OpenSerial opens the serial port at 38400 baud, 8N1, with no flow
// control, the deCONZ module's fixed line configuration.
func OpenSerial(portPath string) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: 38400,
		DataBits: 8,
		Parity: serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portPath, err)
	}

	log.Info().Str("port", portPath).Msg("deconz serial port opened")

	return &Serial{port: port}, nil
}

// Write sends raw bytes to the serial port.
func (s *Serial) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Write(data)
}

// Read reads raw bytes from the serial port.
func (s *Serial) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

// Close closes the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}
