package hw

import (
	"fmt"

	"go.bug.st/serial"
)

// SerialInput decodes DIN-MIDI from a serial port (31250 baud on real
// hardware, anything on USB bridges).
type SerialInput struct {
	port     serial.Port
	decoder  *Decoder
	events   chan NoteEvent
	stopChan chan struct{}
}

// OpenSerialInput opens the named port and starts the read loop.
func OpenSerialInput(portName string, baud int) (*SerialInput, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}

	s := &SerialInput{
		port:     port,
		events:   make(chan NoteEvent, 32),
		stopChan: make(chan struct{}),
	}
	s.decoder = NewDecoder(func(ev NoteEvent) {
		select {
		case s.events <- ev:
		default:
			// Drop if the control context is behind
		}
	})

	go s.readLoop()
	return s, nil
}

func (s *SerialInput) readLoop() {
	buf := make([]byte, 64)
	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		n, err := s.port.Read(buf)
		if err != nil {
			// Transient read failures retry on the next pass; a closed
			// port ends the loop via stopChan.
			continue
		}
		for _, b := range buf[:n] {
			s.decoder.Read(b)
		}
	}
}

// NoteEvents returns the decoded event stream.
func (s *SerialInput) NoteEvents() <-chan NoteEvent {
	return s.events
}

// Close stops the read loop and closes the port.
func (s *SerialInput) Close() error {
	close(s.stopChan)
	return s.port.Close()
}

// ListSerialPorts returns the available serial port names.
func ListSerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
