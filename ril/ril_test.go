package ril_test

import (
	"fmt"
	"io"

	"github.com/ril-go/ril"
)

// mockModem provides canned responses to exercise adapter methods without
// a real serial link, following the pattern used throughout this driver's
// at package tests.
type mockModem struct {
	cmdSet map[string][]string
	echo   bool
	closed bool
	r      chan []byte
}

func (m *mockModem) Read(p []byte) (int, error) {
	data, ok := <-m.r
	if !ok {
		return 0, fmt.Errorf("closed")
	}
	copy(p, data)
	return len(data), nil
}

func (m *mockModem) Write(p []byte) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("closed")
	}
	if m.echo {
		m.r <- p
	}
	v := m.cmdSet[string(p)]
	if len(v) == 0 {
		m.r <- []byte("\r\nERROR\r\n")
		return len(p), nil
	}
	for _, l := range v {
		if len(l) == 0 {
			continue
		}
		m.r <- []byte(l)
	}
	return len(p), nil
}

func (m *mockModem) Close() error {
	if !m.closed {
		m.closed = true
		close(m.r)
	}
	return nil
}

// setupDevice creates a ril.Device over a mockModem primed with cmdSet,
// skipping the lifecycle bring-up since most adapter tests only exercise a
// single command.
func setupDevice(cmdSet map[string][]string) (*ril.Device, *mockModem) {
	mm := &mockModem{cmdSet: cmdSet, echo: true, r: make(chan []byte, 10)}
	var modem io.ReadWriter = mm
	d := ril.New(modem)
	return d, mm
}
