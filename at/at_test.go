/*
  Test suite for the at package.

  mockModem does not attempt to emulate a real serial modem; it provides
  just enough canned responses to exercise the command engine. The "AT"
  commands used here follow the shape of the protocol but are not real AT
  commands - just patterns that elicit the behaviour under test.
*/
package at

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	mm := mockModem{cmdSet: nil, echo: false, r: make(chan []byte, 10)}
	defer teardownModem(&mm)
	a := New(&mm)
	if a == nil {
		t.Fatal("New failed")
	}
	select {
	case <-a.Closed():
		t.Error("modem closed")
	default:
	}
}

func TestCommand(t *testing.T) {
	cmdSet := map[string][]string{
		"AT\r\n":       {"OK\r\n"},
		"ATPASS\r\n":   {"OK\r\n"},
		"ATINFO=1\r\n": {"info1\r\n", "info2\r\n", "INFO: info3\r\n", "\r\n", "OK\r\n"},
		"ATCMS\r\n":    {"+CMS ERROR: 204\r\n"},
		"ATCME\r\n":    {"+CME ERROR: 42\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	background := context.Background()
	cancelled, cancel := context.WithCancel(background)
	cancel()
	timeout, cancelT := context.WithTimeout(background, 0)
	defer cancelT()
	patterns := []struct {
		name    string
		ctx     context.Context
		cmd     string
		mutator func()
		info    []string
		err     error
	}{
		{"empty", background, "", nil, nil, nil},
		{"pass", background, "PASS", nil, nil, nil},
		{"info", background, "INFO=1", nil, []string{"info1", "info2", "INFO: info3"}, nil},
		{"err", background, "ERR", nil, nil, ErrError},
		{"cms", background, "CMS", nil, nil, CMSError("204")},
		{"cme", background, "CME", nil, nil, CMEError("42")},
		{"timeout", timeout, "", nil, nil, context.DeadlineExceeded},
		{"cancelled", cancelled, "", func() {
			m, mm = setupModem(t, cmdSet)
		}, nil, context.Canceled},
		{"write error", background, "PASS", func() {
			m, mm = setupModem(t, cmdSet)
			mm.errOnWrite = true
		}, nil, errors.New("write error")},
		{"closed before response", background, "NULL", func() {
			mm.closeOnWrite = true
		}, nil, ErrClosed},
		{"closed before request", background, "PASS", func() { <-m.Closed() }, nil, ErrClosed},
	}
	for _, p := range patterns {
		f := func(t *testing.T) {
			if p.mutator != nil {
				p.mutator()
			}
			info, err := m.Command(p.ctx, p.cmd)
			assert.Equal(t, p.err, err)
			assert.Equal(t, p.info, info)
		}
		t.Run(p.name, f)
	}
}

func TestCommandClosedIdle(t *testing.T) {
	m, mm := setupModem(t, nil)
	defer teardownModem(mm)
	mm.Close()
	select {
	case <-m.Closed():
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for modem to close")
	}
}

func checkInfo(expected []string, received []string) error {
	if len(expected) != len(received) {
		return fmt.Errorf("inconsistent lengths - expected %d, got %d", len(expected), len(received))
	}
	for idx, v := range expected {
		x := strings.TrimRight(v, "\r\n")
		if received[idx] != x {
			return fmt.Errorf("inconsistent line - expected %s, got %s", x, received[idx])
		}
	}
	return nil
}

func TestSMSCommand(t *testing.T) {
	cmdSet := map[string][]string{
		"ATCMS\r":  {"\r\n+CMS ERROR: 204\r\n"},
		"ATCME\r":  {"\r\n+CME ERROR: 42\r\n"},
		"ATSMS\r":  {"\n>"},
		"sms\x1a":  {"\r\n", "info4\r\n", "info5\r\n", "INFO: info6\r\n", "\r\n", "OK\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	ctx := context.Background()
	info, err := m.SMSCommand(ctx, "SMS", "sms")
	assert.Nil(t, err)
	if err := checkInfo([]string{"info4", "info5", "INFO: info6"}, info); err != nil {
		t.Error(err)
	}
	_, err = m.SMSCommand(ctx, "CMS", "x")
	assert.Equal(t, CMSError("204"), err)
	_, err = m.SMSCommand(ctx, "CME", "x")
	assert.Equal(t, CMEError("42"), err)
}

func TestSendBinary(t *testing.T) {
	cmdSet := map[string][]string{
		"ATQFWRITE\r": {"CONNECT\r\n"},
		"payload":     {"OK\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	_, err := m.SendBinary(context.Background(), "QFWRITE", []byte("payload"))
	assert.Nil(t, err)
}

func TestCommandBinaryResponse(t *testing.T) {
	cmdSet := map[string][]string{
		"ATQFREAD\r\n": {"CONNECT 7\r\n", "payload", "OK\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	_, data, err := m.CommandBinaryResponse(context.Background(), "QFREAD")
	assert.Nil(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestCommandBinaryResponseMalformedConnect(t *testing.T) {
	cmdSet := map[string][]string{
		"ATQFREAD\r\n": {"CONNECT\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	_, _, err := m.CommandBinaryResponse(context.Background(), "QFREAD")
	assert.Equal(t, ErrMalformedConnect, err)
}

func TestAddIndication(t *testing.T) {
	m, mm := setupModem(t, nil)
	defer teardownModem(mm)

	c, err := m.AddIndication("notify", 0)
	assert.Nil(t, err)
	if c == nil {
		t.Fatalf("didn't return channel")
	}
	select {
	case n := <-c:
		t.Errorf("got notification without write: %v", n)
	default:
	}
	mm.r <- []byte("notify: :yfiton\r\n")
	select {
	case n := <-c:
		assert.Equal(t, []string{"notify: :yfiton"}, n)
	case <-time.After(100 * time.Millisecond):
		t.Errorf("no notification received")
	}
	c2, err := m.AddIndication("notify", 0)
	assert.Equal(t, ErrIndicationExists, err)
	assert.Nil(t, c2, "shouldn't return channel on error")

	mm.Close()
	select {
	case <-c:
	case <-time.After(100 * time.Millisecond):
		t.Error("channel still open")
	}
}

func TestCancelIndication(t *testing.T) {
	m, mm := setupModem(t, nil)
	defer teardownModem(mm)

	c, err := m.AddIndication("notify", 0)
	assert.Nil(t, err)
	m.CancelIndication("notify")
	select {
	case <-c:
	case <-time.After(100 * time.Millisecond):
		t.Error("channel still open")
	}
	// for coverage of cancel while nothing registered
	m.CancelIndication("notify")
}

type mockModem struct {
	cmdSet       map[string][]string
	closeOnWrite bool
	errOnWrite   bool
	echo         bool
	closed       bool
	r            chan []byte
}

func (m *mockModem) Read(p []byte) (n int, err error) {
	data, ok := <-m.r
	if data == nil {
		return 0, fmt.Errorf("closed")
	}
	copy(p, data)
	if !ok {
		return len(data), fmt.Errorf("closed with data")
	}
	return len(data), nil
}

func (m *mockModem) Write(p []byte) (n int, err error) {
	if m.closed {
		return 0, errors.New("closed")
	}
	if m.closeOnWrite {
		m.closeOnWrite = false
		m.Close()
		return len(p), nil
	}
	if m.errOnWrite {
		return 0, errors.New("write error")
	}
	if m.echo {
		m.r <- p
	}
	v := m.cmdSet[string(p)]
	if len(v) == 0 {
		m.r <- []byte("\r\nERROR\r\n")
	} else {
		for _, l := range v {
			if len(l) == 0 {
				continue
			}
			m.r <- []byte(l)
		}
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

func setupModem(t *testing.T, cmdSet map[string][]string) (*AT, *mockModem) {
	mm := &mockModem{cmdSet: cmdSet, echo: false, r: make(chan []byte, 10)}
	var modem io.ReadWriter = mm
	a := New(modem)
	if a == nil {
		t.Fatal("new failed")
	}
	return a, mm
}

func teardownModem(m *mockModem) {
	m.Close()
}
