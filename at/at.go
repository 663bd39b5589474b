// Package at provides a transport and command/response engine for
// line-oriented AT command modems, such as the Quectel EC200/EG915U family.
//
// Commands are issued with Command, SendBinary or SMSCommand; unsolicited
// result codes (URCs) are delivered via AddIndication. Exactly one command
// is ever in flight at a time - the engine serialises callers onto a single
// command goroutine the same way a modem itself only ever processes one AT
// line at a time.
package at

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// AT represents a modem managed using AT commands. The AT closes its Closed
// channel when the connection to the underlying modem is broken (Read
// returns an error). Once closed all outstanding and future commands return
// ErrClosed and the AT cannot be reopened - a new one must be created.
type AT struct {
	cmdCh   chan func()
	indCh   chan func()
	closed  chan struct{}
	iLines  chan string
	cLines  chan string
	modem   io.ReadWriter
	log     *zap.Logger
	inds    map[string]indication // only modified in nLoop
	mode    *modeGate
	wgmu    sync.Mutex // covers guarded and wGuard
	guarded bool
	wGuard  <-chan time.Time
	wGuardD time.Duration
}

// Option configures an AT created by New.
type Option func(*AT)

// WithLogger attaches a structured logger to the AT. The default is a no-op
// logger. The command engine itself emits no log events.
func WithLogger(l *zap.Logger) Option {
	return func(a *AT) {
		a.log = l
	}
}

// WithWriteGuard overrides the default 20ms post-write guard period, during
// which a further write to the modem is held off to allow the modem's UART
// buffer to settle.
func WithWriteGuard(d time.Duration) Option {
	return func(a *AT) {
		a.wGuardD = d
	}
}

// New creates a new AT modem driver over the given transport.
func New(modem io.ReadWriter, opts ...Option) *AT {
	a := &AT{
		modem:   modem,
		log:     zap.NewNop(),
		cmdCh:   make(chan func()),
		indCh:   make(chan func()),
		iLines:  make(chan string),
		cLines:  make(chan string),
		closed:  make(chan struct{}),
		inds:    make(map[string]indication),
		mode:    newModeGate(),
		wGuardD: 20 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	go lineReader(a.modem, a.iLines, a.mode)
	go a.nLoop(a.indCh, a.iLines, a.cLines)
	go cmdLoop(a.cmdCh, a.cLines, a.closed)
	return a
}

// Closed returns a channel that blocks while the modem is open, and is
// closed once the underlying transport has failed.
func (a *AT) Closed() <-chan struct{} {
	return a.closed
}

// Command issues cmd to the modem and returns the result. cmd should NOT
// include the "AT" prefix or the <CR><LF> suffix - both are added
// automatically. The returned info is the set of lines the modem returned
// between the echoed command and its status line.
func (a *AT) Command(ctx context.Context, cmd string) ([]string, error) {
	done := make(chan response)
	select {
	case <-a.closed:
		return nil, ErrClosed
	case a.cmdCh <- func() {
		done <- a.processReq(ctx, request{cmd: cmd})
	}:
		rsp := <-done
		return rsp.info, rsp.err
	}
}

// SMSCommand issues a two-step command to the modem, such as +CMGS: the
// command line is sent first,
//
//	AT<cmd><CR>
//
// to which the modem replies with a ">" prompt, after which the payload is
// sent terminated with Ctrl-Z,
//
//	<sms><Ctrl-Z>
//
// The command then completes as any other, via Command. The payload may be
// a text message or a hex coded PDU depending on the modem's SMS mode.
func (a *AT) SMSCommand(ctx context.Context, cmd string, sms string) ([]string, error) {
	done := make(chan response)
	select {
	case <-a.closed:
		return nil, ErrClosed
	case a.cmdCh <- func() {
		done <- a.processReq(ctx, request{cmd: cmd, sms: &sms})
	}:
		rsp := <-done
		return rsp.info, rsp.err
	}
}

// SendBinary issues a command that is followed by a prompt-driven binary
// payload with no terminator, such as the modem filesystem's AT+QFWRITE.
// The payload is written to the modem verbatim once the ">" or "CONNECT"
// prompt is seen.
func (a *AT) SendBinary(ctx context.Context, cmd string, payload []byte) ([]string, error) {
	done := make(chan response)
	select {
	case <-a.closed:
		return nil, ErrClosed
	case a.cmdCh <- func() {
		done <- a.processReq(ctx, request{cmd: cmd, binary: payload})
	}:
		rsp := <-done
		return rsp.info, rsp.err
	}
}

// CommandBinaryResponse issues cmd expecting the modem to precede its
// reply with a "CONNECT <n>" announcement, such as the modem filesystem's
// AT+QFREAD, AT+QHTTPREAD or AT+QIRD. The n announced bytes are read with
// fixed-length framing rather than line framing, so the returned payload
// survives intact even if it contains CR/LF bytes.
func (a *AT) CommandBinaryResponse(ctx context.Context, cmd string) ([]string, []byte, error) {
	done := make(chan response)
	select {
	case <-a.closed:
		return nil, nil, ErrClosed
	case a.cmdCh <- func() {
		done <- a.processReq(ctx, request{cmd: cmd, wantBinaryRsp: true})
	}:
		rsp := <-done
		return rsp.info, rsp.binary, rsp.err
	}
}

// SetBinaryMode switches the engine into a fixed-length read of n bytes.
// It is only meaningful when called from within response processing,
// after a "CONNECT <n>" line has been classified - see CommandBinaryResponse.
func (a *AT) SetBinaryMode(n int) {
	a.mode.setBinary(n)
}

// SetNormalMode reverts the engine to CRLF line framing.
func (a *AT) SetNormalMode() {
	a.mode.setNormal()
}

// GetOperationMode reports the engine's current framing mode and, in
// ModeBinary, the number of bytes still expected.
func (a *AT) GetOperationMode() (OperationMode, int) {
	return a.mode.current()
}

// AddIndication registers a handler for URCs beginning with prefix. Each
// matching line, plus the given number of trailing lines, is delivered as a
// single slice on the returned channel. The channel is closed when the AT
// closes.
func (a *AT) AddIndication(prefix string, trailingLines int) (<-chan []string, error) {
	done := make(chan chan []string)
	errs := make(chan error)
	select {
	case <-a.closed:
		return nil, ErrClosed
	case a.indCh <- func() {
		if _, ok := a.inds[prefix]; ok {
			errs <- ErrIndicationExists
			return
		}
		i := indication{prefix, trailingLines + 1, make(chan []string)}
		a.inds[prefix] = i
		done <- i.c
	}:
		select {
		case evtCh := <-done:
			return evtCh, nil
		case err := <-errs:
			return nil, err
		}
	}
}

// CancelIndication removes the indication registered for prefix, if any,
// closing its channel.
func (a *AT) CancelIndication(prefix string) {
	done := make(chan struct{})
	select {
	case <-a.closed:
		return
	case a.indCh <- func() {
		i, ok := a.inds[prefix]
		if ok {
			close(i.c)
			delete(a.inds, prefix)
		}
		close(done)
	}:
		<-done
	}
}

// escape writes the ESC escape sequence used to abort an outstanding
// SMS/PDU prompt and resynchronise the command parser, then starts the
// write guard (WithWriteGuard, 20ms by default). It is
// used both by the lifecycle controller and when a context is cancelled
// mid-prompt.
func (a *AT) escape() {
	a.modem.Write([]byte(string(27) + "\r\n"))
	a.startWriteGuard()
}

// cmdLoop serialises the issuing of commands and awaits their responses. It
// terminates when the upstream line reader closes.
func cmdLoop(cmds chan func(), in <-chan string, out chan struct{}) {
	for {
		select {
		case cmd := <-cmds:
			cmd()
		case _, ok := <-in:
			if !ok {
				close(out)
				return
			}
		}
	}
}

// lineReader is the engine's single reader over the transport: it owns the
// only *bufio.Reader on the wire, so a switch into ModeBinary reads the
// announced byte count straight out of the same buffer that line framing
// uses, rather than racing a second reader for leftover bytes. mode is
// consulted before every read; a "CONNECT" line or a delivered binary
// payload both require command processing to resolve the mode via
// mode.awaitDecision before the next read is attempted.
func lineReader(m io.Reader, out chan string, mode *modeGate) {
	r := bufio.NewReaderSize(m, 4096)
	for {
		om, n := mode.current()
		var (
			line string
			err  error
		)
		if om == ModeBinary {
			buf := make([]byte, n)
			_, err = io.ReadFull(r, buf)
			line = string(buf)
		} else {
			line, err = readFrame(r)
		}
		if err != nil {
			close(out) // tells the pipeline we're done; the end of the pipeline closes the AT.
			return
		}
		out <- line
		if om == ModeBinary || strings.HasPrefix(line, "CONNECT") {
			mode.awaitDecision()
		}
	}
}

// nLoop pulls lines from the reader and forwards indication matches to their
// handlers, passing all other lines upstream to the command processor.
// Indication trailing lines are assumed to arrive in a contiguous block
// immediately after the prefix line.
func (a *AT) nLoop(cmds chan func(), in <-chan string, out chan string) {
	defer func() {
		for k, v := range a.inds {
			close(v.c)
			delete(a.inds, k)
		}
	}()
	for {
		select {
		case cmd := <-cmds:
			cmd()
		case line, ok := <-in:
			if !ok {
				close(out)
				return
			}
			matched := false
			for k, v := range a.inds {
				if strings.HasPrefix(line, k) {
					n := make([]string, v.totalLines)
					n[0] = line
					for i := 1; i < v.totalLines; i++ {
						t, ok := <-in
						if !ok {
							return
						}
						n[i] = t
					}
					v.c <- n
					matched = true
					break
				}
			}
			if !matched {
				out <- line
			}
		}
	}
}

func (a *AT) processReq(ctx context.Context, req request) response {
	a.waitWriteGuard()
	if err := a.writeCommand(req); err != nil {
		return response{err: err}
	}
	cmdID := parseCmdID(req.cmd)
	var rsp response
	pendingBinary := false
	for {
		select {
		case <-ctx.Done():
			if req.sms != nil || req.binary != nil {
				a.escape()
			}
			if pendingBinary {
				a.SetNormalMode()
			}
			rsp.err = ctx.Err()
			return rsp
		case line, ok := <-a.cLines:
			if !ok {
				if pendingBinary {
					a.SetNormalMode()
				}
				return response{err: ErrClosed}
			}
			if pendingBinary {
				// This "line" is actually the fixed-length payload
				// delivered whole by lineReader - classify it as data,
				// not as a status line, and keep reading for the OK/ERROR
				// that follows it.
				pendingBinary = false
				rsp.binary = []byte(line)
				a.SetNormalMode()
				continue
			}
			if line == "" {
				continue
			}
			info, done, binRequested, err := a.processRxLine(line, cmdID, &req)
			if info != nil {
				rsp.info = append(rsp.info, *info)
			}
			if binRequested {
				pendingBinary = true
				continue
			}
			if err != nil {
				rsp.err = err
				return rsp
			}
			if done {
				return rsp
			}
		}
	}
}

// processRxLine determines how a line received from the modem contributes
// to the response of the in-flight command. The third return value, when
// true, indicates the engine has just switched into ModeBinary and the
// caller's next cLines read is a fixed-length payload rather than a line.
func (a *AT) processRxLine(line, cmdID string, req *request) (*string, bool, bool, error) {
	switch parseRxLine(line, cmdID) {
	case rxlStatusOK:
		return nil, true, false, nil
	case rxlStatusError:
		return nil, false, false, newError(line)
	case rxlUnknown:
		if req.sms != nil && len(line) > 0 && line[len(line)-1] == 26 && strings.HasPrefix(line, *req.sms) {
			// swallow the echoed SMS PDU
			return nil, false, false, nil
		}
		fallthrough
	case rxlInfo:
		return &line, false, false, nil
	case rxlConnect:
		// lineReader is blocked in mode.awaitDecision after delivering this
		// line - exactly one of SetBinaryMode/SetNormalMode must be called
		// on every path through this case to release it.
		if req.wantBinaryRsp {
			n, ok := parseConnectLen(line)
			if !ok {
				a.SetNormalMode()
				return nil, false, false, ErrMalformedConnect
			}
			a.SetBinaryMode(n)
			return nil, false, true, nil
		}
		if req.sms != nil {
			if err := a.writeSMS(*req.sms); err != nil {
				a.escape()
				a.SetNormalMode()
				return nil, false, false, err
			}
		} else if req.binary != nil {
			if err := a.writePayload(req.binary); err != nil {
				a.escape()
				a.SetNormalMode()
				return nil, false, false, err
			}
		}
		a.SetNormalMode()
	case rxlSMSPrompt:
		// The ">" prompt is not gated by mode. It releases the pending SMS
		// text/PDU entry or, for SendBinary, the raw payload, the same way
		// a bare CONNECT does (see rxlConnect).
		if req.sms != nil {
			if err := a.writeSMS(*req.sms); err != nil {
				a.escape()
				return nil, false, false, err
			}
		} else if req.binary != nil {
			if err := a.writePayload(req.binary); err != nil {
				a.escape()
				return nil, false, false, err
			}
		}
	}
	return nil, false, false, nil
}

// startWriteGuard starts a write guard that delays a subsequent write to
// the modem for the configured guard period, giving the UART buffer time to
// settle after an escape or reset.
func (a *AT) startWriteGuard() {
	a.wgmu.Lock()
	a.guarded = true
	a.wGuard = time.After(a.wGuardD)
	a.wgmu.Unlock()
}

// waitWriteGuard blocks until any active write guard has elapsed.
func (a *AT) waitWriteGuard() {
	a.wgmu.Lock()
	defer a.wgmu.Unlock()
	if a.guarded {
		for {
			select {
			case _, ok := <-a.cLines:
				if !ok {
					return
				}
			case <-a.wGuard:
				a.guarded = false
				a.wGuard = nil
				return
			}
		}
	}
}

// writeCommand writes the command line to the modem.
func (a *AT) writeCommand(req request) error {
	cmdLine := "AT" + req.cmd + "\r\n"
	if req.sms != nil || req.binary != nil {
		cmdLine = cmdLine[:len(cmdLine)-1]
	}
	_, err := a.modem.Write([]byte(cmdLine))
	return err
}

// writeSMS writes the payload of a two step SMS command, terminated with
// Ctrl-Z.
func (a *AT) writeSMS(sms string) error {
	_, err := a.modem.Write([]byte(sms + string(26)))
	return err
}

// writePayload writes a raw binary payload with no terminator, as used by
// the modem filesystem's write command.
func (a *AT) writePayload(b []byte) error {
	_, err := a.modem.Write(b)
	return err
}

// request represents an operation to perform on the modem.
type request struct {
	cmd           string
	sms           *string
	binary        []byte
	wantBinaryRsp bool
}

// response represents the outcome of a request. info is the set of lines
// returned between the command and its status line; binary is the
// fixed-length payload read after a "CONNECT <n>" announcement, populated
// only when the request set wantBinaryRsp.
type response struct {
	info   []string
	binary []byte
	err    error
}

// indication represents a registered URC handler: lines prefixed with
// prefix, plus any trailing lines, are bundled and sent to c.
type indication struct {
	prefix     string
	totalLines int
	c          chan []string
}

// wrapf is a small helper used by the lifecycle controller (lifecycle.go)
// to attach context to an AT error while returning context.Canceled and
// context.DeadlineExceeded unwrapped.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return err
	}
	return errors.WithMessage(err, fmt.Sprintf(format, args...))
}
