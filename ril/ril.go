// Package ril provides one thin adapter per AT command family supported by
// Quectel EC200/EG915U modems: SMS, the modem filesystem, HTTP, MQTT,
// cellular network management, raw sockets, telephony, system info, SIM,
// and date/time. Each adapter is a set of methods on Device that format one
// AT command and parse its response; none of them interpret the payload of
// an HTTP/MQTT/socket exchange - the modem does that.
package ril

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
	"github.com/ril-go/ril/pdu"
)

// Device decorates an at.AT with the higher level command families of a
// Quectel modem. It is the adapter layer's entry point, analogous to the
// GSM decorator this driver replaces but generalised from a single SMS
// decorator into one struct exposing every supported command family as a
// set of methods.
type Device struct {
	*at.AT
	disp    *at.Dispatcher
	log     *zap.Logger
	sca     *pdu.PhoneNumber
	pduMode bool
}

// Option configures a Device created by New.
type Option func(*Device)

// WithLogger attaches a structured logger to the Device and passes it
// through to the underlying at.AT. The adapters themselves emit no log
// events.
func WithLogger(l *zap.Logger) Option {
	return func(d *Device) {
		d.log = l
	}
}

// WithSCA overrides the SMSC address used when sending PDU-mode SMS,
// rather than relying on the one stored on the SIM.
func WithSCA(sca pdu.PhoneNumber) Option {
	return func(d *Device) {
		d.sca = &sca
	}
}

// WithPDUMode selects PDU mode for SMS transmission and reception. It must
// be set before Open.
func WithPDUMode() Option {
	return func(d *Device) {
		d.pduMode = true
	}
}

// New creates a Device over the given transport.
func New(modem io.ReadWriter, opts ...Option) *Device {
	d := &Device{log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	d.AT = at.New(modem, at.WithLogger(d.log))
	d.disp = at.NewDispatcher(d.AT)
	return d
}

// Open brings the modem up (at.AT.Open) and then verifies it supports the
// GSM command set and configures SMS mode, mirroring the capability check
// the GSM decorator this driver replaces performed via +GCAP.
func (d *Device) Open(ctx context.Context, cfg at.LifecycleConfig) error {
	if err := d.AT.Open(ctx, cfg); err != nil {
		return err
	}
	lines, err := d.Command(ctx, "+GCAP")
	if err != nil {
		return errors.WithMessage(err, "query modem capabilities")
	}
	capable := false
	for _, l := range lines {
		if info.HasPrefix(l, "+GCAP") {
			for _, c := range strings.Split(info.TrimPrefix(l, "+GCAP"), ",") {
				if strings.TrimSpace(c) == "+CGSM" {
					capable = true
				}
			}
		}
	}
	if !capable {
		return ErrNotGSMCapable
	}
	smsMode := "+CMGF=1"
	if d.pduMode {
		smsMode = "+CMGF=0"
	}
	if _, err := d.Command(ctx, smsMode); err != nil {
		return errors.WithMessage(err, "select SMS mode")
	}
	return nil
}

// Dispatcher exposes the URC subscription registry for callers that need
// direct access to a family's events beyond what an adapter method
// surfaces.
func (d *Device) Dispatcher() *at.Dispatcher {
	return d.disp
}

var (
	// ErrNotGSMCapable indicates the modem's +GCAP response did not
	// advertise +CGSM support.
	ErrNotGSMCapable = errors.New("modem is not GSM capable")
	// ErrMalformedResponse indicates the modem returned a response this
	// adapter could not parse.
	ErrMalformedResponse = errors.New("modem returned malformed response")
	// ErrWrongMode indicates an operation was attempted in the wrong SMS
	// mode (text vs PDU).
	ErrWrongMode = errors.New("modem is in the wrong mode")
)

// cmeCode extracts the numeric code from a +CME ERROR, if err is one.
func cmeCode(err error) (int, bool) {
	cme, ok := errors.Cause(err).(at.CMEError)
	if !ok {
		return 0, false
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(string(cme)))
	if convErr != nil {
		return 0, false
	}
	return n, true
}
