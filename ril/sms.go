package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
	"github.com/ril-go/ril/pdu"
)

// SendSMS sends a text mode SMS and returns the message reference on
// success.
func (d *Device) SendSMS(ctx context.Context, number, message string) (string, error) {
	if d.pduMode {
		return "", ErrWrongMode
	}
	lines, err := d.SMSCommand(ctx, fmt.Sprintf(`+CMGS="%s"`, number), message)
	if err != nil {
		return "", err
	}
	return parseCMGS(lines)
}

// SendSMSPDU sends a pre-encoded submit TPDU and returns the message
// reference on success.
func (d *Device) SendSMSPDU(ctx context.Context, p pdu.EncodedPDU) (string, error) {
	if !d.pduMode {
		return "", ErrWrongMode
	}
	lines, err := d.SMSCommand(ctx, fmt.Sprintf("+CMGS=%d", p.TPDULen), p.HexTPDU)
	if err != nil {
		return "", err
	}
	return parseCMGS(lines)
}

// SendText encodes message as one or more submit PDUs using the configured
// SCA and sends each of them in turn, returning the message reference of
// the final segment. In text mode it sends message with SendSMS instead.
func (d *Device) SendText(ctx context.Context, to pdu.PhoneNumber, message string) (string, error) {
	if !d.pduMode {
		return d.SendSMS(ctx, to.Number, message)
	}
	sp := pdu.SubmitParams{To: to, Text: message}
	if d.sca != nil {
		sp.SCA = d.sca
	}
	pdus, err := pdu.EncodeSubmit(sp)
	if err != nil {
		return "", err
	}
	var mr string
	for _, p := range pdus {
		mr, err = d.SendSMSPDU(ctx, p)
		if err != nil {
			return "", err
		}
	}
	return mr, nil
}

func parseCMGS(lines []string) (string, error) {
	for _, l := range lines {
		if info.HasPrefix(l, "+CMGS") {
			return strings.TrimSpace(info.TrimPrefix(l, "+CMGS")), nil
		}
	}
	return "", ErrMalformedResponse
}

// ReadSMS reads the message stored at index (AT+CMGR). The message is left
// in storage; DeleteSMS removes it.
func (d *Device) ReadSMS(ctx context.Context, index int) (pdu.DeliverParams, error) {
	lines, err := d.Command(ctx, fmt.Sprintf("+CMGR=%d", index))
	if err != nil {
		return pdu.DeliverParams{}, err
	}
	return parseCMGR(lines, d.pduMode)
}

func parseCMGR(lines []string, pduMode bool) (pdu.DeliverParams, error) {
	for i, l := range lines {
		if !info.HasPrefix(l, "+CMGR") {
			continue
		}
		if i+1 >= len(lines) {
			return pdu.DeliverParams{}, ErrMalformedResponse
		}
		if pduMode {
			tp, err := pdu.DecodeDeliver(strings.TrimSpace(lines[i+1]))
			if err != nil {
				return pdu.DeliverParams{}, err
			}
			return pdu.DecodeSingle(tp)
		}
		return parseCMGRText(info.TrimPrefix(l, "+CMGR"), lines[i+1])
	}
	return pdu.DeliverParams{}, ErrMalformedResponse
}

// parseCMGRText handles the +CMGR text mode header, e.g.
// "REC UNREAD","+123456789",,"23/07/31,10:00:00+32"
func parseCMGRText(header string, text string) (pdu.DeliverParams, error) {
	fields := strings.Split(header, ",")
	if len(fields) < 2 {
		return pdu.DeliverParams{}, ErrMalformedResponse
	}
	number := strings.Trim(strings.TrimSpace(fields[1]), `"`)
	return pdu.DeliverParams{
		From: pdu.PhoneNumber{Number: number, International: strings.HasPrefix(number, "+")},
		Text: text,
	}, nil
}

// DeleteSMS removes the message stored at index.
func (d *Device) DeleteSMS(ctx context.Context, index int) error {
	_, err := d.Command(ctx, fmt.Sprintf("+CMGD=%d", index))
	return err
}

// IncomingSMS subscribes to new message indications (+CMTI) and returns a
// channel of storage indices as they are delivered. Indices must be read
// with ReadSMS and removed with DeleteSMS by the caller.
func (d *Device) IncomingSMS(ctx context.Context) (<-chan int, error) {
	if err := d.disp.Activate(ctx, at.URCCMTI); err != nil {
		return nil, err
	}
	raw, err := d.disp.Subscribe(at.URCCMTI, 0)
	if err != nil {
		return nil, err
	}
	out := make(chan int)
	go func() {
		defer close(out)
		for lines := range raw {
			for _, l := range lines {
				if !info.HasPrefix(l, "+CMTI") {
					continue
				}
				fields := strings.Split(info.TrimPrefix(l, "+CMTI"), ",")
				if len(fields) != 2 {
					continue
				}
				idx, err := strconv.Atoi(strings.TrimSpace(fields[1]))
				if err != nil {
					continue
				}
				out <- idx
			}
		}
	}()
	return out, nil
}
