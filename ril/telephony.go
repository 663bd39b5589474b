package ril

import (
	"context"
	"fmt"
	"strings"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
)

// CallState is the outcome of a telephony operation.
type CallState int

const (
	CallError CallState = -1
	CallOK    CallState = 0
)

// Dial places a voice call to number (ATD).
func (d *Device) Dial(ctx context.Context, number string) error {
	_, err := d.Command(ctx, fmt.Sprintf("D%s;", number))
	return err
}

// Answer answers an incoming call (ATA).
func (d *Device) Answer(ctx context.Context) error {
	_, err := d.Command(ctx, "A")
	return err
}

// Hangup terminates the current call (AT+CHUP).
func (d *Device) Hangup(ctx context.Context) error {
	_, err := d.Command(ctx, "+CHUP")
	return err
}

// IncomingCalls subscribes to +CRING indications reporting inbound call
// type, activating ring reporting if not already active.
func (d *Device) IncomingCalls(ctx context.Context) (<-chan string, error) {
	if err := d.disp.Activate(ctx, at.URCCRing); err != nil {
		return nil, err
	}
	raw, err := d.disp.Subscribe(at.URCCRing, 0)
	if err != nil {
		return nil, err
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for lines := range raw {
			for _, l := range lines {
				if info.HasPrefix(l, "+CRING") {
					out <- strings.TrimSpace(info.TrimPrefix(l, "+CRING"))
				}
			}
		}
	}()
	return out, nil
}
