package ril

import (
	"context"
	"strings"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
)

// SIMState is the result of a +CPIN? query, the Enum_SIMState of the
// system this driver replaces.
type SIMState int

const (
	SIMNotInserted SIMState = iota
	SIMReady
	SIMPINRequired
	SIMPUKRequired
	SIMPHPINRequired
	SIMPHPUKRequired
	SIMPIN2Required
	SIMPUK2Required
	SIMBusy
	SIMNotReady
	SIMUnspecified
)

var simStateText = map[string]SIMState{
	"READY":     SIMReady,
	"SIM PIN":   SIMPINRequired,
	"SIM PUK":   SIMPUKRequired,
	"PH-SIM PIN": SIMPHPINRequired,
	"PH-SIM PUK": SIMPHPUKRequired,
	"SIM PIN2":  SIMPIN2Required,
	"SIM PUK2":  SIMPUK2Required,
}

// SIMStatus queries the SIM's readiness (AT+CPIN?).
func (d *Device) SIMStatus(ctx context.Context) (SIMState, error) {
	lines, err := d.Command(ctx, "+CPIN?")
	if err != nil {
		if code, ok := cmeCode(err); ok && code == 10 {
			return SIMNotInserted, nil
		}
		return SIMUnspecified, err
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+CPIN") {
			state, ok := simStateText[strings.TrimSpace(info.TrimPrefix(l, "+CPIN"))]
			if !ok {
				return SIMUnspecified, nil
			}
			return state, nil
		}
	}
	return SIMUnspecified, ErrMalformedResponse
}

// EnterPIN unlocks the SIM with its PIN (AT+CPIN=<pin>).
func (d *Device) EnterPIN(ctx context.Context, pin string) error {
	_, err := d.Command(ctx, `+CPIN="`+pin+`"`)
	return err
}

// SIMStateEvents subscribes to unsolicited +CPIN state changes.
func (d *Device) SIMStateEvents(ctx context.Context) (<-chan SIMState, error) {
	raw, err := d.disp.Subscribe(at.URCCPIN, 0)
	if err != nil {
		return nil, err
	}
	out := make(chan SIMState)
	go func() {
		defer close(out)
		for lines := range raw {
			for _, l := range lines {
				if !info.HasPrefix(l, "+CPIN") {
					continue
				}
				if state, ok := simStateText[strings.TrimSpace(info.TrimPrefix(l, "+CPIN"))]; ok {
					out <- state
				}
			}
		}
	}()
	return out, nil
}
