package ril

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ril-go/ril/info"
)

// Clock reads and writes the modem's real time clock (AT+CCLK).
type Clock struct{ d *Device }

// Clock returns the date/time adapter for this device.
func (d *Device) Clock() Clock {
	return Clock{d: d}
}

// clockLayout matches the "yy/MM/dd,hh:mm:ss+zz" format of AT+CCLK, where
// zz is the timezone offset in quarter hours.
const clockLayout = "06/01/02,15:04:05"

// Now reads the modem's current date and time (AT+CCLK?).
func (c Clock) Now(ctx context.Context) (time.Time, error) {
	lines, err := c.d.Command(ctx, "+CCLK?")
	if err != nil {
		return time.Time{}, err
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+CCLK") {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(info.TrimPrefix(l, "+CCLK")), `"`)
		return parseCCLK(raw)
	}
	return time.Time{}, ErrMalformedResponse
}

// Set writes the modem's date and time (AT+CCLK).
func (c Clock) Set(ctx context.Context, t time.Time) error {
	quarters := quarterHourOffset(t)
	cmd := fmt.Sprintf(`+CCLK="%s%+03d"`, t.Format(clockLayout), quarters)
	_, err := c.d.Command(ctx, cmd)
	return err
}

func quarterHourOffset(t time.Time) int {
	_, offsetSec := t.Zone()
	return offsetSec / (15 * 60)
}

func parseCCLK(raw string) (time.Time, error) {
	if len(raw) < len(clockLayout)+3 {
		return time.Time{}, ErrMalformedResponse
	}
	body := raw[:len(clockLayout)]
	sign := raw[len(clockLayout) : len(clockLayout)+1]
	quarters, err := parseQuarters(raw[len(clockLayout)+1:])
	if err != nil {
		return time.Time{}, ErrMalformedResponse
	}
	if sign == "-" {
		quarters = -quarters
	}
	loc := time.FixedZone("", quarters*15*60)
	t, err := time.ParseInLocation(clockLayout, body, loc)
	if err != nil {
		return time.Time{}, ErrMalformedResponse
	}
	return t, nil
}

func parseQuarters(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
