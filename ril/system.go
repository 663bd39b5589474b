package ril

import (
	"context"
	"strconv"
	"strings"

	"github.com/ril-go/ril/info"
)

// PowerOffMode selects how Device.PowerOff shuts down the modem.
type PowerOffMode int

const (
	PowerOffNormal    PowerOffMode = 0
	PowerOffImmediate PowerOffMode = 1
)

// IMEI queries the device's IMEI (AT+CGSN).
func (d *Device) IMEI(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+CGSN")
	if err != nil {
		return "", err
	}
	return firstNonEmpty(lines)
}

// FirmwareVersion queries the modem firmware revision (AT+CGMR).
func (d *Device) FirmwareVersion(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+CGMR")
	if err != nil {
		return "", err
	}
	return firstNonEmpty(lines)
}

// Manufacturer queries the modem manufacturer identification (AT+CGMI).
func (d *Device) Manufacturer(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+CGMI")
	if err != nil {
		return "", err
	}
	return firstNonEmpty(lines)
}

// Model queries the modem model identification (AT+CGMM).
func (d *Device) Model(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+CGMM")
	if err != nil {
		return "", err
	}
	return firstNonEmpty(lines)
}

// SerialNumber queries the modem's serial number (AT+QSN).
func (d *Device) SerialNumber(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+QSN")
	if err != nil {
		return "", err
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QSN") {
			return strings.TrimSpace(info.TrimPrefix(l, "+QSN")), nil
		}
	}
	return firstNonEmpty(lines)
}

// CCID reads the SIM's ICCID (AT+QCCID).
func (d *Device) CCID(ctx context.Context) (string, error) {
	lines, err := d.Command(ctx, "+QCCID")
	if err != nil {
		return "", err
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QCCID") {
			return strings.TrimSpace(info.TrimPrefix(l, "+QCCID")), nil
		}
	}
	return firstNonEmpty(lines)
}

// PowerOff shuts the modem down (AT+QPOWD).
func (d *Device) PowerOff(ctx context.Context, mode PowerOffMode) error {
	_, err := d.Command(ctx, "+QPOWD="+strconv.Itoa(int(mode)))
	return err
}

func firstNonEmpty(lines []string) (string, error) {
	for _, l := range lines {
		if s := strings.TrimSpace(l); s != "" {
			return s, nil
		}
	}
	return "", ErrMalformedResponse
}
