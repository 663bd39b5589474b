package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
)

// RegistrationStatus is the parsed response of a +CREG/+CGREG/+CEREG
// query or URC.
type RegistrationStatus struct {
	State RegState
	Tech  AccessTech
}

// NetworkAuthType selects the PDP context authentication method.
type NetworkAuthType int

const (
	NetworkAuthNone NetworkAuthType = 0
	NetworkAuthPAP  NetworkAuthType = 1
	NetworkAuthCHAP NetworkAuthType = 2
)

// PDPContext describes an APN configuration for AT+QICSGP.
type PDPContext struct {
	ContextID int
	APN       string
	Username  string
	Password  string
	Auth      NetworkAuthType
}

// ConfigurePDPContext programs a PDP context's APN and credentials
// (AT+QICSGP).
func (d *Device) ConfigurePDPContext(ctx context.Context, p PDPContext) error {
	cmd := fmt.Sprintf(`+QICSGP=%d,1,"%s","%s","%s",%d`,
		p.ContextID, p.APN, p.Username, p.Password, p.Auth)
	_, err := d.Command(ctx, cmd)
	return wrapNetworkErr(err)
}

// ActivatePDPContext brings up the data connection for contextID
// (AT+QIACT).
func (d *Device) ActivatePDPContext(ctx context.Context, contextID int) error {
	_, err := d.Command(ctx, fmt.Sprintf("+QIACT=%d", contextID))
	return wrapNetworkErr(err)
}

// DeactivatePDPContext tears down the data connection for contextID
// (AT+QIDEACT).
func (d *Device) DeactivatePDPContext(ctx context.Context, contextID int) error {
	_, err := d.Command(ctx, fmt.Sprintf("+QIDEACT=%d", contextID))
	return wrapNetworkErr(err)
}

// RegistrationStatus queries circuit switched registration state
// (AT+CREG?).
func (d *Device) RegistrationStatus(ctx context.Context) (RegistrationStatus, error) {
	lines, err := d.Command(ctx, "+CREG?")
	if err != nil {
		return RegistrationStatus{}, wrapNetworkErr(err)
	}
	return parseRegStatus(lines, "+CREG")
}

// PacketRegistrationStatus queries packet switched registration state
// (AT+CGREG?).
func (d *Device) PacketRegistrationStatus(ctx context.Context) (RegistrationStatus, error) {
	lines, err := d.Command(ctx, "+CGREG?")
	if err != nil {
		return RegistrationStatus{}, wrapNetworkErr(err)
	}
	return parseRegStatus(lines, "+CGREG")
}

// parseRegStatus handles both the query form ("+CREG: <n>,<stat>[,...]")
// and the unsolicited URC form ("+CREG: <stat>"), distinguished by field
// count: a query always reports the <n> mode alongside <stat>.
func parseRegStatus(lines []string, prefix string) (RegistrationStatus, error) {
	for _, l := range lines {
		if !info.HasPrefix(l, prefix) {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, prefix), ",")
		if len(fields) == 0 {
			return RegistrationStatus{}, ErrMalformedResponse
		}
		statIdx := 0
		if len(fields) > 1 {
			statIdx = 1
		}
		s, err := strconv.Atoi(strings.TrimSpace(fields[statIdx]))
		if err != nil {
			return RegistrationStatus{}, ErrMalformedResponse
		}
		rs := RegistrationStatus{State: RegState(s)}
		if len(fields) > statIdx+3 {
			if tech, err := strconv.Atoi(strings.TrimSpace(fields[statIdx+3])); err == nil {
				rs.Tech = AccessTech(tech)
			}
		}
		return rs, nil
	}
	return RegistrationStatus{}, ErrMalformedResponse
}

// RegistrationEvents subscribes to +CREG URC notifications, activating
// unsolicited registration reporting if not already active.
func (d *Device) RegistrationEvents(ctx context.Context) (<-chan RegistrationStatus, error) {
	if err := d.disp.Activate(ctx, at.URCCREG); err != nil {
		return nil, err
	}
	raw, err := d.disp.Subscribe(at.URCCREG, 0)
	if err != nil {
		return nil, err
	}
	out := make(chan RegistrationStatus)
	go func() {
		defer close(out)
		for lines := range raw {
			rs, err := parseRegStatus(lines, "+CREG")
			if err == nil {
				out <- rs
			}
		}
	}()
	return out, nil
}

// SignalQuality is the parsed result of a signal quality query. RSSI/BER
// come from the basic AT+CSQ form available on every access technology;
// SysMode/RSRP/RSRQ/SINR are populated only by SignalQualityExtended's
// AT+QCSQ form, which breaks the report down by the technology currently
// camped on.
type SignalQuality struct {
	RSSI int // 0..31 a linear scale, 99 unknown
	BER  int // 0..7 a 3GPP TS 45.008 bit error rate, 99 unknown

	SysMode string // "NOSERVICE", "GSM", "WCDMA", "LTE", "CAT-M", "CAT-NB"
	RSRP    int
	RSRQ    int
	SINR    int
}

// SignalQuality reports RSSI and BER with AT+CSQ.
func (d *Device) SignalQuality(ctx context.Context) (SignalQuality, error) {
	lines, err := d.Command(ctx, "+CSQ")
	if err != nil {
		return SignalQuality{}, wrapNetworkErr(err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+CSQ") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+CSQ"), ",")
		if len(fields) != 2 {
			return SignalQuality{}, ErrMalformedResponse
		}
		rssi, err1 := strconv.Atoi(strings.TrimSpace(fields[0]))
		ber, err2 := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err1 != nil || err2 != nil {
			return SignalQuality{}, ErrMalformedResponse
		}
		return SignalQuality{RSSI: rssi, BER: ber}, nil
	}
	return SignalQuality{}, ErrMalformedResponse
}

// SignalQualityExtended reports the access-technology-specific signal
// metrics with AT+QCSQ: RSRP/RSRQ/SINR under LTE and its variants, RSSI
// alone under GSM.
func (d *Device) SignalQualityExtended(ctx context.Context) (SignalQuality, error) {
	lines, err := d.Command(ctx, "+QCSQ")
	if err != nil {
		return SignalQuality{}, wrapNetworkErr(err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+QCSQ") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+QCSQ"), ",")
		if len(fields) == 0 {
			return SignalQuality{}, ErrMalformedResponse
		}
		sq := SignalQuality{SysMode: strings.Trim(strings.TrimSpace(fields[0]), `"`)}
		if len(fields) > 1 {
			sq.RSSI, _ = strconv.Atoi(strings.TrimSpace(fields[1]))
		}
		if len(fields) > 2 {
			sq.RSRP, _ = strconv.Atoi(strings.TrimSpace(fields[2]))
		}
		if len(fields) > 3 {
			sq.RSRQ, _ = strconv.Atoi(strings.TrimSpace(fields[3]))
		}
		if len(fields) > 4 {
			sq.SINR, _ = strconv.Atoi(strings.TrimSpace(fields[4]))
		}
		return sq, nil
	}
	return SignalQuality{}, ErrMalformedResponse
}

func wrapNetworkErr(err error) error {
	if err == nil {
		return nil
	}
	if code, ok := cmeCode(err); ok {
		return NetworkError(code)
	}
	return err
}
