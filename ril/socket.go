package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/info"
)

// SocketType selects the transport protocol for QIOPEN.
type SocketType int

const (
	SocketTCP         SocketType = 0
	SocketUDP         SocketType = 1
	SocketTCPListener SocketType = 2
	SocketUDPService  SocketType = 3
)

// SocketAccessMode selects how received data is surfaced: buffered and
// retrieved on demand, direct-push, or transparent passthrough.
type SocketAccessMode int

const (
	SocketAccessBuffer      SocketAccessMode = 0
	SocketAccessDirect      SocketAccessMode = 1
	SocketAccessTransparent SocketAccessMode = 2
)

// SocketErr is a socket-open result code (distinct from the 55x network
// error table, which covers failures on an already-open socket).
type SocketErr int

const (
	SocketErrSuccess SocketErr = 0
	SocketErrGeneral SocketErr = -1
	SocketErrTimeout SocketErr = -2
	SocketErrAT      SocketErr = -3
	SocketErrParam   SocketErr = -4
)

func (e SocketErr) Error() string {
	switch e {
	case SocketErrGeneral:
		return "socket error"
	case SocketErrTimeout:
		return "socket timeout"
	case SocketErrAT:
		return "socket AT command error"
	case SocketErrParam:
		return "socket parameter error"
	default:
		return "unrecognised socket error"
	}
}

// SocketOpen opens a connection of the given type to host:port on
// connectID, using AT+QIOPEN.
func (d *Device) SocketOpen(ctx context.Context, contextID, connectID int, typ SocketType, host string, port, localPort int, mode SocketAccessMode) error {
	proto := "TCP"
	if typ == SocketUDP || typ == SocketUDPService {
		proto = "UDP"
	}
	cmd := fmt.Sprintf(`+QIOPEN=%d,%d,"%s","%s",%d,%d,%d`,
		contextID, connectID, proto, host, port, localPort, mode)
	lines, err := d.Command(ctx, cmd)
	if err != nil {
		return wrapNetworkErr(err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+QIOPEN") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+QIOPEN"), ",")
		if len(fields) != 2 {
			return ErrMalformedResponse
		}
		if n, err := strconv.Atoi(strings.TrimSpace(fields[1])); err == nil && n != 0 {
			return SocketErr(n)
		}
		return nil
	}
	return nil
}

// SocketSend writes data to connectID using the prompt-driven framing of
// AT+QISEND.
func (d *Device) SocketSend(ctx context.Context, connectID int, data []byte) error {
	_, err := d.SendBinary(ctx, fmt.Sprintf("+QISEND=%d,%d", connectID, len(data)), data)
	return wrapNetworkErr(err)
}

// SocketReceive reads up to maxLen buffered bytes from connectID
// (AT+QIRD). The modem announces the actual byte count with
// "CONNECT <n>" ahead of the data, which is read back with fixed-length
// framing so a payload byte that happens to be CR or LF is not lost.
func (d *Device) SocketReceive(ctx context.Context, connectID, maxLen int) ([]byte, error) {
	_, data, err := d.CommandBinaryResponse(ctx, fmt.Sprintf("+QIRD=%d,%d", connectID, maxLen))
	if err != nil {
		return nil, wrapNetworkErr(err)
	}
	return data, nil
}

// SocketClose closes connectID (AT+QICLOSE).
func (d *Device) SocketClose(ctx context.Context, connectID int) error {
	_, err := d.Command(ctx, fmt.Sprintf("+QICLOSE=%d", connectID))
	return wrapNetworkErr(err)
}
