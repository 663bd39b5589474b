package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/at"
	"github.com/ril-go/ril/info"
)

// MQTTMessage is a message delivered via a subscribed topic.
type MQTTMessage struct {
	Topic   string
	Payload string
}

// MQTTOpen opens a TCP/TLS connection to host:port on the given client
// index (AT+QMTOPEN).
func (d *Device) MQTTOpen(ctx context.Context, clientIdx int, host string, port int) error {
	lines, err := d.Command(ctx, fmt.Sprintf(`+QMTOPEN=%d,"%s",%d`, clientIdx, host, port))
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTOPEN")
}

// MQTTConnect sends the MQTT CONNECT packet for an opened client
// (AT+QMTCONN).
func (d *Device) MQTTConnect(ctx context.Context, clientIdx int, clientID, username, password string) error {
	cmd := fmt.Sprintf(`+QMTCONN=%d,"%s"`, clientIdx, clientID)
	if username != "" {
		cmd += fmt.Sprintf(`,"%s","%s"`, username, password)
	}
	lines, err := d.Command(ctx, cmd)
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTCONN")
}

// MQTTSubscribe subscribes to a topic at the given QoS (AT+QMTSUB) and
// activates delivery of subsequent +QMTRECV URCs for this client.
func (d *Device) MQTTSubscribe(ctx context.Context, clientIdx, msgID int, topic string, qos QoS) error {
	lines, err := d.Command(ctx, fmt.Sprintf(`+QMTSUB=%d,%d,"%s",%d`, clientIdx, msgID, topic, qos))
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTSUB")
}

// MQTTPublish publishes payload to topic (AT+QMTPUB), a two step command
// using the same prompt-driven framing as the modem filesystem.
func (d *Device) MQTTPublish(ctx context.Context, clientIdx, msgID int, qos QoS, retain bool, topic, payload string) error {
	r := 0
	if retain {
		r = 1
	}
	cmd := fmt.Sprintf(`+QMTPUB=%d,%d,%d,%d,"%s"`, clientIdx, msgID, qos, r, topic)
	lines, err := d.SendBinary(ctx, cmd, []byte(payload))
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTPUB")
}

// MQTTDisconnect sends the MQTT DISCONNECT packet (AT+QMTDISC).
func (d *Device) MQTTDisconnect(ctx context.Context, clientIdx int) error {
	lines, err := d.Command(ctx, fmt.Sprintf("+QMTDISC=%d", clientIdx))
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTDISC")
}

// MQTTClose closes the underlying TCP/TLS connection (AT+QMTCLOSE).
func (d *Device) MQTTClose(ctx context.Context, clientIdx int) error {
	lines, err := d.Command(ctx, fmt.Sprintf("+QMTCLOSE=%d", clientIdx))
	if err != nil {
		return wrapMQTTErr(err)
	}
	return parseMQTTResult(lines, "+QMTCLOSE")
}

// MQTTMessages subscribes to incoming +QMTRECV indications across all
// clients, delivering each as an MQTTMessage.
func (d *Device) MQTTMessages(ctx context.Context) (<-chan MQTTMessage, error) {
	raw, err := d.disp.Subscribe(at.URCQMTRecv, 0)
	if err != nil {
		return nil, err
	}
	out := make(chan MQTTMessage)
	go func() {
		defer close(out)
		for lines := range raw {
			for _, l := range lines {
				if !info.HasPrefix(l, "+QMTRECV") {
					continue
				}
				fields := strings.SplitN(info.TrimPrefix(l, "+QMTRECV"), ",", 3)
				if len(fields) < 3 {
					continue
				}
				out <- MQTTMessage{
					Topic:   strings.Trim(strings.TrimSpace(fields[1]), `"`),
					Payload: strings.Trim(strings.TrimSpace(fields[2]), `"`),
				}
			}
		}
	}()
	return out, nil
}

// parseMQTTResult inspects the first "<prefix>: ...,<result>[,<code>]"
// line and maps a non-zero result onto an MQTTError. The result follows
// the client index, and for +QMTPUB/+QMTSUB also the message id.
func parseMQTTResult(lines []string, prefix string) error {
	for _, l := range lines {
		if !info.HasPrefix(l, prefix) {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, prefix), ",")
		idx := 1
		if prefix == "+QMTPUB" || prefix == "+QMTSUB" {
			idx = 2
		}
		if len(fields) <= idx {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(fields[idx]))
		if err != nil || n == 0 {
			return nil
		}
		return MQTTError(n)
	}
	return nil
}

func wrapMQTTErr(err error) error {
	if err == nil {
		return nil
	}
	if code, ok := cmeCode(err); ok {
		return MQTTError(code)
	}
	return err
}
