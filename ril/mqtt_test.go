package ril_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
)

func TestMQTTOpenConnect(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QMTOPEN=0,"broker.example.com",1883` + "\r\n": {"OK\r\n", "+QMTOPEN: 0,0\r\n"},
		`AT+QMTCONN=0,"client-1"` + "\r\n":                 {"OK\r\n", "+QMTCONN: 0,0,0\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()
	ctx := context.Background()

	require.NoError(t, d.MQTTOpen(ctx, 0, "broker.example.com", 1883))
	require.NoError(t, d.MQTTConnect(ctx, 0, "client-1", "", ""))
}

func TestMQTTPublishFailure(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QMTPUB=0,1,1,0,"telemetry"` + "\r": {"\nCONNECT\r\n"},
		"hello":                                {"\r\n", "+QMTPUB: 0,1,10\r\n", "\r\nOK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	err := d.MQTTPublish(context.Background(), 0, 1, ril.QoS1, false, "telemetry", "hello")
	assert.Equal(t, ril.MQTTError(10), err)
}

func TestMQTTMessages(t *testing.T) {
	d, mm := setupDevice(nil)
	defer mm.Close()

	ch, err := d.MQTTMessages(context.Background())
	require.NoError(t, err)

	mm.r <- []byte("\r\n+QMTRECV: 0,\"telemetry\",\"42\"\r\n")

	select {
	case msg := <-ch:
		assert.Equal(t, "telemetry", msg.Topic)
		assert.Equal(t, "42", msg.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for MQTT message")
	}
}
