package ril_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
)

func TestRegistrationStatus(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CREG?\r\n": {"+CREG: 0,5\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	rs, err := d.RegistrationStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ril.RegRoaming, rs.State)
}

func TestActivatePDPContextFailure(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QIACT=1\r\n": {"+CME ERROR: 560\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	err := d.ActivatePDPContext(context.Background(), 1)
	assert.Equal(t, ril.NetworkErrActivatePDPFailed, err)
}

func TestSignalQuality(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CSQ\r\n": {"+CSQ: 22,0\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	sq, err := d.SignalQuality(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 22, sq.RSSI)
	assert.Equal(t, 0, sq.BER)
}

func TestSignalQualityExtended(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QCSQ` + "\r\n": {`+QCSQ: "LTE",-75,-95,-10,180` + "\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	sq, err := d.SignalQualityExtended(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "LTE", sq.SysMode)
	assert.Equal(t, -75, sq.RSSI)
	assert.Equal(t, -95, sq.RSRP)
	assert.Equal(t, -10, sq.RSRQ)
	assert.Equal(t, 180, sq.SINR)
}

func TestRegistrationEvents(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CREG=1\r\n": {"OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	ch, err := d.RegistrationEvents(context.Background())
	require.NoError(t, err)

	mm.r <- []byte("\r\n+CREG: 1\r\n")

	select {
	case rs := <-ch:
		assert.Equal(t, ril.RegRegistered, rs.State)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for registration event")
	}
}
