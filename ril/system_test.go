package ril_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
)

func TestIMEI(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CGSN\r\n": {"865789041234567\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	imei, err := d.IMEI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "865789041234567", imei)
}

func TestPowerOff(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QPOWD=1\r\n": {"OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	require.NoError(t, d.PowerOff(context.Background(), ril.PowerOffImmediate))
}
