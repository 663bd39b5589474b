package ril_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
)

func TestHTTPGet(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QHTTPGET=80\r\n": {"OK\r\n", "+QHTTPGET: 0,200,1024\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	res, err := d.HTTPGet(context.Background(), 80)
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, 1024, res.ContentSize)
}

func TestHTTPGetFailure(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QHTTPGET=80\r\n": {"OK\r\n", "+QHTTPGET: 702\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	_, err := d.HTTPGet(context.Background(), 80)
	assert.Equal(t, ril.HTTPErrTimeout, err)
}

func TestHTTPSetURL(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QHTTPURL=19,80\r": {"\nCONNECT\r\n"},
		"http://example.com/": {"\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	err := d.HTTPSetURL(context.Background(), "http://example.com/", 80)
	require.NoError(t, err)
}

func TestHTTPReadResponse(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QHTTPREAD=80\r\n": {"\r\nCONNECT 12\r\n", "hello\r\nworld", "\r\nOK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	body, err := d.HTTPReadResponse(context.Background(), 80)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello\r\nworld"), body)
}
