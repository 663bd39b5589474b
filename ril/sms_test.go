package ril_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
	"github.com/ril-go/ril/pdu"
)

func TestSendSMS(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+CMGS="+123456789"` + "\r":        {"\n>"},
		"test message" + string(26):          {"\r\n", "+CMGS: 42\r\n", "\r\nOK\r\n"},
		"malformed test message" + string(26): {"\r\n", "\r\nOK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()
	ctx := context.Background()

	mr, err := d.SendSMS(ctx, "+123456789", "test message")
	require.NoError(t, err)
	assert.Equal(t, "42", mr)

	_, err = d.SendSMS(ctx, "+123456789", "malformed test message")
	assert.Equal(t, ril.ErrMalformedResponse, err)
}

func TestSendSMSWrongMode(t *testing.T) {
	d, mm := setupDevice(nil)
	defer mm.Close()
	_, err := d.SendSMSPDU(context.Background(), pdu.EncodedPDU{HexTPDU: "00", TPDULen: 1})
	assert.Equal(t, ril.ErrWrongMode, err)
}

func TestReadSMSText(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CMGR=3\r\n": {
			`+CMGR: "REC UNREAD","+123456789",,"23/07/31,10:00:00+32"` + "\r\n",
			"hello there\r\n",
			"OK\r\n",
		},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	msg, err := d.ReadSMS(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "+123456789", msg.From.Number)
	assert.Equal(t, "hello there", msg.Text)
}

func TestIncomingSMS(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CNMI=2,1,0,1,0\r\n": {"OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	ch, err := d.IncomingSMS(context.Background())
	require.NoError(t, err)

	mm.r <- []byte("\r\n+CMTI: \"ME\",7\r\n")

	select {
	case idx := <-ch:
		assert.Equal(t, 7, idx)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for incoming SMS notification")
	}
}
