package at

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherSubscribe(t *testing.T) {
	m, mm := setupModem(t, nil)
	defer teardownModem(mm)
	d := NewDispatcher(m)

	c, err := d.Subscribe(URCCMTI, 0)
	assert.Nil(t, err)
	mm.r <- []byte("+CMTI: \"ME\",3\r\n")
	select {
	case n := <-c:
		assert.Equal(t, []string{`+CMTI: "ME",3`}, n)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no notification received")
	}
	d.Unsubscribe(URCCMTI)
	select {
	case <-c:
	case <-time.After(100 * time.Millisecond):
		t.Error("channel still open")
	}
}

func TestDispatcherActivate(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+CNMI=2,1,0,1,0\r\n": {"OK\r\n"},
		"AT+CGEREP=1,1\r\n":     {"OK\r\n"},
	}
	m, mm := setupModem(t, cmdSet)
	defer teardownModem(mm)
	d := NewDispatcher(m)
	ctx := context.Background()

	assert.Nil(t, d.Activate(ctx, URCCMTI))
	// a URC with no activation command is a no-op
	assert.Nil(t, d.Activate(ctx, URCCMTText))
	// two entries sharing "+CGEREP=1,1" only issue it once
	assert.Nil(t, d.Activate(ctx, URCCGEREPReject))
	assert.Nil(t, d.Activate(ctx, URCCGEREPNWReact))
}
