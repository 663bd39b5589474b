package ril_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ril-go/ril"
)

func TestFileSpace(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QFLDS="UFS"` + "\r\n": {"+QFLDS: 1048576,2097152\r\n", "OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	free, total, err := d.FileSpace(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, uint32(1048576), free)
	assert.Equal(t, uint32(2097152), total)
}

func TestFileDeleteError(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QFDEL="missing.bin"` + "\r\n": {"+CME ERROR: 405\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	err := d.FileDelete(context.Background(), "missing.bin")
	assert.Equal(t, ril.FileErrNotFound, err)
}

func TestFileOpenWriteClose(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QFOPEN="log.txt",0` + "\r\n": {"+QFOPEN: 1\r\n", "OK\r\n"},
		"AT+QFWRITE=1,5\r":               {"\nCONNECT\r\n"},
		"hello":                          {"\r\n", "+QFWRITE: 5,5\r\n", "\r\nOK\r\n"},
		"AT+QFCLOSE=1\r\n":                {"OK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()
	ctx := context.Background()

	h, err := d.FileOpen(ctx, "log.txt", ril.FileModeCreateRW)
	require.NoError(t, err)
	assert.Equal(t, ril.FileHandle(1), h)

	n, err := d.FileWrite(ctx, h, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, d.FileClose(ctx, h))
}

func TestFileRead(t *testing.T) {
	cmdSet := map[string][]string{
		"AT+QFREAD=1,5\r\n": {"\r\nCONNECT 5\r\n", "hello", "\r\nOK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	data, err := d.FileRead(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestFileDownload(t *testing.T) {
	cmdSet := map[string][]string{
		`AT+QFDWL="log.txt"` + "\r\n": {"\r\nCONNECT 5\r\n", "hello", "\r\nOK\r\n"},
	}
	d, mm := setupDevice(cmdSet)
	defer mm.Close()

	data, err := d.FileDownload(context.Background(), "log.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}
