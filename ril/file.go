package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/info"
)

// FileMode selects the semantics of FileOpen, mirroring AT+QFOPEN's mode
// argument.
type FileMode int

const (
	// FileModeCreateRW opens an existing file or creates a new one, for
	// reading and writing.
	FileModeCreateRW FileMode = 0
	// FileModeCreateTrunc creates a file, truncating it if it exists.
	FileModeCreateTrunc FileMode = 1
	// FileModeReadOnly opens an existing file read-only, failing if it does
	// not exist.
	FileModeReadOnly FileMode = 2
)

// FileHandle identifies a file opened with FileOpen.
type FileHandle int

// FileEntry is one row of a FileList result.
type FileEntry struct {
	Name string
	Size uint32
}

// FileSpace reports UFS/RAM storage usage, as returned by AT+QFLDS.
func (d *Device) FileSpace(ctx context.Context, medium string) (free, total uint32, err error) {
	if medium == "" {
		medium = "UFS"
	}
	lines, err := d.Command(ctx, fmt.Sprintf(`+QFLDS="%s"`, medium))
	if err != nil {
		return 0, 0, wrapFileErr(err)
	}
	for _, l := range lines {
		if !info.HasPrefix(l, "+QFLDS") {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, "+QFLDS"), ",")
		if len(fields) != 2 {
			return 0, 0, ErrMalformedResponse
		}
		f, err1 := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		t, err2 := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		if err1 != nil || err2 != nil {
			return 0, 0, ErrMalformedResponse
		}
		return uint32(f), uint32(t), nil
	}
	return 0, 0, ErrMalformedResponse
}

// FileList lists files matching pattern (AT+QFLST), defaulting to "*".
func (d *Device) FileList(ctx context.Context, pattern string) ([]FileEntry, error) {
	if pattern == "" {
		pattern = "*"
	}
	lines, err := d.Command(ctx, fmt.Sprintf(`+QFLST="%s"`, pattern))
	if err != nil {
		return nil, wrapFileErr(err)
	}
	var entries []FileEntry
	for _, l := range lines {
		if !info.HasPrefix(l, "+QFLST") {
			continue
		}
		fields := strings.SplitN(info.TrimPrefix(l, "+QFLST"), ",", 2)
		if len(fields) != 2 {
			continue
		}
		size, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		if err != nil {
			continue
		}
		entries = append(entries, FileEntry{
			Name: strings.Trim(strings.TrimSpace(fields[0]), `"`),
			Size: uint32(size),
		})
	}
	return entries, nil
}

// FileDelete removes a file (AT+QFDEL).
func (d *Device) FileDelete(ctx context.Context, name string) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QFDEL="%s"`, name))
	return wrapFileErr(err)
}

// FileMkdir creates a directory (AT+QFMKDIR).
func (d *Device) FileMkdir(ctx context.Context, dir string) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QFMKDIR="%s"`, dir))
	return wrapFileErr(err)
}

// FileRmdir removes a directory (AT+QFRMDIR).
func (d *Device) FileRmdir(ctx context.Context, dir string) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QFRMDIR="%s"`, dir))
	return wrapFileErr(err)
}

// FileUpload writes data to destName on modem storage using the binary
// payload framing of AT+QFUPL.
func (d *Device) FileUpload(ctx context.Context, destName string, data []byte) error {
	_, err := d.SendBinary(ctx, fmt.Sprintf(`+QFUPL="%s",%d`, destName, len(data)), data)
	return wrapFileErr(err)
}

// FileOpen opens path in the given mode (AT+QFOPEN) and returns its handle.
func (d *Device) FileOpen(ctx context.Context, path string, mode FileMode) (FileHandle, error) {
	lines, err := d.Command(ctx, fmt.Sprintf(`+QFOPEN="%s",%d`, path, mode))
	if err != nil {
		return 0, wrapFileErr(err)
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QFOPEN") {
			h, err := strconv.Atoi(strings.TrimSpace(info.TrimPrefix(l, "+QFOPEN")))
			if err != nil {
				return 0, ErrMalformedResponse
			}
			return FileHandle(h), nil
		}
	}
	return 0, ErrMalformedResponse
}

// FileClose closes a handle opened with FileOpen (AT+QFCLOSE).
func (d *Device) FileClose(ctx context.Context, h FileHandle) error {
	_, err := d.Command(ctx, fmt.Sprintf("+QFCLOSE=%d", h))
	return wrapFileErr(err)
}

// FileWrite writes buf to an opened file (AT+QFWRITE) and returns the
// number of bytes the modem accepted.
func (d *Device) FileWrite(ctx context.Context, h FileHandle, buf []byte) (int, error) {
	lines, err := d.SendBinary(ctx, fmt.Sprintf("+QFWRITE=%d,%d", h, len(buf)), buf)
	if err != nil {
		return 0, wrapFileErr(err)
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QFWRITE") {
			fields := strings.Split(info.TrimPrefix(l, "+QFWRITE"), ",")
			if len(fields) == 0 {
				return 0, ErrMalformedResponse
			}
			n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
			if err != nil {
				return 0, ErrMalformedResponse
			}
			return n, nil
		}
	}
	return 0, ErrMalformedResponse
}

// FileRead reads up to maxLen bytes from an opened file (AT+QFREAD). The
// modem announces the actual byte count with "CONNECT <n>" before sending
// the data, which is read back with fixed-length framing rather than line
// framing so the returned bytes survive intact.
func (d *Device) FileRead(ctx context.Context, h FileHandle, maxLen int) ([]byte, error) {
	_, data, err := d.CommandBinaryResponse(ctx, fmt.Sprintf("+QFREAD=%d,%d", h, maxLen))
	if err != nil {
		return nil, wrapFileErr(err)
	}
	return data, nil
}

// FileDownload reads the full contents of srcName from modem storage
// (AT+QFDWL), the read counterpart of FileUpload: neither requires an
// open handle, both frame their payload the same binary way.
func (d *Device) FileDownload(ctx context.Context, srcName string) ([]byte, error) {
	_, data, err := d.CommandBinaryResponse(ctx, fmt.Sprintf(`+QFDWL="%s"`, srcName))
	if err != nil {
		return nil, wrapFileErr(err)
	}
	return data, nil
}

// FileSeek repositions an opened file (AT+QFSEEK). whence follows the
// modem convention: 0 from start, 1 from current, 2 from end.
func (d *Device) FileSeek(ctx context.Context, h FileHandle, offset int32, whence int) error {
	_, err := d.Command(ctx, fmt.Sprintf("+QFSEEK=%d,%d,%d", h, offset, whence))
	return wrapFileErr(err)
}

// FilePosition reports the current offset of an opened file (AT+QFPOSITION).
func (d *Device) FilePosition(ctx context.Context, h FileHandle) (uint32, error) {
	lines, err := d.Command(ctx, fmt.Sprintf("+QFPOSITION=%d", h))
	if err != nil {
		return 0, wrapFileErr(err)
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QFPOSITION") {
			p, err := strconv.ParseUint(strings.TrimSpace(info.TrimPrefix(l, "+QFPOSITION")), 10, 32)
			if err != nil {
				return 0, ErrMalformedResponse
			}
			return uint32(p), nil
		}
	}
	return 0, ErrMalformedResponse
}

// FileTrunc truncates path to newLen bytes (AT+QFTRUNC).
func (d *Device) FileTrunc(ctx context.Context, path string, newLen uint32) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QFTRUNC="%s",%d`, path, newLen))
	return wrapFileErr(err)
}

// FileSize reports the size of path in bytes (AT+QFSIZE).
func (d *Device) FileSize(ctx context.Context, path string) (uint32, error) {
	lines, err := d.Command(ctx, fmt.Sprintf(`+QFSIZE="%s"`, path))
	if err != nil {
		return 0, wrapFileErr(err)
	}
	for _, l := range lines {
		if info.HasPrefix(l, "+QFSIZE") {
			s, err := strconv.ParseUint(strings.TrimSpace(info.TrimPrefix(l, "+QFSIZE")), 10, 32)
			if err != nil {
				return 0, ErrMalformedResponse
			}
			return uint32(s), nil
		}
	}
	return 0, ErrMalformedResponse
}

// wrapFileErr maps a +CME ERROR onto its FileError, passing other errors
// through unchanged.
func wrapFileErr(err error) error {
	if err == nil {
		return nil
	}
	if code, ok := cmeCode(err); ok {
		return FileError(code)
	}
	return err
}
