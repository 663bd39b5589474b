package ril

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ril-go/ril/info"
)

// HTTPResult is the outcome reported by the modem's +QHTTPGET/+QHTTPPOST
// URC: a result code plus, on success, the HTTP status code and the
// response content length.
type HTTPResult struct {
	Err         int
	StatusCode  int
	ContentSize int
}

// HTTPConfigContextID selects the PDP context used for subsequent HTTP
// requests (AT+QHTTPCFG="contextid",<id>).
func (d *Device) HTTPConfigContextID(ctx context.Context, id int) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QHTTPCFG="contextid",%d`, id))
	return wrapHTTPErr(err)
}

// HTTPConfigSSL attaches an SSL context index to subsequent HTTPS requests
// (AT+QHTTPCFG="sslctxid",<id>).
func (d *Device) HTTPConfigSSL(ctx context.Context, sslCtxID int) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QHTTPCFG="sslctxid",%d`, sslCtxID))
	return wrapHTTPErr(err)
}

// HTTPConfigContentType sets the Content-Type used for subsequent POSTs
// (AT+QHTTPCFG="contenttype",<type>).
func (d *Device) HTTPConfigContentType(ctx context.Context, contentType string) error {
	_, err := d.Command(ctx, fmt.Sprintf(`+QHTTPCFG="contenttype","%s"`, contentType))
	return wrapHTTPErr(err)
}

// HTTPSetURL uploads the target URL with AT+QHTTPURL, a two step command
// analogous to SMS text entry: the modem replies with a prompt, then the
// URL bytes are sent with no terminator.
func (d *Device) HTTPSetURL(ctx context.Context, url string, timeoutSec int) error {
	_, err := d.SendBinary(ctx, fmt.Sprintf("+QHTTPURL=%d,%d", len(url), timeoutSec), []byte(url))
	return wrapHTTPErr(err)
}

// HTTPGet issues AT+QHTTPGET and parses the result reported by its
// asynchronous +QHTTPGET URC.
func (d *Device) HTTPGet(ctx context.Context, timeoutSec int) (HTTPResult, error) {
	lines, err := d.Command(ctx, fmt.Sprintf("+QHTTPGET=%d", timeoutSec))
	if err != nil {
		return HTTPResult{}, wrapHTTPErr(err)
	}
	return parseHTTPResult(lines, "+QHTTPGET")
}

// HTTPPost uploads body and issues AT+QHTTPPOST, reusing the SendBinary
// prompt-driven framing used for the modem filesystem.
func (d *Device) HTTPPost(ctx context.Context, body []byte, timeoutSec, inputTimeoutSec int) (HTTPResult, error) {
	lines, err := d.SendBinary(ctx, fmt.Sprintf("+QHTTPPOST=%d,%d,%d", len(body), timeoutSec, inputTimeoutSec), body)
	if err != nil {
		return HTTPResult{}, wrapHTTPErr(err)
	}
	return parseHTTPResult(lines, "+QHTTPPOST")
}

// HTTPReadResponse retrieves the buffered response body with AT+QHTTPREAD.
// The modem precedes the body with "CONNECT <n>"; the n bytes are read
// back with fixed-length framing, not reassembled from CRLF-split lines,
// so a body byte that happens to be CR or LF is not lost.
func (d *Device) HTTPReadResponse(ctx context.Context, timeoutSec int) ([]byte, error) {
	_, body, err := d.CommandBinaryResponse(ctx, fmt.Sprintf("+QHTTPREAD=%d", timeoutSec))
	if err != nil {
		return nil, wrapHTTPErr(err)
	}
	return body, nil
}

func parseHTTPResult(lines []string, prefix string) (HTTPResult, error) {
	for _, l := range lines {
		if !info.HasPrefix(l, prefix) {
			continue
		}
		fields := strings.Split(info.TrimPrefix(l, prefix), ",")
		if len(fields) == 0 {
			return HTTPResult{}, ErrMalformedResponse
		}
		res := HTTPResult{}
		if n, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil {
			res.Err = n
		}
		if len(fields) > 1 {
			res.StatusCode, _ = strconv.Atoi(strings.TrimSpace(fields[1]))
		}
		if len(fields) > 2 {
			res.ContentSize, _ = strconv.Atoi(strings.TrimSpace(fields[2]))
		}
		if res.Err != 0 {
			return res, HTTPError(res.Err)
		}
		return res, nil
	}
	return HTTPResult{}, ErrMalformedResponse
}

func wrapHTTPErr(err error) error {
	if err == nil {
		return nil
	}
	if code, ok := cmeCode(err); ok {
		return HTTPError(code)
	}
	return err
}
