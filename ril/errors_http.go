package ril

// HTTPError is an AT+QHTTPxxx result or error code, transcribed from the
// Quectel HTTP(S) AT command error table.
type HTTPError int

const (
	HTTPErrChunkFailed HTTPError = -2
	HTTPErr           HTTPError = -1
	HTTPErrUnknown    HTTPError = 701
	HTTPErrTimeout    HTTPError = 702
	HTTPErrBusy       HTTPError = 703
	HTTPErrUARTBusy   HTTPError = 704
	HTTPErrNoNetwork  HTTPError = 710
	HTTPErrBadURL     HTTPError = 711
	HTTPErrEmptyURL   HTTPError = 712
	HTTPErrSocketRead HTTPError = 717
	HTTPErrReadTimeout HTTPError = 722
	HTTPErrResponseFailed HTTPError = 723
	HTTPErrNoMemory   HTTPError = 729
	HTTPErrBadArg     HTTPError = 730
	HTTPErrSSLFailed  HTTPError = 732
	HTTPErrUnsupported HTTPError = 733
)

var httpErrText = map[HTTPError]string{
	HTTPErrChunkFailed:    "chunked transfer failed",
	HTTPErr:               "HTTP error",
	HTTPErrUnknown:        "unknown HTTP error",
	HTTPErrTimeout:        "operation timeout",
	HTTPErrBusy:           "HTTP(S) busy",
	HTTPErrUARTBusy:       "UART busy",
	HTTPErrNoNetwork:      "network error",
	HTTPErrBadURL:         "URL error",
	HTTPErrEmptyURL:       "empty URL",
	HTTPErrSocketRead:     "socket read error",
	HTTPErrReadTimeout:    "read timeout",
	HTTPErrResponseFailed: "response failed",
	HTTPErrNoMemory:       "out of memory",
	HTTPErrBadArg:         "invalid argument",
	HTTPErrSSLFailed:      "SSL handshake failed",
	HTTPErrUnsupported:    "unsupported",
}

func (e HTTPError) Error() string {
	if s, ok := httpErrText[e]; ok {
		return s
	}
	return "unrecognised HTTP error"
}
