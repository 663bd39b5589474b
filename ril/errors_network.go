package ril

// NetworkError is a modem network/socket error code, transcribed from the
// Quectel TCP/IP error table (550-574).
type NetworkError int

const (
	NetworkErrOK                  NetworkError = 0
	NetworkErrBlocked             NetworkError = 550
	NetworkErrInvalidParams       NetworkError = 551
	NetworkErrMemAllocFailed      NetworkError = 552
	NetworkErrSocketCreateFailed  NetworkError = 553
	NetworkErrNotSupported        NetworkError = 554
	NetworkErrSocketBindFailed    NetworkError = 555
	NetworkErrSocketListenFailed  NetworkError = 556
	NetworkErrSocketWriteFailed   NetworkError = 557
	NetworkErrSocketReadFailed    NetworkError = 558
	NetworkErrSocketAcceptFailed  NetworkError = 559
	NetworkErrActivatePDPFailed   NetworkError = 560
	NetworkErrDeactivatePDPFailed NetworkError = 561
	NetworkErrSocketIDInUse       NetworkError = 562
	NetworkErrDNSBusy             NetworkError = 563
	NetworkErrDNSParseFailed      NetworkError = 564
	NetworkErrSocketConnectFailed NetworkError = 565
	NetworkErrConnReset           NetworkError = 566
	NetworkErrSystemBusy          NetworkError = 567
	NetworkErrOpTimeout           NetworkError = 568
	NetworkErrPDPDeactivated      NetworkError = 569
	NetworkErrSendCancelled       NetworkError = 570
	NetworkErrNotAllowed          NetworkError = 571
	NetworkErrAPNNotConfigured    NetworkError = 572
	NetworkErrPortBusy            NetworkError = 573
)

var networkErrText = map[NetworkError]string{
	NetworkErrBlocked:             "operation blocked",
	NetworkErrInvalidParams:       "invalid parameters",
	NetworkErrMemAllocFailed:      "memory allocation failed",
	NetworkErrSocketCreateFailed:  "socket creation failed",
	NetworkErrNotSupported:        "operation not supported",
	NetworkErrSocketBindFailed:    "socket bind failed",
	NetworkErrSocketListenFailed:  "socket listen failed",
	NetworkErrSocketWriteFailed:   "socket write failed",
	NetworkErrSocketReadFailed:    "socket read failed",
	NetworkErrSocketAcceptFailed:  "socket accept failed",
	NetworkErrActivatePDPFailed:   "PDP context activation failed",
	NetworkErrDeactivatePDPFailed: "PDP context deactivation failed",
	NetworkErrSocketIDInUse:       "socket identity in use",
	NetworkErrDNSBusy:             "DNS busy",
	NetworkErrDNSParseFailed:      "DNS resolution failed",
	NetworkErrSocketConnectFailed: "socket connect failed",
	NetworkErrConnReset:           "connection reset",
	NetworkErrSystemBusy:          "system busy",
	NetworkErrOpTimeout:           "operation timeout",
	NetworkErrPDPDeactivated:      "PDP context deactivated",
	NetworkErrSendCancelled:       "send cancelled",
	NetworkErrNotAllowed:          "operation not allowed",
	NetworkErrAPNNotConfigured:    "APN not configured",
	NetworkErrPortBusy:            "port busy",
}

func (e NetworkError) Error() string {
	if e == NetworkErrOK {
		return "success"
	}
	if s, ok := networkErrText[e]; ok {
		return s
	}
	return "unrecognised network error"
}

// RegState is the circuit/packet domain registration state reported by
// +CREG/+CGREG/+CEREG.
type RegState int

const (
	RegNotRegistered RegState = 0
	RegRegistered    RegState = 1
	RegSearching     RegState = 2
	RegDenied        RegState = 3
	RegUnknown       RegState = 4
	RegRoaming       RegState = 5
)

// AccessTech identifies the radio access technology carrying a
// registration, the RIL_NW_AccessTech enumeration of the system this
// driver replaces.
type AccessTech int

const (
	AccessTechGSM         AccessTech = 0
	AccessTechGSMCompact  AccessTech = 1
	AccessTechUTRAN       AccessTech = 2
	AccessTechGSMEGPRS    AccessTech = 3
	AccessTechUTRANHSDPA  AccessTech = 4
	AccessTechUTRANHSUPA  AccessTech = 5
	AccessTechUTRANHSPA   AccessTech = 6
	AccessTechEUTRAN      AccessTech = 7
	AccessTechEUTRANCA    AccessTech = 8
)
