package ril

// FileError is a modem filesystem error code as reported in the
// "+CME ERROR: <n>" line trailing a failed AT+QF* command, per the
// Quectel file system error table.
type FileError int

// File error codes, transcribed from the Quectel file system error table.
const (
	FileErrInvalidValue FileError = 400
	FileErrOutOfRange   FileError = 401
	FileErrEOF          FileError = 402
	FileErrStorageFull  FileError = 403
	FileErrNotFound     FileError = 405
	FileErrBadName      FileError = 406
	FileErrExists       FileError = 407
	FileErrWrite        FileError = 409
	FileErrOpen         FileError = 410
	FileErrRead         FileError = 411
	FileErrMaxOpen      FileError = 413
	FileErrReadOnly     FileError = 414
	FileErrSize         FileError = 415
	FileErrDescriptor   FileError = 416
	FileErrList         FileError = 417
	FileErrDelete       FileError = 418
	FileErrNoMemory     FileError = 420
	FileErrTimeout      FileError = 421
	FileErrTooLarge     FileError = 423
	FileErrParam        FileError = 425
	FileErrBusy         FileError = 426
	FileErrUnknown      FileError = 700
)

var fileErrText = map[FileError]string{
	FileErrInvalidValue: "invalid parameter value",
	FileErrOutOfRange:   "parameter out of range",
	FileErrEOF:          "end of file",
	FileErrStorageFull:  "storage full",
	FileErrNotFound:     "file not found",
	FileErrBadName:      "invalid filename",
	FileErrExists:       "file already exists",
	FileErrWrite:        "write failed",
	FileErrOpen:         "open failed",
	FileErrRead:         "read failed",
	FileErrMaxOpen:      "maximum open files exceeded",
	FileErrReadOnly:     "read-only filesystem",
	FileErrSize:         "file size error",
	FileErrDescriptor:   "bad file descriptor",
	FileErrList:         "list failed",
	FileErrDelete:       "delete failed",
	FileErrNoMemory:     "no memory available",
	FileErrTimeout:      "operation timeout",
	FileErrTooLarge:     "file too large",
	FileErrParam:        "parameter error",
	FileErrBusy:         "system busy",
	FileErrUnknown:      "unknown file error",
}

func (e FileError) Error() string {
	if s, ok := fileErrText[e]; ok {
		return s
	}
	return "unrecognised file error"
}
