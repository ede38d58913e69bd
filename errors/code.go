package errors

import "strconv"

// ErrorCode identifies an application error class in API responses
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED      ErrorCode = 0
	ErrorCode_HTTP_OK          ErrorCode = 200
	ErrorCode_INTERNAL         ErrorCode = 1
	ErrorCode_INVALID_ARGUMENT ErrorCode = 2
	ErrorCode_NOT_FOUND        ErrorCode = 3
	ErrorCode_UNAUTHENTICATED  ErrorCode = 4
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 5
	ErrorCode_UNAVAILABLE      ErrorCode = 6

	// Session and transcript errors
	ErrorCode_SESSION_NOT_FOUND        ErrorCode = 1100
	ErrorCode_SESSION_NOT_BOOTSTRAPPED ErrorCode = 1101

	// Integration errors
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 1201

	// Database errors
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 1302
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:                "UNSPECIFIED",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_UNAVAILABLE:                "UNAVAILABLE",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_NOT_BOOTSTRAPPED:   "SESSION_NOT_BOOTSTRAPPED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:      "DB_TRANSACTION_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "ErrorCode(" + strconv.Itoa(int(c)) + ")"
}
