package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are grouped by module prefix ("COMMON", "SMI", "MOL", ...).
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
	ErrCodeRateLimited        ErrorCode = "COMMON_017"
)

// Aliases kept for call sites that read better with the short form.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// SMILES Parser Error Codes
const (
	// ErrCodeSMILESSyntax covers unbalanced brackets or parentheses, malformed
	// bracket-atom fields, unexpected characters and dangling bond symbols.
	ErrCodeSMILESSyntax ErrorCode = "SMI_001"
	// ErrCodeUnknownElement is raised when the element provider does not know a symbol.
	ErrCodeUnknownElement ErrorCode = "SMI_002"
	// ErrCodeUnclosedRingLabel is raised when a ring-closure label is still open at end of input.
	ErrCodeUnclosedRingLabel ErrorCode = "SMI_003"
	// ErrCodeDuplicateBond is raised when the same atom pair is bonded twice.
	ErrCodeDuplicateBond ErrorCode = "SMI_004"
	// ErrCodeInputTooLong is raised before tokenizing when the input exceeds the configured limit.
	ErrCodeInputTooLong ErrorCode = "SMI_005"
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeNotFound    ErrorCode = "MOL_004"
	ErrCodeAnalysisFailed      ErrorCode = "MOL_006"
	ErrCodeRingLimitInvalid    ErrorCode = "MOL_010"
	ErrCodeTieBreakUnsupported ErrorCode = "MOL_011"
	ErrCodeBatchTooLarge       ErrorCode = "MOL_012"
	ErrCodeGraphExportFailed   ErrorCode = "MOL_013"
	ErrCodeReportArchiveFailed ErrorCode = "MOL_014"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeRateLimited:        http.StatusTooManyRequests,

	ErrCodeSMILESSyntax:      http.StatusBadRequest,
	ErrCodeUnknownElement:    http.StatusUnprocessableEntity,
	ErrCodeUnclosedRingLabel: http.StatusUnprocessableEntity,
	ErrCodeDuplicateBond:     http.StatusUnprocessableEntity,
	ErrCodeInputTooLong:      http.StatusRequestEntityTooLarge,

	ErrCodeMoleculeNotFound:    http.StatusNotFound,
	ErrCodeAnalysisFailed:      http.StatusInternalServerError,
	ErrCodeRingLimitInvalid:    http.StatusBadRequest,
	ErrCodeTieBreakUnsupported: http.StatusBadRequest,
	ErrCodeBatchTooLarge:       http.StatusRequestEntityTooLarge,
	ErrCodeGraphExportFailed:   http.StatusInternalServerError,
	ErrCodeReportArchiveFailed: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeRateLimited:        "rate limit exceeded, retry later",

	ErrCodeSMILESSyntax:      "SMILES syntax error",
	ErrCodeUnknownElement:    "unknown element symbol",
	ErrCodeUnclosedRingLabel: "unclosed ring-closure label",
	ErrCodeDuplicateBond:     "duplicate bond between atom pair",
	ErrCodeInputTooLong:      "SMILES input exceeds maximum length",

	ErrCodeMoleculeNotFound:    "analysis not found",
	ErrCodeAnalysisFailed:      "structural analysis failed",
	ErrCodeRingLimitInvalid:    "invalid ring length limit",
	ErrCodeTieBreakUnsupported: "unsupported chain tie-break policy",
	ErrCodeBatchTooLarge:       "batch exceeds maximum size",
	ErrCodeGraphExportFailed:   "failed to export molecule graph",
	ErrCodeReportArchiveFailed: "failed to archive batch report",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// IsParseError reports whether code belongs to the SMILES parser module.
func IsParseError(code ErrorCode) bool {
	return ModuleForCode(code) == "SMI"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
