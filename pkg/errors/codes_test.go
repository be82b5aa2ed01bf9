package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
	assert.Equal(t, "SMI_003", ErrCodeUnclosedRingLabel.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeSMILESSyntax, 400},
		{ErrCodeUnknownElement, 422},
		{ErrCodeUnclosedRingLabel, 422},
		{ErrCodeDuplicateBond, 422},
		{ErrCodeInputTooLong, 413},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), tt.code.String())
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "unknown element symbol", DefaultMessageForCode(ErrCodeUnknownElement))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeDuplicateBond))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeGraphExportFailed))
	assert.False(t, IsServerError(ErrCodeSMILESSyntax))
}

func TestIsParseError(t *testing.T) {
	assert.True(t, IsParseError(ErrCodeSMILESSyntax))
	assert.True(t, IsParseError(ErrCodeInputTooLong))
	assert.False(t, IsParseError(ErrCodeAnalysisFailed))
	assert.False(t, IsParseError(ErrCodeInternal))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "SMI", ModuleForCode(ErrCodeDuplicateBond))
	assert.Equal(t, "MOL", ModuleForCode(ErrCodeMoleculeNotFound))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasMessage, "code %s has no default message", code)
	}
}
