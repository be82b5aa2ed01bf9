package smiles

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ParseError reports a failed parse together with the byte offset of the
// offending input.  Offset is -1 when no single position is to blame.
//
// The wrapped *errors.AppError carries one of the SMI_* codes, so
// errors.IsCode works on a ParseError and on anything that wraps it.
type ParseError struct {
	Offset int
	Err    *errors.AppError
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("smiles: offset %d: %s", e.Offset, e.Err.Error())
	}
	return "smiles: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Code returns the error code of the wrapped AppError.
func (e *ParseError) Code() errors.ErrorCode { return e.Err.Code }

func newParseError(code errors.ErrorCode, offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Err: errors.New(code, fmt.Sprintf(format, args...))}
}

func syntaxError(offset int, format string, args ...any) *ParseError {
	return newParseError(errors.ErrCodeSMILESSyntax, offset, format, args...)
}
