// Package handlers implements the gin handlers of the molgraph HTTP API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/domain/smiles"
	"github.com/turtacn/molgraph/pkg/errors"
)

// ErrorResponse is the body of every failed request.  Offset points into the
// submitted SMILES for parse errors.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Offset  *int   `json:"offset,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError renders err with the status of its code.  Messages of 5xx
// errors are replaced by the code's default message.
func writeAppError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown || code == errors.CodeOK {
		code = errors.ErrCodeInternal
	}
	status := errors.HTTPStatusForCode(code)
	resp := ErrorResponse{Code: code.String()}

	var pe *smiles.ParseError
	var ae *errors.AppError
	switch {
	case errors.As(err, &pe):
		ie := appmol.NewItemError(err)
		resp.Message = ie.Message
		resp.Offset = ie.Offset
	case status >= http.StatusInternalServerError:
		resp.Message = errors.DefaultMessageForCode(code)
	case errors.As(err, &ae):
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	default:
		resp.Message = err.Error()
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// bindJSON decodes the request body into dest and writes a 400 on failure.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		msg := "invalid request body"
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			msg = "request body too large"
		}
		writeAppError(c, errors.Wrap(err, errors.ErrCodeBadRequest, msg).WithDetail(err.Error()))
		return false
	}
	return true
}
