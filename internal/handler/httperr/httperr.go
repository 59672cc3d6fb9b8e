package httperr

import (
	"github.com/gin-gonic/gin"
)

// Stable machine-readable codes for conditions a checkout client must branch on.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeSessionRequired       = "session_required"
	CodeLockGone              = "lock_gone"
	CodeLockInvalid           = "lock_invalid"
	CodeNotFound              = "not_found"
	CodeInsufficientCapacity  = "insufficient_capacity"
	CodeCapacityContended     = "capacity_contended"
	CodeAllocationUnavailable = "allocation_unavailable"
	CodeInsufficientBalance   = "insufficient_balance"
	CodeInvalidTransition     = "invalid_transition"
	CodeInternal              = "internal"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code,omitempty"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithCode aborts with a JSON error body. The cause stays on c.Errors
// for the logging middleware.
func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithCode: err cannot be nil")
	}

	resp := Response{Status: status, Detail: detail}
	resp.Error.Code = code
	resp.Error.Message = msg

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Internal builds the generic 500 body.
func Internal() Response {
	resp := Response{Status: 500}
	resp.Error.Code = CodeInternal
	resp.Error.Message = "Internal server error"
	return resp
}
