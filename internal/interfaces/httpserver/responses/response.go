package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/hf-mcp/internal/utils/platformerrors"
)

type ErrorResponse struct {
	Code          string `json:"code"` // stable code from PlatformError
	Error         string `json:"error"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles platform errors and returns appropriate HTTP responses.
// Status code is determined from the error type; other errors map to 500.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		errResp := ErrorResponse{
			Code:          platformErr.GetCode(),
			Error:         message,
			ErrorInstance: platformErr,
			RequestID:     platformErr.GetRequestID(),
		}
		_ = reqCtx.Error(platformErr)
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType()), errResp)
		return
	}

	errResp := ErrorResponse{
		Error:         message,
		ErrorInstance: err,
		RequestID:     platformerrors.RequestIDFromContext(reqCtx.Request.Context()),
	}
	if err != nil {
		_ = reqCtx.Error(err)
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}

// HandleNewError creates a new typed error at the route layer and handles it.
// The code identifies the call site for error tracking.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, code string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, code)
	HandleError(reqCtx, err, message)
}

type GeneralResponse[T any] struct {
	Status string `json:"status"`
	Result T      `json:"result"`
}
