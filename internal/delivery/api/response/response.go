// Package response renders endpoint bodies. Successful payloads go out
// as-is; failures share one error envelope.
package response

import (
	"net/http"

	deliverycontext "indicators/internal/delivery/context"
	domainerrors "indicators/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const csvContentType = "text/csv; charset=utf-8"

// ErrorResponse wraps every failure.
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Machine-readable, e.g. "INVALID_DATE_FORMAT"
	Message string `json:"message"`           // Human-readable
	Details any    `json:"details,omitempty"` // Only for 4xx other than 401 and 403
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

// Success writes data as the top-level body. The request id travels in the X-Request-Id header.
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// CSV sends body as a downloadable attachment named filename.
func CSV(c echo.Context, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)

	return c.Blob(http.StatusOK, csvContentType, body)
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	info := &ErrorInfo{
		Code:    errorCode,
		Message: message,
	}
	// Details are withheld for 5xx, 401 and 403.
	if details != "" && statusCode < http.StatusInternalServerError &&
		statusCode != http.StatusUnauthorized && statusCode != http.StatusForbidden {
		info.Details = details
	}

	return c.JSON(statusCode, ErrorResponse{
		Error: info,
		Meta:  meta(c),
	})
}

// BindingError reports a body that could not be decoded.
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, message, "")
}

// HandleAppError renders a domain error, or hands anything else to the central error handler.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
