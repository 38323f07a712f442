package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"storefront-api/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error rendered to API clients.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error. Details defaults to the wrapped error's text.
func New(code int, message string, err error) *Error {
	e := &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// WithDetails returns a copy of e carrying a client-facing explanation.
func (e *Error) WithDetails(format string, args ...any) *Error {
	cp := *e
	cp.Details = fmt.Sprintf(format, args...)
	return &cp
}

// Common error types
var (
	ErrBadRequest         = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized       = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrConflict           = New(http.StatusConflict, "Conflict", nil)
	ErrTooManyRequests    = New(http.StatusTooManyRequests, "Too many requests", nil)
	ErrInternalServer     = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, "Service unavailable", nil)
)

// Validation error types
var (
	ErrValidation = New(http.StatusBadRequest, "Validation error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid credentials", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)

// Business logic error types
var (
	ErrStockLimitExceeded = New(http.StatusBadRequest, "Stock Limit Exceeded", nil)
	ErrProductNotFound    = New(http.StatusNotFound, "Product Not Found", nil)
	ErrCartNotFound       = New(http.StatusNotFound, "Cart Not Found", nil)
)

// ErrorMiddleware renders the last error attached to the gin context. Errors
// that are not *Error become a 500 without leaking their text.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *Error
		if !stderrors.As(err, &appErr) {
			appErr = &Error{
				Code:    http.StatusInternalServerError,
				Message: ErrInternalServer.Message,
				Err:     err,
			}
		}

		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(c, "request failed", err,
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", appErr.Code),
			)
		}

		c.AbortWithStatusJSON(appErr.Code, gin.H{
			"success": false,
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
		})
	}
}
