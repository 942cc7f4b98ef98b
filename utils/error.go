package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes shared by every route.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidID              = "INVALID_ID"
	CodeInvalidStatus          = "INVALID_STATUS"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeServiceNotFound        = "SERVICE_NOT_FOUND"
	CodeBookingNotFound        = "BOOKING_NOT_FOUND"
	CodeReviewNotFound         = "REVIEW_NOT_FOUND"
	CodeProviderBooking        = "PROVIDER_BOOKING_RESTRICTED"
	CodeInsufficientPermission = "INSUFFICIENT_PERMISSIONS"
	CodeSelfBooking            = "SELF_BOOKING_NOT_ALLOWED"
	CodeServiceInactive        = "SERVICE_INACTIVE"
	CodeIllegalTransition      = "ILLEGAL_TRANSITION"
	CodeStatusConflict         = "STATUS_CONFLICT"
	CodeNotParticipant         = "NOT_BOOKING_PARTICIPANT"
	CodeBookingNotCompleted    = "BOOKING_NOT_COMPLETED"
	CodeReviewExists           = "REVIEW_EXISTS"
	CodeConversationClosed     = "CONVERSATION_CLOSED"
	CodeRoleImmutable          = "ROLE_IMMUTABLE"
	CodeProfileExists          = "PROFILE_EXISTS"
	CodeDuplicateRequest       = "DUPLICATE_REQUEST"
	CodeRateLimited            = "RATE_LIMITED"
	CodeInternal               = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered to the client.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(code, message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: code, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: code, Message: message}
}

func NewNotFoundError(code, message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: code, Message: message}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Status: http.StatusConflict, Code: code, Message: message}
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ErrorBody is the inner object of the error envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse defines the structure of every error response.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{
						Code:    CodeInternal,
						Message: "Internal Server Error",
						Details: "An unexpected error occurred. Please try again later.",
					},
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response and aborts the chain.
func JSONError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// RespondError renders err using the error envelope. Unknown errors become 500s
// and are logged; application errors are logged at warn level.
func RespondError(c *gin.Context, err error) {
	logger := GetLogger()
	var appErr *AppError
	if errors.As(err, &appErr) {
		logger.Warn(appErr.Message,
			zap.String("code", appErr.Code),
			zap.Int("status", appErr.Status),
			zap.String("path", c.Request.URL.Path),
			zap.Error(appErr.Err),
		)
		details := ""
		if appErr.Err != nil && appErr.Status < http.StatusInternalServerError {
			details = appErr.Err.Error()
		}
		JSONError(c, appErr.Status, appErr.Code, appErr.Message, details)
		return
	}

	logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	JSONError(c, http.StatusInternalServerError, CodeInternal, "Internal Server Error", "")
}
