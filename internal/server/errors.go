package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	taskdomain "github.com/lancekit/lancekit/internal/task/domain"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	timerdomain "github.com/lancekit/lancekit/internal/timer/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isClientValidationError(err),
		isProjectValidationError(err),
		isTaskValidationError(err),
		isTimeEntryValidationError(err),
		isExpenseValidationError(err),
		isInvoiceValidationError(err),
		isTimerValidationError(err):
		return true
	default:
		return false
	}
}

func isClientValidationError(err error) bool {
	switch {
	case errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, clientdomain.ErrInvalidStatus),
		errors.Is(err, clientdomain.ErrDuplicateTag),
		errors.Is(err, clientdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isProjectValidationError(err error) bool {
	switch {
	case errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidClient),
		errors.Is(err, projectdomain.ErrInvalidStatus),
		errors.Is(err, projectdomain.ErrInvalidProgress),
		errors.Is(err, projectdomain.ErrInvalidRate),
		errors.Is(err, projectdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTaskValidationError(err error) bool {
	switch {
	case errors.Is(err, taskdomain.ErrInvalidTitle),
		errors.Is(err, taskdomain.ErrInvalidProject),
		errors.Is(err, taskdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrInvalidPriority),
		errors.Is(err, taskdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTimeEntryValidationError(err error) bool {
	switch {
	case errors.Is(err, timeentrydomain.ErrInvalidProject),
		errors.Is(err, timeentrydomain.ErrInvalidDate),
		errors.Is(err, timeentrydomain.ErrInvalidStartTime),
		errors.Is(err, timeentrydomain.ErrInvalidEndTime),
		errors.Is(err, timeentrydomain.ErrInvalidDescription),
		errors.Is(err, timeentrydomain.ErrEndBeforeStart),
		errors.Is(err, timeentrydomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isExpenseValidationError(err error) bool {
	switch {
	case errors.Is(err, expensedomain.ErrInvalidProject),
		errors.Is(err, expensedomain.ErrInvalidDate),
		errors.Is(err, expensedomain.ErrInvalidAmount),
		errors.Is(err, expensedomain.ErrInvalidCategory),
		errors.Is(err, expensedomain.ErrInvalidDescription),
		errors.Is(err, expensedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidClient),
		errors.Is(err, invoicedomain.ErrInvalidProject),
		errors.Is(err, invoicedomain.ErrNoItems),
		errors.Is(err, invoicedomain.ErrInvalidItem),
		errors.Is(err, invoicedomain.ErrPaymentNotPositive),
		errors.Is(err, invoicedomain.ErrPaymentExceedsBalance),
		errors.Is(err, invoicedomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isTimerValidationError(err error) bool {
	switch {
	case errors.Is(err, timerdomain.ErrInvalidProject),
		errors.Is(err, timerdomain.ErrAlreadyPaused),
		errors.Is(err, timerdomain.ErrNotPaused):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, timerdomain.ErrTimerActive):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrNotFound),
		errors.Is(err, taskdomain.ErrNotFound),
		errors.Is(err, timeentrydomain.ErrNotFound),
		errors.Is(err, expensedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, timerdomain.ErrNoTimer),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "payment_not_positive":
		return "amount must be positive"
	case "payment_exceeds_balance":
		return "amount exceeds remaining balance"
	case "end_before_start":
		return "end time must be after start time"
	case "invoice_requires_items":
		return "invoice requires at least one line item"
	default:
		return "invalid value"
	}
}

// classifyErrorForLog keeps request logs grouped by coarse type without
// leaking message detail.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case err == nil:
		return "", ""
	case asValidationErrors(err) != nil, isValidationError(err):
		return "validation_error", validationErrorCode(err)
	case isConflictError(err):
		return "conflict", err.Error()
	case isNotFoundError(err):
		return "not_found", err.Error()
	default:
		return "internal_error", err.Error()
	}
}
