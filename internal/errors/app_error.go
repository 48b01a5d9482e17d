package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries the HTTP status and machine-readable code a handler
// writes back. Err is the underlying cause and is never shown to clients.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

const (
	ErrCodeValidation             = "VALIDATION_ERROR"
	ErrCodeBadRequest             = "BAD_REQUEST"
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeInternal               = "INTERNAL_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeDuplicateEntry         = "DUPLICATE_ENTRY"
	ErrCodeThirdPartyError        = "THIRD_PARTY_ERROR"
	ErrCodeTooManyRequests        = "TOO_MANY_REQUESTS"
	ErrCodeEmptyCart              = "EMPTY_CART"
	ErrCodeMissingShippingAddress = "MISSING_SHIPPING_ADDRESS"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodePersistenceConflict    = "PERSISTENCE_CONFLICT"
	ErrCodeConflict               = "CONFLICT"
)

var statusByCode = map[string]int{
	ErrCodeValidation:             http.StatusBadRequest,
	ErrCodeBadRequest:             http.StatusBadRequest,
	ErrCodeInvalidQuantity:        http.StatusBadRequest,
	ErrCodeUnauthorized:           http.StatusUnauthorized,
	ErrCodeForbidden:              http.StatusForbidden,
	ErrCodeNotFound:               http.StatusNotFound,
	ErrCodeDuplicateEntry:         http.StatusConflict,
	ErrCodeConflict:               http.StatusConflict,
	ErrCodeEmptyCart:              http.StatusConflict,
	ErrCodePersistenceConflict:    http.StatusConflict,
	ErrCodeMissingShippingAddress: http.StatusUnprocessableEntity,
	ErrCodeTooManyRequests:        http.StatusTooManyRequests,
	ErrCodeInternal:               http.StatusInternalServerError,
	ErrCodeDatabaseError:          http.StatusInternalServerError,
	ErrCodeThirdPartyError:        http.StatusInternalServerError,
}

// New builds an AppError for a known code. Unknown codes map to 500.
func New(code, message string) *AppError {
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	return &AppError{Code: code, Message: message, StatusCode: status}
}

func ValidationError(message string) *AppError { return New(ErrCodeValidation, message) }

func BadRequestError(message string) *AppError { return New(ErrCodeBadRequest, message) }

func NotFoundError(message string) *AppError { return New(ErrCodeNotFound, message) }

func UnauthorizedError(message string) *AppError { return New(ErrCodeUnauthorized, message) }

func ForbiddenError(message string) *AppError { return New(ErrCodeForbidden, message) }

func InternalError(message string) *AppError { return New(ErrCodeInternal, message) }

func DatabaseError(message string) *AppError { return New(ErrCodeDatabaseError, message) }

func DuplicateEntryError(message string) *AppError { return New(ErrCodeDuplicateEntry, message) }

func ThirdPartyError(message string) *AppError { return New(ErrCodeThirdPartyError, message) }

func TooManyRequestsError(message string) *AppError { return New(ErrCodeTooManyRequests, message) }

func ConflictError(message string) *AppError { return New(ErrCodeConflict, message) }

func EmptyCartError(message string) *AppError { return New(ErrCodeEmptyCart, message) }

func MissingShippingAddressError(message string) *AppError {
	return New(ErrCodeMissingShippingAddress, message)
}

func InvalidQuantityError(message string) *AppError { return New(ErrCodeInvalidQuantity, message) }

// PersistenceConflictError is returned when the order transaction rolled
// back on a lock, constraint or stock failure. The client may retry.
func PersistenceConflictError() *AppError {
	return New(ErrCodePersistenceConflict, "Could not place order")
}

// AddValidationError reports a single bad field.
func AddValidationError(field, reason string) *AppError {
	return ValidationError(fmt.Sprintf("Invalid field '%s': %s", field, reason))
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Code == code
}
