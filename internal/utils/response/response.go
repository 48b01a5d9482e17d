package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/go-playground/validator/v10"
)

// APIResponse is the envelope of every JSON body the API writes.
type APIResponse struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func WriteJson(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", slog.Int("status", statusCode), slog.String("error", err.Error()))
		return err
	}

	return nil
}

func Success(w http.ResponseWriter, statusCode int, data any) {
	_ = WriteJson(w, statusCode, APIResponse{Success: true, Data: data})
}

func fail(w http.ResponseWriter, statusCode int, body *ErrorResponse) {
	_ = WriteJson(w, statusCode, APIResponse{Success: false, Error: body})
}

// Error maps an AppError to its status and code. Anything else is a 500 whose
// message never leaks to the client.
func Error(w http.ResponseWriter, err error) {

	appErr, ok := errors.IsAppError(err)
	if !ok {
		fail(w, http.StatusInternalServerError, &ErrorResponse{
			Code:    errors.ErrCodeInternal,
			Message: "An unexpected error occurred",
		})
		return
	}

	body := &ErrorResponse{Code: appErr.Code, Message: appErr.Message}
	if appErr.Detail != "" {
		body.Details = []string{appErr.Detail}
	}

	fail(w, appErr.StatusCode, body)
}

// ValidationError writes a 400 with one readable line per failed field.
func ValidationError(w http.ResponseWriter, errs validator.ValidationErrors) {

	details := make([]string, 0, len(errs))
	for _, fe := range errs {
		details = append(details, describe(fe))
	}

	fail(w, http.StatusBadRequest, &ErrorResponse{
		Code:    errors.ErrCodeValidation,
		Message: "Validation failed",
		Details: details,
	})
}

func describe(fe validator.FieldError) string {

	field, param := fe.Field(), fe.Param()

	// length bounds on strings and slices, value bounds on numbers
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Map:
		unit = " items"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required", field)
	case "email":
		return fmt.Sprintf("Field %s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("Field %s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("Field %s must be at most %s%s", field, param, unit)
	case "len":
		return fmt.Sprintf("Field %s must be exactly %s%s", field, param, unit)
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("Field %s must be greater than or equal to %s", field, param)
	case "lt":
		return fmt.Sprintf("Field %s must be less than %s", field, param)
	case "oneof":
		return fmt.Sprintf("Field %s must be one of [%s]", field, param)
	case "numeric", "number":
		return fmt.Sprintf("Field %s must be numeric", field)
	default:
		return fmt.Sprintf("Field %s is invalid: %s=%s", field, fe.Tag(), param)
	}
}
