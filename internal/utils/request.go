package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body cannot be empty")

func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) error {

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	defer r.Body.Close()

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if len(body) == 0 {
		return errEmptyBody
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("invalid JSON format: %w", err)
	}

	return nil
}

// ParseAndValidate decodes the body into dest and runs struct validation. On
// failure it has already written the error response.
func ParseAndValidate(r *http.Request, w http.ResponseWriter, dest any, validate *validator.Validate) bool {

	logger := middleware.LoggerFromContext(r.Context())

	if err := DecodeJSONBody(w, r, dest); err != nil {
		logger.Warn("Invalid request body", slog.String("error", err.Error()))
		response.Error(w, appErrors.BadRequestError("Invalid request body").WithDetail(err.Error()))
		return false
	}

	err := validate.Struct(dest)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		logger.Warn("Validation failed", slog.String("error", validationErrs.Error()))
		response.ValidationError(w, validationErrs)
		return false
	}

	logger.Error("Unexpected validation error", slog.String("error", err.Error()))
	response.Error(w, appErrors.ValidationError("Invalid input data"))
	return false
}

// ParseID reads a positive int64 path value.
func ParseID(r *http.Request, name string) (int64, error) {

	raw := r.PathValue(name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, appErrors.BadRequestError("Invalid ID format").WithDetail(name + "=" + raw)
	}

	return id, nil
}

// QueryInt returns the integer query value, or fallback when it is missing
// or not a number.
func QueryInt(r *http.Request, name string, fallback int) int {

	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return n
}
