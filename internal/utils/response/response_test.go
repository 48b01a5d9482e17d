package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	rr := httptest.NewRecorder()

	response.Success(rr, http.StatusCreated, map[string]int{"id": 7})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success": true, "data": {"id": 7}}`, rr.Body.String())
}

func TestError(t *testing.T) {
	t.Run("Success - AppError With Detail", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, appErrors.EmptyCartError("Your cart is empty").WithDetail("cart 3"))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"success": false, "error": {"code": "EMPTY_CART", "message": "Your cart is empty", "details": ["cart 3"]}}`, rr.Body.String())
	})

	t.Run("Success - Plain Error Hidden", func(t *testing.T) {
		rr := httptest.NewRecorder()

		response.Error(rr, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeInternal)
		assert.NotContains(t, rr.Body.String(), "boom")
	})
}

func TestValidationError(t *testing.T) {
	type input struct {
		Rating  int    `validate:"required,min=1,max=5"`
		Email   string `validate:"required,email"`
		Comment string `validate:"min=3"`
		Size    string `validate:"oneof=XS S M L XL"`
	}

	err := validator.New().Struct(input{Rating: 9, Email: "nope", Comment: "ok", Size: "XXL"})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	rr := httptest.NewRecorder()
	response.ValidationError(rr, errs)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	assert.JSONEq(t, `{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "Validation failed", "details": [
		"Field Rating must be at most 5",
		"Field Email must be a valid email address",
		"Field Comment must be at least 3 characters",
		"Field Size must be one of [XS S M L XL]"
	]}}`, rr.Body.String())
}
