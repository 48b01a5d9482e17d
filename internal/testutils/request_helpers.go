package testutils

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	return CreateTestRequestWithRole(method, target, body, userID, models.RoleCustomer, pathParams)
}

func CreateTestRequestWithRole(method, target string, body io.Reader, userID uuid.UUID, role models.Role, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	claims := &models.Claims{UserID: userID, Email: "test@example.com", Role: role}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return req.WithContext(middleware.WithLogger(req.Context(), logger))
}

// DecodeResponse unmarshals the envelope and, when data is non-nil, its
// data field into data.
func DecodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) response.APIResponse {
	t.Helper()

	var envelope struct {
		Success bool                    `json:"success"`
		Data    json.RawMessage         `json:"data"`
		Error   *response.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	if data != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}

	return response.APIResponse{Success: envelope.Success, Data: data, Error: envelope.Error}
}
