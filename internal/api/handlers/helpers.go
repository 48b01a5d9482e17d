package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// authenticated returns the caller's claims and the request logger, or
// writes 401 and reports false.
func authenticated(w http.ResponseWriter, r *http.Request, action string) (*models.Claims, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		logger.Warn("Unauthorized attempt: missing user claims", slog.String("action", action))
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, logger, false
	}

	return claims, logger, true
}
