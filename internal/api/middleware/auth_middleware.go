package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claimsKey struct{}

var (
	errMissingHeader = errors.New("missing authorization header")
	errHeaderFormat  = errors.New("malformed authorization header")
)

type AuthMiddleware struct {
	jwtKey []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{
		jwtKey: jwtKey,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}
}

func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*models.Claims)
	if !ok || claims == nil || claims.UserID == uuid.Nil {
		return nil, false
	}

	return claims, true
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingHeader
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.Contains(token, " ") {
		return "", errHeaderFormat
	}

	return token, nil
}

func (m *AuthMiddleware) parseClaims(raw string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := m.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.jwtKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// Authenticate requires a valid HS256 bearer token and stores its claims in
// the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		raw, err := bearerToken(r)
		if err != nil {
			logger.Warn("Rejected authorization header", slog.String("reason", err.Error()))

			message := "Invalid authorization format"
			if errors.Is(err, errMissingHeader) {
				message = "Authorization header is required"
			}
			response.Error(w, appErrors.UnauthorizedError(message))
			return
		}

		claims, err := m.parseClaims(raw)
		if err != nil {
			logger.Warn("Rejected token", slog.String("error", err.Error()))
			response.Error(w, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}

		logger = logger.With(slog.String("user_id", claims.UserID.String()), slog.String("role", string(claims.Role)))

		ctx := WithLogger(WithClaims(r.Context(), claims), logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin authenticates the request and rejects users without the admin role.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Non-admin user attempted a dashboard operation")
			response.Error(w, appErrors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
