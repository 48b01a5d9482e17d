package service

import (
	"context"
	"errors"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// compared against when no user matches the email
var unknownUserHash, _ = bcrypt.GenerateFromPassword([]byte("storefront-unknown-user"), bcrypt.DefaultCost)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo      repository.UserRepository
	rateLimit repository.RateLimitRepository
	jwtKey    []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(repo repository.UserRepository, rateLimit repository.RateLimitRepository, jwtKey []byte, expiryHours int) UserService {

	if expiryHours <= 0 {
		expiryHours = 24
	}

	return &userService{
		repo:      repo,
		rateLimit: rateLimit,
		jwtKey:    jwtKey,
		tokenTTL:  time.Duration(expiryHours) * time.Hour,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	email := normalizeEmail(req.Email)

	switch _, err := s.repo.GetUserByEmail(ctx, email); {
	case err == nil:
		return nil, appErrors.DuplicateEntryError("Email already registered")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, appErrors.DatabaseError("Failed to check email").WithError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleCustomer,
	}

	// a concurrent signup can still win between the lookup and the insert
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.DuplicateEntryError("Email already registered").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

// Login checks the attempt window before any credential work. Rejections are
// reported in the response, not as errors.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	email := normalizeEmail(req.Email)

	allowed, remaining, retryAfter, err := s.rateLimit.CheckLoginRateLimit(ctx, email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	hash := unknownUserHash
	user, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		hash = []byte(user.Password)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	if bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil || user == nil {
		return &models.LoginResponse{
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *userService) issueToken(user *models.User) (string, error) {

	issued := s.now()

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("User not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch user").WithError(err)
	}

	return user, nil
}
