package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new user
//	@Description	Creates a customer account with a bcrypt hashed password.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"User Registration Details"
//	@Success		201		{object}	models.User				"Successfully registered user"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		409		{object}	response.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("userId", user.ID.String()))
		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//	@Summary		Log in
//	@Description	Exchanges email and password for a JWT. Attempts are rate limited per email.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"User Credentials"
//	@Success		200			{object}	models.LoginResponse	"Token issued"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	models.LoginResponse	"Invalid email or password"
//	@Failure		429			{object}	models.LoginResponse	"Too many login attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status, code := http.StatusUnauthorized, errors.ErrCodeUnauthorized
			if resp.RetryAfter > 0 {
				status, code = http.StatusTooManyRequests, errors.ErrCodeTooManyRequests
			}

			logger.Warn("Login rejected", slog.String("email", req.Email), slog.Int("status", status))
			response.WriteJson(w, status, response.APIResponse{
				Success: false,
				Data:    resp,
				Error:   &response.ErrorResponse{Code: code, Message: resp.Message},
			})
			return
		}

		logger.Info("User logged in", slog.String("email", req.Email))
		response.Success(w, http.StatusOK, resp)
	}
}

// Profile godoc
//	@Summary		Get the current user
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"Current user"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"User not found"
//	@Security		BearerAuth
//	@Router			/users/profile [get]
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, logger, ok := authenticated(w, r, "profile")
		if !ok {
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("User not found", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User profile accessed")
		response.Success(w, http.StatusOK, user)
	}
}
