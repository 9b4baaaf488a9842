package handlers

import (
	"net/http"
	"time"

	"github.com/flowvera/flowvera/internal/api/dto"
	"github.com/flowvera/flowvera/internal/api/middleware"
	"github.com/flowvera/flowvera/internal/domain/user"
	"github.com/flowvera/flowvera/internal/pkg/errors"
	"github.com/flowvera/flowvera/internal/pkg/logger"
	"github.com/flowvera/flowvera/internal/pkg/utils"
	"github.com/flowvera/flowvera/internal/pkg/validator"
	"github.com/flowvera/flowvera/internal/services"
)

const refreshTokenCookie = "refreshToken"

// CookieConfig controls the auth cookies set on login
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	userService user.Service
	cookies     CookieConfig
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	userService user.Service,
	cookies CookieConfig,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cookies:     cookies,
		logger:      log,
		validator:   val,
	}
}

// Register handles user registration
// @Summary User registration
// @Description Register a new account and start a 14 day free trial
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} utils.SuccessResponse{data=dto.AuthResponse} "User successfully registered"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.authService.Register(r.Context(), req.ToInput())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.setAuthCookies(w, res)
	utils.WriteSuccess(w, http.StatusCreated, authResponse(res))
}

// Login handles user login
// @Summary User login
// @Description Authenticate user with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} utils.SuccessResponse{data=dto.AuthResponse} "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.With("email", req.Email).Warn("Authentication failed")
		utils.WriteAppError(w, err)
		return
	}

	h.setAuthCookies(w, res)
	utils.WriteSuccess(w, http.StatusOK, authResponse(res))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Exchange a refresh token (body or refreshToken cookie) for a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh token"
// @Success 200 {object} utils.SuccessResponse{data=dto.AuthResponse} "New tokens"
// @Failure 401 {object} utils.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, h.validator, &req) {
			return
		}
	}
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}

	res, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.setAuthCookies(w, res)
	utils.WriteSuccess(w, http.StatusOK, authResponse(res))
}

// Logout clears the auth cookies
// @Summary Logout
// @Tags Auth
// @Success 204 "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			HttpOnly: true,
			Secure:   h.cookies.Secure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
			MaxAge:   -1,
		})
	}
	utils.NoContent(w)
}

// Profile returns the current user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.UserDTO} "Current user"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromUser(u))
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, res *services.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    res.Tokens.AccessToken,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.cookies.AccessTTL.Seconds()),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    res.Tokens.RefreshToken,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(h.cookies.RefreshTTL.Seconds()),
	})
}

func authResponse(res *services.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		User:         dto.FromUser(res.User),
	}
}
