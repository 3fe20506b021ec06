package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/middleware"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthHandler(authService AuthServiceInterface, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Signup(c *drift.Context) {
	var req dto.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	res, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		JobTitle:        req.JobTitle,
		Company:         req.Company,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		_ = c.JSON(200, dto.SignupResponse{
			Message: "an account with this email already exists",
			Success: false,
			User:    req.Echo(),
		})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	_ = c.JSON(200, dto.SignupResponse{
		Message: res.Message,
		Success: true,
		User:    res.User,
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setAccessCookie(c, res.Tokens.AccessToken, res.Tokens.AccessExpiresAt)
	_ = c.JSON(200, dto.LoginResponse{
		Message:      "login successful",
		RefreshToken: res.Tokens.RefreshToken,
		Status:       200,
		User:         res.User,
	})
}

func (h *AuthHandler) Refresh(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		respondDetail(c, 422, "invalid request body")
		return
	}

	token, expiresAt, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	setAccessCookie(c, token, expiresAt)
	_ = c.JSON(200, dto.RefreshTokenResponse{
		Message:   "token refreshed",
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
	})
}

func setAccessCookie(c *drift.Context, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	c.Response.Header().Add("Set-Cookie", cookie.String())
}
