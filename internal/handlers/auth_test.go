package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/DutsAndrew/ck-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setupAuthTest() (*testutil.MockAuthService, http.Handler) {
	mockAuthService := new(testutil.MockAuthService)
	handler := NewAuthHandler(mockAuthService, zap.NewNop())

	return mockAuthService, testRouter(RouterConfig{Auth: handler, Authenticator: mockAuthService})
}

func signupRequest() dto.SignupRequest {
	return dto.SignupRequest{
		Email:           "a@x.io",
		Password:        "p$1",
		ConfirmPassword: "p$1",
		FirstName:       "A",
		LastName:        "B",
		JobTitle:        "T",
		Company:         "C",
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	mockAuthService, app := setupAuthTest()

	user := &models.User{ID: primitive.NewObjectID(), Email: "a@x.io", FirstName: "A", LastName: "B"}
	mockAuthService.On("Signup", mock.Anything, services.SignupInput{
		Email:           "a@x.io",
		Password:        "p$1",
		ConfirmPassword: "p$1",
		FirstName:       "A",
		LastName:        "B",
		JobTitle:        "T",
		Company:         "C",
	}).Return(&services.SignupResult{Message: "account created", User: user}, nil)

	rec := do(t, app, http.MethodPost, "/auth/signup", signupRequest(), false)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "account created", body["message"])
	assert.Equal(t, "a@x.io", body["user"].(map[string]any)["email"])
	mockAuthService.AssertExpectations(t)
}

func TestAuthHandler_Signup_EmailTaken(t *testing.T) {
	mockAuthService, app := setupAuthTest()
	mockAuthService.On("Signup", mock.Anything, mock.Anything).Return(nil, services.ErrEmailTaken)

	rec := do(t, app, http.MethodPost, "/auth/signup", signupRequest(), false)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.io", user["email"])
	assert.NotContains(t, user, "password")
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	mockAuthService, app := setupAuthTest()
	mockAuthService.On("Signup", mock.Anything, mock.Anything).
		Return(nil, errors.Join(services.ErrValidation, errors.New("passwords do not match")))

	rec := do(t, app, http.MethodPost, "/auth/signup", signupRequest(), false)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "passwords do not match")
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	mockAuthService, app := setupAuthTest()

	expiresAt := time.Now().Add(15 * time.Minute)
	mockAuthService.On("Login", mock.Anything, "a@x.io", "p$1").Return(&services.LoginResult{
		User: &models.User{ID: primitive.NewObjectID(), Email: "a@x.io"},
		Tokens: &services.TokenPair{
			AccessToken:     "access-123",
			AccessExpiresAt: expiresAt,
			RefreshToken:    "refresh-456",
		},
	}, nil)

	rec := do(t, app, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "a@x.io", Password: "p$1"}, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "refresh-456", body["refresh_token"])
	assert.Equal(t, float64(200), body["status"])

	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=access-123")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=Lax")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mockAuthService, app := setupAuthTest()
	mockAuthService.On("Login", mock.Anything, "a@x.io", "wrong").Return(nil, services.ErrAuthInvalid)

	rec := do(t, app, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "a@x.io", Password: "wrong"}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestAuthHandler_Refresh(t *testing.T) {
	mockAuthService, app := setupAuthTest()
	mockAuthService.On("Refresh", mock.Anything, "refresh-456").
		Return("access-789", time.Now().Add(15*time.Minute), nil)

	rec := do(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "refresh-456"}, false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "access_token=access-789")
	body := decodeBody(t, rec)
	assert.Greater(t, body["expires_in"].(float64), float64(0))
}

func TestAuthHandler_Refresh_StorageUnavailable(t *testing.T) {
	mockAuthService, app := setupAuthTest()
	mockAuthService.On("Refresh", mock.Anything, "refresh-456").
		Return("", time.Time{}, services.ErrStorageUnavailable)

	rec := do(t, app, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "refresh-456"}, false)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage unavailable")
}
