package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	JobTitle        string
	Company         string
}

type SignupResult struct {
	Message string
	User    *models.User
}

type LoginResult struct {
	User   *models.User
	Tokens *TokenPair
}

type AuthService struct {
	store     database.Store
	jwt       *JWTService
	cache     *TokenCache
	calendars *CalendarService
	logger    *zap.Logger
}

func NewAuthService(store database.Store, jwt *JWTService, cache *TokenCache, calendars *CalendarService, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     store,
		jwt:       jwt,
		cache:     cache,
		calendars: calendars,
		logger:    logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *SignupInput) validate() error {
	var missing []string
	for name, v := range map[string]string{
		"email":            in.Email,
		"password":         in.Password,
		"confirm_password": in.ConfirmPassword,
		"first_name":       in.FirstName,
		"last_name":        in.LastName,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return validationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != strings.TrimSpace(in.Email) {
		return validationError("email is not a valid address")
	}
	if in.Password != in.ConfirmPassword {
		return validationError("password and confirm_password do not match")
	}
	if len(in.Password) > maxPasswordBytes {
		return validationError("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// Signup creates the user and their personal calendar. An email that is
// already registered yields ErrEmailTaken. Failing to create the personal
// calendar only degrades the message.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	var existing models.User
	err := s.store.FindOne(ctx, database.Users, bson.M{"email": email}, &existing, bson.M{"_id": 1})
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, database.ErrNotFound):
		return nil, storeErr(err, nil)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:                email,
		Password:             hash,
		FirstName:            strings.TrimSpace(in.FirstName),
		LastName:             strings.TrimSpace(in.LastName),
		JobTitle:             strings.TrimSpace(in.JobTitle),
		Company:              strings.TrimSpace(in.Company),
		AccountType:          models.AccountTypeBasic,
		Role:                 models.UserRoleUser,
		Joined:               now,
		LastOnline:           now,
		Calendars:            []primitive.ObjectID{},
		PendingCalendars:     []primitive.ObjectID{},
		UserColorPreferences: models.NewColorPreferences(),
	}

	id, err := s.store.InsertOne(ctx, database.Users, user)
	if errors.Is(err, database.ErrDuplicateKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, storeErr(err, nil)
	}
	user.ID = id

	result := &SignupResult{Message: "account created", User: user}

	cal, err := s.calendars.CreatePersonal(ctx, id)
	if err != nil {
		s.logger.Warn("failed to create personal calendar", zap.String("user_id", id.Hex()), zap.Error(err))
		result.Message = "account created, but your personal calendar could not be set up"
		return result, nil
	}
	user.PersonalCalendar = &cal.ID
	user.Calendars = append(user.Calendars, cal.ID)

	return result, nil
}

// Login verifies the credentials and mints a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	var user models.User
	if err := s.store.FindOne(ctx, database.Users, bson.M{"email": email}, &user, nil); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrAuthInvalid
		}
		return nil, storeErr(err, nil)
	}
	if !CheckPassword(password, user.Password) {
		return nil, ErrAuthInvalid
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": user.ID},
		database.NewUpdate().Set("last_online", now)); err != nil {
		s.logger.Warn("failed to record last_online", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	} else {
		user.LastOnline = now
	}

	return &LoginResult{User: &user, Tokens: tokens}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	if refreshToken == "" {
		return "", time.Time{}, ErrAuthMissing
	}
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrAuthInvalid, err)
	}

	var user models.User
	if err := s.store.FindOne(ctx, database.Users, bson.M{"_id": userID}, &user, bson.M{"email": 1}); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", time.Time{}, ErrAuthInvalid
		}
		return "", time.Time{}, storeErr(err, nil)
	}

	return s.jwt.GenerateAccessToken(user.Email)
}

// Authenticate resolves a raw access token to a principal, consulting the
// cache first. A cold cache gives the same answer, only slower.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrAuthMissing
	}
	if p, ok := s.cache.Get(token); ok {
		return &p, nil
	}

	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthInvalid, err)
	}

	var user models.User
	if err := s.store.FindOne(ctx, database.Users, bson.M{"email": claims.Email}, &user, bson.M{"_id": 1, "email": 1}); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrAuthInvalid
		}
		return nil, storeErr(err, nil)
	}

	p := Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	s.cache.Add(token, p)
	return &p, nil
}
