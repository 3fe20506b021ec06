package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"

	AccessTokenCookie = "access_token"
)

// Authenticator resolves a raw access token to the principal it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

// Auth accepts the token from an Authorization: Bearer header and falls back
// to the access_token cookie. Missing credentials are a 422, rejected ones a
// 401.
func Auth(authenticator Authenticator) drift.HandlerFunc {
	return func(c *drift.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abort(c, 401, "invalid authorization header format")
			return
		}
		if token == "" {
			abort(c, 422, "missing credentials")
			return
		}

		principal, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrStorageUnavailable) {
				abort(c, 503, "storage unavailable")
				return
			}
			abort(c, 401, "invalid or expired token")
			return
		}

		c.Set(UserIDKey, principal.UserID)
		c.Set(UserEmailKey, principal.Email)

		c.Next()
	}
}

// bearerToken returns the token and false when an Authorization header is
// present but malformed. An empty token means no credentials were sent.
func bearerToken(c *drift.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}

	if cookie, err := c.Request.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value, true
	}
	return "", true
}

func abort(c *drift.Context, status int, detail string) {
	_ = c.JSON(status, dto.ErrorResponse{Detail: detail})
	c.Abort()
}

func GetUserID(c *drift.Context) primitive.ObjectID {
	if id, ok := c.Get(UserIDKey); ok {
		if oid, ok := id.(primitive.ObjectID); ok {
			return oid
		}
	}
	return primitive.NilObjectID
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}
