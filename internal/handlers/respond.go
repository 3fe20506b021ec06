package handlers

import (
	"errors"

	"github.com/DutsAndrew/ck-api-sub000/internal/middleware"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/DutsAndrew/ck-api-sub000/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAuthInvalid):
		return 401
	case errors.Is(err, services.ErrForbidden):
		return 403
	case errors.Is(err, services.ErrNotFound):
		return 404
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrNoOp),
		errors.Is(err, services.ErrAuthMissing),
		errors.Is(err, services.ErrConflict):
		return 422
	case errors.Is(err, services.ErrStorageUnavailable):
		return 503
	default:
		return 500
	}
}

// respondError writes err as {"detail": ...}. Server-side failures are
// logged and answered with a generic detail.
func respondError(c *drift.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	detail := err.Error()

	switch status {
	case 500:
		detail = "internal server error"
	case 503:
		detail = "storage unavailable, try again later"
	}
	if status >= 500 {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	_ = c.JSON(status, dto.ErrorResponse{Detail: detail})
}

func respondDetail(c *drift.Context, status int, detail string) {
	_ = c.JSON(status, dto.ErrorResponse{Detail: detail})
}

// requireUser returns the authenticated user id or answers 401.
func requireUser(c *drift.Context) (primitive.ObjectID, bool) {
	userID := middleware.GetUserID(c)
	if userID.IsZero() {
		respondDetail(c, 401, "not authenticated")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// objectIDParam parses a path parameter as an ObjectID or answers 422.
func objectIDParam(c *drift.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondDetail(c, 422, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func roleParam(c *drift.Context, name string) (models.Role, bool) {
	role, err := models.ParseRole(c.Param(name))
	if err != nil {
		respondDetail(c, 422, err.Error())
		return models.RoleNone, false
	}
	return role, true
}
