package services

import (
	"context"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const calendarColorsField = "user_color_preferences.calendars"

// SetPreferredColor records the requester's colors for a calendar they can
// read. Repeated calls overwrite the single entry for the calendar.
func (s *CalendarService) SetPreferredColor(ctx context.Context, requesterID, calendarID primitive.ObjectID, background, font string) (*models.ColorScheme, error) {
	background = sanitize.Text(background)
	font = sanitize.Text(font)
	if background == "" {
		return nil, validationError("preferredColor is required")
	}

	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayRead(requesterID) {
		return nil, ErrForbidden
	}

	user, err := loadUser(ctx, s.store, requesterID)
	if err != nil {
		return nil, err
	}

	scheme := models.ColorScheme{ObjectID: calendarID, BackgroundColor: background, FontColor: font}
	if existing, ok := user.UserColorPreferences.CalendarColor(calendarID); ok {
		if font == "" {
			scheme.FontColor = existing.FontColor
		}
		return &scheme, s.updateColor(ctx, requesterID, scheme)
	}

	// The guard refuses the push when an entry appeared since the user was read.
	res, err := s.store.UpdateOne(ctx, database.Users,
		bson.M{"_id": requesterID, calendarColorsField + ".object_id": bson.M{"$ne": calendarID}},
		database.NewUpdate().Push(calendarColorsField, scheme))
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return &scheme, s.updateColor(ctx, requesterID, scheme)
	}
	return &scheme, nil
}

func (s *CalendarService) updateColor(ctx context.Context, userID primitive.ObjectID, scheme models.ColorScheme) error {
	update := database.NewUpdate().
		SetMatched(calendarColorsField, "object_id", scheme.ObjectID, "background_color", scheme.BackgroundColor)
	if scheme.FontColor != "" {
		update.SetMatched(calendarColorsField, "object_id", scheme.ObjectID, "font_color", scheme.FontColor)
	}

	res, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": userID}, update)
	if err != nil {
		return storeErr(err, nil)
	}
	if res.Matched == 0 {
		return ErrUserNotFound
	}
	return nil
}
