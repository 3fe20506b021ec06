package services

import (
	"context"
	"testing"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/tests/testutil/mockstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCalendarService_SetPreferredColor_NewEntry(t *testing.T) {
	f := setupCalendarService(t)
	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.viewer), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.viewer, UserColorPreferences: models.NewColorPreferences()})).Return(nil)

	want := models.ColorScheme{ObjectID: f.cal.ID, BackgroundColor: "#000000", FontColor: "#ffffff"}
	f.store.On("UpdateOne", mock.Anything, database.Users,
		bson.M{"_id": f.viewer, "user_color_preferences.calendars.object_id": bson.M{"$ne": f.cal.ID}},
		mock.MatchedBy(func(u *database.Update) bool {
			return assert.ObjectsAreEqual(bson.M{"user_color_preferences.calendars": want}, u.Document()["$push"])
		})).Return(mockstore.Matched(1), nil)

	got, err := f.svc.SetPreferredColor(context.Background(), f.viewer, f.cal.ID, "#000000", "#ffffff")

	require.NoError(t, err)
	assert.Equal(t, &want, got)
	f.store.AssertExpectations(t)
}

func TestCalendarService_SetPreferredColor_OverwritesEntry(t *testing.T) {
	f := setupCalendarService(t)
	prefs := models.NewColorPreferences()
	prefs.Calendars = append(prefs.Calendars, models.ColorScheme{ObjectID: f.cal.ID, BackgroundColor: "#111111", FontColor: "#eeeeee"})

	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.authorized), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.authorized, UserColorPreferences: prefs})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Users, mockstore.ByID(f.authorized),
		mock.MatchedBy(func(u *database.Update) bool {
			set, ok := u.Document()["$set"].(bson.M)
			return ok && set["user_color_preferences.calendars.$[e0].background_color"] == "#222222" &&
				set["user_color_preferences.calendars.$[e1].font_color"] == "#eeeeee"
		})).Return(mockstore.Matched(1), nil)

	got, err := f.svc.SetPreferredColor(context.Background(), f.authorized, f.cal.ID, "#222222", "")

	require.NoError(t, err)
	assert.Equal(t, "#222222", got.BackgroundColor)
	assert.Equal(t, "#eeeeee", got.FontColor)
	f.store.AssertExpectations(t)
	f.store.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestCalendarService_SetPreferredColor_PushLosesRace(t *testing.T) {
	f := setupCalendarService(t)
	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.creator), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.creator, UserColorPreferences: models.NewColorPreferences()})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Users, mock.MatchedBy(func(filter bson.M) bool { return len(filter) == 2 }), mock.Anything).
		Return(mockstore.Matched(0), nil)
	f.store.On("UpdateOne", mock.Anything, database.Users, mockstore.ByID(f.creator),
		mock.MatchedBy(func(u *database.Update) bool { return len(u.ArrayFilters()) > 0 })).
		Return(mockstore.Matched(1), nil)

	_, err := f.svc.SetPreferredColor(context.Background(), f.creator, f.cal.ID, "#000000", "#ffffff")

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestCalendarService_SetPreferredColor_Rejects(t *testing.T) {
	f := setupCalendarService(t)

	_, err := f.svc.SetPreferredColor(context.Background(), f.creator, f.cal.ID, "  ", "#fff")
	assert.ErrorIs(t, err, ErrValidation)

	f.expectCalendar(f.cal)
	_, err = f.svc.SetPreferredColor(context.Background(), f.stranger, f.cal.ID, "#000", "#fff")
	assert.ErrorIs(t, err, ErrForbidden)
}
