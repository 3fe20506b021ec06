package services

import (
	"context"
	"testing"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/tests/testutil/mockstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func setupEventService(t *testing.T) (*calendarFixture, *EventService) {
	t.Helper()
	f := setupCalendarService(t)
	return f, NewEventService(f.store, NewPopulator(f.store), zap.NewNop())
}

func TestBuildEvent(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	calID := primitive.NewObjectID()

	testCases := []struct {
		name    string
		in      EventInput
		wantErr bool
	}{
		{"date only", EventInput{Name: "Launch", EventDate: &day}, false},
		{"combined only", EventInput{Name: "Launch", CombinedDateAndTime: &at}, false},
		{"date and combined same day", EventInput{Name: "Launch", EventDate: &day, CombinedDateAndTime: &at}, false},
		{"date and combined differ", EventInput{Name: "Launch", EventDate: &nextDay, CombinedDateAndTime: &at}, true},
		{"no date", EventInput{Name: "Launch"}, true},
		{"no name", EventInput{Name: "<p></p>", EventDate: &day}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := buildEvent(tc.in, calID, models.UserRef{})
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Launch", event.EventName)
			assert.Equal(t, calID, event.CalendarID)
		})
	}
}

func TestBuildEvent_RepeatOptionNeedsRepeats(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	event, err := buildEvent(EventInput{Name: "Sync", EventDate: &day, RepeatOption: "weekly"}, primitive.NewObjectID(), models.UserRef{})
	require.NoError(t, err)
	assert.Empty(t, event.RepeatOption)

	event, err = buildEvent(EventInput{Name: "Sync", EventDate: &day, Repeats: true, RepeatOption: "weekly"}, primitive.NewObjectID(), models.UserRef{})
	require.NoError(t, err)
	assert.Equal(t, "weekly", event.RepeatOption)
}

func TestBuildEvent_SanitizesDescription(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	event, err := buildEvent(EventInput{
		Name:        "Sync",
		Description: `<p onclick="x()">Agenda</p><script>alert(1)</script>`,
		EventDate:   &day,
	}, primitive.NewObjectID(), models.UserRef{})

	require.NoError(t, err)
	assert.Equal(t, "<p>Agenda</p>", event.EventDescription)
}

func TestEventService_Create(t *testing.T) {
	f, svc := setupEventService(t)
	eventID := primitive.NewObjectID()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	f.expectCalendar(f.cal)
	f.expectPopulate()
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.creator), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.creator})).Return(nil)
	f.store.On("InsertOne", mock.Anything, database.Events, mock.Anything).Return(eventID, nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID), mock.Anything).
		Return(mockstore.Matched(1), nil)

	out, err := svc.Create(context.Background(), f.creator, f.cal.ID, EventInput{Name: "Launch", EventDate: &day})

	require.NoError(t, err)
	assert.Equal(t, f.cal.ID, out.ID)
	f.store.AssertExpectations(t)
}

func TestEventService_Update_ReturnsDestination(t *testing.T) {
	f, svc := setupEventService(t)
	eventID := primitive.NewObjectID()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	f.expectCalendar(f.cal)
	f.expectPopulate()
	f.store.On("FindOne", mock.Anything, database.Events, mockstore.ByID(eventID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.Event{ID: eventID, CalendarID: f.cal.ID})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID), mock.Anything).
		Return(mockstore.Matched(1), nil)
	f.store.On("ReplaceOne", mock.Anything, database.Events, mockstore.ByID(eventID),
		mock.MatchedBy(func(e *models.Event) bool { return e.ID == eventID && e.EventName == "Renamed" }), false).
		Return(mockstore.Matched(1), nil)

	out, err := svc.Update(context.Background(), f.authorized, f.cal.ID, eventID, EventInput{Name: "Renamed", EventDate: &day})

	require.NoError(t, err)
	assert.Equal(t, f.cal.ID, out.ID)
	f.store.AssertExpectations(t)
}

func TestEventService_Update_ViewerForbidden(t *testing.T) {
	f, svc := setupEventService(t)
	eventID := primitive.NewObjectID()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Events, mockstore.ByID(eventID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.Event{ID: eventID, CalendarID: f.cal.ID})).Return(nil)

	_, err := svc.Update(context.Background(), f.viewer, f.cal.ID, eventID, EventInput{Name: "X", EventDate: &day})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEventService_Delete_NotOnCalendar(t *testing.T) {
	f, svc := setupEventService(t)
	eventID := primitive.NewObjectID()

	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Events, mockstore.ByID(eventID), mock.Anything, mock.Anything).
		Return(database.ErrNotFound)

	_, err := svc.Delete(context.Background(), f.creator, f.cal.ID, eventID)

	assert.ErrorIs(t, err, ErrEventNotFound)
}
