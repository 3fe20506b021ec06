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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newNoteInput() NoteInput {
	return NoteInput{
		Note:      map[string]any{"title": "<script>alert(1)</script>Standup"},
		Type:      "meeting",
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func setupNoteService(t *testing.T) (*calendarFixture, *NoteService) {
	t.Helper()
	f := setupCalendarService(t)
	return f, NewNoteService(f.store, NewPopulator(f.store), zap.NewNop())
}

func TestNoteService_Create(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()
	f.expectCalendar(f.cal)
	f.expectPopulate()
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.authorized), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.authorized, FirstName: "Ann", LastName: "Lee"})).Return(nil)
	f.store.On("InsertOne", mock.Anything, database.CalendarNotes, mock.MatchedBy(func(n *models.CalendarNote) bool {
		body, ok := n.Note.(map[string]any)
		return ok && body["title"] == "Standup" &&
			n.CalendarID == f.cal.ID &&
			n.CreatedBy == models.UserRef{UserID: f.authorized, FirstName: "Ann", LastName: "Lee"}
	})).Return(noteID, nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID),
		mock.MatchedBy(func(u *database.Update) bool {
			return assert.ObjectsAreEqual(bson.M{"calendar_notes": noteID}, u.Document()["$addToSet"])
		})).Return(mockstore.Matched(1), nil)

	out, err := svc.Create(context.Background(), f.authorized, f.cal.ID, newNoteInput())

	require.NoError(t, err)
	assert.Equal(t, f.cal.ID, out.ID)
	f.store.AssertExpectations(t)
}

func TestNoteService_Create_RemovesNoteWhenLinkFails(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()
	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.Users, mockstore.ByID(f.creator), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.User{ID: f.creator})).Return(nil)
	f.store.On("InsertOne", mock.Anything, database.CalendarNotes, mock.Anything).Return(noteID, nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID), mock.Anything).
		Return(mockstore.Matched(0), nil)
	f.store.On("DeleteOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID)).Return(int64(1), nil)

	_, err := svc.Create(context.Background(), f.creator, f.cal.ID, newNoteInput())

	assert.ErrorIs(t, err, ErrCalendarNotFound)
	f.store.AssertExpectations(t)
}

func TestNoteService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*NoteInput)
	}{
		{"missing note", func(in *NoteInput) { in.Note = nil }},
		{"missing start", func(in *NoteInput) { in.StartDate = time.Time{} }},
		{"end before start", func(in *NoteInput) { in.EndDate = in.StartDate.Add(-time.Hour) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, svc := setupNoteService(t)
			f.expectCalendar(f.cal)
			f.store.On("FindOne", mock.Anything, database.Users, mock.Anything, mock.Anything, mock.Anything).
				Run(mockstore.Fill(models.User{ID: f.creator})).Return(nil)

			in := newNoteInput()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), f.creator, f.cal.ID, in)

			assert.ErrorIs(t, err, ErrValidation)
			f.store.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNoteService_Create_ViewerForbidden(t *testing.T) {
	f, svc := setupNoteService(t)
	f.expectCalendar(f.cal)

	_, err := svc.Create(context.Background(), f.viewer, f.cal.ID, newNoteInput())

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNoteService_Update_MoveNeedsSourceRights(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()

	source := models.NewCalendar("Source", models.CalendarTypeTeam, "", f.creator)
	source.ID = primitive.NewObjectID()
	source.ViewOnlyUsers = []primitive.ObjectID{f.authorized}
	source.CalendarNotes = []primitive.ObjectID{noteID}

	f.expectCalendar(f.cal)
	f.expectCalendar(source)
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.CalendarNote{ID: noteID, CalendarID: source.ID})).Return(nil)

	_, err := svc.Update(context.Background(), f.authorized, f.cal.ID, noteID, newNoteInput())

	assert.ErrorIs(t, err, ErrForbidden)
	f.store.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "ReplaceOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNoteService_Update_Move(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()
	author := models.UserRef{UserID: f.creator, FirstName: "Cam"}

	source := models.NewCalendar("Source", models.CalendarTypeTeam, "", f.authorized)
	source.ID = primitive.NewObjectID()
	source.CalendarNotes = []primitive.ObjectID{noteID}

	f.expectCalendar(f.cal)
	f.expectCalendar(source)
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.CalendarNote{ID: noteID, CalendarID: source.ID, CreatedBy: author})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(source.ID),
		mock.MatchedBy(func(u *database.Update) bool {
			return assert.ObjectsAreEqual(bson.M{"calendar_notes": noteID}, u.Document()["$pull"])
		})).Return(mockstore.Matched(1), nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID),
		mock.MatchedBy(func(u *database.Update) bool {
			return assert.ObjectsAreEqual(bson.M{"calendar_notes": noteID}, u.Document()["$addToSet"])
		})).Return(mockstore.Matched(1), nil)
	f.store.On("ReplaceOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, false).
		Return(mockstore.Matched(1), nil)

	note, err := svc.Update(context.Background(), f.authorized, f.cal.ID, noteID, newNoteInput())

	require.NoError(t, err)
	assert.Equal(t, noteID, note.ID)
	assert.Equal(t, f.cal.ID, note.CalendarID)
	assert.Equal(t, author, note.CreatedBy)
	f.store.AssertExpectations(t)
}

func TestNoteService_Update_SameCalendar(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()

	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.CalendarNote{ID: noteID, CalendarID: f.cal.ID})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID), mock.Anything).
		Return(mockstore.Matched(1), nil).Once()
	f.store.On("ReplaceOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, false).
		Return(mockstore.Matched(1), nil)

	_, err := svc.Update(context.Background(), f.creator, f.cal.ID, noteID, newNoteInput())

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestNoteService_Update_NoteMissing(t *testing.T) {
	f, svc := setupNoteService(t)
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mock.Anything, mock.Anything, mock.Anything).
		Return(database.ErrNotFound)

	_, err := svc.Update(context.Background(), f.creator, f.cal.ID, primitive.NewObjectID(), newNoteInput())

	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteService_Delete(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()
	f.expectCalendar(f.cal)
	f.expectPopulate()
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.CalendarNote{ID: noteID, CalendarID: f.cal.ID})).Return(nil)
	f.store.On("UpdateOne", mock.Anything, database.Calendars, mockstore.ByID(f.cal.ID), mock.Anything).
		Return(mockstore.Matched(1), nil)
	f.store.On("DeleteOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID)).Return(int64(1), nil)

	_, err := svc.Delete(context.Background(), f.authorized, f.cal.ID, noteID)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestNoteService_Delete_WrongCalendar(t *testing.T) {
	f, svc := setupNoteService(t)
	noteID := primitive.NewObjectID()
	f.expectCalendar(f.cal)
	f.store.On("FindOne", mock.Anything, database.CalendarNotes, mockstore.ByID(noteID), mock.Anything, mock.Anything).
		Run(mockstore.Fill(models.CalendarNote{ID: noteID, CalendarID: primitive.NewObjectID()})).Return(nil)

	_, err := svc.Delete(context.Background(), f.creator, f.cal.ID, noteID)

	assert.ErrorIs(t, err, ErrNoteNotFound)
	f.store.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything, mock.Anything)
}
