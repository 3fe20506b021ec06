package services

import (
	"context"
	"errors"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type NoteInput struct {
	Note      any
	Type      string
	StartDate time.Time
	EndDate   time.Time
}

type NoteService struct {
	store     database.Store
	populator *Populator
	logger    *zap.Logger
}

func NewNoteService(store database.Store, populator *Populator, logger *zap.Logger) *NoteService {
	return &NoteService{store: store, populator: populator, logger: logger}
}

func buildNote(in NoteInput, calendarID primitive.ObjectID, author models.UserRef) (*models.CalendarNote, error) {
	if in.Note == nil {
		return nil, validationError("note is required")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, validationError("dates.startDate and dates.endDate are required")
	}

	note := &models.CalendarNote{
		CalendarID: calendarID,
		Note:       sanitize.Value(in.Note),
		Type:       sanitize.Text(in.Type),
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		CreatedBy:  author,
	}
	if err := note.Validate(); err != nil {
		return nil, validationError("%v", err)
	}
	return note, nil
}

func (s *NoteService) Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in NoteInput) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}
	author, err := loadUser(ctx, s.store, requesterID)
	if err != nil {
		return nil, err
	}

	note, err := buildNote(in, calendarID, author.Ref())
	if err != nil {
		return nil, err
	}

	id, err := s.store.InsertOne(ctx, database.CalendarNotes, note)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	if err := linkItem(ctx, s.store, calendarID, "calendar_notes", id); err != nil {
		// an unlinked note is unreachable; remove it rather than leave it behind
		if _, derr := s.store.DeleteOne(ctx, database.CalendarNotes, bson.M{"_id": id}); derr != nil {
			s.logger.Warn("failed to remove unlinked note", zap.String("note_id", id.Hex()), zap.Error(derr))
		}
		return nil, err
	}

	return s.populator.ByID(ctx, calendarID)
}

// Update replaces the note and moves it to calendarID when it currently lives
// on another calendar. Both calendars must be mutable by the requester.
func (s *NoteService) Update(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID, in NoteInput) (*models.CalendarNote, error) {
	var existing models.CalendarNote
	if err := s.store.FindOne(ctx, database.CalendarNotes, bson.M{"_id": noteID}, &existing, nil); err != nil {
		return nil, storeErr(err, ErrNoteNotFound)
	}

	dest, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !dest.MayMutate(requesterID) {
		return nil, ErrForbidden
	}

	moved := existing.CalendarID != calendarID
	if moved {
		if err := checkSourceCalendar(ctx, s.store, requesterID, existing.CalendarID); err != nil {
			return nil, err
		}
	}

	note, err := buildNote(in, calendarID, existing.CreatedBy)
	if err != nil {
		return nil, err
	}
	note.ID = noteID

	if moved {
		if err := unlinkItem(ctx, s.store, existing.CalendarID, "calendar_notes", noteID); err != nil {
			return nil, err
		}
	}
	if err := linkItem(ctx, s.store, calendarID, "calendar_notes", noteID); err != nil {
		return nil, err
	}

	res, err := s.store.ReplaceOne(ctx, database.CalendarNotes, bson.M{"_id": noteID}, note, false)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}

	var note models.CalendarNote
	if err := s.store.FindOne(ctx, database.CalendarNotes, bson.M{"_id": noteID}, &note, bson.M{"calendar_id": 1}); err != nil {
		return nil, storeErr(err, ErrNoteNotFound)
	}
	if note.CalendarID != calendarID {
		return nil, ErrNoteNotFound
	}

	if err := unlinkItem(ctx, s.store, calendarID, "calendar_notes", noteID); err != nil {
		return nil, err
	}
	if _, err := s.store.DeleteOne(ctx, database.CalendarNotes, bson.M{"_id": noteID}); err != nil {
		return nil, storeErr(err, nil)
	}

	return s.populator.ByID(ctx, calendarID)
}

// checkSourceCalendar requires mutate rights on the calendar an item is moved
// away from. A source calendar that no longer exists has nothing to protect.
func checkSourceCalendar(ctx context.Context, store database.Store, requesterID, sourceID primitive.ObjectID) error {
	src, err := loadCalendar(ctx, store, sourceID)
	if errors.Is(err, ErrCalendarNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !src.MayMutate(requesterID) {
		return ErrForbidden
	}
	return nil
}

func linkItem(ctx context.Context, store database.Store, calendarID primitive.ObjectID, field string, itemID primitive.ObjectID) error {
	res, err := store.UpdateOne(ctx, database.Calendars, bson.M{"_id": calendarID},
		database.NewUpdate().AddToSet(field, itemID))
	if err != nil {
		return storeErr(err, nil)
	}
	if res.Matched == 0 {
		return ErrCalendarNotFound
	}
	return nil
}

func unlinkItem(ctx context.Context, store database.Store, calendarID primitive.ObjectID, field string, itemID primitive.ObjectID) error {
	_, err := store.UpdateOne(ctx, database.Calendars, bson.M{"_id": calendarID},
		database.NewUpdate().Pull(field, itemID))
	return storeErr(err, nil)
}
