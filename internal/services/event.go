package services

import (
	"context"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type EventInput struct {
	Name                string
	Description         string
	EventDate           *time.Time
	EventTime           string
	CombinedDateAndTime *time.Time
	Repeats             bool
	RepeatOption        string
}

type EventService struct {
	store     database.Store
	populator *Populator
	logger    *zap.Logger
}

func NewEventService(store database.Store, populator *Populator, logger *zap.Logger) *EventService {
	return &EventService{store: store, populator: populator, logger: logger}
}

func buildEvent(in EventInput, calendarID primitive.ObjectID, author models.UserRef) (*models.Event, error) {
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, validationError("eventName is required")
	}
	if in.EventDate == nil && in.CombinedDateAndTime == nil {
		return nil, validationError("eventDate or combinedDateAndTime is required")
	}

	event := &models.Event{
		CalendarID:       calendarID,
		EventName:        name,
		EventDescription: sanitize.HTML(in.Description),
		EventTime:        sanitize.Text(in.EventTime),
		Repeats:          in.Repeats,
		RepeatOption:     sanitize.Text(in.RepeatOption),
		CreatedBy:        author,
	}
	if in.EventDate != nil {
		d := in.EventDate.UTC()
		event.EventDate = &d
	}
	if in.CombinedDateAndTime != nil {
		c := in.CombinedDateAndTime.UTC()
		event.CombinedDateAndTime = &c
	}
	if !event.Repeats {
		event.RepeatOption = ""
	}

	if err := event.Validate(); err != nil {
		return nil, validationError("%v", err)
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in EventInput) (*models.PopulatedCalendar, error) {
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

	event, err := buildEvent(in, calendarID, author.Ref())
	if err != nil {
		return nil, err
	}

	id, err := s.store.InsertOne(ctx, database.Events, event)
	if err != nil {
		return nil, storeErr(err, nil)
	}

	if err := linkItem(ctx, s.store, calendarID, "events", id); err != nil {
		if _, derr := s.store.DeleteOne(ctx, database.Events, bson.M{"_id": id}); derr != nil {
			s.logger.Warn("failed to remove unlinked event", zap.String("event_id", id.Hex()), zap.Error(derr))
		}
		return nil, err
	}

	return s.populator.ByID(ctx, calendarID)
}

// Update mirrors NoteService.Update but answers with the destination
// calendar.
func (s *EventService) Update(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID, in EventInput) (*models.PopulatedCalendar, error) {
	var existing models.Event
	if err := s.store.FindOne(ctx, database.Events, bson.M{"_id": eventID}, &existing, nil); err != nil {
		return nil, storeErr(err, ErrEventNotFound)
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

	event, err := buildEvent(in, calendarID, existing.CreatedBy)
	if err != nil {
		return nil, err
	}
	event.ID = eventID

	if moved {
		if err := unlinkItem(ctx, s.store, existing.CalendarID, "events", eventID); err != nil {
			return nil, err
		}
	}
	if err := linkItem(ctx, s.store, calendarID, "events", eventID); err != nil {
		return nil, err
	}

	res, err := s.store.ReplaceOne(ctx, database.Events, bson.M{"_id": eventID}, event, false)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return nil, ErrEventNotFound
	}

	return s.populator.ByID(ctx, calendarID)
}

func (s *EventService) Delete(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}

	var event models.Event
	if err := s.store.FindOne(ctx, database.Events, bson.M{"_id": eventID}, &event, bson.M{"calendar_id": 1}); err != nil {
		return nil, storeErr(err, ErrEventNotFound)
	}
	if event.CalendarID != calendarID {
		return nil, ErrEventNotFound
	}

	if err := unlinkItem(ctx, s.store, calendarID, "events", eventID); err != nil {
		return nil, err
	}
	if _, err := s.store.DeleteOne(ctx, database.Events, bson.M{"_id": eventID}); err != nil {
		return nil, storeErr(err, nil)
	}

	return s.populator.ByID(ctx, calendarID)
}
