package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CalendarService struct {
	store     database.Store
	populator *Populator
	logger    *zap.Logger
}

func NewCalendarService(store database.Store, populator *Populator, logger *zap.Logger) *CalendarService {
	return &CalendarService{store: store, populator: populator, logger: logger}
}

type CreateCalendarInput struct {
	Name            string
	Color           string
	CreatedBy       primitive.ObjectID
	AuthorizedUsers []primitive.ObjectID
	ViewOnlyUsers   []primitive.ObjectID
}

// CreateCalendarResult holds the populated calendar on full success. When
// some back-reference could not be written, Partial is set and only the raw
// Calendar is filled in.
type CreateCalendarResult struct {
	Detail    string
	Partial   bool
	Calendar  *models.Calendar
	Populated *models.PopulatedCalendar
}

type DeleteCalendarResult struct {
	CalendarID         primitive.ObjectID
	UsersUpdated       int
	UserUpdateFailures int
	NotesDeleted       int64
	EventsDeleted      int64
}

func (r *DeleteCalendarResult) Detail() string {
	return fmt.Sprintf("calendar deleted: %d users updated, %d user updates failed, %d notes and %d events removed",
		r.UsersUpdated, r.UserUpdateFailures, r.NotesDeleted, r.EventsDeleted)
}

func (s *CalendarService) Create(ctx context.Context, requesterID primitive.ObjectID, in CreateCalendarInput) (*CreateCalendarResult, error) {
	if in.CreatedBy != requesterID {
		return nil, fmt.Errorf("createdBy does not match the authenticated user: %w", ErrForbidden)
	}
	name := sanitize.Text(in.Name)
	if name == "" {
		return nil, validationError("calendar name is required")
	}
	if _, err := loadUser(ctx, s.store, requesterID); err != nil {
		return nil, err
	}

	cal := models.NewCalendar(name, models.CalendarTypeTeam, sanitize.Text(in.Color), requesterID)
	cal.PendingUsers = dedupeInvitees(requesterID, in.AuthorizedUsers, in.ViewOnlyUsers)

	id, err := s.store.InsertOne(ctx, database.Calendars, cal)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	cal.ID = id

	var failed []primitive.ObjectID
	invited := len(cal.PendingUsers)

	creatorLinked := true
	res, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": requesterID},
		database.NewUpdate().AddToSet("calendars", id))
	if err != nil || res.Matched == 0 {
		creatorLinked = false
		s.logger.Warn("failed to link calendar to creator",
			zap.String("calendar_id", id.Hex()), zap.Error(err))
	}

	for _, pu := range cal.PendingUsers {
		res, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": pu.UserID},
			database.NewUpdate().AddToSet("pending_calendars", id))
		if err != nil || res.Matched == 0 {
			failed = append(failed, pu.UserID)
		}
	}

	if len(failed) > 0 {
		s.dropInvitees(ctx, cal, failed)
	}

	if !creatorLinked || len(failed) > 0 {
		s.logger.Warn("calendar created with partial failures",
			zap.String("calendar_id", id.Hex()),
			zap.Bool("creator_linked", creatorLinked),
			zap.Int("invitees", invited),
			zap.Int("invitee_failures", len(failed)))

		detail := fmt.Sprintf("calendar created, but %d of %d invited users could not be updated", len(failed), invited)
		if !creatorLinked {
			detail = "calendar created, but it could not be added to your calendars"
		}
		return &CreateCalendarResult{
			Detail:   detail,
			Partial:  true,
			Calendar: cal,
		}, nil
	}

	populated, err := s.populator.Calendar(ctx, cal)
	if err != nil {
		s.logger.Warn("failed to populate new calendar", zap.String("calendar_id", id.Hex()), zap.Error(err))
		return &CreateCalendarResult{
			Detail:   "calendar created, but its populated view could not be loaded",
			Partial:  true,
			Calendar: cal,
		}, nil
	}

	return &CreateCalendarResult{
		Detail:    "calendar created",
		Calendar:  cal,
		Populated: populated,
	}, nil
}

// dropInvitees removes invitees whose pending_calendars could not be written
// so the calendar never lists a user that does not reference it back.
func (s *CalendarService) dropInvitees(ctx context.Context, cal *models.Calendar, failed []primitive.ObjectID) {
	_, err := s.store.UpdateOne(ctx, database.Calendars, bson.M{"_id": cal.ID},
		database.NewUpdate().Pull("pending_users", bson.M{"user_id": bson.M{"$in": failed}}))
	if err != nil {
		s.logger.Warn("failed to drop unreachable invitees",
			zap.String("calendar_id", cal.ID.Hex()), zap.Error(err))
		return
	}

	kept := cal.PendingUsers[:0]
	for _, pu := range cal.PendingUsers {
		if !slices.Contains(failed, pu.UserID) {
			kept = append(kept, pu)
		}
	}
	cal.PendingUsers = kept
}

// dedupeInvitees maps invitees to pending entries. A user listed in both
// buckets keeps the first one; the creator is never invited.
func dedupeInvitees(creator primitive.ObjectID, authorized, viewOnly []primitive.ObjectID) []models.PendingUser {
	seen := map[primitive.ObjectID]struct{}{creator: {}}
	pending := make([]models.PendingUser, 0, len(authorized)+len(viewOnly))

	add := func(ids []primitive.ObjectID, role models.Role) {
		for _, id := range ids {
			if id.IsZero() {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			pending = append(pending, models.PendingUser{UserID: id, Type: role})
		}
	}
	add(authorized, models.RoleAuthorized)
	add(viewOnly, models.RoleViewOnly)
	return pending
}

// CreatePersonal inserts the personal calendar of a new user and links it
// through personal_calendar and calendars.
func (s *CalendarService) CreatePersonal(ctx context.Context, userID primitive.ObjectID) (*models.Calendar, error) {
	cal := models.NewCalendar(models.PersonalCalendarName, models.CalendarTypePersonal, models.PersonalCalendarColor, userID)

	id, err := s.store.InsertOne(ctx, database.Calendars, cal)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	cal.ID = id

	res, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": userID},
		database.NewUpdate().Set("personal_calendar", id).AddToSet("calendars", id))
	if err != nil {
		return cal, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return cal, ErrUserNotFound
	}
	return cal, nil
}

func (s *CalendarService) Delete(ctx context.Context, requesterID, calendarID, claimedUserID primitive.ObjectID) (*DeleteCalendarResult, error) {
	if claimedUserID != requesterID {
		return nil, fmt.Errorf("user id does not match the authenticated user: %w", ErrForbidden)
	}

	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.IsCreator(requesterID) {
		return nil, fmt.Errorf("only the creator can delete a calendar: %w", ErrForbidden)
	}

	result := &DeleteCalendarResult{CalendarID: calendarID}

	for _, userID := range cal.MemberIDs() {
		_, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": userID},
			database.NewUpdate().Pull("calendars", calendarID).Pull("pending_calendars", calendarID))
		if err != nil {
			result.UserUpdateFailures++
			s.logger.Warn("failed to unlink deleted calendar from user",
				zap.String("calendar_id", calendarID.Hex()),
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
			continue
		}
		result.UsersUpdated++
	}

	if cal.CalendarType == models.CalendarTypePersonal {
		_, err := s.store.UpdateOne(ctx, database.Users,
			bson.M{"_id": cal.CreatedBy, "personal_calendar": calendarID},
			database.NewUpdate().Unset("personal_calendar"))
		if err != nil {
			s.logger.Warn("failed to unset personal calendar", zap.String("calendar_id", calendarID.Hex()), zap.Error(err))
		}
	}

	result.NotesDeleted, err = s.deleteOwned(ctx, database.CalendarNotes, calendarID, cal.CalendarNotes)
	if err != nil {
		s.logger.Warn("failed to delete calendar notes", zap.String("calendar_id", calendarID.Hex()), zap.Error(err))
	}
	result.EventsDeleted, err = s.deleteOwned(ctx, database.Events, calendarID, cal.Events)
	if err != nil {
		s.logger.Warn("failed to delete calendar events", zap.String("calendar_id", calendarID.Hex()), zap.Error(err))
	}

	deleted, err := s.store.DeleteOne(ctx, database.Calendars, bson.M{"_id": calendarID})
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if deleted == 0 {
		return nil, ErrCalendarNotFound
	}

	s.logger.Info("calendar deleted",
		zap.String("calendar_id", calendarID.Hex()),
		zap.Int("users_updated", result.UsersUpdated),
		zap.Int("user_update_failures", result.UserUpdateFailures),
		zap.Int64("notes_deleted", result.NotesDeleted),
		zap.Int64("events_deleted", result.EventsDeleted))

	return result, nil
}

// deleteOwned removes the listed items, then any stray item still pointing at
// the calendar.
func (s *CalendarService) deleteOwned(ctx context.Context, coll string, calendarID primitive.ObjectID, ids []primitive.ObjectID) (int64, error) {
	listed, err := s.store.DeleteManyByIDs(ctx, coll, ids)
	if err != nil {
		return 0, err
	}
	strays, err := s.store.DeleteMany(ctx, coll, bson.M{"calendar_id": calendarID})
	return listed + strays, err
}

func (s *CalendarService) GetPopulated(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayRead(requesterID) {
		return nil, ErrForbidden
	}
	return s.populator.Calendar(ctx, cal)
}

func (s *CalendarService) GetUserCalendarData(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedUser, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return s.populator.User(ctx, user)
}

func loadCalendar(ctx context.Context, store database.Store, id primitive.ObjectID) (*models.Calendar, error) {
	var cal models.Calendar
	if err := store.FindOne(ctx, database.Calendars, bson.M{"_id": id}, &cal, nil); err != nil {
		return nil, storeErr(err, ErrCalendarNotFound)
	}
	return &cal, nil
}

func loadUser(ctx context.Context, store database.Store, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := store.FindOne(ctx, database.Users, bson.M{"_id": id}, &user, nil); err != nil {
		return nil, storeErr(err, ErrUserNotFound)
	}
	return &user, nil
}
