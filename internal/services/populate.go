package services

import (
	"context"
	"errors"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// userSummaryProjection limits member lookups to the public profile fields.
var userSummaryProjection = bson.M{
	"first_name": 1,
	"last_name":  1,
	"email":      1,
	"job_title":  1,
	"company":    1,
}

// populateLimit bounds how many calendars of one user are expanded at once.
const populateLimit = 4

// Populator expands calendar id lists into documents.
type Populator struct {
	store database.Store
}

func NewPopulator(store database.Store) *Populator {
	return &Populator{store: store}
}

func (p *Populator) ByID(ctx context.Context, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	var cal models.Calendar
	if err := p.store.FindOne(ctx, database.Calendars, bson.M{"_id": calendarID}, &cal, nil); err != nil {
		return nil, storeErr(err, ErrCalendarNotFound)
	}
	return p.Calendar(ctx, &cal)
}

// Calendar loads members, notes and events concurrently and stitches them
// back in the order of the calendar's id lists. Ids whose documents are gone
// are dropped.
func (p *Populator) Calendar(ctx context.Context, cal *models.Calendar) (*models.PopulatedCalendar, error) {
	var (
		authorized []models.UserSummary
		viewOnly   []models.UserSummary
		pending    []models.UserSummary
		notes      []models.CalendarNote
		events     []models.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.store.FindManyByIDs(gctx, database.Users, cal.AuthorizedUsers, &authorized, userSummaryProjection)
	})
	g.Go(func() error {
		return p.store.FindManyByIDs(gctx, database.Users, cal.ViewOnlyUsers, &viewOnly, userSummaryProjection)
	})
	g.Go(func() error {
		return p.store.FindManyByIDs(gctx, database.Users, cal.PendingUserIDs(), &pending, userSummaryProjection)
	})
	g.Go(func() error {
		return p.store.FindManyByIDs(gctx, database.CalendarNotes, cal.CalendarNotes, &notes, nil)
	})
	g.Go(func() error {
		return p.store.FindManyByIDs(gctx, database.Events, cal.Events, &events, nil)
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err, nil)
	}

	summaryID := func(u models.UserSummary) primitive.ObjectID { return u.ID }

	pendingByID := indexByID(pending, summaryID)
	populatedPending := make([]models.PopulatedPendingUser, 0, len(cal.PendingUsers))
	for _, pu := range cal.PendingUsers {
		if u, ok := pendingByID[pu.UserID]; ok {
			populatedPending = append(populatedPending, models.PopulatedPendingUser{Type: pu.Type, User: u})
		}
	}

	return &models.PopulatedCalendar{
		ID:              cal.ID,
		Name:            cal.Name,
		CalendarType:    cal.CalendarType,
		CalendarColor:   cal.CalendarColor,
		CreatedBy:       cal.CreatedBy,
		AuthorizedUsers: orderByIDs(cal.AuthorizedUsers, authorized, summaryID),
		ViewOnlyUsers:   orderByIDs(cal.ViewOnlyUsers, viewOnly, summaryID),
		PendingUsers:    populatedPending,
		CalendarNotes:   orderByIDs(cal.CalendarNotes, notes, func(n models.CalendarNote) primitive.ObjectID { return n.ID }),
		Events:          orderByIDs(cal.Events, events, func(e models.Event) primitive.ObjectID { return e.ID }),
	}, nil
}

// Many populates the calendars with the given ids, in id order.
func (p *Populator) Many(ctx context.Context, ids []primitive.ObjectID) ([]models.PopulatedCalendar, error) {
	if len(ids) == 0 {
		return []models.PopulatedCalendar{}, nil
	}

	var cals []models.Calendar
	if err := p.store.FindManyByIDs(ctx, database.Calendars, ids, &cals, nil); err != nil {
		return nil, storeErr(err, nil)
	}
	cals = orderByIDs(ids, cals, func(c models.Calendar) primitive.ObjectID { return c.ID })

	out := make([]models.PopulatedCalendar, len(cals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(populateLimit)
	for i := range cals {
		g.Go(func() error {
			pc, err := p.Calendar(gctx, &cals[i])
			if err != nil {
				return err
			}
			out[i] = *pc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// User populates the accepted, pending and personal calendars of user.
func (p *Populator) User(ctx context.Context, user *models.User) (*models.PopulatedUser, error) {
	out := &models.PopulatedUser{User: user}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cals, err := p.Many(gctx, user.Calendars)
		out.Calendars = cals
		return err
	})
	g.Go(func() error {
		cals, err := p.Many(gctx, user.PendingCalendars)
		out.PendingCalendars = cals
		return err
	})
	if user.PersonalCalendar != nil {
		g.Go(func() error {
			cal, err := p.ByID(gctx, *user.PersonalCalendar)
			if errors.Is(err, ErrCalendarNotFound) {
				return nil
			}
			out.PersonalCalendar = cal
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func indexByID[T any](docs []T, id func(T) primitive.ObjectID) map[primitive.ObjectID]T {
	m := make(map[primitive.ObjectID]T, len(docs))
	for _, d := range docs {
		m[id(d)] = d
	}
	return m
}

// orderByIDs returns docs arranged in ids order, skipping ids with no
// matching document. The result is never nil.
func orderByIDs[T any](ids []primitive.ObjectID, docs []T, id func(T) primitive.ObjectID) []T {
	byID := indexByID(docs, id)
	out := make([]T, 0, len(ids))
	for _, i := range ids {
		if d, ok := byID[i]; ok {
			out = append(out, d)
		}
	}
	return out
}
