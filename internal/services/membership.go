package services

import (
	"context"
	"fmt"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errConcurrentChange = fmt.Errorf("membership changed while the request was running: %w", ErrConflict)

type transitionKind int

const (
	// member to member bucket
	transitionSwap transitionKind = iota + 1
	// member back to a pending invitation for the role they held
	transitionDemoteToPending
	// pending invitation changes its requested role
	transitionRetarget
)

type transition struct {
	kind transitionKind
	from models.Role
	to   models.Role
}

// planRoleChange decides how a change to newRole applies to a user whose
// membership is current (and, when pending, requested).
func planRoleChange(current, requested, newRole models.Role) (transition, error) {
	if newRole.Field() == "" {
		return transition{}, validationError("unknown role %q", newRole)
	}

	switch current {
	case models.RoleCreator:
		return transition{}, ErrCreatorRole
	case models.RoleNone:
		return transition{}, ErrNotReferenced
	case models.RolePending:
		if newRole == models.RolePending || newRole == requested {
			return transition{}, fmt.Errorf("user is already pending as %s: %w", requested, ErrNoOp)
		}
		return transition{kind: transitionRetarget, from: requested, to: newRole}, nil
	}

	if newRole == current {
		return transition{}, fmt.Errorf("user is already %s: %w", current, ErrNoOp)
	}
	if newRole == models.RolePending {
		return transition{kind: transitionDemoteToPending, from: current, to: current}, nil
	}
	return transition{kind: transitionSwap, from: current, to: newRole}, nil
}

func (s *CalendarService) Invite(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, role models.Role) (*models.PopulatedCalendar, error) {
	if role != models.RoleAuthorized && role != models.RoleViewOnly {
		return nil, validationError("invitations must request authorized or view_only, got %q", role)
	}

	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}
	if _, err := loadUser(ctx, s.store, targetID); err != nil {
		return nil, err
	}
	if current, _ := cal.RoleOf(targetID); current != models.RoleNone {
		return nil, ErrAlreadyMember
	}

	res, err := s.store.UpdateOne(ctx, database.Calendars, notMemberFilter(calendarID, targetID),
		database.NewUpdate().Push("pending_users", models.PendingUser{UserID: targetID, Type: role}))
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return nil, ErrAlreadyMember
	}

	if _, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": targetID},
		database.NewUpdate().AddToSet("pending_calendars", calendarID)); err != nil {
		return nil, storeErr(err, nil)
	}

	cal, err = loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if current, _ := cal.RoleOf(targetID); current != models.RolePending {
		return nil, fmt.Errorf("invitation for %s was not recorded on calendar %s", targetID.Hex(), calendarID.Hex())
	}
	return s.populator.Calendar(ctx, cal)
}

func (s *CalendarService) ChangePermission(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, newRole models.Role) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}

	current, requested := cal.RoleOf(targetID)
	t, err := planRoleChange(current, requested, newRole)
	if err != nil {
		return nil, err
	}

	var (
		filter bson.M
		update = database.NewUpdate()
	)
	switch t.kind {
	case transitionSwap:
		filter = bson.M{"_id": calendarID, t.from.Field(): targetID}
		update.Pull(t.from.Field(), targetID).AddToSet(t.to.Field(), targetID)
	case transitionDemoteToPending:
		filter = bson.M{"_id": calendarID, t.from.Field(): targetID}
		update.Pull(t.from.Field(), targetID).
			Push(models.RolePending.Field(), models.PendingUser{UserID: targetID, Type: t.to})
	case transitionRetarget:
		filter = bson.M{"_id": calendarID, "pending_users.user_id": targetID}
		update.SetMatched("pending_users", "user_id", targetID, "type", t.to)
	}

	res, err := s.store.UpdateOne(ctx, database.Calendars, filter, update)
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return nil, errConcurrentChange
	}

	if t.kind == transitionDemoteToPending {
		if _, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": targetID},
			database.NewUpdate().Pull("calendars", calendarID).AddToSet("pending_calendars", calendarID)); err != nil {
			return nil, storeErr(err, nil)
		}
	}

	return s.populator.ByID(ctx, calendarID)
}

// RemoveUser pulls targetID from the calendar. When the target is the
// requester this is a leave and needs no mutate rights. The claimed role is
// only validated; the bucket that actually holds the user wins.
func (s *CalendarService) RemoveUser(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, claimed models.Role) (*models.PopulatedCalendar, error) {
	if claimed.Field() == "" {
		return nil, validationError("unknown role %q", claimed)
	}

	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}
	if targetID != requesterID && !cal.MayMutate(requesterID) {
		return nil, ErrForbidden
	}

	current, _ := cal.RoleOf(targetID)
	if current == models.RoleCreator {
		return nil, ErrCreatorRemoval
	}
	if current != claimed {
		s.logger.Debug("remove user role mismatch",
			zap.String("calendar_id", calendarID.Hex()),
			zap.String("claimed", claimed.String()),
			zap.String("actual", current.String()))
	}

	calendarSide := false
	if current != models.RoleNone {
		var value any = targetID
		if current == models.RolePending {
			value = bson.M{"user_id": targetID}
		}
		res, err := s.store.UpdateOne(ctx, database.Calendars, bson.M{"_id": calendarID},
			database.NewUpdate().Pull(current.Field(), value))
		if err != nil {
			return nil, storeErr(err, nil)
		}
		calendarSide = res.Modified > 0
	}

	res, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": targetID},
		database.NewUpdate().Pull("calendars", calendarID).Pull("pending_calendars", calendarID))
	if err != nil {
		return nil, storeErr(err, nil)
	}
	userSide := res.Modified > 0

	if !calendarSide && !userSide {
		return nil, ErrNotReferenced
	}

	return s.populator.ByID(ctx, calendarID)
}

// Accept turns the requester's pending invitation into the requested role.
func (s *CalendarService) Accept(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	cal, err := loadCalendar(ctx, s.store, calendarID)
	if err != nil {
		return nil, err
	}

	current, requested := cal.RoleOf(requesterID)
	switch current {
	case models.RolePending:
	case models.RoleNone:
		return nil, fmt.Errorf("no pending invitation: %w", ErrNotReferenced)
	default:
		return nil, fmt.Errorf("already a member as %s: %w", current, ErrNoOp)
	}

	res, err := s.store.UpdateOne(ctx, database.Calendars,
		bson.M{"_id": calendarID, "pending_users.user_id": requesterID},
		database.NewUpdate().
			Pull(models.RolePending.Field(), bson.M{"user_id": requesterID}).
			AddToSet(requested.Field(), requesterID))
	if err != nil {
		return nil, storeErr(err, nil)
	}
	if res.Matched == 0 {
		return nil, errConcurrentChange
	}

	if _, err := s.store.UpdateOne(ctx, database.Users, bson.M{"_id": requesterID},
		database.NewUpdate().Pull("pending_calendars", calendarID).AddToSet("calendars", calendarID)); err != nil {
		return nil, storeErr(err, nil)
	}

	return s.populator.ByID(ctx, calendarID)
}

// notMemberFilter matches the calendar only while userID holds no role on it.
func notMemberFilter(calendarID, userID primitive.ObjectID) bson.M {
	return bson.M{
		"_id":                   calendarID,
		"created_by":            bson.M{"$ne": userID},
		"authorized_users":      bson.M{"$ne": userID},
		"view_only_users":       bson.M{"$ne": userID},
		"pending_users.user_id": bson.M{"$ne": userID},
	}
}
