package models

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CalendarTypePersonal = "personal"
	CalendarTypeTeam     = "team"

	PersonalCalendarName  = "Personal"
	PersonalCalendarColor = "#4285f4"
)

type PendingUser struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type   Role               `bson:"type" json:"type"`
}

type Calendar struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name            string               `bson:"name" json:"name"`
	CalendarType    string               `bson:"calendar_type" json:"calendar_type"`
	CalendarColor   string               `bson:"calendar_color" json:"calendar_color"`
	CreatedBy       primitive.ObjectID   `bson:"created_by" json:"created_by"`
	AuthorizedUsers []primitive.ObjectID `bson:"authorized_users" json:"authorized_users"`
	ViewOnlyUsers   []primitive.ObjectID `bson:"view_only_users" json:"view_only_users"`
	PendingUsers    []PendingUser        `bson:"pending_users" json:"pending_users"`
	CalendarNotes   []primitive.ObjectID `bson:"calendar_notes" json:"calendar_notes"`
	Events          []primitive.ObjectID `bson:"events" json:"events"`
}

// NewCalendar returns a calendar with every list initialised, so the stored
// document always carries arrays rather than nulls.
func NewCalendar(name, calendarType, color string, createdBy primitive.ObjectID) *Calendar {
	return &Calendar{
		Name:            name,
		CalendarType:    calendarType,
		CalendarColor:   color,
		CreatedBy:       createdBy,
		AuthorizedUsers: []primitive.ObjectID{},
		ViewOnlyUsers:   []primitive.ObjectID{},
		PendingUsers:    []PendingUser{},
		CalendarNotes:   []primitive.ObjectID{},
		Events:          []primitive.ObjectID{},
	}
}

// RoleOf reports the membership of userID. For pending users the second
// result is the role requested by the invitation.
func (c *Calendar) RoleOf(userID primitive.ObjectID) (Role, Role) {
	if userID == c.CreatedBy {
		return RoleCreator, RoleNone
	}
	if slices.Contains(c.AuthorizedUsers, userID) {
		return RoleAuthorized, RoleNone
	}
	if slices.Contains(c.ViewOnlyUsers, userID) {
		return RoleViewOnly, RoleNone
	}
	for _, p := range c.PendingUsers {
		if p.UserID == userID {
			return RolePending, p.Type
		}
	}
	return RoleNone, RoleNone
}

func (c *Calendar) IsCreator(userID primitive.ObjectID) bool {
	return userID == c.CreatedBy
}

func (c *Calendar) MayMutate(userID primitive.ObjectID) bool {
	return c.IsCreator(userID) || slices.Contains(c.AuthorizedUsers, userID)
}

func (c *Calendar) MayRead(userID primitive.ObjectID) bool {
	role, _ := c.RoleOf(userID)
	return role != RoleNone
}

// MemberIDs returns the creator followed by every user in a role bucket,
// without duplicates.
func (c *Calendar) MemberIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0, 1+len(c.AuthorizedUsers)+len(c.ViewOnlyUsers)+len(c.PendingUsers))
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(c.CreatedBy)
	for _, id := range c.AuthorizedUsers {
		add(id)
	}
	for _, id := range c.ViewOnlyUsers {
		add(id)
	}
	for _, p := range c.PendingUsers {
		add(p.UserID)
	}
	return ids
}

func (c *Calendar) PendingUserIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(c.PendingUsers))
	for i, p := range c.PendingUsers {
		ids[i] = p.UserID
	}
	return ids
}

func (c *Calendar) HasNote(noteID primitive.ObjectID) bool {
	return slices.Contains(c.CalendarNotes, noteID)
}

func (c *Calendar) HasEvent(eventID primitive.ObjectID) bool {
	return slices.Contains(c.Events, eventID)
}

type PopulatedPendingUser struct {
	Type Role        `json:"type"`
	User UserSummary `json:"user"`
}

// PopulatedCalendar is a calendar with its id lists replaced by documents.
type PopulatedCalendar struct {
	ID              primitive.ObjectID     `json:"_id"`
	Name            string                 `json:"name"`
	CalendarType    string                 `json:"calendar_type"`
	CalendarColor   string                 `json:"calendar_color"`
	CreatedBy       primitive.ObjectID     `json:"created_by"`
	AuthorizedUsers []UserSummary          `json:"authorized_users"`
	ViewOnlyUsers   []UserSummary          `json:"view_only_users"`
	PendingUsers    []PopulatedPendingUser `json:"pending_users"`
	CalendarNotes   []CalendarNote         `json:"calendar_notes"`
	Events          []Event                `json:"events"`
}

// PopulatedUser is the user with each calendar reference populated.
type PopulatedUser struct {
	*User
	Calendars        []PopulatedCalendar `json:"calendars"`
	PendingCalendars []PopulatedCalendar `json:"pending_calendars"`
	PersonalCalendar *PopulatedCalendar  `json:"personal_calendar,omitempty"`
}
