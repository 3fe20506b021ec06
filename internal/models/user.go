package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AccountTypeBasic = "basic"
	UserRoleUser     = "user"
)

type User struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Email                string               `bson:"email" json:"email"`
	Password             string               `bson:"password" json:"-"`
	FirstName            string               `bson:"first_name" json:"first_name"`
	LastName             string               `bson:"last_name" json:"last_name"`
	JobTitle             string               `bson:"job_title,omitempty" json:"job_title,omitempty"`
	Company              string               `bson:"company,omitempty" json:"company,omitempty"`
	AccountType          string               `bson:"account_type" json:"account_type"`
	Role                 string               `bson:"role" json:"role"`
	Joined               time.Time            `bson:"joined" json:"joined"`
	LastOnline           time.Time            `bson:"last_online" json:"last_online"`
	Calendars            []primitive.ObjectID `bson:"calendars" json:"calendars"`
	PendingCalendars     []primitive.ObjectID `bson:"pending_calendars" json:"pending_calendars"`
	PersonalCalendar     *primitive.ObjectID  `bson:"personal_calendar,omitempty" json:"personal_calendar,omitempty"`
	UserColorPreferences ColorPreferences     `bson:"user_color_preferences" json:"user_color_preferences"`
}

// UserSummary is the projection embedded in populated calendars.
type UserSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email" json:"email"`
	JobTitle  string             `bson:"job_title,omitempty" json:"job_title,omitempty"`
	Company   string             `bson:"company,omitempty" json:"company,omitempty"`
}

// UserRef is a snapshot of the author taken when a note or event is created.
// Later name changes on the user are not propagated.
type UserRef struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
}

func (u *User) Ref() UserRef {
	return UserRef{UserID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

type ColorScheme struct {
	ObjectID        primitive.ObjectID `bson:"object_id" json:"object_id"`
	BackgroundColor string             `bson:"background_color,omitempty" json:"background_color,omitempty"`
	FontColor       string             `bson:"font_color,omitempty" json:"font_color,omitempty"`
}

type UserColors struct {
	FontColor       string `bson:"font_color,omitempty" json:"font_color,omitempty"`
	BackgroundColor string `bson:"background_color,omitempty" json:"background_color,omitempty"`
}

type ColorPreferences struct {
	Calendars []ColorScheme `bson:"calendars" json:"calendars"`
	Chats     []ColorScheme `bson:"chats" json:"chats"`
	Teams     []ColorScheme `bson:"teams" json:"teams"`
	User      UserColors    `bson:"user" json:"user"`
}

// NewColorPreferences returns preferences with empty, non-nil lists so the
// stored arrays can be targeted by $push and positional updates.
func NewColorPreferences() ColorPreferences {
	return ColorPreferences{
		Calendars: []ColorScheme{},
		Chats:     []ColorScheme{},
		Teams:     []ColorScheme{},
	}
}

// CalendarColor returns the stored scheme for a calendar, if any.
func (p ColorPreferences) CalendarColor(calendarID primitive.ObjectID) (ColorScheme, bool) {
	for _, cs := range p.Calendars {
		if cs.ObjectID == calendarID {
			return cs, true
		}
	}
	return ColorScheme{}, false
}
