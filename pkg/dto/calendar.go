package dto

import "github.com/DutsAndrew/ck-api-sub000/internal/models"

// Invitee is either {"user_id": id} or {"user": {"_id": id}}.
type Invitee struct {
	UserID string `json:"user_id,omitempty"`
	User   *struct {
		ID string `json:"_id"`
	} `json:"user,omitempty"`
}

func (i Invitee) ID() string {
	if i.UserID != "" {
		return i.UserID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type CreateCalendarRequest struct {
	CalendarName    string    `json:"calendarName"`
	CalendarColor   string    `json:"calendarColor"`
	CreatedBy       string    `json:"createdBy"`
	AuthorizedUsers []Invitee `json:"authorizedUsers"`
	ViewOnlyUsers   []Invitee `json:"viewOnlyUsers"`
}

type CreateCalendarResponse struct {
	Detail            string                    `json:"detail"`
	Calendar          *models.Calendar          `json:"calendar"`
	PopulatedCalendar *models.PopulatedCalendar `json:"populated_calendar,omitempty"`
}

type UpdatedCalendarResponse struct {
	Detail          string                    `json:"detail"`
	UpdatedCalendar *models.PopulatedCalendar `json:"updated_calendar"`
}

type CalendarResponse struct {
	Detail   string                    `json:"detail"`
	Calendar *models.PopulatedCalendar `json:"calendar"`
}

type DeleteCalendarResponse struct {
	Detail             string `json:"detail"`
	CalendarID         string `json:"calendar_id"`
	UsersUpdated       int    `json:"users_updated"`
	UserUpdateFailures int    `json:"user_update_failures"`
	NotesDeleted       int64  `json:"notes_deleted"`
	EventsDeleted      int64  `json:"events_deleted"`
}

type UserCalendarDataResponse struct {
	Detail      string                `json:"detail"`
	UpdatedUser *models.PopulatedUser `json:"updated_user"`
}

type AppDataResponse struct {
	Detail string          `json:"detail"`
	Data   *models.AppData `json:"data"`
}

type PreferredColorRequest struct {
	PreferredColor string `json:"preferredColor"`
	FontColor      string `json:"fontColor,omitempty"`
}

type PreferredColorResponse struct {
	Detail         string              `json:"detail"`
	PreferredColor *models.ColorScheme `json:"preferredColor"`
}
