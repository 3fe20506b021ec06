package handlers

import (
	"context"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.SignupResult, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
}

// CalendarServiceInterface defines the methods used by handlers from CalendarService
type CalendarServiceInterface interface {
	Create(ctx context.Context, requesterID primitive.ObjectID, in services.CreateCalendarInput) (*services.CreateCalendarResult, error)
	Delete(ctx context.Context, requesterID, calendarID, claimedUserID primitive.ObjectID) (*services.DeleteCalendarResult, error)
	GetPopulated(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error)
	GetUserCalendarData(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedUser, error)
	Invite(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, role models.Role) (*models.PopulatedCalendar, error)
	ChangePermission(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, newRole models.Role) (*models.PopulatedCalendar, error)
	RemoveUser(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, claimed models.Role) (*models.PopulatedCalendar, error)
	Accept(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error)
	SetPreferredColor(ctx context.Context, requesterID, calendarID primitive.ObjectID, background, font string) (*models.ColorScheme, error)
	Export(ctx context.Context, requesterID, calendarID primitive.ObjectID) ([]byte, error)
}

// NoteServiceInterface defines the methods used by handlers from NoteService
type NoteServiceInterface interface {
	Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in services.NoteInput) (*models.PopulatedCalendar, error)
	Update(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID, in services.NoteInput) (*models.CalendarNote, error)
	Delete(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID) (*models.PopulatedCalendar, error)
}

// EventServiceInterface defines the methods used by handlers from EventService
type EventServiceInterface interface {
	Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in services.EventInput) (*models.PopulatedCalendar, error)
	Update(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID, in services.EventInput) (*models.PopulatedCalendar, error)
	Delete(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID) (*models.PopulatedCalendar, error)
}

// AppDataServiceInterface defines the methods used by handlers from AppDataService
type AppDataServiceInterface interface {
	Get(ctx context.Context) (*models.AppData, error)
}

var (
	_ AuthServiceInterface     = (*services.AuthService)(nil)
	_ CalendarServiceInterface = (*services.CalendarService)(nil)
	_ NoteServiceInterface     = (*services.NoteService)(nil)
	_ EventServiceInterface    = (*services.EventService)(nil)
	_ AppDataServiceInterface  = (*services.AppDataService)(nil)
)
