package testutil

import (
	"context"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaticAuthenticator accepts exactly the tokens it holds.
type StaticAuthenticator map[string]services.Principal

func (a StaticAuthenticator) Authenticate(ctx context.Context, token string) (*services.Principal, error) {
	p, ok := a[token]
	if !ok {
		return nil, services.ErrAuthInvalid
	}
	return &p, nil
}

// MockAuthService mocks the AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in services.SignupInput) (*services.SignupResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.SignupResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*services.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Principal), args.Error(1)
}

// MockCalendarService mocks the CalendarService
type MockCalendarService struct {
	mock.Mock
}

func populated(args mock.Arguments) (*models.PopulatedCalendar, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PopulatedCalendar), args.Error(1)
}

func (m *MockCalendarService) Create(ctx context.Context, requesterID primitive.ObjectID, in services.CreateCalendarInput) (*services.CreateCalendarResult, error) {
	args := m.Called(ctx, requesterID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateCalendarResult), args.Error(1)
}

func (m *MockCalendarService) Delete(ctx context.Context, requesterID, calendarID, claimedUserID primitive.ObjectID) (*services.DeleteCalendarResult, error) {
	args := m.Called(ctx, requesterID, calendarID, claimedUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DeleteCalendarResult), args.Error(1)
}

func (m *MockCalendarService) GetPopulated(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID))
}

func (m *MockCalendarService) GetUserCalendarData(ctx context.Context, userID primitive.ObjectID) (*models.PopulatedUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PopulatedUser), args.Error(1)
}

func (m *MockCalendarService) Invite(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, role models.Role) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, targetID, role))
}

func (m *MockCalendarService) ChangePermission(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, newRole models.Role) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, targetID, newRole))
}

func (m *MockCalendarService) RemoveUser(ctx context.Context, requesterID, calendarID, targetID primitive.ObjectID, claimed models.Role) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, targetID, claimed))
}

func (m *MockCalendarService) Accept(ctx context.Context, requesterID, calendarID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID))
}

func (m *MockCalendarService) SetPreferredColor(ctx context.Context, requesterID, calendarID primitive.ObjectID, background, font string) (*models.ColorScheme, error) {
	args := m.Called(ctx, requesterID, calendarID, background, font)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ColorScheme), args.Error(1)
}

func (m *MockCalendarService) Export(ctx context.Context, requesterID, calendarID primitive.ObjectID) ([]byte, error) {
	args := m.Called(ctx, requesterID, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockNoteService mocks the NoteService
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in services.NoteInput) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, in))
}

func (m *MockNoteService) Update(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID, in services.NoteInput) (*models.CalendarNote, error) {
	args := m.Called(ctx, requesterID, calendarID, noteID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CalendarNote), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, requesterID, calendarID, noteID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, noteID))
}

// MockEventService mocks the EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, requesterID, calendarID primitive.ObjectID, in services.EventInput) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, in))
}

func (m *MockEventService) Update(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID, in services.EventInput) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, eventID, in))
}

func (m *MockEventService) Delete(ctx context.Context, requesterID, calendarID, eventID primitive.ObjectID) (*models.PopulatedCalendar, error) {
	return populated(m.Called(ctx, requesterID, calendarID, eventID))
}

// MockAppDataService mocks the AppDataService
type MockAppDataService struct {
	mock.Mock
}

func (m *MockAppDataService) Get(ctx context.Context) (*models.AppData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AppData), args.Error(1)
}
