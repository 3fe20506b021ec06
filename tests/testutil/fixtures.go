package testutil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DutsAndrew/ck-api-sub000/internal/database"
	"github.com/DutsAndrew/ck-api-sub000/internal/models"
	"github.com/DutsAndrew/ck-api-sub000/internal/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const FixturePassword = "fixture-pass-1"

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser inserts a user whose password is FixturePassword.
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	hash, err := services.HashPassword(FixturePassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:            fmt.Sprintf("user%d@example.com", f.counter),
		Password:         hash,
		FirstName:        fmt.Sprintf("Test%d", f.counter),
		LastName:         "User",
		AccountType:      models.AccountTypeBasic,
		Role:             models.UserRoleUser,
		Joined:           now,
		LastOnline:       now,
		Calendars:        []primitive.ObjectID{},
		PendingCalendars: []primitive.ObjectID{},
		UserColorPreferences: models.NewColorPreferences(),
	}

	for _, opt := range opts {
		opt(user)
	}

	id, err := f.db.InsertOne(context.Background(), database.Users, user)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	user.ID = id

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// GetUser reloads a user from the store.
func (f *Fixtures) GetUser(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	var user models.User
	if err := f.db.FindOne(context.Background(), database.Users, bson.M{"_id": id}, &user, nil); err != nil {
		t.Fatalf("failed to load user %s: %v", id.Hex(), err)
	}
	return &user
}

// GetCalendar reloads a calendar from the store.
func (f *Fixtures) GetCalendar(t *testing.T, id primitive.ObjectID) *models.Calendar {
	t.Helper()
	var cal models.Calendar
	if err := f.db.FindOne(context.Background(), database.Calendars, bson.M{"_id": id}, &cal, nil); err != nil {
		t.Fatalf("failed to load calendar %s: %v", id.Hex(), err)
	}
	return &cal
}

// CalendarExists reports whether the calendar document is still stored.
func (f *Fixtures) CalendarExists(t *testing.T, id primitive.ObjectID) bool {
	t.Helper()
	var cal models.Calendar
	err := f.db.FindOne(context.Background(), database.Calendars, bson.M{"_id": id}, &cal, nil)
	if errors.Is(err, database.ErrNotFound) {
		return false
	}
	if err != nil {
		t.Fatalf("failed to load calendar %s: %v", id.Hex(), err)
	}
	return true
}
