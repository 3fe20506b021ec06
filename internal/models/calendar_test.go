package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCalendar() (*Calendar, map[string]primitive.ObjectID) {
	ids := map[string]primitive.ObjectID{
		"creator":    primitive.NewObjectID(),
		"authorized": primitive.NewObjectID(),
		"viewer":     primitive.NewObjectID(),
		"pending":    primitive.NewObjectID(),
		"stranger":   primitive.NewObjectID(),
	}
	cal := NewCalendar("Team", CalendarTypeTeam, "#111", ids["creator"])
	cal.AuthorizedUsers = append(cal.AuthorizedUsers, ids["authorized"])
	cal.ViewOnlyUsers = append(cal.ViewOnlyUsers, ids["viewer"])
	cal.PendingUsers = append(cal.PendingUsers, PendingUser{UserID: ids["pending"], Type: RoleViewOnly})
	return cal, ids
}

func TestCalendar_RoleOf(t *testing.T) {
	cal, ids := testCalendar()

	testCases := []struct {
		name      string
		user      string
		role      Role
		requested Role
	}{
		{"creator", "creator", RoleCreator, RoleNone},
		{"authorized", "authorized", RoleAuthorized, RoleNone},
		{"view only", "viewer", RoleViewOnly, RoleNone},
		{"pending", "pending", RolePending, RoleViewOnly},
		{"absent", "stranger", RoleNone, RoleNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, requested := cal.RoleOf(ids[tc.user])
			assert.Equal(t, tc.role, role)
			assert.Equal(t, tc.requested, requested)
		})
	}
}

func TestCalendar_Permissions(t *testing.T) {
	cal, ids := testCalendar()

	assert.True(t, cal.MayMutate(ids["creator"]))
	assert.True(t, cal.MayMutate(ids["authorized"]))
	assert.False(t, cal.MayMutate(ids["viewer"]))
	assert.False(t, cal.MayMutate(ids["pending"]))
	assert.False(t, cal.MayMutate(ids["stranger"]))

	assert.True(t, cal.MayRead(ids["viewer"]))
	assert.True(t, cal.MayRead(ids["pending"]))
	assert.False(t, cal.MayRead(ids["stranger"]))
}

func TestCalendar_MemberIDs(t *testing.T) {
	cal, ids := testCalendar()
	// a stray duplicate must not be reported twice
	cal.ViewOnlyUsers = append(cal.ViewOnlyUsers, ids["authorized"])

	members := cal.MemberIDs()

	require.Len(t, members, 4)
	assert.Equal(t, ids["creator"], members[0])
	assert.Contains(t, members, ids["pending"])
	assert.NotContains(t, members, ids["stranger"])
}

func TestNewCalendar_EmptyLists(t *testing.T) {
	cal := NewCalendar("Personal", CalendarTypePersonal, "#fff", primitive.NewObjectID())

	assert.NotNil(t, cal.AuthorizedUsers)
	assert.NotNil(t, cal.ViewOnlyUsers)
	assert.NotNil(t, cal.PendingUsers)
	assert.NotNil(t, cal.CalendarNotes)
	assert.NotNil(t, cal.Events)
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"authorized", "view_only", "pending"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, r.String())
		assert.NotEmpty(t, r.Field())
	}

	_, err := ParseRole("creator")
	assert.Error(t, err)
	_, err = ParseRole("authorized_users")
	assert.Error(t, err)

	_, err = ParseInviteRole("pending")
	assert.Error(t, err)

	assert.Equal(t, "pending_users", RolePending.Field())
	assert.Empty(t, RoleCreator.Field())
}

func TestCalendarNote_Validate(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	ok := &CalendarNote{StartDate: start, EndDate: start}
	assert.NoError(t, ok.Validate())

	bad := &CalendarNote{StartDate: start, EndDate: start.Add(-time.Hour)}
	assert.ErrorIs(t, bad.Validate(), ErrNoteDates)
}

func TestEvent_Validate(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sameDay := day.Add(14 * time.Hour)
	nextDay := day.Add(26 * time.Hour)

	assert.NoError(t, (&Event{}).Validate())
	assert.NoError(t, (&Event{EventDate: &day, CombinedDateAndTime: &sameDay}).Validate())
	assert.ErrorIs(t, (&Event{EventDate: &day, CombinedDateAndTime: &nextDay}).Validate(), ErrEventDates)
}

func TestColorPreferences_CalendarColor(t *testing.T) {
	id := primitive.NewObjectID()
	prefs := NewColorPreferences()
	prefs.Calendars = append(prefs.Calendars, ColorScheme{ObjectID: id, BackgroundColor: "#222"})

	cs, ok := prefs.CalendarColor(id)
	assert.True(t, ok)
	assert.Equal(t, "#222", cs.BackgroundColor)

	_, ok = prefs.CalendarColor(primitive.NewObjectID())
	assert.False(t, ok)
}
