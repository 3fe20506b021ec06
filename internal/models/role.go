package models

import "fmt"

// Role is a non-creator membership bucket on a calendar.
type Role string

const (
	RoleAuthorized Role = "authorized"
	RoleViewOnly   Role = "view_only"
	RolePending    Role = "pending"

	// RoleCreator is only ever returned by Calendar.RoleOf; it has no bucket.
	RoleCreator Role = "creator"
	RoleNone    Role = ""
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAuthorized, RoleViewOnly, RolePending:
		return Role(s), nil
	}
	return RoleNone, fmt.Errorf("unknown role %q", s)
}

// ParseInviteRole accepts only the roles a pending invitation can carry.
func ParseInviteRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAuthorized, RoleViewOnly:
		return Role(s), nil
	}
	return RoleNone, fmt.Errorf("role %q cannot be requested for an invitation", s)
}

// Field is the calendar document field holding members of this role.
func (r Role) Field() string {
	switch r {
	case RoleAuthorized:
		return "authorized_users"
	case RoleViewOnly:
		return "view_only_users"
	case RolePending:
		return "pending_users"
	}
	return ""
}

func (r Role) String() string {
	return string(r)
}
