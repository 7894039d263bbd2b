package domain

import "time"

// Role enumerates actor roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Actor is the authenticated party making a request. It is immutable per
// request and constructed by the auth layer.
type Actor struct {
	ID       string
	Role     Role
	BranchID *string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// BranchIDValue returns the actor's branch affiliation, or "" when unset.
func (a Actor) BranchIDValue() string {
	if a.BranchID == nil {
		return ""
	}
	return *a.BranchID
}

// StaffSource identifies which of the two upstream staff directories a member
// came from. Regular staff write their bare id into lead.created_by; branch
// staff sessions may write either the bare id or the prefixed encoding.
type StaffSource string

const (
	StaffSourceStaff       StaffSource = "staff"
	StaffSourceBranchStaff StaffSource = "branch_staff"
)

// BranchStaffIDPrefix is the created_by encoding used by sessions opened from
// the branch-staff directory.
const BranchStaffIDPrefix = "branch_staff:"

// StaffMember models a lead-capturing employee from either directory.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	BranchID     *string
	Source       StaffSource
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref returns the tagged identifier for created_by matching.
func (m StaffMember) Ref() StaffRef {
	return StaffRef{Kind: m.Source, ID: m.ID}
}

// StaffRef is a tagged staff identifier. Branch-staff ids appear in
// lead.created_by both bare and prefixed, so matching must accept either.
type StaffRef struct {
	Kind StaffSource
	ID   string
}

// Matches reports whether createdBy refers to this staff member.
func (r StaffRef) Matches(createdBy string) bool {
	if createdBy == "" {
		return false
	}
	if createdBy == r.ID {
		return true
	}
	if r.Kind == StaffSourceBranchStaff && createdBy == BranchStaffIDPrefix+r.ID {
		return true
	}
	return false
}
