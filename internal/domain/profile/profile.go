package profile

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes business owners from branch users
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ErrNotAuthenticated indicates no identity was presented with the request
var ErrNotAuthenticated = errors.New("not authenticated")

// Profile represents an account holder within an organization.
// Profiles are created by the external signup flow; this service reads and
// amends them but never deletes them.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	OrgID     *string   `json:"org_id,omitempty"`
	BranchID  *int64    `json:"branch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the profile carries the admin role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Identity is the authenticated caller as established by the transport layer.
// A zero Identity means the request carried no usable credentials.
type Identity struct {
	UserID uuid.UUID
}

// IsZero reports whether no identity is present
func (i Identity) IsZero() bool {
	return i.UserID == uuid.Nil
}

// Scope is a resolved identity: the fields every scoped operation needs.
// BranchID is nil only for admin-role profiles; the resolver rejects
// user-role profiles without a branch assignment.
type Scope struct {
	UserID   uuid.UUID
	Role     Role
	OrgID    string
	BranchID *int64
}

// IsAdmin reports whether the scope belongs to an admin profile
func (s *Scope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// ErrProfileNotFound indicates no profile row exists for the identity
type ErrProfileNotFound struct {
	UserID uuid.UUID
}

func (e ErrProfileNotFound) Error() string {
	return "profile not found: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrProfileNotFound
func (e ErrProfileNotFound) Is(target error) bool {
	t, ok := target.(ErrProfileNotFound)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrMissingBranchAssignment indicates a user-role profile has no branch
type ErrMissingBranchAssignment struct {
	UserID uuid.UUID
}

func (e ErrMissingBranchAssignment) Error() string {
	return "profile has no branch assignment: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrMissingBranchAssignment
func (e ErrMissingBranchAssignment) Is(target error) bool {
	t, ok := target.(ErrMissingBranchAssignment)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}

// ErrAdminRequired indicates an operation restricted to admin profiles
type ErrAdminRequired struct {
	UserID uuid.UUID
}

func (e ErrAdminRequired) Error() string {
	return "admin role required: " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrAdminRequired
func (e ErrAdminRequired) Is(target error) bool {
	t, ok := target.(ErrAdminRequired)
	if !ok {
		return false
	}
	if t.UserID == uuid.Nil {
		return true
	}
	return e.UserID == t.UserID
}
