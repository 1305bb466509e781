// Package model defines data structures for the messaging core.
package model

// Role represents the role of a marketplace account.
type Role string

const (
	RoleStudent  Role = "student"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// User is a marketplace account as it appears inside a conversation's
// participant list. Immutable for the session once authenticated.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// StudentProfile is a roster entry fetched from the students endpoint.
// The roster and conversation participants come from different endpoints
// and may be loaded in either order.
type StudentProfile struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// FullName returns the roster entry's display name.
func (p StudentProfile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// ListStudentsResponse is the response for listing the student roster.
type ListStudentsResponse struct {
	Students []StudentProfile `json:"students"`
	Total    int              `json:"total"`
}
