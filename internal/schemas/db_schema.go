// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of user roles. Anything that is not RoleAdmin is
// treated as a regular user by the role gate.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw role claim to a Role. Unknown values fall back to
// RoleUser so a forged or missing role never grants admin access.
func ParseRole(raw string) Role {
	if Role(raw) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User represents the data model for a user in the system.
type User struct {
	ID           *uuid.UUID `json:"id"`         // Unique identifier for the user.
	Username     string     `json:"username"`   // Username of the user.
	Firstname    string     `json:"firstname"`  // First name of the user.
	Lastname     string     `json:"lastname"`   // Last name of the user.
	Email        string     `json:"email"`      // Email address of the user.
	PasswordHash string     `json:"-"`          // Bcrypt hash of the user's password.
	Role         Role       `json:"role"`       // Role of the user, either "user" or "admin".
	CreatedAt    *time.Time `json:"created_at"` // Timestamp when the user was created.
}

// PasswordResetToken represents a pending password reset for a user. Only the
// SHA-256 hash of the secret is stored; the raw secret exists solely in the
// mail sent to the user. At most one live row exists per user.
type PasswordResetToken struct {
	ID        *uuid.UUID `json:"id"`         // Unique identifier for the reset token.
	UserID    *uuid.UUID `json:"user_id"`    // Identifier of the user this reset belongs to.
	TokenHash string     `json:"-"`          // SHA-256 hash of the raw secret.
	ExpiresAt *time.Time `json:"expires_at"` // Timestamp when the token expires.
}

// Question represents a question posted in the forum.
type Question struct {
	ID           *uuid.UUID `json:"id"`
	UserID       *uuid.UUID `json:"user_id"`
	CampusID     *uuid.UUID `json:"campus_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Tag          string     `json:"tag"`
	CreatedAt    *time.Time `json:"created_at"`
}

// Answer represents an answer to a question.
type Answer struct {
	ID         *uuid.UUID `json:"id"`
	QuestionID *uuid.UUID `json:"question_id"`
	UserID     *uuid.UUID `json:"user_id"`
	Content    string     `json:"content"`
	CreatedAt  *time.Time `json:"created_at"`
}

// Vote represents the (voter, answer) relationship. The votes table carries a
// uniqueness constraint on the pair; there is never more than one row for it.
type Vote struct {
	UserID    *uuid.UUID `json:"user_id"`
	AnswerID  *uuid.UUID `json:"answer_id"`
	CreatedAt *time.Time `json:"created_at"`
}

// Notification represents a notification created as a side effect of
// answering or voting. A user never receives a notification about their own
// action.
type Notification struct {
	ID          *uuid.UUID `json:"id"`
	RecipientID *uuid.UUID `json:"recipient_id"`
	SenderID    *uuid.UUID `json:"sender_id"`
	QuestionID  *uuid.UUID `json:"question_id"`
	Message     string     `json:"message"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Campus represents a campus location.
type Campus struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}

// Department represents a department within a campus.
type Department struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at"`
}
