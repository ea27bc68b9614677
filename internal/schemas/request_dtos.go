// Package schemas defines the request structures for various operations in the application.
package schemas

import "github.com/google/uuid"

// RegistrationRequest is a struct that represents a registration request
// Username is required and must be less than 20 characters
// Firstname and Lastname are required
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
type RegistrationRequest struct {
	Username  string `json:"username" validate:"required,max=20,username_validation"`
	Firstname string `json:"firstname" validate:"required,max=30"`
	Lastname  string `json:"lastname" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest is a struct that represents a login request
// Identifier is required and holds either the username or the email
// Password is required and must be at least 8 characters
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,max=128"`
	Password   string `json:"password" validate:"required,min=8"`
}

// ForgotPasswordRequest is a struct that represents a forgot-password request
// Email is required and must be a valid email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is a struct that represents a reset-password request
// Token is the raw reset secret from the mailed link
// Password is the new password and must be at least 8 characters, the same
// rule that applies at registration
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateQuestionRequest is a struct that represents a create question request
// Title and Description are required; campus, department and tag are optional
type CreateQuestionRequest struct {
	Title        string     `json:"title" validate:"required,max=256"`
	Description  string     `json:"description" validate:"required,max=4096"`
	Tag          string     `json:"tag" validate:"max=64"`
	CampusID     *uuid.UUID `json:"campus_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
}

// EditQuestionRequest is a struct that represents an edit question request
type EditQuestionRequest struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"required,max=4096"`
	Tag         string `json:"tag" validate:"max=64"`
}

// CreateAnswerRequest is a struct that represents a create answer request
type CreateAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Content    string    `json:"content" validate:"required,max=4096"`
}

// EditAnswerRequest is a struct that represents an edit answer request
type EditAnswerRequest struct {
	Content string `json:"content" validate:"required,max=4096"`
}

// VoteRequest is a struct that represents a vote toggle request
type VoteRequest struct {
	AnswerID uuid.UUID `json:"answer_id" validate:"required"`
}

// CreateCampusRequest is a struct that represents a create campus request
type CreateCampusRequest struct {
	CampusName  string `json:"campus_name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1024"`
}

// UpdateCampusRequest is a struct that represents an update campus request
type UpdateCampusRequest struct {
	CampusName string `json:"campus_name" validate:"required,max=255"`
}

// CreateDepartmentRequest is a struct that represents a create department request
type CreateDepartmentRequest struct {
	DepartmentName string `json:"department_name" validate:"required,max=255"`
	Description    string `json:"description" validate:"max=1024"`
}

// UpdateDepartmentRequest is a struct that represents an update department request
type UpdateDepartmentRequest struct {
	DepartmentName string `json:"department_name" validate:"required,max=255"`
}
