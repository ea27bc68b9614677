package schemas

import "github.com/google/uuid"

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// UserDTO is a struct that represents a user response
type UserDTO struct {
	UserId   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// TokenDTO is a struct that represents a login response
// Token is the signed JWT, valid for 24 hours after issuance
type TokenDTO struct {
	Token    string    `json:"token"`
	UserId   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// IdentityDTO is a struct that represents the identity attached to a request
// by the auth gate, as returned by the check-user endpoint
type IdentityDTO struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// MessageDTO is a struct that represents a plain confirmation response
type MessageDTO struct {
	Message string `json:"message"`
}

// CreatedDTO is a struct that represents the id of a newly created resource
type CreatedDTO struct {
	Id uuid.UUID `json:"id"`
}

// VoteDTO is a struct that represents the outcome of a vote toggle
// Voted is true when the toggle created the vote and false when it removed it
type VoteDTO struct {
	Voted bool `json:"voted"`
}

// QuestionDTO is a struct that represents a question response
// Campus and Department carry display names, TimeAgo a human-readable age
type QuestionDTO struct {
	QuestionId  uuid.UUID `json:"questionId"`
	Username    string    `json:"username"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag,omitempty"`
	Campus      string    `json:"campus,omitempty"`
	Department  string    `json:"department,omitempty"`
	CreatedAt   string    `json:"createdAt"`
	TimeAgo     string    `json:"timeAgo"`
}

// MyQuestionDTO is a struct that represents one of the requesting user's own
// questions together with its answer count
type MyQuestionDTO struct {
	QuestionId  uuid.UUID `json:"questionId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"createdAt"`
	AnswerCount int       `json:"answerCount"`
}

// AnswerDTO is a struct that represents an answer response
// VoteCount is the current number of votes, UserVoted whether the requesting
// user has voted for this answer
type AnswerDTO struct {
	AnswerId  uuid.UUID `json:"answerId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"createdAt"`
	TimeAgo   string    `json:"timeAgo"`
	VoteCount int       `json:"voteCount"`
	UserVoted bool      `json:"userVoted"`
}

// NotificationDTO is a struct that represents a notification response
type NotificationDTO struct {
	NotificationId uuid.UUID  `json:"notificationId"`
	SenderId       uuid.UUID  `json:"senderId"`
	QuestionId     *uuid.UUID `json:"questionId,omitempty"`
	Message        string     `json:"message"`
	IsRead         bool       `json:"isRead"`
	CreatedAt      string     `json:"createdAt"`
}

// CampusDTO is a struct that represents a campus response
type CampusDTO struct {
	CampusId    uuid.UUID `json:"campusId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"createdAt"`
}

// DepartmentDTO is a struct that represents a department response
type DepartmentDTO struct {
	DepartmentId uuid.UUID `json:"departmentId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    string    `json:"createdAt"`
}

// MetadataDTO is a struct that represents the version response of the root route
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
