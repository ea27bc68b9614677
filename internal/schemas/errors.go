package schemas

// CustomError is the error shape returned to clients. The code is stable and
// machine-readable, the message is safe to show to end users. Raw collaborator
// errors (SQL, mail, hashing) never leave the server, they only reach the logs.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	UsernameTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The username is already taken. Please try another username.",
	}
	EmailTaken = &CustomError{
		Code:    "ERR-003",
		Message: "The email is already registered. Please try another email.",
	}
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "The user was not found. Please check the username and try again.",
	}
	InvalidCredentials = &CustomError{
		Code:    "ERR-005",
		Message: "The credentials are invalid. Please check your username or email and password.",
	}
	// InvalidResetToken deliberately covers unknown, consumed and expired reset
	// tokens alike so the response leaks nothing about why redemption failed.
	InvalidResetToken = &CustomError{
		Code:    "ERR-006",
		Message: "The reset token is invalid. Please request a new password reset.",
	}
	QuestionNotFound = &CustomError{
		Code:    "ERR-007",
		Message: "The question was not found. Please check the question id and try again.",
	}
	AnswerNotFound = &CustomError{
		Code:    "ERR-008",
		Message: "The answer was not found. Please check the answer id and try again.",
	}
	NotificationNotFound = &CustomError{
		Code:    "ERR-009",
		Message: "The notification was not found. Please check the notification id and try again.",
	}
	CampusNotFound = &CustomError{
		Code:    "ERR-010",
		Message: "The campus was not found. Please check the campus id and try again.",
	}
	DepartmentNotFound = &CustomError{
		Code:    "ERR-011",
		Message: "The department was not found. Please check the department id and try again.",
	}
	NotOwner = &CustomError{
		Code:    "ERR-012",
		Message: "You are not allowed to modify this resource.",
	}
	AdminRequired = &CustomError{
		Code:    "ERR-013",
		Message: "Access denied. You do not have admin privileges.",
	}
	Unauthorized = &CustomError{
		Code:    "ERR-014",
		Message: "The request is unauthorized. Please login to your account.",
	}
	InvalidToken = &CustomError{
		Code:    "ERR-015",
		Message: "The token is invalid. Please login again to your account.",
	}
	EmailUnreachable = &CustomError{
		Code:    "ERR-016",
		Message: "The email address appears to be unreachable. Please check the email and try again.",
	}
	DatabaseError = &CustomError{
		Code:    "ERR-020",
		Message: "A database error occurred. Please try again later.",
	}
	InternalServerError = &CustomError{
		Code:    "ERR-021",
		Message: "An internal error occurred. Please try again later.",
	}
)
