package utils

const (
	// QuestionIdKey is the key for question ID used in routing parameters.
	QuestionIdKey = "questionId"

	// AnswerIdKey is the key for answer ID used in routing parameters.
	AnswerIdKey = "answerId"

	// NotificationIdKey is the key for notification ID used in routing parameters.
	NotificationIdKey = "notificationId"

	// CampusIdKey is the key for campus ID used in routing parameters.
	CampusIdKey = "campusId"

	// DepartmentIdKey is the key for department ID used in routing parameters.
	DepartmentIdKey = "departmentId"
)
