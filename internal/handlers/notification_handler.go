package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"campus-forum/internal/managers"
	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"
)

type NotificationHdl interface {
	GetNotifications(c *gin.Context)
	MarkNotificationRead(c *gin.Context)
	MarkAllNotificationsRead(c *gin.Context)
	ClearNotifications(c *gin.Context)
}

type NotificationHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewNotificationHandler(databaseManager *managers.DatabaseMgr) NotificationHdl {
	return &NotificationHandler{
		DatabaseManager: *databaseManager,
	}
}

// notificationLimit caps the notification list, older entries age out of view.
const notificationLimit = 15

// GetNotifications returns the requesting user's latest notifications.
func (handler *NotificationHandler) GetNotifications(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	queryString := "SELECT notification_id, sender_id, question_id, message, is_read, created_at " +
		"FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT $2"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, userId, notificationLimit)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	// Create a list of notifications
	notifications := make([]schemas.NotificationDTO, 0)
	var createdAt pgtype.Timestamptz
	for rows.Next() {
		notification := schemas.NotificationDTO{}
		var questionId *uuid.UUID
		if err := rows.Scan(&notification.NotificationId, &notification.SenderId, &questionId,
			&notification.Message, &notification.IsRead, &createdAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		notification.QuestionId = questionId
		notification.CreatedAt = createdAt.Time.Format(time.RFC3339)
		notifications = append(notifications, notification)
	}

	utils.WriteAndLogResponse(c, notifications, http.StatusOK)
}

// MarkNotificationRead marks a single notification of the requesting user as
// read.
func (handler *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	notificationId := c.Param(utils.NotificationIdKey)

	// Scoping the update to the recipient keeps users out of each other's
	// notifications
	queryString := "UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND recipient_id = $2"
	commandTag, err := handler.DatabaseManager.GetPool().Exec(c, queryString, notificationId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		utils.WriteAndLogError(c, schemas.NotificationNotFound, http.StatusNotFound, errors.New("notification not found for user"))
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Notification marked as read."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// MarkAllNotificationsRead marks all of the requesting user's notifications as
// read.
func (handler *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	queryString := "UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1"
	if _, err := handler.DatabaseManager.GetPool().Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	messageDto := &schemas.MessageDTO{Message: "All notifications marked as read."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// ClearNotifications deletes the requesting user's notification history.
func (handler *NotificationHandler) ClearNotifications(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	queryString := "DELETE FROM notifications WHERE recipient_id = $1"
	if _, err := handler.DatabaseManager.GetPool().Exec(c, queryString, userId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Notification history cleared."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}
