package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-forum/internal/schemas"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

func TestGetNotifications(t *testing.T) {
	userId := uuid.New()
	senderId := uuid.New()
	notificationId := uuid.New()
	questionId := uuid.New()
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testUser", schemas.RoleUser)
	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectQuery("SELECT notification_id, sender_id, question_id, message, is_read, created_at").
		WithArgs(userId.String(), 15).
		WillReturnRows(pgxmock.NewRows([]string{"notification_id", "sender_id", "question_id", "message", "is_read", "created_at"}).
			AddRow(notificationId.String(), senderId.String(), &questionId, "otherUser liked your answer!", false, createdAt))

	expect := httpexpect.Default(t, server.URL)
	request := expect.GET("/api/notifications").WithHeader("Authorization", "Bearer "+token)
	response := request.Expect().Status(http.StatusOK)

	list := response.JSON().Array()
	list.Length().IsEqual(1)
	entry := list.Value(0).Object()
	entry.Value("notificationId").String().IsEqual(notificationId.String())
	entry.Value("senderId").String().IsEqual(senderId.String())
	entry.Value("questionId").String().IsEqual(questionId.String())
	entry.Value("message").String().IsEqual("otherUser liked your answer!")
	entry.Value("isRead").Boolean().IsFalse()

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	userId := uuid.New()
	notificationId := uuid.New()

	testCases := []struct {
		name         string
		rowsAffected int64
		status       int
		expectedCode string
	}{
		{"Found", 1, http.StatusOK, ""},
		{"NotFound", 0, http.StatusNotFound, "ERR-009"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
			server := httptest.NewServer(router)
			defer server.Close()

			token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testUser", schemas.RoleUser)
			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// The update is scoped to the recipient
			poolMock.ExpectExec("UPDATE notifications SET is_read").
				WithArgs(notificationId.String(), userId.String()).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.rowsAffected))

			expect := httpexpect.Default(t, server.URL)
			request := expect.PUT("/api/notifications/read/" + notificationId.String()).
				WithHeader("Authorization", "Bearer "+token)
			response := request.Expect().Status(tc.status)

			if tc.expectedCode != "" {
				response.JSON().Object().Value("error").Object().Value("code").String().IsEqual(tc.expectedCode)
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	userId := uuid.New()

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testUser", schemas.RoleUser)
	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectExec("UPDATE notifications SET is_read").WithArgs(userId.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	expect := httpexpect.Default(t, server.URL)
	request := expect.PUT("/api/notifications/read").WithHeader("Authorization", "Bearer "+token)
	request.Expect().Status(http.StatusOK)

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestClearNotifications(t *testing.T) {
	userId := uuid.New()

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testUser", schemas.RoleUser)
	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectExec("DELETE FROM notifications").WithArgs(userId.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	expect := httpexpect.Default(t, server.URL)
	request := expect.DELETE("/api/notifications").WithHeader("Authorization", "Bearer "+token)
	response := request.Expect().Status(http.StatusOK)
	response.JSON().IsEqual(map[string]interface{}{"message": "Notification history cleared."})

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
