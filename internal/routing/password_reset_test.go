package routing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-forum/internal/managers/mocks"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/mock"
)

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func TestForgotPassword(t *testing.T) {
	userId := uuid.New()

	testCases := []struct {
		name  string
		email string
	}{
		{"KnownEmail", "known@example.com"},
		{"UnknownEmail", "unknown@example.com"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// Mock database calls
			poolMock.ExpectBegin()
			switch tc.name {
			case "UnknownEmail":
				poolMock.ExpectQuery("SELECT user_id, username FROM users WHERE email").WithArgs(tc.email).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "username"}))
				poolMock.ExpectCommit()
			default:
				poolMock.ExpectQuery("SELECT user_id, username FROM users WHERE email").WithArgs(tc.email).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "username"}).AddRow(userId.String(), "testUser"))
				poolMock.ExpectExec("DELETE FROM password_reset_tokens").WithArgs(userId).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
				poolMock.ExpectExec("INSERT INTO password_reset_tokens").
					WithArgs(pgxmock.AnyArg(), userId, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				poolMock.ExpectCommit()
			}

			// Both outcomes return the identical response so the endpoint
			// does not reveal which emails are registered
			expect := httpexpect.Default(t, server.URL)
			request := expect.POST("/api/users/forgot-password").WithJSON(map[string]interface{}{
				"email": tc.email,
			})
			response := request.Expect().Status(http.StatusOK)
			response.JSON().IsEqual(map[string]interface{}{
				"message": "If that email is registered, a password reset link has been sent.",
			})

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestForgotPasswordMailFailure(t *testing.T) {
	userId := uuid.New()
	email := "known@example.com"

	databaseMgrMock, jwtManagerMock, _ := setupMocks(t)

	// Delivery is best effort: a failing mail transport must not change the
	// response
	mailMgrMock := &mocks.MockMailManager{}
	mailMgrMock.On("SendPasswordResetMail", mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.Anything).
		Return(errors.New("mailgun unavailable"))

	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)
	poolMock.ExpectBegin()
	poolMock.ExpectQuery("SELECT user_id, username FROM users WHERE email").WithArgs(email).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username"}).AddRow(userId.String(), "testUser"))
	poolMock.ExpectExec("DELETE FROM password_reset_tokens").WithArgs(userId).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	poolMock.ExpectExec("INSERT INTO password_reset_tokens").
		WithArgs(pgxmock.AnyArg(), userId, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	poolMock.ExpectCommit()

	expect := httpexpect.Default(t, server.URL)
	request := expect.POST("/api/users/forgot-password").WithJSON(map[string]interface{}{
		"email": email,
	})
	response := request.Expect().Status(http.StatusOK)
	response.JSON().IsEqual(map[string]interface{}{
		"message": "If that email is registered, a password reset link has been sent.",
	})

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestResetPassword(t *testing.T) {
	userId := uuid.New()
	tokenId := uuid.New()
	rawSecret := "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

	testCases := []struct {
		name         string
		status       int
		expectedCode string
	}{
		{"ValidToken", http.StatusOK, ""},
		{"ExpiredToken", http.StatusUnauthorized, "ERR-006"},
		{"UnknownToken", http.StatusUnauthorized, "ERR-006"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
			server := httptest.NewServer(router)
			defer server.Close()

			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// Mock database calls
			poolMock.ExpectBegin()
			switch tc.name {
			case "ExpiredToken":
				poolMock.ExpectQuery("SELECT token_id, user_id, expires_at FROM password_reset_tokens").
					WithArgs(hashSecret(rawSecret)).
					WillReturnRows(pgxmock.NewRows([]string{"token_id", "user_id", "expires_at"}).
						AddRow(tokenId.String(), userId.String(), time.Now().Add(-time.Minute)))
				// Expired tokens are deleted on detection
				poolMock.ExpectExec("DELETE FROM password_reset_tokens").WithArgs(tokenId).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				poolMock.ExpectCommit()
			case "UnknownToken":
				poolMock.ExpectQuery("SELECT token_id, user_id, expires_at FROM password_reset_tokens").
					WithArgs(hashSecret(rawSecret)).
					WillReturnRows(pgxmock.NewRows([]string{"token_id", "user_id", "expires_at"}))
				poolMock.ExpectRollback()
			default:
				poolMock.ExpectQuery("SELECT token_id, user_id, expires_at FROM password_reset_tokens").
					WithArgs(hashSecret(rawSecret)).
					WillReturnRows(pgxmock.NewRows([]string{"token_id", "user_id", "expires_at"}).
						AddRow(tokenId.String(), userId.String(), time.Now().Add(30*time.Minute)))
				poolMock.ExpectExec("UPDATE users SET password_hash").WithArgs(pgxmock.AnyArg(), userId).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				poolMock.ExpectExec("DELETE FROM password_reset_tokens").WithArgs(tokenId).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				poolMock.ExpectCommit()
			}

			expect := httpexpect.Default(t, server.URL)
			request := expect.POST("/api/users/reset-password").WithJSON(map[string]interface{}{
				"token":    rawSecret,
				"password": "newPassword1",
			})
			response := request.Expect().Status(tc.status)

			if tc.expectedCode != "" {
				response.JSON().Object().Value("error").Object().Value("code").String().IsEqual(tc.expectedCode)
			} else {
				response.JSON().IsEqual(map[string]interface{}{
					"message": "Password has been reset successfully.",
				})
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}
