package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-forum/internal/schemas"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

func TestCreateCampusRoleGate(t *testing.T) {
	userId := uuid.New()

	testCases := []struct {
		name         string
		role         schemas.Role
		status       int
		expectedCode string
	}{
		{"AdminCanCreate", schemas.RoleAdmin, http.StatusCreated, ""},
		{"UserIsRejected", schemas.RoleUser, http.StatusForbidden, "ERR-013"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
			server := httptest.NewServer(router)
			defer server.Close()

			token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testAdmin", tc.role)
			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// The role gate rejects non-admins before any database access
			if tc.expectedCode == "" {
				poolMock.ExpectExec("INSERT INTO campus").
					WithArgs(pgxmock.AnyArg(), "North Campus", "The main site.", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			expect := httpexpect.Default(t, server.URL)
			request := expect.POST("/api/campus").
				WithHeader("Authorization", "Bearer "+token).
				WithJSON(map[string]interface{}{
					"campus_name": "North Campus",
					"description": "The main site.",
				})
			response := request.Expect().Status(tc.status)

			if tc.expectedCode != "" {
				response.JSON().Object().Value("error").Object().Value("code").String().IsEqual(tc.expectedCode)
			} else {
				response.JSON().Object().Value("id").String().NotEmpty()
			}

			if err := poolMock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestAdminDeleteQuestion(t *testing.T) {
	adminId := uuid.New()
	questionId := uuid.New()

	testCases := []struct {
		name         string
		rowsAffected int64
		status       int
		expectedCode string
	}{
		{"Deleted", 1, http.StatusNoContent, ""},
		{"NotFound", 0, http.StatusNotFound, "ERR-007"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
			router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
			server := httptest.NewServer(router)
			defer server.Close()

			token, _ := jwtManagerMock.GenerateJWT(adminId.String(), "testAdmin", schemas.RoleAdmin)
			poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

			// Mock database calls
			poolMock.ExpectBegin()
			poolMock.ExpectExec("DELETE FROM votes").WithArgs(questionId.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
			poolMock.ExpectExec("DELETE FROM answers").WithArgs(questionId.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))
			poolMock.ExpectExec("DELETE FROM questions").WithArgs(questionId.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", tc.rowsAffected))
			if tc.expectedCode == "" {
				poolMock.ExpectCommit()
			} else {
				poolMock.ExpectRollback()
			}

			expect := httpexpect.Default(t, server.URL)
			request := expect.DELETE("/api/admin/questions/" + questionId.String()).
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

func TestOwnerDeleteQuestionForbidden(t *testing.T) {
	userId := uuid.New()
	questionId := uuid.New()

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	token, _ := jwtManagerMock.GenerateJWT(userId.String(), "testUser", schemas.RoleUser)
	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	// The question belongs to someone else, so the scoped delete hits nothing
	poolMock.ExpectBegin()
	poolMock.ExpectExec("DELETE FROM votes").WithArgs(questionId.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	poolMock.ExpectExec("DELETE FROM answers").WithArgs(questionId.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	poolMock.ExpectExec("DELETE FROM questions").WithArgs(questionId.String(), userId.String()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	poolMock.ExpectRollback()

	expect := httpexpect.Default(t, server.URL)
	request := expect.DELETE("/api/questions/" + questionId.String()).
		WithHeader("Authorization", "Bearer "+token)
	response := request.Expect().Status(http.StatusForbidden)
	response.JSON().Object().Value("error").Object().Value("code").String().IsEqual("ERR-012")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
