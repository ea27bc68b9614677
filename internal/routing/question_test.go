package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gavv/httpexpect/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

func TestGetQuestionsByCampus(t *testing.T) {
	campusId := uuid.New()
	questionId := uuid.New()
	createdAt := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectQuery("WHERE q.campus_id").WithArgs(campusId.String()).
		WillReturnRows(pgxmock.NewRows([]string{"question_id", "username", "title", "description", "tag", "campus", "department", "created_at"}).
			AddRow(questionId.String(), "testUser", "Where is the library?", "Looking for the north campus library.", "orientation", "North Campus", "", createdAt))

	expect := httpexpect.Default(t, server.URL)
	request := expect.GET("/api/campus/" + campusId.String() + "/questions")
	response := request.Expect().Status(http.StatusOK)

	list := response.JSON().Array()
	list.Length().IsEqual(1)
	entry := list.Value(0).Object()
	entry.Value("questionId").String().IsEqual(questionId.String())
	entry.Value("username").String().IsEqual("testUser")
	entry.Value("campus").String().IsEqual("North Campus")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetQuestionsByDepartment(t *testing.T) {
	departmentId := uuid.New()
	questionId := uuid.New()
	createdAt := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)

	databaseMgrMock, jwtManagerMock, mailMgrMock := setupMocks(t)
	router := InitRouter(databaseMgrMock, mailMgrMock, jwtManagerMock)
	server := httptest.NewServer(router)
	defer server.Close()

	poolMock := databaseMgrMock.GetPool().(pgxmock.PgxPoolIface)

	poolMock.ExpectQuery("WHERE q.department_id").WithArgs(departmentId.String()).
		WillReturnRows(pgxmock.NewRows([]string{"question_id", "username", "title", "description", "tag", "campus", "department", "created_at"}).
			AddRow(questionId.String(), "testUser", "Lab access hours?", "When does the physics lab open?", "", "", "Physics", createdAt))

	expect := httpexpect.Default(t, server.URL)
	request := expect.GET("/api/departments/" + departmentId.String() + "/questions")
	response := request.Expect().Status(http.StatusOK)

	list := response.JSON().Array()
	list.Length().IsEqual(1)
	entry := list.Value(0).Object()
	entry.Value("questionId").String().IsEqual(questionId.String())
	entry.Value("department").String().IsEqual("Physics")

	if err := poolMock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
