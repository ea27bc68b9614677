package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"campus-forum/internal/managers"
	"campus-forum/internal/schemas"
	"campus-forum/internal/utils"
)

type QuestionHdl interface {
	CreateQuestion(c *gin.Context)
	GetQuestions(c *gin.Context)
	GetQuestionById(c *gin.Context)
	GetQuestionsByCampus(c *gin.Context)
	GetQuestionsByDepartment(c *gin.Context)
	GetMyQuestions(c *gin.Context)
	EditQuestion(c *gin.Context)
	DeleteQuestion(c *gin.Context)
	AdminDeleteQuestion(c *gin.Context)
}

type QuestionHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewQuestionHandler(databaseManager *managers.DatabaseMgr) QuestionHdl {
	return &QuestionHandler{
		DatabaseManager: *databaseManager,
	}
}

// questionBaseQuery joins the display names the question lists need. Campus
// and department are optional on a question, hence the left joins.
const questionBaseQuery = "SELECT q.question_id, u.username, q.title, q.description, COALESCE(q.tag, ''), " +
	"COALESCE(c.name, ''), COALESCE(d.name, ''), q.created_at " +
	"FROM questions q JOIN users u ON q.user_id = u.user_id " +
	"LEFT JOIN campus c ON q.campus_id = c.campus_id " +
	"LEFT JOIN departments d ON q.department_id = d.department_id"

// CreateQuestion adds a new question for the requesting user.
func (handler *QuestionHandler) CreateQuestion(c *gin.Context) {
	// Decode the request body into the question request struct
	createQuestionRequest := &schemas.CreateQuestionRequest{}
	if err := utils.DecodeAndValidateBody(c, createQuestionRequest); err != nil {
		return
	}

	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	// Insert the question into the database
	questionId := uuid.New()
	queryString := "INSERT INTO questions (question_id, user_id, title, description, tag, campus_id, department_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)"
	if _, err := handler.DatabaseManager.GetPool().Exec(c, queryString, questionId, userId, createQuestionRequest.Title,
		createQuestionRequest.Description, createQuestionRequest.Tag, createQuestionRequest.CampusID,
		createQuestionRequest.DepartmentID, time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	createdDto := &schemas.CreatedDTO{Id: questionId}
	utils.WriteAndLogResponse(c, createdDto, http.StatusCreated)
}

// GetQuestions returns all questions, newest first.
func (handler *QuestionHandler) GetQuestions(c *gin.Context) {
	queryString := questionBaseQuery + " ORDER BY q.created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, questions, http.StatusOK)
}

// GetQuestionById returns a single question.
func (handler *QuestionHandler) GetQuestionById(c *gin.Context) {
	questionId := c.Param(utils.QuestionIdKey)

	queryString := questionBaseQuery + " WHERE q.question_id = $1"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, questionId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if len(questions) == 0 {
		utils.WriteAndLogError(c, schemas.QuestionNotFound, http.StatusNotFound, errors.New("question not found"))
		return
	}

	utils.WriteAndLogResponse(c, questions[0], http.StatusOK)
}

// GetQuestionsByCampus returns the questions of a campus, newest first.
func (handler *QuestionHandler) GetQuestionsByCampus(c *gin.Context) {
	campusId := c.Param(utils.CampusIdKey)

	queryString := questionBaseQuery + " WHERE q.campus_id = $1 ORDER BY q.created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, campusId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, questions, http.StatusOK)
}

// GetQuestionsByDepartment returns the questions of a department, newest first.
func (handler *QuestionHandler) GetQuestionsByDepartment(c *gin.Context) {
	departmentId := c.Param(utils.DepartmentIdKey)

	queryString := questionBaseQuery + " WHERE q.department_id = $1 ORDER BY q.created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, departmentId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, questions, http.StatusOK)
}

// GetMyQuestions returns the requesting user's questions with their answer
// counts, newest first.
func (handler *QuestionHandler) GetMyQuestions(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	queryString := "SELECT q.question_id, q.title, q.description, q.created_at, " +
		"(SELECT COUNT(*) FROM answers a WHERE a.question_id = q.question_id) AS answer_count " +
		"FROM questions q WHERE q.user_id = $1 ORDER BY q.created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	questions := make([]schemas.MyQuestionDTO, 0)
	var createdAt pgtype.Timestamptz
	for rows.Next() {
		question := schemas.MyQuestionDTO{}
		if err := rows.Scan(&question.QuestionId, &question.Title, &question.Description, &createdAt, &question.AnswerCount); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		question.CreatedAt = createdAt.Time.Format(time.RFC3339)
		questions = append(questions, question)
	}

	utils.WriteAndLogResponse(c, questions, http.StatusOK)
}

// EditQuestion updates a question owned by the requesting user.
func (handler *QuestionHandler) EditQuestion(c *gin.Context) {
	editQuestionRequest := &schemas.EditQuestionRequest{}
	if err := utils.DecodeAndValidateBody(c, editQuestionRequest); err != nil {
		return
	}

	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	questionId := c.Param(utils.QuestionIdKey)

	// The ownership check rides on the update itself
	queryString := "UPDATE questions SET title = $1, description = $2, tag = $3 WHERE question_id = $4 AND user_id = $5"
	commandTag, err := handler.DatabaseManager.GetPool().Exec(c, queryString, editQuestionRequest.Title,
		editQuestionRequest.Description, editQuestionRequest.Tag, questionId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		utils.WriteAndLogError(c, schemas.NotOwner, http.StatusForbidden, errors.New("question not found or not owned by user"))
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Question updated successfully."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// DeleteQuestion removes a question owned by the requesting user together
// with its answers and their votes.
func (handler *QuestionHandler) DeleteQuestion(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	questionId := c.Param(utils.QuestionIdKey)

	if err := handler.deleteQuestionCascading(c, questionId, userId); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// AdminDeleteQuestion removes any question regardless of ownership. The route
// is only reachable through the admin role gate.
func (handler *QuestionHandler) AdminDeleteQuestion(c *gin.Context) {
	questionId := c.Param(utils.QuestionIdKey)

	if err := handler.deleteQuestionCascading(c, questionId, ""); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteQuestionCascading removes a question with its answers and votes. When
// ownerId is non-empty the question must belong to that user; an empty ownerId
// skips the ownership check for moderation.
func (handler *QuestionHandler) deleteQuestionCascading(c *gin.Context, questionId, ownerId string) error {
	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return errors.New("transaction could not be started")
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "DELETE FROM votes WHERE answer_id IN (SELECT answer_id FROM answers WHERE question_id = $1)"
	if _, err = tx.Exec(c, queryString, questionId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	queryString = "DELETE FROM answers WHERE question_id = $1"
	if _, err = tx.Exec(c, queryString, questionId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	var commandTag pgconn.CommandTag
	if ownerId == "" {
		queryString = "DELETE FROM questions WHERE question_id = $1"
		commandTag, err = tx.Exec(c, queryString, questionId)
	} else {
		queryString = "DELETE FROM questions WHERE question_id = $1 AND user_id = $2"
		commandTag, err = tx.Exec(c, queryString, questionId, ownerId)
	}
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	if commandTag.RowsAffected() == 0 {
		if ownerId == "" {
			err = errors.New("question not found")
			utils.WriteAndLogError(c, schemas.QuestionNotFound, http.StatusNotFound, err)
		} else {
			err = errors.New("question not found or not owned by user")
			utils.WriteAndLogError(c, schemas.NotOwner, http.StatusForbidden, err)
		}
		return err
	}

	// Commit the transaction
	return utils.CommitTransaction(c, tx)
}

// scanQuestions collects the rows of a question list query.
func scanQuestions(rows pgx.Rows) ([]schemas.QuestionDTO, error) {
	questions := make([]schemas.QuestionDTO, 0)
	var createdAt pgtype.Timestamptz
	now := time.Now()
	for rows.Next() {
		question := schemas.QuestionDTO{}
		if err := rows.Scan(&question.QuestionId, &question.Username, &question.Title, &question.Description,
			&question.Tag, &question.Campus, &question.Department, &createdAt); err != nil {
			return nil, err
		}
		question.CreatedAt = createdAt.Time.Format(time.RFC3339)
		question.TimeAgo = utils.TimeAgo(createdAt.Time, now)
		questions = append(questions, question)
	}

	return questions, nil
}
