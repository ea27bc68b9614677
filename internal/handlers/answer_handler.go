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

type AnswerHdl interface {
	CreateAnswer(c *gin.Context)
	GetAnswersByQuestion(c *gin.Context)
	EditAnswer(c *gin.Context)
	DeleteAnswer(c *gin.Context)
	ToggleVote(c *gin.Context)
}

type AnswerHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewAnswerHandler(databaseManager *managers.DatabaseMgr) AnswerHdl {
	return &AnswerHandler{
		DatabaseManager: *databaseManager,
	}
}

// Postgres error codes the vote and answer flows react to.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// CreateAnswer adds an answer to a question and notifies the question's owner,
// unless the owner answered their own question.
func (handler *AnswerHandler) CreateAnswer(c *gin.Context) {
	// Decode the request body into the answer request struct
	createAnswerRequest := &schemas.CreateAnswerRequest{}
	if err := utils.DecodeAndValidateBody(c, createAnswerRequest); err != nil {
		return
	}

	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Look up the question's owner
	var ownerId uuid.UUID
	queryString := "SELECT user_id FROM questions WHERE question_id = $1"
	row := tx.QueryRow(c, queryString, createAnswerRequest.QuestionID)
	if err = row.Scan(&ownerId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.QuestionNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Insert the answer into the database
	answerId := uuid.New()
	queryString = "INSERT INTO answers (answer_id, question_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)"
	if _, err = tx.Exec(c, queryString, answerId, createAnswerRequest.QuestionID, userId, createAnswerRequest.Content, time.Now()); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			// The question was deleted between the owner lookup and the insert
			utils.WriteAndLogError(c, schemas.QuestionNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Notify the question's owner, unless they answered themselves
	if ownerId.String() != userId {
		message := username + " answered your question!"
		if err = insertNotification(c, tx, ownerId, userId, &createAnswerRequest.QuestionID, message); err != nil {
			return
		}
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	createdDto := &schemas.CreatedDTO{Id: answerId}
	utils.WriteAndLogResponse(c, createdDto, http.StatusCreated)
}

// GetAnswersByQuestion returns the answers of a question ordered by votes,
// including whether the requesting user has voted for each one.
func (handler *AnswerHandler) GetAnswersByQuestion(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	questionId := c.Param(utils.QuestionIdKey)

	queryString := "SELECT a.answer_id, u.username, a.content, a.created_at, " +
		"(SELECT COUNT(*) FROM votes v WHERE v.answer_id = a.answer_id) AS vote_count, " +
		"EXISTS(SELECT 1 FROM votes v WHERE v.answer_id = a.answer_id AND v.user_id = $2) AS user_voted " +
		"FROM answers a JOIN users u ON a.user_id = u.user_id " +
		"WHERE a.question_id = $1 ORDER BY vote_count DESC, a.created_at"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString, questionId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	// Create a list of answers
	answers := make([]schemas.AnswerDTO, 0)
	var createdAt pgtype.Timestamptz
	now := time.Now()
	for rows.Next() {
		answer := schemas.AnswerDTO{}
		if err := rows.Scan(&answer.AnswerId, &answer.Username, &answer.Content, &createdAt, &answer.VoteCount, &answer.UserVoted); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		answer.CreatedAt = createdAt.Time.Format(time.RFC3339)
		answer.TimeAgo = utils.TimeAgo(createdAt.Time, now)
		answers = append(answers, answer)
	}

	utils.WriteAndLogResponse(c, answers, http.StatusOK)
}

// EditAnswer updates the content of an answer owned by the requesting user.
func (handler *AnswerHandler) EditAnswer(c *gin.Context) {
	editAnswerRequest := &schemas.EditAnswerRequest{}
	if err := utils.DecodeAndValidateBody(c, editAnswerRequest); err != nil {
		return
	}

	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	answerId := c.Param(utils.AnswerIdKey)

	// The ownership check rides on the update itself
	queryString := "UPDATE answers SET content = $1 WHERE answer_id = $2 AND user_id = $3"
	commandTag, err := handler.DatabaseManager.GetPool().Exec(c, queryString, editAnswerRequest.Content, answerId, userId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		utils.WriteAndLogError(c, schemas.NotOwner, http.StatusForbidden, errors.New("answer not found or not owned by user"))
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Answer updated successfully."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// DeleteAnswer removes an answer owned by the requesting user together with
// its votes.
func (handler *AnswerHandler) DeleteAnswer(c *gin.Context) {
	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)

	answerId := c.Param(utils.AnswerIdKey)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "DELETE FROM votes WHERE answer_id = $1"
	if _, err = tx.Exec(c, queryString, answerId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM answers WHERE answer_id = $1 AND user_id = $2"
	commandTag, execErr := tx.Exec(c, queryString, answerId, userId)
	if execErr != nil {
		err = execErr
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("answer not found or not owned by user")
		utils.WriteAndLogError(c, schemas.NotOwner, http.StatusForbidden, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleVote flips the requesting user's vote on an answer. Voting an answer
// the user has not voted for creates the vote and notifies the answer's
// author, voting again removes it. The unique constraint on (voter, answer)
// backstops concurrent toggles: a duplicate insert is reported as if the vote
// had been cast normally.
func (handler *AnswerHandler) ToggleVote(c *gin.Context) {
	// Decode the request body into the vote request struct
	voteRequest := &schemas.VoteRequest{}
	if err := utils.DecodeAndValidateBody(c, voteRequest); err != nil {
		return
	}

	claims, ok := utils.GetClaims(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.Unauthorized, http.StatusUnauthorized, errors.New("no identity attached to request"))
		return
	}
	userId, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	// Check whether the user has already voted for this answer
	var alreadyVoted bool
	queryString := "SELECT EXISTS(SELECT 1 FROM votes WHERE user_id = $1 AND answer_id = $2)"
	row := tx.QueryRow(c, queryString, userId, voteRequest.AnswerID)
	if err = row.Scan(&alreadyVoted); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if alreadyVoted {
		// Toggle off
		queryString = "DELETE FROM votes WHERE user_id = $1 AND answer_id = $2"
		if _, err = tx.Exec(c, queryString, userId, voteRequest.AnswerID); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		if err = utils.CommitTransaction(c, tx); err != nil {
			return
		}

		utils.WriteAndLogResponse(c, &schemas.VoteDTO{Voted: false}, http.StatusOK)
		return
	}

	// Look up the answer's author and question
	var authorId, questionId uuid.UUID
	queryString = "SELECT user_id, question_id FROM answers WHERE answer_id = $1"
	row = tx.QueryRow(c, queryString, voteRequest.AnswerID)
	if err = row.Scan(&authorId, &questionId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			utils.WriteAndLogError(c, schemas.AnswerNotFound, http.StatusNotFound, err)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Toggle on
	queryString = "INSERT INTO votes (user_id, answer_id, created_at) VALUES ($1, $2, $3)"
	if _, err = tx.Exec(c, queryString, userId, voteRequest.AnswerID, time.Now()); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// A concurrent request won the race, the vote exists either way
			utils.LogMessageWithFieldsAndError(c, "info", "Duplicate vote absorbed by unique constraint", err)
			utils.WriteAndLogResponse(c, &schemas.VoteDTO{Voted: true}, http.StatusOK)
			return
		}

		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	// Notify the answer's author, unless they voted for their own answer
	if authorId.String() != userId {
		message := username + " liked your answer!"
		if err = insertNotification(c, tx, authorId, userId, &questionId, message); err != nil {
			return
		}
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	utils.WriteAndLogResponse(c, &schemas.VoteDTO{Voted: true}, http.StatusOK)
}

// insertNotification records a notification for the recipient.
func insertNotification(c *gin.Context, tx pgx.Tx, recipientId uuid.UUID, senderId string, questionId *uuid.UUID, message string) error {
	queryString := "INSERT INTO notifications (notification_id, recipient_id, sender_id, question_id, message, is_read, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)"
	if _, err := tx.Exec(c, queryString, uuid.New(), recipientId, senderId, questionId, message, false, time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return err
	}

	return nil
}
