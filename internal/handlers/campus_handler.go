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

type CampusHdl interface {
	GetCampuses(c *gin.Context)
	CreateCampus(c *gin.Context)
	UpdateCampus(c *gin.Context)
	DeleteCampus(c *gin.Context)
}

type CampusHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewCampusHandler(databaseManager *managers.DatabaseMgr) CampusHdl {
	return &CampusHandler{
		DatabaseManager: *databaseManager,
	}
}

// GetCampuses returns all campuses, newest first.
func (handler *CampusHandler) GetCampuses(c *gin.Context) {
	queryString := "SELECT campus_id, name, COALESCE(description, ''), created_at FROM campus ORDER BY created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	campuses := make([]schemas.CampusDTO, 0)
	var createdAt pgtype.Timestamptz
	for rows.Next() {
		campus := schemas.CampusDTO{}
		if err := rows.Scan(&campus.CampusId, &campus.Name, &campus.Description, &createdAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		campus.CreatedAt = createdAt.Time.Format(time.RFC3339)
		campuses = append(campuses, campus)
	}

	utils.WriteAndLogResponse(c, campuses, http.StatusOK)
}

// CreateCampus adds a new campus.
func (handler *CampusHandler) CreateCampus(c *gin.Context) {
	createCampusRequest := &schemas.CreateCampusRequest{}
	if err := utils.DecodeAndValidateBody(c, createCampusRequest); err != nil {
		return
	}

	campusId := uuid.New()
	queryString := "INSERT INTO campus (campus_id, name, description, created_at) VALUES ($1, $2, $3, $4)"
	if _, err := handler.DatabaseManager.GetPool().Exec(c, queryString, campusId, createCampusRequest.CampusName,
		createCampusRequest.Description, time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	createdDto := &schemas.CreatedDTO{Id: campusId}
	utils.WriteAndLogResponse(c, createdDto, http.StatusCreated)
}

// UpdateCampus renames a campus.
func (handler *CampusHandler) UpdateCampus(c *gin.Context) {
	updateCampusRequest := &schemas.UpdateCampusRequest{}
	if err := utils.DecodeAndValidateBody(c, updateCampusRequest); err != nil {
		return
	}

	campusId := c.Param(utils.CampusIdKey)

	queryString := "UPDATE campus SET name = $1 WHERE campus_id = $2"
	commandTag, err := handler.DatabaseManager.GetPool().Exec(c, queryString, updateCampusRequest.CampusName, campusId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		utils.WriteAndLogError(c, schemas.CampusNotFound, http.StatusNotFound, errors.New("campus not found"))
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Campus updated successfully."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// DeleteCampus removes a campus. Questions keep existing, they simply lose
// their campus association.
func (handler *CampusHandler) DeleteCampus(c *gin.Context) {
	campusId := c.Param(utils.CampusIdKey)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "UPDATE questions SET campus_id = NULL WHERE campus_id = $1"
	if _, err = tx.Exec(c, queryString, campusId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM campus WHERE campus_id = $1"
	commandTag, execErr := tx.Exec(c, queryString, campusId)
	if execErr != nil {
		err = execErr
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("campus not found")
		utils.WriteAndLogError(c, schemas.CampusNotFound, http.StatusNotFound, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}
