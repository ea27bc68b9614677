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

type DepartmentHdl interface {
	GetDepartments(c *gin.Context)
	CreateDepartment(c *gin.Context)
	UpdateDepartment(c *gin.Context)
	DeleteDepartment(c *gin.Context)
}

type DepartmentHandler struct {
	DatabaseManager managers.DatabaseMgr
}

func NewDepartmentHandler(databaseManager *managers.DatabaseMgr) DepartmentHdl {
	return &DepartmentHandler{
		DatabaseManager: *databaseManager,
	}
}

// GetDepartments returns all departments, newest first.
func (handler *DepartmentHandler) GetDepartments(c *gin.Context) {
	queryString := "SELECT department_id, name, COALESCE(description, ''), created_at FROM departments ORDER BY created_at DESC"
	rows, err := handler.DatabaseManager.GetPool().Query(c, queryString)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()

	departments := make([]schemas.DepartmentDTO, 0)
	var createdAt pgtype.Timestamptz
	for rows.Next() {
		department := schemas.DepartmentDTO{}
		if err := rows.Scan(&department.DepartmentId, &department.Name, &department.Description, &createdAt); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}
		department.CreatedAt = createdAt.Time.Format(time.RFC3339)
		departments = append(departments, department)
	}

	utils.WriteAndLogResponse(c, departments, http.StatusOK)
}

// CreateDepartment adds a new department.
func (handler *DepartmentHandler) CreateDepartment(c *gin.Context) {
	createDepartmentRequest := &schemas.CreateDepartmentRequest{}
	if err := utils.DecodeAndValidateBody(c, createDepartmentRequest); err != nil {
		return
	}

	departmentId := uuid.New()
	queryString := "INSERT INTO departments (department_id, name, description, created_at) VALUES ($1, $2, $3, $4)"
	if _, err := handler.DatabaseManager.GetPool().Exec(c, queryString, departmentId, createDepartmentRequest.DepartmentName,
		createDepartmentRequest.Description, time.Now()); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	createdDto := &schemas.CreatedDTO{Id: departmentId}
	utils.WriteAndLogResponse(c, createdDto, http.StatusCreated)
}

// UpdateDepartment renames a department.
func (handler *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	updateDepartmentRequest := &schemas.UpdateDepartmentRequest{}
	if err := utils.DecodeAndValidateBody(c, updateDepartmentRequest); err != nil {
		return
	}

	departmentId := c.Param(utils.DepartmentIdKey)

	queryString := "UPDATE departments SET name = $1 WHERE department_id = $2"
	commandTag, err := handler.DatabaseManager.GetPool().Exec(c, queryString, updateDepartmentRequest.DepartmentName, departmentId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		utils.WriteAndLogError(c, schemas.DepartmentNotFound, http.StatusNotFound, errors.New("department not found"))
		return
	}

	messageDto := &schemas.MessageDTO{Message: "Department updated successfully."}
	utils.WriteAndLogResponse(c, messageDto, http.StatusOK)
}

// DeleteDepartment removes a department. Questions keep existing, they simply
// lose their department association.
func (handler *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	departmentId := c.Param(utils.DepartmentIdKey)

	// Begin a new transaction
	tx := utils.BeginTransaction(c, handler.DatabaseManager.GetPool())
	if tx == nil {
		return
	}
	var err error
	defer func() { utils.RollbackTransaction(c, tx, err) }()

	queryString := "UPDATE questions SET department_id = NULL WHERE department_id = $1"
	if _, err = tx.Exec(c, queryString, departmentId); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	queryString = "DELETE FROM departments WHERE department_id = $1"
	commandTag, execErr := tx.Exec(c, queryString, departmentId)
	if execErr != nil {
		err = execErr
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if commandTag.RowsAffected() == 0 {
		err = errors.New("department not found")
		utils.WriteAndLogError(c, schemas.DepartmentNotFound, http.StatusNotFound, err)
		return
	}

	// Commit the transaction
	if err = utils.CommitTransaction(c, tx); err != nil {
		return
	}

	c.Status(http.StatusNoContent)
}
