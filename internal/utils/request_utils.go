package utils

import (
	"net/http"

	"campus-forum/internal/schemas"

	"github.com/gin-gonic/gin"
)

// WriteAndLogResponse writes the response object as JSON with the provided
// status code and logs that a response is being returned.
func WriteAndLogResponse(c *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(c, "debug", "Returning response")
	c.JSON(statusCode, response)
}

// WriteAndLogError logs the underlying error server-side and sends the
// sanitized custom error to the client. The raw error never reaches the
// response body.
func WriteAndLogError(c *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFieldsAndError(c, "error", "Returning "+customErr.Code+" / "+customErr.Message, err)

	errorDto := &schemas.ErrorDTO{
		Error: *customErr,
	}
	c.JSON(statusCode, errorDto)
}

// DecodeAndValidateBody binds the JSON request body into obj, sanitizes its
// string fields and validates it. On failure it writes a BadRequest response
// and returns the error so the handler can simply return.
func DecodeAndValidateBody(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return err
	}

	validator := GetValidator()
	validator.SanitizeData(obj)

	if err := validator.Validate.Struct(obj); err != nil {
		WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return err
	}

	return nil
}
