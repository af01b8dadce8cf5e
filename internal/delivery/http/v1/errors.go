package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasklist/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errMissingValue       = errors.New("value is required unless cancelled")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newUnprocessableEntityError(message string) apiError {
	return newAPIError(http.StatusUnprocessableEntity, message)
}

// newTaskListError maps task list errors onto API errors.
func newTaskListError(err error) apiError {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return newUnprocessableEntityError(validationErr.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		return newNotFoundError(services.ErrTaskNotFound.Error())
	case errors.Is(err, services.ErrFormClosed):
		return newConflictError(services.ErrFormClosed.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
