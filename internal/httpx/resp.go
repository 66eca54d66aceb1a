package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Error string `json:"error"`
}

// OK sends a 200 response with the given body
func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Fail sends an error response from an AppError.
// If AppError.Err is not nil, it is logged but not returned to the client.
func Fail(c *gin.Context, log logrus.FieldLogger, err *AppError) {
	if err.Err != nil && log != nil {
		log.WithFields(logrus.Fields{
			"kind":   err.Kind,
			"status": err.HTTPStatus,
			"path":   c.Request.URL.Path,
		}).WithError(err.Err).Error(err.Message)
	}

	c.JSON(err.HTTPStatus, ErrorBody{Error: err.Message})
}

// FailError sends an error response for any error. Errors that are not an
// AppError become a 500 internal error.
func FailError(c *gin.Context, log logrus.FieldLogger, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Fail(c, log, appErr)
		return
	}
	Fail(c, log, ErrInternalError(err.Error(), err))
}
