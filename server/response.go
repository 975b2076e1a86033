package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/engineconnector/errors"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError answers with the error envelope. The status mirrors the
// AppError's HTTPStatus; foreign errors become a 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.From(err)
	status := appErr.HTTPStatus
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
