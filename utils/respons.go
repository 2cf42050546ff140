package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DetailResponse is the error body shape shared by every non-2xx response.
type DetailResponse struct {
	Detail interface{} `json:"detail"`
}

func RespondDetail(c *gin.Context, code int, detail interface{}) {
	c.AbortWithStatusJSON(code, DetailResponse{Detail: detail})
}

// RespondValidation answers 422 with the field details extracted from err.
func RespondValidation(c *gin.Context, location string, err error) {
	RespondDetail(c, http.StatusUnprocessableEntity, ValidationDetails(location, err))
}

// RespondInternal logs the cause and hides it from the client.
func RespondInternal(c *gin.Context, err error) {
	ErrorLogger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).Errorf("storage error: %v", err)
	RespondDetail(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
