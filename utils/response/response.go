package response

import (
	"net/http"

	"arena-api/middleware"
	"arena-api/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorBody is the shape of every error response
type ErrorBody struct {
    Error   string `json:"error"`
    Message string `json:"message"`
}

var kindStatus = map[services.Kind]int{
    services.KindValidation:    http.StatusBadRequest,
    services.KindAuthorization: http.StatusForbidden,
    services.KindNotFound:      http.StatusNotFound,
    services.KindReference:     http.StatusUnprocessableEntity,
    services.KindTransaction:   http.StatusInternalServerError,
    services.KindInternal:      http.StatusInternalServerError,
}

// Error sends a standardized error response
func Error(c *gin.Context, status int, kind services.Kind, message string) {
    c.AbortWithStatusJSON(status, ErrorBody{Error: string(kind), Message: message})
}

// Failure sends the response matching the kind of a service error
func Failure(c *gin.Context, err error) {
    kind := services.KindOf(err)
    status := StatusOf(kind)
    if status >= http.StatusInternalServerError {
        log.WithFields(log.Fields{
            "request_id": middleware.RequestID(c),
            "path":       c.FullPath(),
            "error":      err,
        }).Error("Request failed")
    }
    Error(c, status, kind, services.MessageOf(err))
}

// BadRequest sends a validation error for a request that could not be bound
func BadRequest(c *gin.Context, message string) {
    Error(c, http.StatusBadRequest, services.KindValidation, message)
}

// StatusOf returns the HTTP status of an error kind
func StatusOf(kind services.Kind) int {
    if status, ok := kindStatus[kind]; ok {
        return status
    }
    return http.StatusInternalServerError
}

// Success sends a standardized success response
func Success(c *gin.Context, status int, data interface{}) {
    c.JSON(status, data)
}
