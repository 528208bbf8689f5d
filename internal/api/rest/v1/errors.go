package v1

import (
	"errors"
	"net/http"

	"github.com/d1s-utils/hole/internal/domain/objects"
	"github.com/d1s-utils/hole/internal/infrastructure/longpoll"
	"github.com/d1s-utils/hole/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

var statusByError = []struct {
	err    error
	status int
}{
	{objects.ErrInvalidInput, http.StatusBadRequest},
	{objects.ErrDuplicateMetadataProperty, http.StatusBadRequest},
	{objects.ErrFileNameMissing, http.StatusBadRequest},
	{objects.ErrNothingToEncrypt, http.StatusBadRequest},
	{objects.ErrEncryptionKeyMissing, http.StatusBadRequest},
	{objects.ErrInvalidEncryptionKey, http.StatusBadRequest},
	{objects.ErrObjectNotFound, http.StatusNotFound},
	{objects.ErrGroupNotFound, http.StatusNotFound},
	{longpoll.ErrUnknownGroup, http.StatusNotFound},
	{objects.ErrObjectLocked, http.StatusConflict},
	{objects.ErrGroupNameTaken, http.StatusUnprocessableEntity},
}

// statusOf maps an error to the status code it is reported with.
func statusOf(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Unexpected errors are logged
// and reported without their details.
func respondError(ctx *gin.Context, log logger.Logger, err error) {
	status := statusOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "method", ctx.Request.Method, "path", ctx.Request.URL.Path, "error", err)
		message = "internal server error"
	}

	ctx.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: message})
}
