package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/gin-gonic/gin"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON body. Internal errors are logged with the
// operation name and replaced by a generic message.
func (s *Server) respondError(c *gin.Context, op string, err error) {
	s.respondErrorStatus(c, op, err, errorStatus(err))
}

func (s *Server) respondErrorStatus(c *gin.Context, op string, err error, status int) {
	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error(c.Request.Context(), "request failed", "op", op, "error", err)
		msg = "internal error"
	case errors.Is(err, common.ErrorAlreadyExists):
		msg = common.ErrorAlreadyExists.Error()
	case errors.Is(err, common.ErrorNotFound):
		msg = common.ErrorNotFound.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
