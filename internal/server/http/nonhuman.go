package http

import (
	"net/http"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
)

const humanAccountMessage = "Only passwords of non-human users can be managed here."

type nonHumanPasswordRequest struct {
	UUID      string `json:"uuid" form:"uuid" binding:"required"`
	Label     string `json:"label" form:"label" binding:"required"`
	ExpiresIn string `json:"expires_in" form:"expires_in"`
}

// nonHumanUser loads the target account and writes the response itself
// unless it is an existing service account.
func (s *Server) nonHumanUser(c *gin.Context, rawID string) (*models.User, bool) {
	id, ok := parseUUID(c, "uuid", rawID)
	if !ok {
		return nil, false
	}

	u, err := s.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "get_user_by_id", err)
		return nil, false
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	if !u.NonHuman {
		c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte(humanAccountMessage))
		c.Abort()
		return nil, false
	}
	return u, true
}

func (s *Server) nonHumanCreatePassword(c *gin.Context) {
	var req nonHumanPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "uuid and label are required")
		return
	}
	expiresAt, err := parseExpiresIn(req.ExpiresIn, s.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	u, ok := s.nonHumanUser(c, req.UUID)
	if !ok {
		return
	}

	secret, err := s.store.NewPassword(c.Request.Context(), u.ID, req.Label, expiresAt)
	if err != nil {
		s.respondError(c, "new_password", err)
		return
	}
	s.logger.Info(c.Request.Context(), "service account password created",
		"user_id", u.ID.String(), "label", req.Label, "admin", c.GetString(ctxAdminUID))
	c.JSON(http.StatusCreated, newPasswordResponse{Label: req.Label, Password: secret, ExpiresAt: expiresAt})
}

func (s *Server) nonHumanDeletePassword(c *gin.Context) {
	var req nonHumanPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "uuid and label are required")
		return
	}
	u, ok := s.nonHumanUser(c, req.UUID)
	if !ok {
		return
	}

	if err := s.store.RemovePassword(c.Request.Context(), u.ID, req.Label); err != nil {
		s.respondError(c, "remove_password", err)
		return
	}
	c.Status(http.StatusNoContent)
}
