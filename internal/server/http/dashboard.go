package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
)

const nonHumanDashboardMessage = "Non-human users cannot use the dashboard."

type dashboardResponse struct {
	User      *models.User      `json:"user"`
	Passwords []models.Password `json:"passwords"`
}

type createPasswordRequest struct {
	Label     string `json:"label" form:"label" binding:"required"`
	ExpiresIn string `json:"expires_in" form:"expires_in"`
}

type deletePasswordRequest struct {
	Label string `json:"label" form:"label" binding:"required"`
}

// newPasswordResponse carries the only copy of the plaintext password.
type newPasswordResponse struct {
	Label     string     `json:"label"`
	Password  string     `json:"password"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// humanUser returns the caller or writes 403 for service accounts. The rule
// holds for administrators too.
func humanUser(c *gin.Context) (*models.User, bool) {
	u := currentUser(c)
	if u.NonHuman {
		c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte(nonHumanDashboardMessage))
		c.Abort()
		return nil, false
	}
	return u, true
}

func (s *Server) dashboard(c *gin.Context) {
	u, ok := humanUser(c)
	if !ok {
		return
	}

	passwords, err := s.store.ListPasswords(c.Request.Context(), u.ID)
	if err != nil {
		s.respondError(c, "list_passwords", err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{User: u, Passwords: passwords})
}

func (s *Server) createPassword(c *gin.Context) {
	u, ok := humanUser(c)
	if !ok {
		return
	}

	var req createPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "label is required")
		return
	}
	expiresAt, err := parseExpiresIn(req.ExpiresIn, s.now())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	secret, err := s.store.NewPassword(c.Request.Context(), u.ID, req.Label, expiresAt)
	if err != nil {
		s.respondError(c, "new_password", err)
		return
	}
	c.JSON(http.StatusCreated, newPasswordResponse{Label: req.Label, Password: secret, ExpiresAt: expiresAt})
}

func (s *Server) deletePassword(c *gin.Context) {
	u, ok := humanUser(c)
	if !ok {
		return
	}

	var req deletePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "label is required")
		return
	}

	if err := s.store.RemovePassword(c.Request.Context(), u.ID, req.Label); err != nil {
		s.respondError(c, "remove_password", err)
		return
	}
	c.Status(http.StatusNoContent)
}
