package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createUserRequest struct {
	Username  string `json:"username" form:"username" binding:"required"`
	ExpiresAt string `json:"expires_at" form:"expires_at"`
	NonHuman  bool   `json:"non_human" form:"non_human"`
}

type manageUserRequest struct {
	UID       string `json:"uid" form:"uid" binding:"required"`
	ExpiresAt string `json:"expires_at" form:"expires_at"`
}

type manageUserResponse struct {
	User      *models.User      `json:"user"`
	Passwords []models.Password `json:"passwords"`
}

func manageUserLocation(id uuid.UUID) string {
	return "/admin/manage_user?" + url.Values{"uid": {id.String()}}.Encode()
}

func parseUUID(c *gin.Context, field, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		badRequest(c, fmt.Sprintf("%s must be a UUID", field))
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) adminHome(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, "list_users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "username is required")
		return
	}
	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	id, err := s.store.CreateUser(c.Request.Context(), req.Username, expiresAt, req.NonHuman)
	if err != nil {
		s.respondError(c, "create_user", err)
		return
	}

	s.logger.Info(c.Request.Context(), "user created", "user_id", id.String(), "admin", c.GetString(ctxAdminUID))
	c.Header("Location", manageUserLocation(id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (s *Server) manageUser(c *gin.Context) {
	id, ok := parseUUID(c, "uid", c.Query("uid"))
	if !ok {
		return
	}

	u, err := s.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "get_user_by_id", err)
		return
	}
	if u == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	passwords, err := s.store.ListPasswords(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "list_passwords", err)
		return
	}
	c.JSON(http.StatusOK, manageUserResponse{User: u, Passwords: passwords})
}

func (s *Server) expireUser(c *gin.Context) {
	var req manageUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "uid is required")
		return
	}
	id, ok := parseUUID(c, "uid", req.UID)
	if !ok {
		return
	}
	expiresAt, err := parseExpiresAt(req.ExpiresAt)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := s.store.SetExpiry(c.Request.Context(), id, expiresAt); err != nil {
		s.respondError(c, "set_expiry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deactivateUser(c *gin.Context) {
	var req manageUserRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "uid is required")
		return
	}
	id, ok := parseUUID(c, "uid", req.UID)
	if !ok {
		return
	}

	if err := s.store.ToggleLoginAllowed(c.Request.Context(), id); err != nil {
		s.respondError(c, "toggle_login_allowed", err)
		return
	}
	s.logger.Info(c.Request.Context(), "login flag toggled", "user_id", id.String(), "admin", c.GetString(ctxAdminUID))
	c.Status(http.StatusNoContent)
}
