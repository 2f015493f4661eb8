package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/server/identity"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"

	ctxRequestID = "request_id"
	ctxUser      = "user"
	ctxAdminUID  = "admin_uid"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog never logs bodies: they carry passwords.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		args := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetString(ctxRequestID),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			s.logger.Error(ctx, "Request completed", args...)
		case status >= 400:
			s.logger.Warn(ctx, "Request completed", args...)
		default:
			s.logger.Debug(ctx, "Request completed", args...)
		}
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error(c.Request.Context(), "Panic recovered",
			"error", fmt.Sprintf("%v", err),
			"route", c.FullPath(),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// requireUser resolves the client certificate to a stored user.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := identity.ExtractUser(c.Request.Context(), c.Request.Header, s.store)
		if err != nil {
			s.reject(c, err)
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := s.admins.ExtractAdmin(c.Request.Header)
		if err != nil {
			s.reject(c, err)
			return
		}
		c.Set(ctxAdminUID, uid)
		c.Next()
	}
}

func (s *Server) reject(c *gin.Context, err error) {
	var r *identity.Rejection
	if !errors.As(err, &r) {
		r = &identity.Rejection{Kind: identity.StorageFailure, Err: err}
	}

	switch r.Kind {
	case identity.StorageFailure:
		s.logger.Error(c.Request.Context(), "identity lookup failed", "error", r.Err)
	case identity.ProxyMisconfigured:
		s.logger.Error(c.Request.Context(), "client certificate headers missing; check the reverse proxy")
	}

	c.Data(r.Status(), "text/plain; charset=utf-8", []byte(r.Body()))
	c.Abort()
}

func currentUser(c *gin.Context) *models.User {
	u, _ := c.MustGet(ctxUser).(*models.User)
	return u
}
