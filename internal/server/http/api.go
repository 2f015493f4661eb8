package http

import (
	"net/http"

	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
)

type authenticateRequest struct {
	User     string `json:"user" form:"user"`
	Password string `json:"password" form:"password"`
}

type lookupRequest struct {
	User string `json:"user" form:"user"`
}

var authStatus = map[models.AuthenticationResult]int{
	models.AuthOk:                http.StatusOK,
	models.AuthNoSuchUser:        http.StatusBadRequest,
	models.AuthLoginDisabled:     http.StatusForbidden,
	models.AuthIncorrectPassword: http.StatusUnauthorized,
}

// authenticate checks the username exactly as given; callers that receive
// user@domain logins reduce them first. It answers with a bare status:
// 200 ok, 400 unknown user, 403 login disabled, 401 wrong or expired
// password, 500 internal error.
func (s *Server) authenticate(c *gin.Context) {
	var req authenticateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}

	username := req.User
	if username == "" {
		c.Status(authStatus[models.AuthNoSuchUser])
		return
	}

	result, err := s.store.VerifyPassword(c.Request.Context(), username, req.Password)
	if err != nil {
		s.logger.Error(c.Request.Context(), "Error verifying password", "op", "verify_password", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	s.logger.Debug(c.Request.Context(), "authentication checked", "user", username, "result", result.String())
	c.Status(authStatus[result])
}

func (s *Server) userLookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "malformed request")
		return
	}

	username := req.User
	if username == "" {
		c.Status(http.StatusNotFound)
		return
	}

	u, err := s.store.FindUserByName(c.Request.Context(), username)
	if err != nil {
		s.respondError(c, "find_user_by_name", err)
		return
	}
	if u == nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, u)
}
