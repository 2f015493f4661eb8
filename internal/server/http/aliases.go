package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
)

type aliasRequest struct {
	Name        string `json:"alias_name" form:"alias_name" binding:"required"`
	Destination string `json:"destination" form:"destination" binding:"required"`
}

type aliasesResponse struct {
	Aliases []models.AliasGroup `json:"aliases"`
	Users   []models.User       `json:"users"`
}

func (s *Server) listAliases(c *gin.Context) {
	groups, err := s.store.ListAllAliases(c.Request.Context())
	if err != nil {
		s.respondError(c, "list_all_aliases", err)
		return
	}
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, "list_users", err)
		return
	}
	c.JSON(http.StatusOK, aliasesResponse{Aliases: groups, Users: users})
}

func (s *Server) addAlias(c *gin.Context) {
	var req aliasRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "alias_name and destination are required")
		return
	}
	dest, ok := parseUUID(c, "destination", req.Destination)
	if !ok {
		return
	}

	err := s.store.AddAlias(c.Request.Context(), req.Name, dest)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		badRequest(c, "unknown destination")
		return
	case err != nil:
		s.respondError(c, "add_alias", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removeAlias(c *gin.Context) {
	var req aliasRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "alias_name and destination are required")
		return
	}
	dest, ok := parseUUID(c, "destination", req.Destination)
	if !ok {
		return
	}

	if err := s.store.RemoveAlias(c.Request.Context(), req.Name, dest); err != nil {
		s.respondError(c, "remove_alias", err)
		return
	}
	c.Status(http.StatusNoContent)
}
