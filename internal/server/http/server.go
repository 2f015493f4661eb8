// Package http serves the credential store over HTTP: the service-to-service
// API used by mail and CalDAV authentication plugins, the self-service
// dashboard and the administration endpoints.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mailpasswd/internal/logging"
	"github.com/dmitrijs2005/mailpasswd/internal/server/identity"
	"github.com/dmitrijs2005/mailpasswd/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the subset of the credential store the handlers use.
type Store interface {
	CreateUser(ctx context.Context, username string, expiresAt *time.Time, nonHuman bool) (uuid.UUID, error)
	FindUserByName(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ToggleLoginAllowed(ctx context.Context, id uuid.UUID) error
	SetExpiry(ctx context.Context, id uuid.UUID, expiresAt *time.Time) error

	NewPassword(ctx context.Context, userID uuid.UUID, label string, expiresAt *time.Time) (string, error)
	RemovePassword(ctx context.Context, userID uuid.UUID, label string) error
	ListPasswords(ctx context.Context, userID uuid.UUID) ([]models.Password, error)
	VerifyPassword(ctx context.Context, username, candidate string) (models.AuthenticationResult, error)

	AddAlias(ctx context.Context, name string, destination uuid.UUID) error
	RemoveAlias(ctx context.Context, name string, destination uuid.UUID) error
	ListAllAliases(ctx context.Context) ([]models.AliasGroup, error)
}

type Server struct {
	address         string
	store           Store
	admins          *identity.AdminList
	logger          logging.Logger
	shutdownTimeout time.Duration
	now             func() time.Time
	engine          *gin.Engine
}

func NewServer(address string, l logging.Logger, store Store, admins *identity.AdminList, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         address,
		store:           store,
		admins:          admins,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
		now:             time.Now,
		engine:          gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(s.recovery(), requestID(), s.accessLog())

	api := r.Group("/api")
	{
		api.POST("/authenticate", s.authenticate)
		api.POST("/user_lookup", s.userLookup)
	}

	self := r.Group("/", s.requireUser())
	{
		self.GET("/", s.dashboard)
		self.POST("/create_password", s.createPassword)
		self.POST("/delete_password", s.deletePassword)
	}

	admin := r.Group("/admin", s.requireAdmin())
	{
		admin.GET("/", s.adminHome)
		admin.POST("/create_user", s.createUser)
		admin.GET("/manage_user", s.manageUser)
		admin.POST("/expire_user", s.expireUser)
		admin.POST("/deactivate_user", s.deactivateUser)

		admin.POST("/non_human/create_password", s.nonHumanCreatePassword)
		admin.POST("/non_human/delete_password", s.nonHumanDeletePassword)

		aliases := admin.Group("/aliases")
		aliases.GET("/", s.listAliases)
		aliases.POST("/", s.addAlias)
		aliases.POST("/delete", s.removeAlias)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	// in-flight requests drain before the caller closes the database
	<-stopped
	return nil
}
