package http

import (
	"context"
	stdhttp "net/http"

	"viewtuber/internal/auth"
	"viewtuber/internal/config"
	"viewtuber/internal/credential"
	"viewtuber/internal/http/handler"
	"viewtuber/internal/http/middleware"
	"viewtuber/internal/invite"
	"viewtuber/internal/publish"
	"viewtuber/internal/repository/postgres"
	"viewtuber/internal/storage/s3"
	"viewtuber/internal/upload"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	jsonKeyStatus    = "status"
	statusOK         = "ok"
	requestBodyLimit = "1M"
)

type ServerDependencies struct {
	Config         *config.Config
	DB             *postgres.DB
	UserRepo       *postgres.UserRepository
	ProjectRepo    *postgres.ProjectRepository
	MemberRepo     *postgres.MemberRepository
	VideoRepo      *postgres.VideoRepository
	S3Client       *s3.Client
	JWTService     *auth.JWTService
	GoogleService  *auth.GoogleService
	AuthMiddleware *auth.Middleware
	InviteService  *invite.Service
	Notifier       *invite.EmailNotifier
	Coordinator    *upload.Coordinator
	Credentials    *credential.Cache
	Publisher      *publish.Publisher
	YouTube        *publish.YouTubeClient
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = CustomHTTPErrorHandler

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID first so every log line carries one.
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()

	authHandler := handler.NewAuthHandler(deps.GoogleService, deps.JWTService)
	projectHandler := handler.NewProjectHandler(deps.ProjectRepo, deps.DB, deps.Coordinator, deps.S3Client)
	inviteHandler := handler.NewInviteHandler(deps.InviteService, deps.MemberRepo, deps.ProjectRepo)
	videoHandler := handler.NewVideoHandler(deps.VideoRepo, deps.MemberRepo, deps.ProjectRepo, deps.UserRepo, deps.Coordinator, deps.ProjectRepo, deps.Notifier, deps.Publisher)
	channelHandler := handler.NewChannelHandler(deps.UserRepo, deps.Credentials, deps.YouTube)

	e.GET("/auth/google/login", authHandler.GoogleLogin, strictRateLimiter.Middleware())
	e.GET("/auth/google/callback", authHandler.GoogleCallback, strictRateLimiter.Middleware())
	e.GET("/health", healthCheck)

	api := e.Group("/api")
	api.Use(deps.AuthMiddleware.RequireJWT())

	api.GET("/projects", projectHandler.ListProjects)
	api.POST("/projects", projectHandler.CreateProject)
	api.GET("/projects/:id", projectHandler.GetProject)
	api.PUT("/projects/:id", projectHandler.UpdateProject)
	api.DELETE("/projects/:id", projectHandler.DeleteProject)

	api.POST("/projects/:id/invites", inviteHandler.IssueInvite)
	api.POST("/projects/:id/invites/accept", inviteHandler.AcceptInvite)
	api.GET("/projects/:id/members", inviteHandler.ListMembers)
	api.GET("/projects/:id/editors/:userID/permissions", inviteHandler.GetPermissions)
	api.PUT("/projects/:id/editors/:userID/permissions", inviteHandler.UpdatePermissions)

	api.PUT("/projects/:id/videos/:videoID", videoHandler.UpdateVideo)
	api.POST("/projects/:id/videos/:videoID/edited", videoHandler.SubmitEdited)
	api.PUT("/projects/:id/videos/:videoID/edited/complete", videoHandler.CompleteEdited)

	api.POST("/videos/:id/approval", videoHandler.SetApproval)
	api.POST("/videos/:id/publish", videoHandler.PublishVideo)

	api.GET("/channel", channelHandler.GetChannel)

	return &Server{echo: e, deps: deps}
}

func (s *Server) Start() error {
	return s.echo.Start(":" + s.deps.Config.Server.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{jsonKeyStatus: statusOK})
}
