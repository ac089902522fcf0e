package http

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"stuf-api/internal/audit"
	"stuf-api/internal/auth"
	"stuf-api/internal/config"
	"stuf-api/internal/http/handler"
	"stuf-api/internal/http/middleware"
	"stuf-api/internal/storage"
	"stuf-api/internal/usecase"
)

const bodyLimitFmt = "%dM"

type ServerDependencies struct {
	Config         *config.Config
	Storage        storage.Repository
	AuthMiddleware *auth.Middleware
	AuditLogger    *audit.Logger
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

	// Request ID first so all logs carry it
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf(bodyLimitFmt, deps.Config.App.MaxUploadSize/(1024*1024))))

	rateLimiter := middleware.NewRateLimiter(deps.Config.App.RateLimitRPS, deps.Config.App.RateLimitBurst)

	uploadUC := usecase.NewUploadFileUseCase(deps.Storage)
	listUC := usecase.NewListFilesUseCase(deps.Storage)
	downloadUC := usecase.NewDownloadFileUseCase(deps.Storage)
	deleteUC := usecase.NewDeleteFileUseCase(deps.Storage)

	fileHandler := handler.NewFileHandler(uploadUC, listUC, downloadUC, deleteUC, deps.AuditLogger)
	meHandler := handler.NewMeHandler()

	api := e.Group("/api")
	api.GET("/health", handler.HealthCheck, rateLimiter.Middleware())
	api.GET("/info", handler.Info, rateLimiter.Middleware())

	authenticated := api.Group("")
	authenticated.Use(deps.AuthMiddleware.RequireAuth())
	// The limiter must run after authentication so buckets key by
	// principal identifier rather than client IP.
	authenticated.Use(rateLimiter.Middleware())

	authenticated.GET("/me", meHandler.WhoAmI)

	files := authenticated.Group("/files")
	files.POST("/upload", fileHandler.UploadFile)
	files.GET("/list/:collection", fileHandler.ListFiles)
	files.GET("/download/:collection/*", fileHandler.DownloadFile)
	files.DELETE("/:collection/*", fileHandler.DeleteFile)

	return &Server{echo: e, deps: deps}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
