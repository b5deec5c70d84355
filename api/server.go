package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"luckydraw/config"
	"luckydraw/i18n"
	"luckydraw/service"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Services groups the application services exposed over HTTP
type Services struct {
	Events  service.EventService
	Prizes  service.PrizeService
	CheckIn service.CheckInService
	Draw    service.DrawService
	Ledger  service.LedgerService
}

// Server is the HTTP transport of the lucky draw
type Server struct {
	config     *config.Config
	Router     *gin.Engine
	services   Services
	translator *i18n.Translator
	httpServer *http.Server
}

// NewServer builds the router with middlewares and every route mounted
func NewServer(cfg *config.Config, services Services, translator *i18n.Translator) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	s := &Server{
		config:     cfg,
		Router:     engine,
		services:   services,
		translator: translator,
	}

	s.MountMiddlewares()
	s.MountHandlers()

	return s
}

// MountMiddlewares installs recovery, request ids and request logging
func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(RequestLogger())
}

// MountHandlers registers every route under /api/v1
func (s *Server) MountHandlers() {
	const basePath = "/api/v1"

	admin := AdminAuth(s.config.AdminToken)

	public := s.Router.Group(basePath)
	{
		public.POST("/checkin", s.handleCheckIn)
		public.GET("/checkin", s.handleListCheckIns)
		public.GET("/events/:eventId/draw", s.handleDrawHistory)
		public.GET("/events/:eventId/attendees", s.handleListAttendees)
	}

	events := s.Router.Group(basePath, admin)
	{
		events.GET("/events", s.handleListEvents)
		events.POST("/events", s.handleCreateEvent)
		events.GET("/events/:eventId", s.handleGetEvent)
		events.PATCH("/events/:eventId", s.handleUpdateEvent)
		events.DELETE("/events/:eventId", s.handleDeleteEvent)

		events.POST("/events/:eventId/draw", s.handleDraw)
		events.PATCH("/events/:eventId/draw", s.handleSelectPrize)
		events.POST("/events/:eventId/reset", s.handleReset)

		events.GET("/events/:eventId/prizes", s.handleListPrizes)
		events.POST("/events/:eventId/prizes", s.handleCreatePrize)
		events.PATCH("/events/:eventId/prizes/:prizeId", s.handleUpdatePrize)
		events.DELETE("/events/:eventId/prizes/:prizeId", s.handleDeletePrize)

		events.PATCH("/events/:eventId/attendees", s.handleUpdateAttendee)
		events.DELETE("/events/:eventId/attendees", s.handleDeleteAttendee)
	}

	s.Router.GET("/healthz", handleHealthcheck)
}

// Start serves HTTP until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.config.HTTPAddr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("addr", s.config.HTTPAddr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func handleHealthcheck(c *gin.Context) {
	renderOK(c, http.StatusOK, gin.H{"status": "ok"})
}
