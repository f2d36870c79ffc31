package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"call-digest-go/internal/logger"
	"call-digest-go/internal/processor"
	"call-digest-go/internal/scheduler"
	"call-digest-go/internal/types"
)

const serviceName = "Call Digest"

// Cycles is the processor surface the routes use.
type Cycles interface {
	RunCycle(ctx context.Context) (types.CycleResult, error)
	Status() processor.Status
}

// Jobs is the scheduler surface the routes use.
type Jobs interface {
	Running() bool
	Jobs() []scheduler.JobInfo
}

// Environment holds the non-secret configuration facts reported by /status.
type Environment struct {
	ProviderSID       string `json:"provider_sid"`
	SlackChannel      string `json:"slack_channel"`
	WebhookConfigured bool   `json:"slack_webhook_configured"`
}

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cycles     Cycles
	jobs       Jobs
	env        Environment
	version    string
	log        *logger.Logger
	now        func() time.Time
}

// New creates a server with its routes registered.
func New(cycles Cycles, jobs Jobs, env Environment, version string, log *logger.Logger) *Server {
	s := &Server{
		cycles:  cycles,
		jobs:    jobs,
		env:     env,
		version: version,
		log:     log.With("component", "server"),
		now:     time.Now,
	}
	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.GET("/", s.health)
	s.router.GET("/trigger", s.trigger)
	s.router.POST("/trigger", s.trigger)
	s.router.GET("/status", s.status)
	s.router.GET("/scheduler", s.schedulerStatus)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithRequest(c.Request).
			WithField("status", c.Writer.Status()).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request handled")
	}
}

func (s *Server) health(c *gin.Context) {
	schedulerStatus := "inactive"
	if s.jobs != nil && s.jobs.Running() {
		schedulerStatus = "active"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           "running",
		"service":          serviceName,
		"version":          s.version,
		"scheduler_status": schedulerStatus,
		"endpoints": gin.H{
			"trigger":   "/trigger",
			"health":    "/",
			"status":    "/status",
			"scheduler": "/scheduler",
		},
	})
}

func (s *Server) trigger(c *gin.Context) {
	// the cycle outlives a disconnecting client
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := s.cycles.RunCycle(ctx)
	if err != nil {
		s.log.WithRequest(c.Request).WithField("error", err.Error()).Error("trigger processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     err.Error(),
			"message":   "Call processing failed",
			"timestamp": s.now().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Call processing triggered successfully",
		"result":    res,
		"timestamp": s.now().Format(time.RFC3339),
	})
}

func (s *Server) status(c *gin.Context) {
	running := s.jobs != nil && s.jobs.Running()
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"scheduler_running": running,
		"processor":         s.cycles.Status(),
		"last_check":        s.now().Format(time.RFC3339),
		"environment":       s.env,
	})
}

func (s *Server) schedulerStatus(c *gin.Context) {
	jobs := []scheduler.JobInfo{}
	running := false
	if s.jobs != nil {
		jobs = s.jobs.Jobs()
		running = s.jobs.Running()
	}
	c.JSON(http.StatusOK, gin.H{
		"scheduler_running": running,
		"jobs":              jobs,
		"job_count":         len(jobs),
	})
}
