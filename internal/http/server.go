// Package http provides the HTTP API for daybook.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
	"github.com/emberworks/daybook/internal/tasks"
)

// Server provides HTTP endpoints for the journal and task directory.
type Server struct {
	echo    *echo.Echo
	journal journal.Service
	tasks   tasks.Service
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// NewServer creates a new HTTP server.
func NewServer(journalSvc journal.Service, taskSvc tasks.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if journalSvc == nil {
		return nil, fmt.Errorf("journal service is required")
	}
	if taskSvc == nil {
		return nil, fmt.Errorf("task service is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 7340}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	metrics := NewMetrics(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			metrics.Record(c.Request().Context(), c.Request().Method, c.Path(), c.Response().Status, duration)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		journal: journalSvc,
		tasks:   taskSvc,
		logger:  logger,
		metrics: metrics,
		config:  cfg,
	}
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/journal/:date", s.handleDay)
	v1.POST("/journal/:date/entries", s.handleLogEntry)
	v1.POST("/journal/:date/plans/:planId/complete", s.handleCompletePlan)
	v1.POST("/journal/:date/plans/:planId/replan", s.handleReplan)

	v1.GET("/tasks/:list", s.handleListTasks)
	v1.POST("/tasks/:list", s.handleAddTask)
	v1.POST("/tasks/:list/:id/complete", s.handleCompleteTask)
	v1.DELETE("/tasks/:list/:id", s.handleRemoveTask)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleDay(c echo.Context) error {
	doc, err := s.journal.Day(c.Request().Context(), c.Param("date"))
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, doc)
}

func (s *Server) handleLogEntry(c echo.Context) error {
	var req LogEntryPayload
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid log entry request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := s.journal.LogEntry(c.Request().Context(), &journal.LogEntryRequest{
		Date:     c.Param("date"),
		Address:  req.Address(),
		Mode:     journal.EntryMode(req.Mode),
		TaskID:   req.TaskID,
		ListType: journal.ListType(req.ListType),
		Text:     req.Text,
	})
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleCompletePlan(c echo.Context) error {
	var req CompletePlanPayload
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid completion request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.journal.CompletePlan(c.Request().Context(), &journal.CompletePlanRequest{
		Date:    c.Param("date"),
		PlanID:  c.Param("planId"),
		Address: req.Address(),
		Action:  journal.PlanAction(req.Action),
	})
	if err != nil {
		return s.domainError(c, err)
	}

	switch result.Outcome {
	case journal.CompleteNotFound:
		return c.JSON(http.StatusNotFound, result)
	case journal.CompleteAlready, journal.CompleteNotCompletable:
		return c.JSON(http.StatusConflict, result)
	default:
		return c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleReplan(c echo.Context) error {
	var req ReplanPayload
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid replan request", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := s.journal.Replan(c.Request().Context(), &journal.ReplanRequest{
		Date:       c.Param("date"),
		FromPlanID: c.Param("planId"),
		Dest:       req.Address(),
	})
	if err != nil {
		return s.domainError(c, err)
	}
	if !result.Found {
		return c.JSON(http.StatusNotFound, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleListTasks(c echo.Context) error {
	list, err := s.tasks.List(journal.ListType(c.Param("list")))
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleAddTask(c echo.Context) error {
	var req AddTaskPayload
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := s.tasks.Add(journal.ListType(c.Param("list")), req.Text)
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (s *Server) handleCompleteTask(c echo.Context) error {
	task, err := s.tasks.Complete(journal.ListType(c.Param("list")), c.Param("id"))
	if err != nil {
		return s.domainError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (s *Server) handleRemoveTask(c echo.Context) error {
	if err := s.tasks.Remove(journal.ListType(c.Param("list")), c.Param("id")); err != nil {
		return s.domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// domainError maps structural input errors to 400 and unknown references
// to 404; everything else is an internal failure.
func (s *Server) domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, journal.ErrInvalidHour),
		errors.Is(err, journal.ErrInvalidRange),
		errors.Is(err, journal.ErrEmptyAddress),
		errors.Is(err, journal.ErrAmbiguousAddress),
		errors.Is(err, journal.ErrInvalidMode),
		errors.Is(err, journal.ErrEmptyEntry),
		errors.Is(err, tasks.ErrInvalidList),
		errors.Is(err, tasks.ErrEmptyText):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, tasks.ErrTaskNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case isInvalidDate(err):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// isInvalidDate matches the wrapped date parse failures from the engine
// and the store, which do not share a sentinel.
func isInvalidDate(err error) bool {
	var parseErr *time.ParseError
	return errors.As(err, &parseErr)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
