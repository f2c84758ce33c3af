// Package server exposes the planning engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/tasksage/internal/briefing"
	"github.com/josephgoksu/tasksage/internal/dependency"
	"github.com/josephgoksu/tasksage/internal/grouping"
	"github.com/josephgoksu/tasksage/internal/planner"
	"github.com/josephgoksu/tasksage/internal/priority"
	"github.com/josephgoksu/tasksage/internal/schedule"
	"github.com/josephgoksu/tasksage/internal/task"
)

// Planner is the engine surface the server needs. *planner.Engine implements it.
type Planner interface {
	GroupTasks(ctx context.Context, tasks []task.Task) ([]grouping.Group, error)
	InferDependencies(ctx context.Context, t task.Task, now time.Time) ([]dependency.InferredTask, error)
	PrioritizeTasks(ctx context.Context, tasks []task.Task, now time.Time) ([]priority.Assessment, error)
	CreateSchedule(ctx context.Context, tasks []task.Task, now time.Time) ([]schedule.Item, error)
	FindSimilar(ctx context.Context, target task.Task, candidates []task.Task, threshold float64) ([]planner.Match, error)
}

var _ Planner = (*planner.Engine)(nil)

// Config configures a Server.
type Config struct {
	Port           int
	APIKey         string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Version        string
}

// Server serves the planning API.
type Server struct {
	engine  Planner
	briefer *briefing.Briefer
	cfg     Config
	clock   func() time.Time
	server  *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithClock replaces time.Now for requests that do not carry "now".
func WithClock(clock func() time.Time) Option {
	return func(s *Server) { s.clock = clock }
}

// WithBriefer enables model-written briefings on /schedule_briefing.
func WithBriefer(b *briefing.Briefer) Option {
	return func(s *Server) { s.briefer = b }
}

// New creates a server. It does not start listening.
func New(engine Planner, cfg Config, opts ...Option) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	s := &Server{
		engine:  engine,
		briefer: briefing.New(nil),
		cfg:     cfg,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	return s.registerRoutes()
}

// Start runs ListenAndServe in a goroutine tracked by wg. Errors other than a
// clean shutdown are sent to errChan.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
