// Package api exposes the compiler and the tournament engine over HTTP.
//
// Routes:
//
//	GET  /api/health
//	GET  /api/strategies
//	GET  /api/strategies/:name
//	PUT  /api/strategies/:name
//	POST /api/compile
//	POST /api/simulate
//	GET  /api/simulate/stream   (websocket)
//	POST /api/test
//	GET  /metrics
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
	"github.com/grantmcd/prisoners-royale/internal/observability"
)

type Server struct {
	engine   *engine.Engine
	resolver *engine.Resolver
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	debug    bool
}

type Option func(*Server)

// WithMetrics records compilations on m and serves gatherer at /metrics.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDebug turns on gin's request logger.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

func NewServer(eng *engine.Engine, resolver *engine.Resolver, opts ...Option) *Server {
	s := &Server{
		engine:   eng,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if s.debug {
		router.Use(gin.Logger())
	}

	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.POST("/compile", s.handleCompile)
		api.POST("/simulate", s.handleSimulate)
		api.GET("/simulate/stream", s.handleSimulateStream)
		api.POST("/test", s.handleTestMatch)

		strategies := api.Group("/strategies")
		{
			strategies.GET("", s.handleListStrategies)
			strategies.GET("/:name", s.handleGetStrategy)
			strategies.PUT("/:name", s.handleSaveStrategy)
		}
	}
	return router
}

func (s *Server) compile(name string, g models.StrategyGraph) (*compiler.Strategy, error) {
	compiled, err := compiler.Compile(name, g)
	s.metrics.Compiled(err == nil)
	return compiled, err
}

// participants resolves named strategies and compiles inline graphs, in that order.
func (s *Server) participants(req SimulateRequest) ([]game.Strategy, error) {
	out, err := s.resolver.ResolveAll(req.Strategies)
	if err != nil {
		return nil, err
	}
	for _, g := range req.Graphs {
		compiled, err := s.compile(g.Name, g.Graph)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, compiler.ErrStructural):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrUnknownStrategy),
		errors.Is(err, engine.ErrInsufficientParticipants),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
	}

	body := ErrorResponse{Error: err.Error()}
	var verr *compiler.StructuralValidationError
	if errors.As(err, &verr) {
		body.Problems = verr.Problems
	}
	c.JSON(status, body)
}
