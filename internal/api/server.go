// Package api serves solve, envelope and sweep operations over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guisoares9/tradespace-designer/internal/observability"
	"github.com/guisoares9/tradespace-designer/internal/storage"
	"github.com/guisoares9/tradespace-designer/internal/tradespace"
)

type Options struct {
	Engine *tradespace.Engine

	// Store persists sweeps; nil disables the runs endpoints.
	Store   *storage.Store
	Metrics *observability.SweepMetrics
	Logger  *zap.Logger

	AllowedOrigins []string
}

type Server struct {
	engine  *tradespace.Engine
	store   *storage.Store
	metrics *observability.SweepMetrics
	log     *zap.Logger
	origins []string
}

func NewServer(opts Options) *Server {
	s := &Server{
		engine:  opts.Engine,
		store:   opts.Store,
		metrics: opts.Metrics,
		log:     opts.Logger,
		origins: opts.AllowedOrigins,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.engine == nil {
		eopts := tradespace.Options{Logger: s.log}
		if s.metrics != nil {
			eopts.Recorder = s.metrics
		}
		s.engine = tradespace.NewEngine(nil, eopts)
	}
	return s
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(CORS(s.origins))
	router.Use(Logger(s.log, s.metrics))
	router.Use(ErrorHandler(s.log))

	router.GET("/health", s.Health)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/presets", s.ListPresets)
		api.GET("/presets/:name", s.GetPreset)
		api.GET("/metrics", s.ListMetrics)

		api.POST("/solve", s.Solve)
		api.POST("/envelope", s.Envelope)
		api.POST("/sweep", s.Sweep)

		api.GET("/runs", s.ListRuns)
		api.GET("/runs/:id", s.GetRun)
		api.GET("/runs/:id/front", s.GetFront)
		api.GET("/runs/:id/candidates.csv", s.GetCandidatesCSV)
	}

	router.NoRoute(func(c *gin.Context) {
		abortError(c, 404, "NOT_FOUND", "Not found")
	})
	return router
}
