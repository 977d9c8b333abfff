package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	alertdomain "github.com/shopcraft/storefront/internal/alert/domain"
	catalogdomain "github.com/shopcraft/storefront/internal/catalog/domain"
	"github.com/shopcraft/storefront/internal/config"
	"github.com/shopcraft/storefront/internal/monitor"
	"github.com/shopcraft/storefront/internal/observability"
	obsmiddleware "github.com/shopcraft/storefront/internal/observability/logger"
	obstracing "github.com/shopcraft/storefront/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log, obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	catalogSvc catalogdomain.Service
	alertSvc   alertdomain.Service
	monitor    *monitor.Monitor
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	CatalogSvc catalogdomain.Service
	AlertSvc   alertdomain.Service
	Monitor    *monitor.Monitor
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		catalogSvc: p.CatalogSvc,
		alertSvc:   p.AlertSvc,
		monitor:    p.Monitor,
	}

	svc.registerAPIRoutes()
	svc.registerStaticRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// -------- Notifications --------
	api.GET("/notifications", s.ListUnreadNotifications)
	api.PUT("/notifications", s.MarkNotificationRead)

	// -------- Stock monitor --------
	api.POST("/monitor/start", s.StartMonitor)
	api.POST("/monitor/stop", s.StopMonitor)
	api.GET("/monitor/status", s.MonitorStatus)
	api.POST("/stock-check", s.StockCheck)
}

func (s *Server) registerStaticRoutes() {
	s.engine.Static(s.cfg.UploadsBaseURL, s.cfg.UploadsDir)
}
