package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/septivank/energy-insights/internal/db"
	"github.com/septivank/energy-insights/internal/insights"
	"github.com/septivank/energy-insights/internal/metrics"
	"github.com/septivank/energy-insights/internal/validator"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type DeviceService interface {
	Categories() []string
	Create(ctx context.Context, userID uuid.UUID, in validator.DeviceInput) (*db.Device, error)
	List(ctx context.Context, userID uuid.UUID) ([]db.Device, error)
	Get(ctx context.Context, userID, deviceID uuid.UUID) (*db.Device, error)
	Update(ctx context.Context, userID, deviceID uuid.UUID, in validator.DeviceUpdateInput) (*db.Device, error)
	Delete(ctx context.Context, userID, deviceID uuid.UUID) error
}

type InsightsService interface {
	DeviceInsights(ctx context.Context, userID uuid.UUID) (insights.DeviceInsights, error)
	DashboardStats(ctx context.Context, userID uuid.UUID) (insights.DashboardStats, error)
}

type BillService interface {
	List(ctx context.Context, userID uuid.UUID) ([]insights.BillSummary, error)
	Get(ctx context.Context, userID, billID uuid.UUID) (*db.Bill, error)
	Breakdown(ctx context.Context, userID, billID uuid.UUID) (insights.BillBreakdown, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*db.HouseholdProfile, error)
	Update(ctx context.Context, userID uuid.UUID, in validator.HouseholdInput) (*db.HouseholdProfile, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine      *gin.Engine
	deviceSvc   DeviceService
	insightsSvc InsightsService
	billSvc     BillService
	profileSvc  ProfileService
	health      HealthChecker
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

type Params struct {
	Devices  DeviceService
	Insights InsightsService
	Bills    BillService
	Profiles ProfileService
	Health   HealthChecker
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

func NewServer(p Params) *Server {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		deviceSvc:   p.Devices,
		insightsSvc: p.Insights,
		billSvc:     p.Bills,
		profileSvc:  p.Profiles,
		health:      p.Health,
		metrics:     p.Metrics,
		logger:      logger,
	}
	s.engine = s.newEngine()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.metrics != nil {
		r.Use(s.metrics.GinMiddleware())
	}
	r.Use(RequestLogger(s.logger))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", s.Health)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/device/categories", s.DeviceCategories)

	api := r.Group("/", RequireUser())
	{
		api.POST("/devices", s.CreateDevice)
		api.GET("/devices", s.ListDevices)
		api.GET("/devices/:id", s.GetDevice)
		api.PUT("/devices/:id", s.UpdateDevice)
		api.DELETE("/devices/:id", s.DeleteDevice)

		api.GET("/insights", s.DeviceInsights)
		api.GET("/dashboard/stats", s.DashboardStats)

		api.GET("/bills", s.ListBills)
		api.GET("/bills/:id", s.GetBill)
		api.GET("/bills/:id/breakdown", s.BillBreakdown)

		api.GET("/profile", s.GetProfile)
		api.PUT("/profile", s.UpdateProfile)
	}

	return r
}

func (s *Server) Health(c *gin.Context) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves s on port for the lifetime of the fx application.
func Run(lc fx.Lifecycle, s *Server, port int, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("[HTTP] server stopped unexpectedly", zap.Error(err))
				}
			}()
			logger.Info("[HTTP] listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
