// Package server HTTP-сервер дашборда продаж дилерской сети
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealerboard/config"
	"dealerboard/database"
	"dealerboard/integration"
	apperrors "dealerboard/server/errors"
	"dealerboard/server/handlers"
	"dealerboard/server/middleware"
	"dealerboard/server/services"
)

// Server собирает сервисы и обработчики вокруг одного хранилища
type Server struct {
	cfg   *config.Config
	store *database.Store

	dashboard *services.DashboardService
	upload    *services.UploadService
	maps      *services.MapService
	export    *services.ExportService
	sync      *services.SyncService
	metrics   *apperrors.ErrorMetricsCollector

	router     *gin.Engine
	httpServer *http.Server
}

// New создает сервер с полным набором сервисов и маршрутов
func New(cfg *config.Config, store *database.Store) *Server {
	metrics := apperrors.NewErrorMetricsCollector()

	dashboard := services.NewDashboardService()
	upload := services.NewUploadService(store, dashboard)
	maps := services.NewMapService(dashboard)
	export := services.NewExportService(dashboard)

	registry := integration.NewRegistry(
		integration.NewAmoCRMProvider(200*time.Millisecond, 50*time.Millisecond),
		integration.NewBitrix24Provider(300*time.Millisecond, 80*time.Millisecond),
		integration.NewPIKProvider(500*time.Millisecond, 120*time.Millisecond),
	)
	notifier := integration.NewTelegramNotifier("dashboard")
	syncService := services.NewSyncService(registry, store, upload, notifier, cfg.Sync.Timeout)

	s := &Server{
		cfg:       cfg,
		store:     store,
		dashboard: dashboard,
		upload:    upload,
		maps:      maps,
		export:    export,
		sync:      syncService,
		metrics:   metrics,
	}
	s.router = s.buildRouter()
	return s
}

// Dashboard доступ к сервису дашборда для тестов и инструментов
func (s *Server) Dashboard() *services.DashboardService {
	return s.dashboard
}

// Sync доступ к сервису синхронизации
func (s *Server) Sync() *services.SyncService {
	return s.sync
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(s.cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.GzipMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.RecoveryMiddleware())

	healthHandler := handlers.NewHealthHandler(s.dashboard, s.store, s.metrics)
	uploadHandler := handlers.NewUploadHandler(s.upload, s.dashboard, s.metrics)
	dashboardHandler := handlers.NewDashboardHandler(s.dashboard, s.metrics)
	mapHandler := handlers.NewMapHandler(s.maps, s.metrics)
	exportHandler := handlers.NewExportHandler(s.export, s.metrics)
	syncHandler := handlers.NewSyncHandler(s.sync, s.metrics)
	filtersHandler := handlers.NewFiltersHandler(s.store, s.metrics)

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Health)

		dataAPI := api.Group("/data")
		{
			dataAPI.POST("/:kind", uploadHandler.UploadJSON)
			dataAPI.POST("/:kind/csv", uploadHandler.UploadCSV)
			dataAPI.GET("/:kind", uploadHandler.GetDocument)
		}

		dashboardAPI := api.Group("/dashboard")
		{
			dashboardAPI.GET("/summary", dashboardHandler.Summary)
			dashboardAPI.GET("/options", dashboardHandler.Options)
			dashboardAPI.GET("/records", dashboardHandler.Records)
			dashboardAPI.GET("/group", dashboardHandler.Group)
			dashboardAPI.GET("/top", dashboardHandler.Top)
		}

		api.GET("/map/points", mapHandler.Points)
		api.GET("/export/:file", exportHandler.Download)

		api.GET("/integrations", syncHandler.List)
		api.POST("/integrations/:name/sync", syncHandler.Run)

		filtersAPI := api.Group("/filters")
		{
			filtersAPI.GET("/state", filtersHandler.Get)
			filtersAPI.PUT("/state", filtersHandler.Put)
		}
	}

	return router
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start восстанавливает сохраненные документы, включает фоновую
// синхронизацию и запускает HTTP-сервер. Блокируется до остановки.
func (s *Server) Start() error {
	if err := s.upload.RestorePersisted(); err != nil {
		return fmt.Errorf("failed to restore persisted documents: %w", err)
	}

	if s.cfg.Sync.Enabled {
		if err := s.sync.Schedule(s.cfg.Sync.Schedule); err != nil {
			return err
		}
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // выгрузки Excel бывают небыстрыми
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер и фоновые задачи
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.Sync.Enabled {
		s.sync.Stop()
	}
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	slog.Info("graceful shutdown completed")
	return nil
}
