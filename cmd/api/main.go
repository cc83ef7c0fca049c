package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/randevuapp/randevu-api/internal/config"
	v1 "github.com/randevuapp/randevu-api/internal/handler/v1"
	"github.com/randevuapp/randevu-api/internal/repository"
	"github.com/randevuapp/randevu-api/internal/service"
	"github.com/randevuapp/randevu-api/pkg/auth"
	"github.com/randevuapp/randevu-api/pkg/database"
	"github.com/randevuapp/randevu-api/pkg/logger"
	"github.com/randevuapp/randevu-api/pkg/metrics"
	"github.com/randevuapp/randevu-api/pkg/tracer"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("init tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zlog.Fatal("underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migrate database", zap.Error(err))
	}

	collector := metrics.NewCollector("randevu")
	go func() {
		for range time.Tick(15 * time.Second) {
			collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
		}
	}()

	apptRepo := repository.NewGormAppointmentRepository(db)
	doctorRepo := repository.NewGormDoctorRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	auditRepo := repository.NewGormAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, zlog, collector)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)

	authSvc := service.NewAuthService(userRepo, jwtManager, auditSvc, zlog)
	apptSvc := service.NewAppointmentService(apptRepo, doctorRepo, auditSvc, zlog)
	doctorSvc := service.NewDoctorService(doctorRepo, auditSvc, zlog)

	router := &v1.Router{
		Auth:        v1.NewAuthHandler(authSvc, collector),
		Appointment: v1.NewAppointmentHandler(apptSvc, collector),
		Doctor:      v1.NewDoctorHandler(doctorSvc),
		JWTManager:  jwtManager,
		Collector:   collector,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Build(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
