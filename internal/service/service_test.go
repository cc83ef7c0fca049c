package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/randevuapp/randevu-api/internal/config"
	"github.com/randevuapp/randevu-api/internal/domain"
	"github.com/randevuapp/randevu-api/internal/domain/appointment"
	"github.com/randevuapp/randevu-api/internal/domain/doctor"
	"github.com/randevuapp/randevu-api/internal/repository"
	"github.com/randevuapp/randevu-api/pkg/auth"
)

// testEnv wires the services against real repositories on an in-memory
// database, so tests exercise the same paths production does.
type testEnv struct {
	db        *gorm.DB
	apptSvc   *AppointmentService
	authSvc   *AuthService
	doctorSvc *DoctorService
	auditSvc  *AuditService
	userRepo  UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on&_busy_timeout=5000",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.AuditLog{}, &doctor.Doctor{}, &appointment.Appointment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := zap.NewNop()
	auditSvc := NewAuditService(repository.NewGormAuditRepository(db), log, nil)
	t.Cleanup(auditSvc.Shutdown)

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-not-for-production-use",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "randevu-test",
	})

	apptRepo := repository.NewGormAppointmentRepository(db)
	doctorRepo := repository.NewGormDoctorRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	return &testEnv{
		db:        db,
		apptSvc:   NewAppointmentService(apptRepo, doctorRepo, auditSvc, log),
		authSvc:   NewAuthService(userRepo, jwtManager, auditSvc, log),
		doctorSvc: NewDoctorService(doctorRepo, auditSvc, log),
		auditSvc:  auditSvc,
		userRepo:  userRepo,
	}
}

func (e *testEnv) registerPatient(t *testing.T, phone string) *domain.User {
	t.Helper()
	u, err := e.authSvc.Register(context.Background(), &RegisterCommand{
		Email:    phone + "@example.com",
		Password: "secret123",
		Name:     "Ayse",
		Surname:  "Yilmaz",
		Phone:    phone,
	})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	return u
}

func (e *testEnv) addDoctor(t *testing.T, fullName, expertise string) *doctor.Doctor {
	t.Helper()
	d := &doctor.Doctor{FullName: fullName, Expertise: expertise}
	if err := e.db.Create(d).Error; err != nil {
		t.Fatalf("add doctor: %v", err)
	}
	return d
}

func (e *testEnv) countAppointments(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(&appointment.Appointment{}).Count(&n).Error; err != nil {
		t.Fatalf("count appointments: %v", err)
	}
	return n
}
