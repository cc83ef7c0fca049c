package service

import (
	"context"
	"errors"
	"testing"

	"github.com/randevuapp/randevu-api/internal/domain"
	"github.com/randevuapp/randevu-api/internal/domain/appointment"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.authSvc.Register(ctx, &RegisterCommand{
		Email:    "Ayse.Yilmaz@Example.com",
		Password: "secret123",
		Name:     "Ayse",
		Surname:  "Yilmaz",
		Phone:    "5551112233",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ayse.yilmaz@example.com" {
		t.Fatalf("email should be stored lowercased, got %q", u.Email)
	}
	if u.PasswordHash == "secret123" {
		t.Fatal("password must not be stored in the clear")
	}
	if u.IsAdmin {
		t.Fatal("registration must not grant admin")
	}

	pair, err := env.authSvc.Login(ctx, "5551112233", "secret123", "127.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	refreshed, err := env.authSvc.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatal("expected a new access token")
	}

	// An access token is not accepted where a refresh token is expected.
	if _, err := env.authSvc.RefreshToken(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerPatient(t, "5551112233")

	if _, err := env.authSvc.Login(context.Background(), "5551112233", "wrongpass", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.authSvc.Login(context.Background(), "5550000000", "secret123", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown phone: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRoleSeparation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")

	admin := env.registerPatient(t, "5554445566")
	if err := env.db.Model(&domain.User{}).Where("id = ?", admin.ID).Update("is_admin", true).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}

	if _, err := env.authSvc.AdminLogin(ctx, patient.Phone, "secret123", "127.0.0.1"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("patient on admin login: expected ErrNotAdmin, got %v", err)
	}
	if _, err := env.authSvc.Login(ctx, admin.Phone, "secret123", "127.0.0.1"); !errors.Is(err, ErrAdminAccount) {
		t.Fatalf("admin on patient login: expected ErrAdminAccount, got %v", err)
	}
	if _, err := env.authSvc.AdminLogin(ctx, admin.Phone, "secret123", "127.0.0.1"); err != nil {
		t.Fatalf("admin login: %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := RegisterCommand{
		Email:    "ayse@example.com",
		Password: "secret123",
		Name:     "Ayse",
		Surname:  "Yilmaz",
		Phone:    "5551112233",
	}
	if _, err := env.authSvc.Register(ctx, &base); err != nil {
		t.Fatalf("register: %v", err)
	}

	sameEmail := base
	sameEmail.Phone = "5559998877"
	if _, err := env.authSvc.Register(ctx, &sameEmail); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Emails are compared case-insensitively: a case-variant of a registered
	// address is the same address.
	caseVariant := base
	caseVariant.Email = "Ayse@Example.com"
	caseVariant.Phone = "5559998877"
	if _, err := env.authSvc.Register(ctx, &caseVariant); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("case-variant email: expected ErrEmailTaken, got %v", err)
	}

	samePhone := base
	samePhone.Email = "other@example.com"
	if _, err := env.authSvc.Register(ctx, &samePhone); !errors.Is(err, domain.ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterCommand)
	}{
		{"empty fields", func(c *RegisterCommand) { c.Email = "" }},
		{"bad email", func(c *RegisterCommand) { c.Email = "not-an-email" }},
		{"short password", func(c *RegisterCommand) { c.Password = "abc" }},
		{"digits in name", func(c *RegisterCommand) { c.Name = "Ayse1" }},
		{"digits in surname", func(c *RegisterCommand) { c.Surname = "Y1lmaz" }},
		{"phone too short", func(c *RegisterCommand) { c.Phone = "555111" }},
		{"phone wrong prefix", func(c *RegisterCommand) { c.Phone = "2551112233" }},
		{"phone with letters", func(c *RegisterCommand) { c.Phone = "555111223a" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := RegisterCommand{
				Email:    "ayse@example.com",
				Password: "secret123",
				Name:     "Ayse",
				Surname:  "Yilmaz",
				Phone:    "5551112233",
			}
			tc.mutate(&cmd)

			_, err := env.authSvc.Register(ctx, &cmd)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Fields) == 0 {
				t.Fatal("validation error should carry field messages")
			}
		})
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	patient := env.registerPatient(t, "5551112233")
	doc := env.addDoctor(t, "Dr. Mehmet Oz", "Neurology")

	if _, err := env.apptSvc.Book(ctx, &appointment.CreateAppointmentCommand{
		PatientID: patient.ID, DoctorID: doc.ID, Date: "2099-08-01", Hour: 14,
	}, "127.0.0.1"); err != nil {
		t.Fatalf("book: %v", err)
	}

	if err := env.authSvc.DeleteAccount(ctx, patient.ID, "127.0.0.1"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if err := env.authSvc.DeleteAccount(ctx, patient.ID, "127.0.0.1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("repeat delete: expected ErrUserNotFound, got %v", err)
	}

	if n := env.countAppointments(t); n != 0 {
		t.Fatalf("appointments should be removed with their patient, found %d", n)
	}
}
