package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/randevuapp/randevu-api/internal/domain"
	"github.com/randevuapp/randevu-api/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	// Admins authenticate through the admin login and patients through the
	// regular one; crossing over is rejected outright.
	ErrAdminAccount = errors.New("admin accounts must use the admin login")
	ErrNotAdmin     = errors.New("account does not have admin privileges")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, auditSvc *AuditService, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, auditSvc: auditSvc, log: log}
}

type RegisterCommand struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Phone    string
}

func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand) (*domain.User, error) {
	if err := validateRegistration(cmd); err != nil {
		return nil, err
	}

	// Emails are stored lowercased, so the uniqueness check has to run on
	// the normalized form or a case-variant would slip past it.
	email := strings.ToLower(cmd.Email)

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	if _, err := s.userRepo.GetByPhone(ctx, cmd.Phone); err == nil {
		return nil, domain.ErrPhoneTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking phone: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         cmd.Name,
		Surname:      cmd.Surname,
		Phone:        cmd.Phone,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrPhoneTaken) {
			return nil, err
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.log.Info("user registered", zap.Int64("user_id", u.ID))
	return u, nil
}

// Login authenticates a patient by phone and password. Admin accounts are
// turned away; they go through AdminLogin.
func (s *AuthService) Login(ctx context.Context, phone, password, ip string) (*domain.TokenPair, error) {
	return s.login(ctx, phone, password, ip, false)
}

// AdminLogin is Login restricted to accounts with the admin flag.
func (s *AuthService) AdminLogin(ctx context.Context, phone, password, ip string) (*domain.TokenPair, error) {
	return s.login(ctx, phone, password, ip, true)
}

func (s *AuthService) login(ctx context.Context, phone, password, ip string, wantAdmin bool) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		// Use a bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the phone number exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("phone", phone),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	if wantAdmin && !user.IsAdmin {
		return nil, ErrNotAdmin
	}
	if !wantAdmin && user.IsAdmin {
		return nil, ErrAdminAccount
	}

	claims := &domain.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Surname: user.Surname,
		Phone:   user.Phone,
		IsAdmin: user.IsAdmin,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       user.ID,
		IsAdmin:      user.IsAdmin,
		Action:       "login",
		ResourceType: "user",
		IPAddress:    ip,
	})

	return pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate the account still exists.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Surname: user.Surname,
		Phone:   user.Phone,
		IsAdmin: user.IsAdmin,
	})
}

// DeleteAccount removes the caller's own account. Appointments go with it
// via the store's cascade.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64, ip string) error {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       userID,
		Action:       "delete",
		ResourceType: "user",
		IPAddress:    ip,
	})
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func validateRegistration(cmd *RegisterCommand) error {
	var fields []string

	if cmd.Email == "" || cmd.Password == "" || cmd.Name == "" || cmd.Surname == "" || cmd.Phone == "" {
		fields = append(fields, "email, password, name, surname and phone are required")
	}
	if cmd.Name != "" && !isAlpha(cmd.Name) {
		fields = append(fields, "name must contain only letters")
	}
	if cmd.Surname != "" && !isAlpha(cmd.Surname) {
		fields = append(fields, "surname must contain only letters")
	}
	if cmd.Email != "" && !emailPattern.MatchString(cmd.Email) {
		fields = append(fields, "email is not valid")
	}
	if cmd.Phone != "" && !isValidPhone(cmd.Phone) {
		fields = append(fields, "phone must be 10 digits starting with 5")
	}
	if cmd.Password != "" && len(cmd.Password) < 6 {
		fields = append(fields, "password must be at least 6 characters")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Turkish mobile numbers: ten digits, no country prefix, always leading 5.
func isValidPhone(s string) bool {
	if len(s) != 10 || s[0] != '5' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
