package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to customer registration and admin password
// changes alike
const MinPasswordLength = 6

const invalidCredentials = "invalid email or password"

// AuthStore looks up and creates accounts
type AuthStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthService authenticates customers and admins
type AuthService struct {
	store      AuthStore
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store AuthStore, bcryptCost int) *AuthService {
	return &AuthService{
		store:      store,
		bcryptCost: bcryptCost,
		logger:     util.ComponentLogger("auth"),
	}
}

// RegisterRequest is a customer sign-up
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest carries credentials for either principal kind
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// checkPassword enforces the length rules on a new password. Length is
// counted in characters, not bytes.
func checkPassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("%s must be at least %d characters", field, MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return invalid("%s is too long", field)
	}
	return nil
}

// HashPassword returns a salted bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account and returns its principal
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.Principal, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, invalid("name, email and password are required")
	}
	if err := checkPassword("password", req.Password); err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(req.Phone)
	if err := firstError(
		checkLength("name", name, maxNameLen),
		checkLength("email", email, maxEmailLen),
		checkLength("phone", phone, maxPhoneLen),
	); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			util.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
			return nil, &Error{Kind: ErrConflict, Message: "this email is already registered"}
		}
		util.RecordError(span, err)
		return nil, fromStore(err, "register user", "user")
	}

	util.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return &models.Principal{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Login verifies customer credentials
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*models.Principal, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !CheckPassword(user.PasswordHash, req.Password) {
		util.AuthAttemptsTotal.WithLabelValues("user", "failure").Inc()
		return nil, unauthorized(invalidCredentials)
	}

	util.AuthAttemptsTotal.WithLabelValues("user", "success").Inc()
	return &models.Principal{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// AdminLogin verifies admin credentials
func (s *AuthService) AdminLogin(ctx context.Context, req *LoginRequest) (*models.Principal, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.AdminLogin")
	defer span.End()

	admin, err := s.store.GetAdminByEmail(ctx, normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if admin == nil || !CheckPassword(admin.PasswordHash, req.Password) {
		util.AuthAttemptsTotal.WithLabelValues("admin", "failure").Inc()
		s.logger.Warn("Admin login failed", zap.String("email", req.Email))
		return nil, unauthorized(invalidCredentials)
	}

	util.AuthAttemptsTotal.WithLabelValues("admin", "success").Inc()
	s.logger.Info("Admin logged in", zap.Int64("admin_id", admin.ID))
	return &models.Principal{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}
