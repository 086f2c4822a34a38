package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/leadflow-backend/internal/models"
	"github.com/ArowuTest/leadflow-backend/internal/repositories"
	"github.com/ArowuTest/leadflow-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

type authService struct {
	users  repositories.AdminUserRepository
	tokens TokenIssuer
	log    *zap.Logger
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(users repositories.AdminUserRepository, tokens TokenIssuer, log *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, log: log}
}

// Login checks the password and issues a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.SetLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to record last login", zap.String("userId", user.ID.Hex()), zap.Error(err))
	}
	user.LastLogin = &now

	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me returns the authenticated operator
func (s *authService) Me(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user")
	}
	return user, nil
}

// EnsureAdmin seeds the operator account. Running it again is a no-op.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = utils.NormalizeEmail(email)
	if !utils.ValidEmail(email) {
		return false, validationError("invalid admin email %q", email)
	}
	if len(password) < 8 {
		return false, validationError("admin password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	inserted, err := s.users.EnsureByEmail(ctx, &models.AdminUser{
		FirstName: "Admin",
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	if inserted {
		s.log.Info("admin user created", zap.String("email", email))
	}
	return inserted, nil
}
