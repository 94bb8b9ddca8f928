package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/models"
	"github.com/project-nexus/repositories"
	"github.com/project-nexus/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func invalidCredentials() error {
	return apperrors.UnauthorizedError("invalid email or password")
}

// AuthService issues and validates access tokens
type AuthService struct {
	userRepo *repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	clock    clockwork.Clock
}

// NewAuthService creates a new auth service instance
func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration, clock clockwork.Clock) *AuthService {
	return &AuthService{
		userRepo: repositories.NewUserRepository(db),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		clock:    clock,
	}
}

// CreateUser hashes the password and stores a new account
func (s *AuthService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.ValidationError("invalid email address")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.ValidationError("username is required")
	}
	if len(req.Password) < utils.MinPasswordLength {
		return nil, apperrors.ValidationError("password must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, apperrors.ValidationError("invalid role").WithContext("role", role)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError("failed to hash password", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ConflictError("email or username already taken")
		}
		return nil, apperrors.InternalError("failed to create user", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("user not found")
		}
		return nil, apperrors.InternalError("failed to load user", err)
	}
	return user, nil
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.InternalError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, apperrors.InternalError("failed to issue token", err)
	}

	return &dto.AuthResponse{
		Token:     token,
		User:      dto.NewUserResponse(user),
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateToken signs an HS256 access token for the user
func (s *AuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("JWT secret is not configured")
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := dto.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func (s *AuthService) ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}
	return claims, nil
}

// TokenTTL is the lifetime of issued access tokens
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Principal converts validated claims into a request identity
func (s *AuthService) Principal(claims *dto.TokenClaims) dto.Principal {
	return dto.Principal{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   models.Role(claims.Role),
	}
}
