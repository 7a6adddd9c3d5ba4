package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quizforge/quiz-cms-backend/internal/config"
	"github.com/quizforge/quiz-cms-backend/internal/model"
	"github.com/quizforge/quiz-cms-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
)

// Claims extends JWT standard claims with the admin's role and the
// permissions it grants, so authorization needs no lookup per request.
type Claims struct {
	jwt.RegisteredClaims
	AdminID     string          `json:"admin_id"`
	Role        model.AdminRole `json:"role"`
	Permissions []string        `json:"permissions"`
}

type adminLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
}

// AuthService issues short-lived access JWTs and rotating refresh tokens
// kept in Redis.
type AuthService struct {
	cfg    *config.Config
	rdb    *redis.Client
	admins adminLookup
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, admins adminLookup) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, admins: admins}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials and opens a refresh session.
// It returns the response body and the refresh token for the cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, "", err
	}
	return s.issue(ctx, admin)
}

// Refresh consumes a refresh token and issues a fresh pair. A token can be
// used once; replaying it fails.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, string, error) {
	if _, err := uuid.Parse(refreshToken); err != nil {
		return nil, "", ErrInvalidRefreshToken
	}
	stored, err := s.rdb.GetDel(ctx, config.CacheKey.RefreshTokenKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, "", ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, "", fmt.Errorf("load refresh session: %w", err)
	}

	adminID, err := uuid.Parse(stored)
	if err != nil {
		return nil, "", ErrInvalidRefreshToken
	}
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidRefreshToken
		}
		return nil, "", err
	}
	return s.issue(ctx, admin)
}

// Logout ends a refresh session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.rdb.Del(ctx, config.CacheKey.RefreshTokenKey(refreshToken)).Err()
}

// GetAdmin returns the profile behind a token.
func (s *AuthService) GetAdmin(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	return s.admins.GetByID(ctx, id)
}

func (s *AuthService) issue(ctx context.Context, admin *model.Admin) (*model.LoginResponse, string, error) {
	perms := admin.Role.Permissions()
	access, err := s.GenerateAccessToken(admin.ID, admin.Role, perms)
	if err != nil {
		return nil, "", err
	}

	refresh := uuid.NewString()
	if err := s.rdb.Set(ctx, config.CacheKey.RefreshTokenKey(refresh), admin.ID.String(), s.cfg.RefreshTokenTTL).Err(); err != nil {
		return nil, "", fmt.Errorf("store refresh session: %w", err)
	}

	return &model.LoginResponse{AccessToken: access, Admin: *admin, Permissions: perms}, refresh, nil
}

// GenerateAccessToken creates a signed access JWT for an admin.
func (s *AuthService) GenerateAccessToken(adminID uuid.UUID, role model.AdminRole, permissions []string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
		AdminID:     adminID.String(),
		Role:        role,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
