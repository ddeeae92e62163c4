// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"prospecta-service/internal/domain/auth"
	xerrors "prospecta-service/internal/pkg/errors"
	"prospecta-service/internal/pkg/jwt"
	"prospecta-service/internal/pkg/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the auth flow uses.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
	FindByID(ctx context.Context, id int64) (*auth.User, error)
	Create(ctx context.Context, u *auth.User) error
	List(ctx context.Context) ([]auth.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	UpdateLastLogin(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type AuthService struct {
	users    UserStore
	tokens   *jwt.Manager
	sessions *session.Manager
	limiter  *session.RateLimiter
	logger   *zap.Logger
}

func NewAuthService(users UserStore, tokens *jwt.Manager, sessions *session.Manager, limiter *session.RateLimiter, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
	}
}

// Login verifies credentials, opens a Redis session and issues a token.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest, ip, userAgent string) (*auth.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, err := s.limiter.CheckLoginAttempt(ctx, ip, email)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		s.logger.Warn("login rate limited",
			zap.String("email", email),
			zap.String("ip", ip),
			zap.Int64("remaining", remaining),
		)
		return nil, xerrors.ErrRateLimited
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, xerrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	token, jti, err := s.tokens.Generator.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	err = s.sessions.CreateSession(ctx, &session.SessionData{
		JTI:            jti,
		UserID:         user.ID,
		Email:          user.Email,
		Role:           user.Role,
		IPAddress:      ip,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(s.tokens.Generator.TTL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	if err := s.limiter.ResetLoginAttempts(ctx, ip, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("email", user.Email))

	return &auth.LoginResponse{
		Token:     token,
		User:      user,
		ExpiresIn: int64(s.tokens.Generator.TTL.Seconds()),
	}, nil
}

// ValidateToken checks the signature and that the session is still alive.
// A revoked session invalidates an otherwise valid token.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.Verifier.Verify(token)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if _, err := s.sessions.GetSession(ctx, claims.UserID, claims.ID); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	return claims, nil
}

// Logout revokes the current session.
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string) error {
	return s.sessions.DeleteSession(ctx, userID, jti)
}

// GetUser loads a user for the /me endpoint.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	return s.users.FindByID(ctx, id)
}

// CreateUser registers a new account. Admin-only at the router.
func (s *AuthService) CreateUser(ctx context.Context, req *auth.CreateUserRequest) (*auth.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		return nil, fmt.Errorf("email and a password of at least 8 characters are required: %w", xerrors.ErrInvalidInput)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role != "admin" {
		role = "user"
	}

	user := &auth.User{
		Email:        email,
		FullName:     nullString(req.FullName),
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", user.Role))

	return user, nil
}

// ListUsers returns every account for the admin screen.
func (s *AuthService) ListUsers(ctx context.Context) ([]auth.User, error) {
	return s.users.List(ctx)
}

// DeactivateUser disables an account and revokes its sessions.
func (s *AuthService) DeactivateUser(ctx context.Context, id int64) error {
	if err := s.users.SetActive(ctx, id, false); err != nil {
		return err
	}
	if err := s.sessions.DeleteAllSessions(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions", zap.Int64("user_id", id), zap.Error(err))
	}
	return nil
}

// EnsureAdminExists creates the bootstrap admin account if missing.
func (s *AuthService) EnsureAdminExists(ctx context.Context, email, password, fullName string) error {
	exists, err := s.users.ExistsByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		return nil
	}

	_, err = s.CreateUser(ctx, &auth.CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     "admin",
	})
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
