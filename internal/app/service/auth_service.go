package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cliplink/cliplink/internal/app/model"
	"github.com/cliplink/cliplink/internal/app/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenConfig carries the signing material and lifetimes for both token
// kinds. It is constructed once at startup and injected; nothing in the
// session layer reads the environment.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService manages the session lifecycle: credential checks, access and
// refresh token issuance, rotation, and revocation. Access tokens are
// stateless; the refresh token is persisted on the user record, and only
// the persisted value is ever accepted for rotation.
type AuthService struct {
	users  repository.UserRepository
	cfg    TokenConfig
	logger *zap.Logger
}

// NewAuthService returns a session manager backed by the given user store.
func NewAuthService(users repository.UserRepository, cfg TokenConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, cfg: cfg, logger: logger}
}

// RegisterInput captures data required to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates the account, hashes the password, and starts a session
// by issuing and persisting a refresh token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, TokenPair, error) {
	if input.Name == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if input.Email == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if input.Password == "" {
		return nil, TokenPair{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Login verifies the credentials and starts a new session, replacing any
// previously persisted refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, pair, nil
}

// Rotate exchanges a refresh token for a new access/refresh pair. The old
// token must both verify and equal the persisted value; a mismatch means a
// stale or reused token and is rejected unconditionally. Two concurrent
// rotations of the same token race on the persisted field; last write wins
// and the loser's pair is rejected on its next use.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	userID, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		s.logger.Warn("stale refresh token rejected", zap.String("user_id", user.ID))
		return TokenPair{}, ErrInvalidToken
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Logout revokes the session the given refresh token belongs to. It is a
// no-op (and still succeeds) when the token is empty or unknown.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	return s.Revoke(ctx, user.ID)
}

// Revoke clears the persisted refresh token, making every outstanding
// refresh token for the user unusable regardless of expiry.
func (s *AuthService) Revoke(ctx context.Context, userID string) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	s.logger.Info("session revoked", zap.String("user_id", userID))
	return nil
}

// Authenticate resolves the caller from a bearer access token. Read-only:
// it never touches the refresh token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	userID, err := s.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// IssueAccessToken mints a short-lived stateless token for the user.
func (s *AuthService) IssueAccessToken(userID string) (string, error) {
	return s.sign(userID, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

// VerifyAccessToken returns the user id encoded in a valid access token.
func (s *AuthService) VerifyAccessToken(token string) (string, error) {
	return s.verify(token, s.cfg.AccessSecret)
}

// VerifyRefreshToken returns the user id encoded in a valid refresh token.
// Signature and expiry only; the persisted-value check lives in Rotate.
func (s *AuthService) VerifyRefreshToken(token string) (string, error) {
	return s.verify(token, s.cfg.RefreshSecret)
}

// startSession issues a fresh pair and persists the refresh token as the
// single valid one, overwriting whatever was stored before.
func (s *AuthService) startSession(ctx context.Context, user *model.User) (TokenPair, error) {
	refresh, err := s.sign(user.ID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	user.RefreshToken = refresh

	access, err := s.IssueAccessToken(user.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.New().String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *AuthService) verify(token string, secret []byte) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
