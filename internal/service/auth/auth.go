package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sarcolor/backend/internal/apperrors"
	"github.com/sarcolor/backend/internal/models"
	"github.com/sarcolor/backend/internal/repository"
)

const (
	defaultSigningMethod   = "HS256"
	defaultAccessTokenTTL  = 30 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour

	bearerPrefix = "Bearer "
)

// Valid bcrypt hash that matches no password. Login compares against it
// when the username is unknown, so both rejection branches cost one
// bcrypt verification.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set the default HS256 is used
	Alg string

	// Access and refresh token lifetimes
	// If not set defaults are used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Hasher used during registration and login
	// Defaults to bcrypt
	Hasher PasswordHasher
}

// Service owns the whole session lifecycle: credentials (register, login),
// token rotation (refresh) and principal resolution for protected requests.
// It keeps no state between calls; everything a request needs lives in the
// token itself or in the user store.
type Service struct {
	codec  *TokenCodec
	hasher PasswordHasher
	cookie CookieManager

	accessTTL  time.Duration
	refreshTTL time.Duration

	userRepo repository.UserRepo
}

func NewService(cfg Config, userRepo repository.UserRepo) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("user repo must not be nil")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	codec, err := NewTokenCodec(cfg.SecretKey, cfg.Alg)
	if err != nil {
		return nil, err
	}

	return &Service{
		codec:      codec,
		hasher:     hasher,
		cookie:     NewCookieManager(cfg.RefreshTTL),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		userRepo:   userRepo,
	}, nil
}

// Register creates a user with a hashed password
// Returns apperrors.ErrUserAlreadyExists on username or email collision
func (s *Service) Register(ctx context.Context, username string, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:       username,
		Email:          email,
		HashedPassword: hash,
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh token pair
//
// Unknown username and wrong password both return
// apperrors.ErrInvalidCredentials; an inactive account with correct
// credentials returns apperrors.ErrUserInactive
func (s *Service) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Burn a compare so the unknown-username branch costs the same
		_ = s.hasher.Compare(dummyHash, password)
		return pair, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return pair, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return pair, apperrors.ErrUserInactive
	}

	return s.issuePair(user)
}

// Refresh validates the refresh token and rotates the pair
//
// The previous refresh token is not revoked: it stays valid until its own
// expiry. Single-use rotation would need server side token state, which
// this service deliberately does not keep.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return pair, err
	}

	if claims.Kind != models.TokenKindRefresh {
		return pair, apperrors.ErrWrongTokenKind
	}

	userID, err := claims.UserID()
	if err != nil {
		return pair, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return pair, apperrors.ErrUserNotFound
	}

	if !user.IsActive {
		return pair, apperrors.ErrUserInactive
	}

	return s.issuePair(user)
}

// Authenticate resolves the Authorization header into a Principal
//
// Checks run in a fixed order and stop at the first failure:
// header shape, token signature and expiry, token kind, user existence,
// account active flag
func (s *Service) Authenticate(ctx context.Context, authHeader string) (models.Principal, error) {
	var principal models.Principal

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || token == "" {
		return principal, apperrors.ErrAuthHeaderMissing
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return principal, err
	}

	if claims.Kind != models.TokenKindAccess {
		return principal, apperrors.ErrWrongTokenKind
	}

	userID, err := claims.UserID()
	if err != nil {
		return principal, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return principal, apperrors.ErrUserNotFound
	}

	if !user.IsActive {
		return principal, apperrors.ErrUserInactive
	}

	return user.Principal(), nil
}

// Cookie returns the manager handlers use to attach, clear and read the
// refresh cookie
func (s *Service) Cookie() CookieManager {
	return s.cookie
}

func (s *Service) issuePair(user models.User) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := s.codec.Issue(user.ID, models.TokenKindAccess, s.accessTTL)
	if err != nil {
		return pair, err
	}

	refresh, err := s.codec.Issue(user.ID, models.TokenKindRefresh, s.refreshTTL)
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}
