package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/daycare-api/internal/models"
	appErrors "github.com/noah-isme/daycare-api/pkg/errors"
)

// dummyHash is compared against when the username is unknown so that both
// paths spend a bcrypt round.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z5ZUeTt1Nb2HZ6lXy5Pn7m1e"

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret   string
	Expiry   time.Duration
	Issuer   string
	Audience []string
	// Users maps usernames to bcrypt hashes.
	Users  map[string]string
	Admins []string
}

// AuthService authenticates the configured staff accounts and issues JWTs.
type AuthService struct {
	activity  activityLogger
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	admins    map[string]struct{}
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(activity activityLogger, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 12 * time.Hour
	}
	admins := make(map[string]struct{}, len(config.Admins))
	for _, name := range config.Admins {
		admins[name] = struct{}{}
	}
	return &AuthService{activity: activity, validator: validate, logger: logger, config: config, admins: admins, now: time.Now}
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	hash, known := s.config.Users[req.Username]
	if !known {
		hash = dummyHash
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil || !known {
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid username or password")
	}

	role := s.roleOf(req.Username)
	issuedAt := s.now().UTC()
	token, err := s.generateAccessToken(req.Username, role, issuedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.activity.LogAction(ctx, req.Username, "Login", fmt.Sprintf("%s signed in.", req.Username))
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        models.UserInfo{Username: req.Username, Role: role},
	}, nil
}

// Logout records the sign-out. Tokens are stateless and simply expire.
func (s *AuthService) Logout(ctx context.Context, username string) {
	s.activity.LogAction(ctx, username, "Logout", fmt.Sprintf("%s signed out.", username))
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if _, known := s.config.Users[claims.Username]; !known {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists")
	}
	return claims, nil
}

func (s *AuthService) roleOf(username string) models.UserRole {
	if _, ok := s.admins[username]; ok {
		return models.RoleAdmin
	}
	return models.RoleStaff
}

func (s *AuthService) generateAccessToken(username string, role models.UserRole, issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   username,
			Audience:  s.config.Audience,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}
