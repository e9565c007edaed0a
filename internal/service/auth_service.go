package service

import (
	"context"
	"errors"
	"time"

	"github.com/yourorg/moving-portal/internal/config"
	"github.com/yourorg/moving-portal/internal/model"
	"github.com/yourorg/moving-portal/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// identityStore is the slice of the user repository the auth service needs.
type identityStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}

// onboarder runs the signup transaction.
type onboarder interface {
	Onboard(ctx context.Context, reg *model.UserRegister, passwordHash string) (*repository.OnboardingResult, error)
}

// clientResolver maps an identity to its client profile for token claims.
type clientResolver interface {
	GetByUserID(ctx context.Context, userID string) (*model.ClientDetails, error)
}

// AuthService handles authentication, onboarding and token generation
type AuthService struct {
	users   identityStore
	onboard onboarder
	clients clientResolver
	cfg     *config.AuthConfig
	logger  *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(users identityStore, onboard onboarder, clients clientResolver, cfg *config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		onboard: onboard,
		clients: clients,
		cfg:     cfg,
		logger:  logger,
	}
}

// Register creates a new identity and runs onboarding: a pending invite for
// the email decides role and company, otherwise the identity becomes an
// unaffiliated client. The returned tokens carry the resolved claims; if they
// cannot be issued after the signup transaction committed, the signup is
// reported failed and needs manual reconciliation.
func (s *AuthService) Register(ctx context.Context, reg *model.UserRegister) (*model.TokenResponse, error) {
	existing, err := s.users.GetByEmail(ctx, reg.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	result, err := s.onboard.Onboard(ctx, reg, string(hashed))
	if err != nil {
		return nil, err
	}

	identity := model.Identity{
		UserID: result.UserID,
		Email:  reg.Email,
		Role:   result.Role,
	}
	if result.CompanyID != nil {
		identity.CompanyID = *result.CompanyID
	}
	if result.Role == model.RoleClient {
		identity.ClientID = result.ProfileID
	}

	response, err := s.issueTokens(identity)
	if err != nil {
		s.logger.Error("failed to issue claims after onboarding",
			zap.Error(err), zap.String("user_id", result.UserID))
		return nil, ErrClaimsIssue
	}

	s.logger.Info("onboarded new identity",
		zap.String("user_id", result.UserID),
		zap.String("role", result.Role))

	return response, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, login *model.UserLogin) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, login.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Debug("password verification failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	identity, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return nil, err
	}

	response, err := s.issueTokens(identity)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err), zap.String("user_id", user.ID))
	}

	return response, nil
}

// RefreshToken refreshes the token pair using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "refresh" {
		return nil, errors.New("invalid token type")
	}

	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid user ID in token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, errors.New("user not found or inactive")
	}

	identity, err := s.resolveIdentity(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(identity)
}

// ValidateToken parses an access token and returns the identity it carries
func (s *AuthService) ValidateToken(tokenString string) (*model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
		return nil, errors.New("invalid token type")
	}

	identity := &model.Identity{}
	identity.UserID, _ = claims["sub"].(string)
	identity.Email, _ = claims["email"].(string)
	identity.Role, _ = claims["role"].(string)
	identity.CompanyID, _ = claims["company_id"].(string)
	identity.ClientID, _ = claims["client_id"].(string)

	if identity.UserID == "" {
		return nil, errors.New("invalid user ID in token")
	}

	return identity, nil
}

// Logout invalidates a user's session. Tokens are stateless, so logout is an
// audit event until a denylist is layered in front.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	s.logger.Info("user logged out", zap.String("user_id", userID))
	return nil
}

// resolveIdentity builds the token claims for a user, resolving the client
// profile id for client-role users so queries can scope without a lookup.
func (s *AuthService) resolveIdentity(ctx context.Context, user *model.User) (model.Identity, error) {
	identity := model.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
	if user.CompanyID != nil {
		identity.CompanyID = *user.CompanyID
	}

	if user.Role == model.RoleClient {
		client, err := s.clients.GetByUserID(ctx, user.ID)
		if err != nil {
			return model.Identity{}, err
		}
		if client != nil {
			identity.ClientID = client.ID
		}
	}

	return identity, nil
}

// issueTokens creates a new access/refresh token pair carrying the identity
func (s *AuthService) issueTokens(identity model.Identity) (*model.TokenResponse, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenDuration)

	accessClaims := jwt.MapClaims{
		"sub":   identity.UserID,
		"email": identity.Email,
		"role":  identity.Role,
		"type":  "access",
		"iss":   s.cfg.JWTIssuer,
		"iat":   now.Unix(),
		"exp":   accessExpiry.Unix(),
	}
	if identity.CompanyID != "" {
		accessClaims["company_id"] = identity.CompanyID
	}
	if identity.ClientID != "" {
		accessClaims["client_id"] = identity.ClientID
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).
		SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.MapClaims{
		"sub":  identity.UserID,
		"type": "refresh",
		"iss":  s.cfg.JWTIssuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.RefreshTokenDuration).Unix(),
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).
		SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExpiry,
		Identity:     identity,
	}, nil
}
