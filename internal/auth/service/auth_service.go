package service

import (
	"context"
	"errors"
	"fmt"

	authdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/domain"
	authrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/auth/repository"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/duration"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/resilience"
	userdomain "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
)

// UserDirectory is the part of the user service authentication relies on.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
	Create(ctx context.Context, reg userdomain.Registration) (userdomain.User, error)
}

type AuthServiceDeps struct {
	Users         UserDirectory
	RefreshTokens authrepo.RefreshTokenRepository
	Hasher        commoncrypto.PasswordHasher
	AccessSigner  jwtverify.TokenSigner
	RefreshSigner jwtverify.TokenSigner
	Clock         clock.Clock
	Log           *logger.Logger
}

type AuthServiceConfig struct {
	// Lifetimes in "<int><s|m|h|d>" form.
	AccessTokenTTL  string
	RefreshTokenTTL string
}

type AuthService struct {
	users     UserDirectory
	tokens    authrepo.RefreshTokenRepository
	hasher    commoncrypto.PasswordHasher
	issuer    *TokenIssuer
	dbBreaker *resilience.CircuitBreaker
	clock     clock.Clock
	log       *logger.Logger
}

func NewAuthService(deps AuthServiceDeps, cfg AuthServiceConfig) (*AuthService, error) {
	accessTTL, err := duration.Parse(cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("access token lifetime: %w", err)
	}
	refreshTTL, err := duration.Parse(cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("refresh token lifetime: %w", err)
	}

	clk := deps.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}

	return &AuthService{
		users:  deps.Users,
		tokens: deps.RefreshTokens,
		hasher: deps.Hasher,
		issuer: NewTokenIssuer(deps.AccessSigner, deps.RefreshSigner, accessTTL, refreshTTL, clk),
		dbBreaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  constants.DBBreakerThreshold,
			Timeout:    constants.DBQueryTimeout,
			ResetAfter: constants.DBBreakerResetAfter,
			Name:       "refresh_token_store",
			IsFailure:  isStoreFailure,
			Logger:     deps.Log,
		}),
		clock: clk,
		log:   deps.Log,
	}, nil
}

// ValidateCredentials returns the profile for a matching email and password.
// Unknown email and wrong password fail identically.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (userdomain.Profile, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "login_user_not_found",
			}).Warn("credentials rejected: unknown email")
			incrementLoginAttempts("invalid_credentials")
			return userdomain.Profile{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "login_fetch_failed",
		}).Errorf("credentials check failed: %v", err)
		incrementLoginAttempts("error")
		return userdomain.Profile{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("credentials rejected: invalid password")
		incrementLoginAttempts("invalid_credentials")
		return userdomain.Profile{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_account_inactive",
		}).Warn("credentials rejected: account inactive")
		incrementLoginAttempts("inactive")
		return userdomain.Profile{}, ErrAccountInactive
	}

	return user.Profile(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (authdomain.AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "login_attempt",
	}).Info("login attempt")

	profile, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return authdomain.AuthResult{}, err
	}

	pair, err := s.issuer.Issue(claimsFor(profile))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(profile.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return authdomain.AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	record := authdomain.RefreshToken{
		Token:     pair.refreshToken,
		UserID:    string(profile.ID),
		ExpiresAt: pair.refreshExpiresAt,
		CreatedAt: pair.issuedAt,
	}
	err = s.dbBreaker.Call(ctx, func(ctx context.Context) error {
		return s.tokens.Insert(ctx, record)
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(profile.ID),
			"action":  "login_refresh_token_store_failed",
		}).Errorf("login failed: refresh token store error: %v", err)
		return authdomain.AuthResult{}, handleStoreError(err)
	}

	incrementRefreshTokensIssued()
	incrementLoginAttempts("success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(profile.ID),
		"action":  "login_success",
	}).Info("login success")

	return authdomain.AuthResult{
		AccessToken:  pair.accessToken,
		RefreshToken: pair.refreshToken,
		User:         profile,
	}, nil
}

// Register creates a USER account. No tokens are issued.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.Profile, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateRegistration(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.Profile{}, err
	}

	user, err := s.users.Create(ctx, userdomain.Registration{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     userdomain.RoleUser,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "register_create_failed",
		}).Warnf("register failed: %v", err)
		return userdomain.Profile{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return user.Profile(), nil
}

// Logout removes the record matching both userID and token. A missing
// record is not an error.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	var deleted int64
	err := s.dbBreaker.Call(ctx, func(ctx context.Context) error {
		n, err := s.tokens.DeleteByUserAndToken(ctx, userID, refreshToken)
		deleted = n
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "logout_failed",
		}).Errorf("logout failed: %v", err)
		return handleStoreError(err)
	}

	if deleted > 0 {
		incrementRefreshTokensRevoked()
	}
	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"deleted": deleted,
		"action":  "logout_success",
	}).Info("logout success")

	return nil
}

func claimsFor(p userdomain.Profile) jwtverify.Claims {
	return jwtverify.Claims{
		UserID: string(p.ID),
		Email:  p.Email,
		Role:   string(p.Role),
	}
}
