package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/clock"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/sap-user-gateway/backend/internal/common/errors"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/logger"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/mapper"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/common/messaging"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/observability/metrics"
	"github.com/AlibekovAA/sap-user-gateway/backend/internal/user/domain"
	userrepo "github.com/AlibekovAA/sap-user-gateway/backend/internal/user/repository"
)

// Directory is the user lookup and creation surface used by authentication.
type Directory interface {
	Create(ctx context.Context, reg domain.Registration) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
}

// ExternalUserAPI receives a copy of every created profile.
type ExternalUserAPI interface {
	Enabled() bool
	PostJSON(ctx context.Context, path string, in, out any) error
}

type UserService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	publisher   messaging.Publisher
	queue       string
	externalAPI ExternalUserAPI
	log         *logger.Logger
}

func NewUserService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *UserService {
	return &UserService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

// WithEvents publishes a registered event to queue after each creation.
func (s *UserService) WithEvents(publisher messaging.Publisher, queue string) *UserService {
	s.publisher = publisher
	s.queue = queue
	return s
}

func (s *UserService) WithExternalAPI(api ExternalUserAPI) *UserService {
	s.externalAPI = api
	return s
}

func (s *UserService) Create(ctx context.Context, reg domain.Registration) (domain.User, error) {
	role := reg.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "user_create_hash_failed",
		}).Errorf("user create failed: password hash error: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}
	sapID, err := s.idGenerator.NewID()
	if err != nil {
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           domain.ID(id),
		Email:        reg.Email,
		PasswordHash: hash,
		Name:         reg.Name,
		Role:         role,
		IsActive:     true,
		SapID:        sapID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "user_create_duplicate_email",
			}).Warn("user create failed: email already registered")
			return domain.User{}, ErrDuplicateEmail
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "user_create_failed",
		}).Errorf("user create failed: %v", err)
		return domain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.UsersRegistered.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"sap_id":  user.SapID,
		"action":  "user_created",
	}).Info("user created")

	s.publishRegistered(ctx, user)
	s.syncExternal(ctx, user)

	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapLookupError(err)
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, mapLookupError(err)
	}
	return user, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return commonerrors.ErrUserNotFound
	}
	return commonerrors.ErrDatabaseError.WithCause(err)
}

// publishRegistered never fails creation; errors are logged and counted.
func (s *UserService) publishRegistered(ctx context.Context, user domain.User) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(domain.NewRegisteredEvent(user, s.clock.Now()))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "user_event_encode_failed",
		}).Warnf("user event encode failed: %v", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, constants.MessagingPublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, s.queue, body); err != nil {
		metrics.UserEventsPublished.WithLabelValues(s.queue, "failure").Inc()
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"queue":   s.queue,
			"action":  "user_event_publish_failed",
		}).Warnf("user event publish failed: %v", err)
		return
	}

	metrics.UserEventsPublished.WithLabelValues(s.queue, "success").Inc()
}

// syncExternal never fails creation; errors are logged.
func (s *UserService) syncExternal(ctx context.Context, user domain.User) {
	if s.externalAPI == nil || !s.externalAPI.Enabled() {
		return
	}

	if err := s.externalAPI.PostJSON(ctx, "/users", mapper.ProfileToEventDTO(user.Profile()), nil); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "user_external_sync_failed",
		}).Warnf("user external sync failed: %v", err)
		return
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "user_external_synced",
	}).Debug("user synced to external api")
}
