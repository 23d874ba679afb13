package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/events"
	"github.com/craftelio/storefront/internal/identity"
	apperrors "github.com/craftelio/storefront/pkg/util"
)

// AccountUsers is the identity capability the account flows use.
type AccountUsers interface {
	Create(ctx context.Context, user *domain.User, password string) (identity.Result, error)
	AddToRole(ctx context.Context, user *domain.User, roleName string) error
	Delete(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	CheckPassword(user *domain.User, password string) bool
	Roles(ctx context.Context, user *domain.User) ([]string, error)
}

// SessionStore opens and closes login sessions.
type SessionStore interface {
	Create(ctx context.Context, userID string, roles []string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// RegisterInput carries a self-service registration.
type RegisterInput struct {
	Email         string
	Password      string
	Name          string
	PhoneNumber   string
	StreetAddress string
	City          string
	State         string
	PostalCode    string
	Role          string
	CompanyID     *int64
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User      *domain.User
	Roles     []string
	Token     string
	ExpiresAt time.Time
}

// AccountService coordinates registration and login flows.
type AccountService struct {
	users      AccountUsers
	sessions   SessionStore
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies encapsulates collaborators for the account service.
type AccountDependencies struct {
	Users      AccountUsers
	Sessions   SessionStore
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:      deps.Users,
		sessions:   deps.Sessions,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("account"),
	}
}

// Register creates a customer account and assigns its role.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = config.RoleIndividualCustomer
	}
	switch role {
	case config.RoleIndividualCustomer:
		in.CompanyID = nil
	case config.RoleCompanyCustomer:
		if in.CompanyID == nil {
			return nil, apperrors.NewValidationError("company is required for company customers", map[string]any{"field": "company_id"})
		}
	default:
		return nil, apperrors.NewValidationError("role not available for registration", map[string]any{"role": role})
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", map[string]any{"field": "name"})
	}

	user := &domain.User{
		UserName:      strings.TrimSpace(in.Email),
		Email:         strings.TrimSpace(in.Email),
		Name:          strings.TrimSpace(in.Name),
		PhoneNumber:   in.PhoneNumber,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		State:         in.State,
		PostalCode:    in.PostalCode,
		CompanyID:     in.CompanyID,
	}
	result, err := s.users.Create(ctx, user, in.Password)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !result.Succeeded {
		return nil, apperrors.NewValidationError("registration failed", map[string]any{"errors": result.Descriptions()})
	}
	if err := s.users.AddToRole(ctx, user, role); err != nil {
		s.logger.Error("role assignment failed", zap.String("user_id", user.ID), zap.String("role", role), zap.Error(err))
		if delErr := s.users.Delete(ctx, user); delErr != nil {
			s.logger.Error("failed to remove account without role", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", role))
	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{UserID: user.ID, Email: user.Email, Name: user.Name, Role: role},
	})
	return user, nil
}

// Login verifies credentials, opens a session and issues a token bound to it.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthorized("invalid login attempt")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !s.users.CheckPassword(user, password) {
		return nil, apperrors.NewUnauthorized("invalid login attempt")
	}

	roles, err := s.users.Roles(ctx, user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sess, err := s.sessions.Create(ctx, user.ID, roles)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	token, exp, err := s.tokens.GenerateToken(user.ID, sess.ID, roles)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{User: user, Roles: roles, Token: token, ExpiresAt: exp}, nil
}

// Logout ends the session behind the caller's token.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
