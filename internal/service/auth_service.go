package service

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/barzda/barbershop-api/internal/domain"
	"github.com/barzda/barbershop-api/internal/platform/mailer"
	"github.com/barzda/barbershop-api/internal/repo/postgres"
	"github.com/barzda/barbershop-api/pkg/auth"
	"github.com/barzda/barbershop-api/pkg/config"
	"github.com/barzda/barbershop-api/pkg/events"
	"github.com/barzda/barbershop-api/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterReq) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error)
}

type authService struct {
	users    postgres.UsersRepo
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
}

func NewAuthService(users postgres.UsersRepo, mail mailer.Service, eventBus events.Publisher, cfg *config.Config) AuthService {
	return &authService{
		users:    users,
		mailer:   mail,
		eventBus: eventBus,
		config:   cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterReq) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.Wrap("check existing user", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, domain.Wrap("hash password", err)
	}

	user, err := s.users.Create(ctx, req.Email, hash, req.Name, req.Phone)
	if err != nil {
		if err == domain.ErrEmailTaken {
			return nil, err
		}
		return nil, domain.Wrap("create user", err)
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		logger.WarnContext(ctx, "Failed to send welcome email", "error", err, "user_id", user.ID)
	}

	event := events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error) {
	req.Normalize()
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, domain.Wrap("find user", err)
	}
	if user == nil {
		return nil, domain.ErrBadCredentials
	}

	match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, domain.Wrap("compare password", err)
	}
	if !match {
		return nil, domain.ErrBadCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.Email, string(user.Role), s.config.Auth.JWTSecret, s.config.Auth.AccessTokenTTL)
	if err != nil {
		return nil, domain.Wrap("issue token", err)
	}

	return &domain.LoginRes{AccessToken: token, User: user}, nil
}
