package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/parnasoft/blog-platform/internal/core/domain"
	"github.com/parnasoft/blog-platform/internal/core/ports"
)

// recentLoginWindow bounds the "recent logins" figure in user stats.
const recentLoginWindow = 30 * 24 * time.Hour

type UserService struct {
	repo ports.UserRepository
	mail ports.MailQueue
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, mail ports.MailQueue, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, mail: mail, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Create provisions a new account. The password is policy-checked and hashed
// here; an anonymous role is never persisted.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidUser
	}
	if !domain.PersistableRole(input.Role) {
		return nil, domain.ErrInvalidUser
	}
	if err := domain.CheckPassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         input.Name,
		Role:         input.Role,
		IsActive:     active,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("failed to create user")
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

// Update applies a partial update. Zero-valued fields keep their stored
// values; an empty password means unchanged. Toggling isActive is an Update
// that flips exactly that field.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		if !domain.PersistableRole(input.Role) {
			return nil, domain.ErrInvalidUser
		}
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != "" {
		if err := domain.CheckPassword(input.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("failed to update user")
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// ResetPassword queues a reset notification for the account. Delivery is
// asynchronous; the call returns once the job is buffered.
func (s *UserService) ResetPassword(ctx context.Context, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.mail.Enqueue(ports.MailJob{
		To:      user.Email,
		Subject: "Password reset requested",
		Body:    fmt.Sprintf("Hello %s,\n\nA password reset was requested for your account. If this was not you, contact your administrator.", user.Name),
	})

	s.log.Info().Str("user_id", id).Msg("password reset queued")
	return nil
}

// ChangePassword verifies the current password before applying the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.CheckPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, user)
}

func (s *UserService) Stats(ctx context.Context) (*ports.UserStats, error) {
	return s.repo.Stats(ctx, recentLoginWindow)
}
