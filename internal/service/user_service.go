package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"user-manager/internal/domain"
	"user-manager/internal/metrics"
	"user-manager/internal/repository"
)

// DefaultBcryptCost is the work factor applied when none is configured.
const DefaultBcryptCost = 10

// UserService describes user lifecycle operations.
type UserService interface {
	Create(ctx context.Context, input domain.CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, id int64, roles []string) (*domain.User, error)
}

type UserServiceConfig struct {
	BcryptCost int
	Logger     logrus.FieldLogger
}

type userService struct {
	users  repository.UserRepository
	cost   int
	logger logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, cfg UserServiceConfig) UserService {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = DefaultBcryptCost
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &userService{
		users:  users,
		cost:   cfg.BcryptCost,
		logger: cfg.Logger,
	}
}

func (s *userService) Create(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	hash, err := s.hashPassword(input.Password)
	if err != nil {
		metrics.ObserveUserOperation("create", err)
		return nil, err
	}

	user := &domain.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Role:     normalizeList(input.Role),
		Phone:    normalizeList(input.Phone),
		Status:   input.Status,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		metrics.ObserveUserOperation("create", err)
		return nil, err
	}

	metrics.ObserveUserOperation("create", nil)
	s.logger.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	metrics.ObserveUserOperation("list", err)
	return users, err
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	metrics.ObserveUserOperation("get", err)
	return user, err
}

func (s *userService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveUserOperation("update", err)
		return nil, err
	}

	if patch.Password != nil {
		hash, err := s.hashPassword(*patch.Password)
		if err != nil {
			metrics.ObserveUserOperation("update", err)
			return nil, err
		}
		patch.Password = &hash
	}
	patch.Apply(user)
	user.Role = normalizeList(user.Role)
	user.Phone = normalizeList(user.Phone)

	if err := s.users.Save(ctx, user); err != nil {
		metrics.ObserveUserOperation("update", err)
		return nil, err
	}

	metrics.ObserveUserOperation("update", nil)
	s.logger.WithField("user_id", user.ID).Debug("user updated")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveUserOperation("delete", err)
		return err
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		metrics.ObserveUserOperation("delete", err)
		return err
	}

	metrics.ObserveUserOperation("delete", nil)
	s.logger.WithField("user_id", user.ID).Info("user deleted")
	return nil
}

func (s *userService) AssignRole(ctx context.Context, id int64, roles []string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		metrics.ObserveUserOperation("assign_role", err)
		return nil, err
	}

	user.Role = normalizeList(roles)
	if err := s.users.Save(ctx, user); err != nil {
		metrics.ObserveUserOperation("assign_role", err)
		return nil, err
	}

	metrics.ObserveUserOperation("assign_role", nil)
	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"roles":   user.Role,
	}).Info("roles assigned")
	return user, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// normalizeList returns a copy of values that is never nil.
func normalizeList(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
