package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"go-course-market/internal/domain"
	"go-course-market/pkg/utils"
)

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	Password2 string // 可选，传了就必须和 Password 一致
	FullName  string
	Phone     string
}

type Registration struct {
	uow    domain.UnitOfWork
	users  domain.UserRepository
	events *UserEvents
	log    *zap.Logger
}

func NewRegistration(uow domain.UnitOfWork, users domain.UserRepository, events *UserEvents, l *zap.Logger) *Registration {
	if l == nil {
		l = zap.NewNop()
	}
	return &Registration{uow: uow, users: users, events: events, log: l}
}

func (s *Registration) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	u, err := s.create(ctx, in, domain.RoleUser)
	registrationsTotal.WithLabelValues(result(err)).Inc()
	return u, err
}

// RegisterAdmin 供 admin CLI 使用
func (s *Registration) RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, domain.RoleAdmin)
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *Registration) create(ctx context.Context, in RegisterInput, role string) (*domain.User, error) {
	u := &domain.User{
		Email:    normalizeEmail(in.Email),
		Username: strings.TrimSpace(in.Username),
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
	}
	if p := strings.TrimSpace(in.Phone); p != "" {
		u.Phone = null.StringFrom(p)
	}

	switch {
	case u.Email == "":
		return nil, invalid("email is required")
	case u.FullName == "":
		return nil, invalid("full_name is required")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, invalid("enter a valid email address")
	}
	if in.Password2 != "" && in.Password2 != in.Password {
		return nil, invalid("password fields didn't match")
	}
	u.FillDefaults()

	if ok, err := s.users.ExistsEmail(ctx, u.Email); err != nil {
		return nil, err
	} else if ok {
		return nil, invalid("user with this email already exists")
	}
	if ok, err := s.users.ExistsUsername(ctx, u.Username); err != nil {
		return nil, err
	} else if ok {
		return nil, invalid("user with this username already exists")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash

	// User + Profile 同一事务，任一失败整体回滚
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		return s.events.Publish(ctx, UserEvent{Kind: UserCreated, User: u})
	})
	if err != nil {
		// 并发注册时预检查可能放过，唯一索引兜底
		if errors.Is(err, domain.ErrConstraint) {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return nil, err
	}
	s.log.Info("user registered", zap.Uint("uid", u.ID), zap.String("role", u.Role))
	return u, nil
}
