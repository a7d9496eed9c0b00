package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/domain"
	"go-course-market/pkg/utils"
)

const msgNoActiveAccount = "no active account found with the given credentials"

type Accounts struct {
	users  domain.UserRepository
	tokens *Tokens
	log    *zap.Logger
}

func NewAccounts(users domain.UserRepository, tokens *Tokens, l *zap.Logger) *Accounts {
	if l == nil {
		l = zap.NewNop()
	}
	return &Accounts{users: users, tokens: tokens, log: l}
}

// Login 邮箱 + 密码换取令牌对
func (s *Accounts) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	pair, err := s.login(ctx, email, password)
	loginsTotal.WithLabelValues(result(err)).Inc()
	return pair, err
}

func (s *Accounts) login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return auth.TokenPair{}, unauthorized(msgNoActiveAccount)
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return auth.TokenPair{}, unauthorized(msgNoActiveAccount)
	}
	return s.tokens.IssueTokenPair(ctx, u)
}

// Refresh 用 refresh token 换新令牌对；用户被封禁后失效
func (s *Accounts) Refresh(ctx context.Context, refresh string) (auth.TokenPair, error) {
	c, err := s.tokens.validateRefreshToken(refresh)
	if err != nil {
		return auth.TokenPair{}, err
	}
	u, err := s.users.FindByID(ctx, c.UID)
	if errors.Is(err, domain.ErrNotFound) {
		return auth.TokenPair{}, unauthorized("user not found")
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	return s.tokens.IssueTokenPair(ctx, u)
}

func (s *Accounts) Me(ctx context.Context, uid uint) (*domain.User, error) {
	return s.users.FindByID(ctx, uid)
}
