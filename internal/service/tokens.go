package service

import (
	"context"
	"errors"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/domain"
)

type TokenIssuer interface {
	IssuePair(s auth.Subject) (auth.TokenPair, error)
	ValidateAccess(token string) (*auth.Claims, error)
	ValidateRefresh(token string) (*auth.Claims, error)
}

// Tokens 把 User 映射为令牌身份（含 vendor_id）
type Tokens struct {
	issuer  TokenIssuer
	vendors domain.VendorRepository
}

func NewTokens(issuer TokenIssuer, vendors domain.VendorRepository) *Tokens {
	return &Tokens{issuer: issuer, vendors: vendors}
}

func (t *Tokens) IssueTokenPair(ctx context.Context, u *domain.User) (auth.TokenPair, error) {
	s := auth.Subject{
		UserID:   u.ID,
		Role:     u.Role,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
	}
	if t.vendors != nil {
		v, err := t.vendors.FindByUserID(ctx, u.ID)
		switch {
		case err == nil:
			s.VendorID = v.ID
		case !errors.Is(err, domain.ErrNotFound):
			return auth.TokenPair{}, err
		}
	}
	return t.issuer.IssuePair(s)
}

func (t *Tokens) ValidateAccessToken(token string) (*auth.Claims, error) {
	c, err := t.issuer.ValidateAccess(token)
	if err != nil {
		return nil, unauthorized(err.Error())
	}
	return c, nil
}

func (t *Tokens) validateRefreshToken(token string) (*auth.Claims, error) {
	c, err := t.issuer.ValidateRefresh(token)
	if err != nil {
		return nil, unauthorized(err.Error())
	}
	return c, nil
}
