package service

import (
	"context"

	"go.uber.org/zap"

	"go-course-market/internal/domain"
)

// Admin 后台管理用例
type Admin struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	vendors  *Vendors
	log      *zap.Logger
}

func NewAdmin(users domain.UserRepository, profiles domain.ProfileRepository, vendors *Vendors, l *zap.Logger) *Admin {
	if l == nil {
		l = zap.NewNop()
	}
	return &Admin{users: users, profiles: profiles, vendors: vendors, log: l}
}

func (s *Admin) ListUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	return s.users.List(ctx, q)
}

func (s *Admin) ListProfiles(ctx context.Context, q domain.ProfileQuery) ([]domain.Profile, int64, error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, 0, invalid("to must not be before from")
	}
	return s.profiles.List(ctx, q)
}

// Ban 软删除，用户无法再登录或刷新令牌
func (s *Admin) Ban(ctx context.Context, uid uint) error {
	if err := s.users.SoftDelete(ctx, uid); err != nil {
		return err
	}
	s.log.Info("user banned", zap.Uint("uid", uid))
	return nil
}

func (s *Admin) SetVendorActive(ctx context.Context, vendorID uint, active bool) error {
	if err := s.vendors.SetActive(ctx, vendorID, active); err != nil {
		return err
	}
	s.log.Info("vendor active changed", zap.Uint("vendor_id", vendorID), zap.Bool("active", active))
	return nil
}
