package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-course-market/internal/core/cache"
	"go-course-market/internal/core/storage"
	"go-course-market/internal/domain"
)

const defaultProfileTTL = 5 * time.Minute

func profileKey(uid uint) string { return fmt.Sprintf("profile:%d", uid) }

// ProfileUpdate nil 字段不修改
type ProfileUpdate struct {
	FullName *string
	About    *string
	Gender   *string
	Country  *string
	City     *string
	Address  *string
	State    *string
}

type Profiles struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	cache    *cache.Cache
	ttl      time.Duration
	avatars  storage.AvatarStore
	log      *zap.Logger
}

// NewProfiles cache / avatars 可为 nil
func NewProfiles(profiles domain.ProfileRepository, users domain.UserRepository, c *cache.Cache, ttl time.Duration, avatars storage.AvatarStore, l *zap.Logger) *Profiles {
	if ttl <= 0 {
		ttl = defaultProfileTTL
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Profiles{profiles: profiles, users: users, cache: c, ttl: ttl, avatars: avatars, log: l}
}

func (s *Profiles) Get(ctx context.Context, uid uint) (*domain.Profile, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, profileKey(uid), s.ttl, func(ctx context.Context) (*domain.Profile, error) {
		return s.profiles.FindByUserID(ctx, uid)
	})
}

func (s *Profiles) Update(ctx context.Context, uid uint, in ProfileUpdate) (*domain.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FullName, in.FullName)
	set(&p.About, in.About)
	set(&p.Gender, in.Gender)
	set(&p.Country, in.Country)
	set(&p.City, in.City)
	set(&p.Address, in.Address)
	set(&p.State, in.State)

	// full_name 清空时回落到用户名字
	if p.FullName == "" {
		u, err := s.users.FindByID(ctx, uid)
		if err != nil {
			return nil, err
		}
		p.ApplyDefaults(u)
	}

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, uid)
	return p, nil
}

func (s *Profiles) UploadAvatar(ctx context.Context, uid uint, filename, contentType string, r io.Reader, size int64) (*domain.Profile, error) {
	if s.avatars == nil {
		return nil, fmt.Errorf("%w: avatar storage is not configured", domain.ErrUnavailable)
	}
	p, err := s.profiles.FindByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	key, err := s.avatars.PutAvatar(ctx, uid, filename, contentType, r, size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, invalid(err.Error())
		}
		return nil, err
	}
	p.Image = key
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, uid)
	return p, nil
}

// ImageURL 头像对外地址；默认头像或未配置存储时原样返回 key
func (s *Profiles) ImageURL(key string) string {
	if s.avatars == nil || key == domain.DefaultAvatar {
		return key
	}
	return s.avatars.URL(key)
}

// OnUserEvent 用户变更后清掉 profile 缓存
func (s *Profiles) OnUserEvent(ctx context.Context, ev UserEvent) error {
	s.invalidate(ctx, ev.User.ID)
	return nil
}

func (s *Profiles) invalidate(ctx context.Context, uid uint) {
	if err := s.cache.Invalidate(ctx, profileKey(uid)); err != nil {
		s.log.Warn("profile cache invalidate failed", zap.Uint("uid", uid), zap.Error(err))
	}
}
