package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/core/cache"
	"go-course-market/internal/core/config"
	"go-course-market/internal/core/database"
	"go-course-market/internal/core/mail"
	"go-course-market/internal/core/storage"
	"go-course-market/internal/domain"
	"go-course-market/internal/repo"
	"go-course-market/internal/service"
	"go-course-market/internal/transport/http/handler"
	mdw "go-course-market/internal/transport/http/middleware"
	"go-course-market/internal/transport/http/router"
)

// App 组装好的依赖，api / admin 两个入口共用
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB
	JWT *auth.JWTer

	Cache   *cache.Cache
	Avatars storage.AvatarStore
	Mailer  mail.Mailer

	Events       *service.UserEvents
	Registration *service.Registration
	Accounts     *service.Accounts
	Recovery     *service.Recovery
	Profiles     *service.Profiles
	Vendors      *service.Vendors
	Admin        *service.Admin

	Registry *router.Registry
}

// Option 测试时注入替身
type Option func(*App)

func WithCache(c *cache.Cache) Option              { return func(a *App) { a.Cache = c } }
func WithMailer(m mail.Mailer) Option              { return func(a *App) { a.Mailer = m } }
func WithAvatarStore(s storage.AvatarStore) Option { return func(a *App) { a.Avatars = s } }

func OpenDB(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	return database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Vendor{})
}

func NewJWT(cfg *config.Config) (*auth.JWTer, error) {
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		TTL:        time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLMin) * time.Minute,
	}, nil
}

// New 按配置连接 Redis / MinIO（未配置则跳过），组装服务与 HTTP 模块
func New(ctx context.Context, cfg *config.Config, l *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	jwter, err := NewJWT(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Cfg: cfg, Log: l, DB: db, JWT: jwter}
	for _, o := range opts {
		o(a)
	}

	if a.Cache == nil && cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := c.Ping(ctx); err != nil {
			// Redis 只是读缓存，不可用时直接回源
			l.Warn("redis unavailable, profile cache disabled", zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
		}
	}
	if a.Avatars == nil && cfg.Storage.Endpoint != "" {
		st, err := storage.NewMinio(ctx, storage.Opts{
			Endpoint:   cfg.Storage.Endpoint,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Bucket:     cfg.Storage.Bucket,
			Region:     cfg.Storage.Region,
			UseSSL:     cfg.Storage.UseSSL,
			PublicBase: cfg.Storage.PublicBase,
		}, l)
		if err != nil {
			l.Warn("minio unavailable, avatar upload disabled", zap.Error(err))
		} else {
			a.Avatars = st
		}
	}
	if a.Mailer == nil {
		a.Mailer = mail.New(mail.Opts{
			Driver:   cfg.Mail.Driver,
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		}, l)
	}

	// 仓储
	uow := repo.NewUnitOfWork(db)
	users := repo.NewUserRepo(db)
	profiles := repo.NewProfileRepo(db)
	vendors := repo.NewVendorRepo(db)

	// 服务
	tokens := service.NewTokens(jwter, vendors)
	a.Events = service.NewUserEvents()
	a.Profiles = service.NewProfiles(profiles, users, a.Cache,
		time.Duration(cfg.Redis.ProfileTTLSec)*time.Second, a.Avatars, l)
	a.Events.Subscribe(service.NewProfileCoordinator(profiles))
	a.Events.Subscribe(a.Profiles)

	a.Registration = service.NewRegistration(uow, users, a.Events, l)
	a.Accounts = service.NewAccounts(users, tokens, l)
	a.Recovery = service.NewRecovery(uow, users, a.Events, tokens, l,
		service.WithMailer(a.Mailer),
		service.WithLinkBase(cfg.Reset.LinkBase),
		service.WithOTPLength(cfg.Reset.OTPLength),
		service.WithTokenVerification(cfg.Reset.VerifyToken),
	)
	a.Vendors = service.NewVendors(uow, vendors)
	a.Admin = service.NewAdmin(users, profiles, a.Vendors, l)

	// HTTP 模块
	var resetLimit gin.HandlerFunc
	if n := cfg.Limits.ResetPerIPPerMin; n > 0 {
		resetLimit = mdw.RateLimitPerIP(rate.Every(time.Minute/time.Duration(n)), n)
	}
	a.Registry = router.NewRegistry(
		handler.NewAccountHandler(a.Registration, a.Accounts),
		handler.NewRecoveryHandler(a.Recovery, resetLimit),
		handler.NewProfileHandler(a.Profiles),
		handler.NewVendorHandler(a.Vendors),
		handler.NewAdminHandler(a.Admin),
	)
	return a, nil
}

func (a *App) limits() router.Limits {
	return router.Limits{RPS: a.Cfg.Limits.RPS, Burst: a.Cfg.Limits.Burst, Concurrency: a.Cfg.Limits.Concurrency}
}

func (a *App) APIEngine() *gin.Engine {
	return router.NewAPIEngine(a.Log, a.JWT, a.limits(), a.Registry)
}

func (a *App) AdminEngine() *gin.Engine {
	return router.NewAdminEngine(a.Log, a.JWT, a.limits(), a.Registry)
}

func (a *App) Close() error {
	return a.Cache.Close()
}
