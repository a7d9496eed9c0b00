package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-course-market/internal/core/auth"
	"go-course-market/internal/core/mail"
	"go-course-market/internal/domain"
	"go-course-market/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Vendor{}))
	return db
}

func newTestJWT() *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "course-market-test",
		TTL:        5 * time.Minute,
		RefreshTTL: time.Hour,
	}
}

type captureMailer struct {
	mu   sync.Mutex
	msgs []mail.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msgs[len(m.msgs)-1]
}

// seqOTP 依次返回给定的验证码
func seqOTP(codes ...string) OTPGenerator {
	var mu sync.Mutex
	i := 0
	return func(int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

type fixture struct {
	db       *gorm.DB
	uow      *repo.UnitOfWork
	users    *repo.UserRepo
	profiles *repo.ProfileRepo
	vendors  *repo.VendorRepo
	events   *UserEvents
	jwt      *auth.JWTer
	tokens   *Tokens
	mailer   *captureMailer

	reg      *Registration
	accounts *Accounts
	recovery *Recovery
}

func newFixture(t *testing.T, opts ...RecoveryOption) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		uow:      repo.NewUnitOfWork(db),
		users:    repo.NewUserRepo(db),
		profiles: repo.NewProfileRepo(db),
		vendors:  repo.NewVendorRepo(db),
		events:   NewUserEvents(),
		jwt:      newTestJWT(),
		mailer:   &captureMailer{},
	}
	f.events.Subscribe(NewProfileCoordinator(f.profiles))
	f.tokens = NewTokens(f.jwt, f.vendors)
	f.reg = NewRegistration(f.uow, f.users, f.events, zap.NewNop())
	f.accounts = NewAccounts(f.users, f.tokens, zap.NewNop())
	opts = append([]RecoveryOption{WithMailer(f.mailer)}, opts...)
	f.recovery = NewRecovery(f.uow, f.users, f.events, f.tokens, zap.NewNop(), opts...)
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	u, err := f.reg.Register(context.Background(), RegisterInput{
		Email: email, Password: password, Password2: password, FullName: "Test User",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
