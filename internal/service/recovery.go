package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"go-course-market/internal/core/mail"
	"go-course-market/internal/domain"
	"go-course-market/pkg/utils"
)

const DefaultResetLinkBase = "http://localhost:5173"

type ConfirmResetInput struct {
	UID        uint
	OTP        string
	ResetToken string
	Password   string
}

type Recovery struct {
	uow         domain.UnitOfWork
	users       domain.UserRepository
	events      *UserEvents
	tokens      *Tokens
	mailer      mail.Mailer
	log         *zap.Logger
	linkBase    string
	otpLen      int
	verifyToken bool
	genOTP      OTPGenerator
}

type RecoveryOption func(*Recovery)

func WithMailer(m mail.Mailer) RecoveryOption { return func(r *Recovery) { r.mailer = m } }

func WithLinkBase(base string) RecoveryOption {
	return func(r *Recovery) {
		if base != "" {
			r.linkBase = base
		}
	}
}

// WithOTPLength 超过 MaxOTPLength 按上限处理
func WithOTPLength(n int) RecoveryOption {
	return func(r *Recovery) {
		if n > 0 {
			r.otpLen = min(n, MaxOTPLength)
		}
	}
}

// WithTokenVerification 开启后 ConfirmReset 要求 reset_token 与库中一致
func WithTokenVerification(on bool) RecoveryOption {
	return func(r *Recovery) { r.verifyToken = on }
}

func WithOTPGenerator(g OTPGenerator) RecoveryOption { return func(r *Recovery) { r.genOTP = g } }

func NewRecovery(uow domain.UnitOfWork, users domain.UserRepository, events *UserEvents, tokens *Tokens, l *zap.Logger, opts ...RecoveryOption) *Recovery {
	if l == nil {
		l = zap.NewNop()
	}
	r := &Recovery{
		uow:         uow,
		users:       users,
		events:      events,
		tokens:      tokens,
		log:         l,
		linkBase:    DefaultResetLinkBase,
		otpLen:      DefaultOTPLength,
		verifyToken: true,
		genOTP:      GenerateOTP,
	}
	for _, o := range opts {
		o(r)
	}
	if r.mailer == nil {
		r.mailer = mail.NewLogMailer(l)
	}
	return r
}

// RequestReset 生成新的 otp + reset_token 覆盖旧值（后一次请求生效），再发送重置链接
func (s *Recovery) RequestReset(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.requestReset(ctx, email)
	resetRequestsTotal.WithLabelValues(result(err)).Inc()
	return u, err
}

func (s *Recovery) requestReset(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with this email", domain.ErrNotFound)
		}
		return nil, err
	}

	otp, err := s.genOTP(s.otpLen)
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}
	pair, err := s.tokens.IssueTokenPair(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}
	// 与其它用户写入一致：同一事务里通知订阅者（profile 重存、缓存失效）
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.users.SetResetState(ctx, u.ID, otp, pair.Access); err != nil {
			return err
		}
		u.OTP = null.StringFrom(otp)
		u.ResetToken = null.StringFrom(pair.Access)
		return s.events.Publish(ctx, UserEvent{Kind: UserUpdated, User: u})
	})
	if err != nil {
		return nil, err
	}

	link := ResetLink(s.linkBase, otp, u.ID, pair.Access)
	s.log.Info("password reset requested", zap.Uint("uid", u.ID))
	s.notify(ctx, u, link)
	return u, nil
}

// notify 发送失败只记日志，不影响请求结果
func (s *Recovery) notify(ctx context.Context, u *domain.User, link string) {
	msg, err := mail.PasswordReset(u.Email, mail.PasswordResetData{
		Email:    u.Email,
		FullName: u.FullName,
		OTP:      u.OTP.String,
		Link:     link,
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		resetMailFailures.Inc()
		s.log.Warn("password reset mail failed", zap.Uint("uid", u.ID), zap.Error(err))
	}
}

// ConfirmReset id 与 otp 同时匹配才允许改密码；成功后 otp / reset_token 清空
func (s *Recovery) ConfirmReset(ctx context.Context, in ConfirmResetInput) error {
	err := s.confirmReset(ctx, in)
	resetConfirmsTotal.WithLabelValues(result(err)).Inc()
	return err
}

func (s *Recovery) confirmReset(ctx context.Context, in ConfirmResetInput) error {
	otp := strings.TrimSpace(in.OTP)
	switch {
	case in.UID == 0:
		return invalid("uidb64 is required")
	case otp == "":
		return invalid("otp is required")
	}
	if err := checkPassword(in.Password); err != nil {
		return err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}

	return s.uow.Do(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByIDAndOTP(ctx, in.UID, otp)
		if errors.Is(err, domain.ErrNotFound) {
			return unauthorized("invalid or expired reset code")
		}
		if err != nil {
			return err
		}
		if s.verifyToken && !tokenMatches(u.ResetToken, in.ResetToken) {
			return unauthorized("invalid reset token")
		}

		// WHERE id AND otp：并发确认只有一个能成功
		if err := s.users.CompleteReset(ctx, u.ID, otp, hash); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return unauthorized("invalid or expired reset code")
			}
			return err
		}
		u.PasswordHash = hash
		u.OTP = null.String{}
		u.ResetToken = null.String{}
		return s.events.Publish(ctx, UserEvent{Kind: UserUpdated, User: u})
	})
}

func tokenMatches(stored null.String, given string) bool {
	if !stored.Valid || stored.String == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored.String), []byte(given)) == 1
}

// ResetLink {base}/create-new-password?otp=..&uidb64=..&reset_token=..
func ResetLink(base, otp string, uid uint, resetToken string) string {
	q := url.Values{}
	q.Set("otp", otp)
	q.Set("uidb64", fmt.Sprint(uid))
	q.Set("reset_token", resetToken)
	return strings.TrimRight(base, "/") + "/create-new-password?" + q.Encode()
}
