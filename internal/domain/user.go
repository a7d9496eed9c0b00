package domain

import (
	"context"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Username     string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	Phone        null.String    `gorm:"size:15" json:"phone"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	Role         string         `gorm:"size:16;not null;default:user" json:"role"`
	OTP          null.String    `gorm:"column:otp;size:15" json:"-"`
	ResetToken   null.String    `gorm:"column:reset_token;size:1024" json:"-"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// FillDefaults 首次保存前补齐 username / full_name（取邮箱 @ 前缀）
func (u *User) FillDefaults() {
	local := u.Email
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	if strings.TrimSpace(u.Username) == "" {
		u.Username = local
	}
	if strings.TrimSpace(u.FullName) == "" {
		u.FullName = u.Username
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
}

func (u *User) BeforeSave(*gorm.DB) error {
	if u.Email != "" {
		u.FillDefaults()
	}
	return nil
}

// ResetPending 是否处于 OTP_ISSUED 状态
func (u *User) ResetPending() bool {
	return u.OTP.Valid && u.OTP.String != ""
}

type UserQuery struct {
	Offset      int
	Limit       int
	Search      string // email / full_name / phone 模糊匹配
	WithDeleted bool
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDAndOTP(ctx context.Context, id uint, otp string) (*User, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	SetResetState(ctx context.Context, id uint, otp, resetToken string) error
	CompleteReset(ctx context.Context, id uint, otp, passwordHash string) error
	List(ctx context.Context, q UserQuery) ([]User, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

// UnitOfWork 在同一事务内执行 fn，fn 内的仓储调用通过 ctx 取到事务
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
