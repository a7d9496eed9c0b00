package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-course-market/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(conn(ctx, r.db).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByIDAndOTP id 与待处理 otp 必须同时命中
func (r *UserRepo) FindByIDAndOTP(ctx context.Context, id uint, otp string) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).First(&u, "id = ? AND otp = ?", id, otp).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepo) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var n int64
	// 软删的行仍占着唯一索引
	err := conn(ctx, r.db).Unscoped().Model(&domain.User{}).Where(cond, arg).Count(&n).Error
	return n > 0, err
}

// SetResetState 覆盖写入 otp / reset_token（后一次请求作废前一次）
func (r *UserRepo) SetResetState(ctx context.Context, id uint, otp, resetToken string) error {
	res := conn(ctx, r.db).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"otp": otp, "reset_token": resetToken})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CompleteReset 仅当 otp 仍匹配时写入新密码并清空 otp / reset_token
func (r *UserRepo) CompleteReset(ctx context.Context, id uint, otp, passwordHash string) error {
	res := conn(ctx, r.db).Model(&domain.User{}).Where("id = ? AND otp = ?", id, otp).
		Updates(map[string]any{"password_hash": passwordHash, "otp": nil, "reset_token": nil})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) List(ctx context.Context, q domain.UserQuery) ([]domain.User, int64, error) {
	tx := conn(ctx, r.db).Model(&domain.User{})
	if q.WithDeleted {
		tx = tx.Unscoped()
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := likeOf(s)
		tx = tx.Where("email LIKE ? OR full_name LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := tx.Order("created_at DESC, id DESC").Offset(q.Offset).Limit(clampLimit(q.Limit)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) SoftDelete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
