package repo

import (
	"context"

	"gorm.io/gorm"

	"go-course-market/internal/domain"
)

type VendorRepo struct{ db *gorm.DB }

func NewVendorRepo(db *gorm.DB) *VendorRepo { return &VendorRepo{db: db} }

func (r *VendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	return translate(conn(ctx, r.db).Create(v).Error)
}

func (r *VendorRepo) FindByUserID(ctx context.Context, userID uint) (*domain.Vendor, error) {
	var v domain.Vendor
	if err := conn(ctx, r.db).First(&v, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *VendorRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&domain.Vendor{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

func (r *VendorRepo) SetActive(ctx context.Context, id uint, active bool) error {
	res := conn(ctx, r.db).Model(&domain.Vendor{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
