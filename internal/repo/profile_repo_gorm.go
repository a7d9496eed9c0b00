package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"go-course-market/internal/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return translate(conn(ctx, r.db).Create(p).Error)
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := conn(ctx, r.db).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p *domain.Profile) error {
	return translate(conn(ctx, r.db).Save(p).Error)
}

func (r *ProfileRepo) List(ctx context.Context, q domain.ProfileQuery) ([]domain.Profile, int64, error) {
	tx := conn(ctx, r.db).Model(&domain.Profile{})
	if s := strings.TrimSpace(q.Search); s != "" {
		like := likeOf(s)
		tx = tx.Where("full_name LIKE ? OR country LIKE ?", like, like)
	}
	if q.From != nil {
		tx = tx.Where("date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("date < ?", *q.To)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Profile
	if err := tx.Order("date DESC, id DESC").Offset(q.Offset).Limit(clampLimit(q.Limit)).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
