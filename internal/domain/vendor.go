package domain

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-course-market/pkg/utils"
)

// Vendor 讲师/卖家扩展信息，与 User 一对一
type Vendor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name        string    `gorm:"size:100" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"size:255" json:"image"`
	Mobile      string    `gorm:"size:100" json:"mobile"`
	Active      bool      `gorm:"not null;default:false" json:"active"`
	Slug        string    `gorm:"uniqueIndex;size:191;not null" json:"slug"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Vendor) TableName() string { return "vendors" }

func (v *Vendor) BeforeSave(*gorm.DB) error {
	if v.Slug == "" {
		v.Slug = utils.Slugify(v.Name)
	}
	return nil
}

type VendorRepository interface {
	Create(ctx context.Context, v *Vendor) error
	FindByUserID(ctx context.Context, userID uint) (*Vendor, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SetActive(ctx context.Context, id uint, active bool) error
}
