package domain

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"go-course-market/pkg/utils"
)

const DefaultAvatar = "default/default-user.jpg"

type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Image     string    `gorm:"size:255" json:"image"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	About     string    `gorm:"type:text" json:"about"`
	Gender    string    `gorm:"size:100" json:"gender"`
	Country   string    `gorm:"size:100" json:"country"`
	City      string    `gorm:"size:100" json:"city"`
	Address   string    `gorm:"size:100" json:"address"`
	State     string    `gorm:"size:100" json:"state"`
	Date      time.Time `gorm:"autoCreateTime" json:"date"`
	PID       string    `gorm:"column:pid;uniqueIndex;size:20;not null" json:"pid"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Profile) TableName() string { return "profiles" }

func NewProfile(u *User) *Profile {
	p := &Profile{UserID: u.ID, Image: DefaultAvatar}
	p.ApplyDefaults(u)
	return p
}

// ApplyDefaults full_name 为空时沿用用户的 full_name
func (p *Profile) ApplyDefaults(u *User) {
	if strings.TrimSpace(p.FullName) == "" && u != nil {
		p.FullName = u.FullName
	}
	if p.Image == "" {
		p.Image = DefaultAvatar
	}
}

func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.PID == "" {
		p.PID = utils.NewPID()
	}
	return nil
}

type ProfileQuery struct {
	Offset int
	Limit  int
	Search string // full_name / country
	From   *time.Time
	To     *time.Time
}

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	List(ctx context.Context, q ProfileQuery) ([]Profile, int64, error)
}
