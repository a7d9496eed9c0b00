package service

import (
	"context"

	"go-course-market/internal/domain"
)

// ProfileCoordinator 维护 User 与 Profile 的一对一关系
type ProfileCoordinator struct {
	profiles domain.ProfileRepository
}

func NewProfileCoordinator(profiles domain.ProfileRepository) *ProfileCoordinator {
	return &ProfileCoordinator{profiles: profiles}
}

// OnUserEvent 创建时只写一次 Profile；更新时重新保存已有 Profile
func (c *ProfileCoordinator) OnUserEvent(ctx context.Context, ev UserEvent) error {
	switch ev.Kind {
	case UserCreated:
		// 重复投递会撞上 user_id 唯一索引 → ErrConstraint
		return c.profiles.Create(ctx, domain.NewProfile(ev.User))
	case UserUpdated:
		p, err := c.profiles.FindByUserID(ctx, ev.User.ID)
		if err != nil {
			return err
		}
		p.ApplyDefaults(ev.User)
		return c.profiles.Save(ctx, p)
	}
	return nil
}
