package service

import (
	"context"
	"sync"

	"go-course-market/internal/domain"
)

type EventKind int

const (
	UserCreated EventKind = iota + 1
	UserUpdated
)

func (k EventKind) String() string {
	switch k {
	case UserCreated:
		return "created"
	case UserUpdated:
		return "updated"
	}
	return "unknown"
}

// UserEvent 用户记录持久化之后发出
type UserEvent struct {
	Kind EventKind
	User *domain.User
}

type UserSubscriber interface {
	OnUserEvent(ctx context.Context, ev UserEvent) error
}

type SubscriberFunc func(ctx context.Context, ev UserEvent) error

func (f SubscriberFunc) OnUserEvent(ctx context.Context, ev UserEvent) error { return f(ctx, ev) }

// UserEvents 显式的同步订阅列表；按订阅顺序调用，首个错误即返回
type UserEvents struct {
	mu   sync.RWMutex
	subs []UserSubscriber
}

func NewUserEvents() *UserEvents { return &UserEvents{} }

func (e *UserEvents) Subscribe(s UserSubscriber) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, s)
}

func (e *UserEvents) Publish(ctx context.Context, ev UserEvent) error {
	e.mu.RLock()
	subs := append([]UserSubscriber(nil), e.subs...)
	e.mu.RUnlock()

	for _, s := range subs {
		if err := s.OnUserEvent(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
