package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// 回源结果为 nil：不写缓存
var errNoValue = errors.New("cache: loader returned nil")

// GetOrLoadJSON c 为 nil 时直接回源；缓存内容解码失败会删掉 key 再回源
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if c == nil {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, errNoValue
		}
		return json.Marshal(v)
	})
	switch {
	case errors.Is(err, errNoValue):
		return nil, nil
	case err != nil:
		return nil, err
	}

	out := new(T)
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.Invalidate(ctx, key)
		return load(ctx)
	}
	return out, nil
}
