package utils

import (
	"strings"

	"github.com/google/uuid"
)

const (
	pidLen      = 10
	pidAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// NewPID 10 位 [a-z0-9] 公共 ID，用于对外暴露的 profile 标识
func NewPID() string {
	u := uuid.New()
	out := make([]byte, 0, pidLen)
	for i, b := range u {
		// 第 6、8 字节含版本 / 变体位，不够随机
		if i == 6 || i == 8 {
			continue
		}
		out = append(out, pidAlphabet[int(b)%len(pidAlphabet)])
		if len(out) == pidLen {
			break
		}
	}
	return string(out)
}

// ShortSuffix 用于 slug 冲突时追加后缀
func ShortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
