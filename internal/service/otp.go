package service

import (
	"crypto/rand"
	"io"
	"math/big"
	"strings"
)

const (
	DefaultOTPLength = 7
	// MaxOTPLength 与 users.otp 列宽一致
	MaxOTPLength = 15
)

// OTPGenerator 生成 n 位数字验证码
type OTPGenerator func(n int) (string, error)

// 测试可替换
var otpReader io.Reader = rand.Reader

// GenerateOTP 每一位独立均匀取自 0-9
func GenerateOTP(n int) (string, error) {
	if n <= 0 {
		n = DefaultOTPLength
	}
	n = min(n, MaxOTPLength)
	ten := big.NewInt(10)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(otpReader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
