package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Subject 签发令牌所需的用户身份
type Subject struct {
	UserID   uint
	Role     string
	Email    string
	Username string
	FullName string
	VendorID uint
}

type Claims struct {
	UID       uint   `json:"user_id"`
	Role      string `json:"role"` // "user" or "admin"
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	VendorID  uint   `json:"vendor_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	TTL        time.Duration // access
	RefreshTTL time.Duration
}

func (j *JWTer) IssuePair(s Subject) (TokenPair, error) {
	access, err := j.issue(s, TypeAccess, j.TTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := j.issue(s, TypeRefresh, j.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWTer) issue(s Subject, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:       s.UserID,
		Role:      s.Role,
		Email:     s.Email,
		Username:  s.Username,
		FullName:  s.FullName,
		VendorID:  s.VendorID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(), // 同一秒内签发的令牌也互不相同
			Subject:   strconv.FormatUint(uint64(s.UserID), 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}

func (j *JWTer) ValidateAccess(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TypeAccess)
}

func (j *JWTer) ValidateRefresh(tokenStr string) (*Claims, error) {
	return j.parseTyped(tokenStr, TypeRefresh)
}

func (j *JWTer) parseTyped(tokenStr, typ string) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.TokenType != typ {
		return nil, ErrInvalidToken
	}
	return c, nil
}
