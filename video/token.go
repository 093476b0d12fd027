// video/token.go
package video

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("video token secret must not be empty")

// TokenProvider 按 (城镇, 玩家) 签发视频房间访问令牌
type TokenProvider interface {
	TokenForTown(townID, playerID string) (string, error)
}

// JWTProvider 用共享密钥签发 HS256 令牌。令牌内容对核心是不透明的，
// 由视频服务一侧校验。
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTProvider(secret string, ttl time.Duration) (*JWTProvider, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTProvider{secret: []byte(secret), ttl: ttl}, nil
}

func (p *JWTProvider) TokenForTown(townID, playerID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"town":   townID,
		"player": playerID,
		"iat":    now.Unix(),
		"exp":    now.Add(p.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}
