// 분석 API 호출자 인증 (선택 기능)
//
// 로그인/토큰 발급은 이 서비스의 범위가 아님
// 호스트가 INVOKE_JWT_SECRET으로 서명한 HS256 access token만 검증

package service

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/azure-analyst/backend/internal/config"
	"github.com/azure-analyst/backend/internal/model"
)

var ErrUnauthorized = errors.New("unauthorized")

type TokenVerifier struct {
	jwtSecret []byte
}

type callerClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// 시크릿이 비어있으면 nil 반환 (인증 비활성화)
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil
	}
	return &TokenVerifier{jwtSecret: []byte(cfg.JWTSecret)}
}

func (v *TokenVerifier) ParseAccessToken(tokenStr string) (*model.Caller, error) {
	claims := &callerClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return v.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	if claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	return &model.Caller{
		Subject: claims.Subject,
		Scope:   claims.Scope,
	}, nil
}
