package services

import (
	"fmt"
	"time"

	"locationsguard/errors"

	"github.com/dgrijalva/jwt-go"
)

type UserInfo struct {
	UserId uint `json:"userid"`
	Role   int  `json:"role"`
}

type Claims struct {
	UserInfo UserInfo `json:"userinfo"`
	jwt.StandardClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) GenerateToken(userInfo UserInfo) (string, error) {
	now := s.now()
	claims := &Claims{
		UserInfo: userInfo,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies the signature and expiry of tokenString and returns its user.
func (s *TokenService) ParseToken(tokenString string) (UserInfo, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid token", err)
	}
	if claims.UserInfo.UserId == 0 {
		return UserInfo{}, errors.NewAppError(errors.ErrCodeInvalidToken, "Token carries no user", nil)
	}
	return claims.UserInfo, nil
}
