package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired возвращается для подписанного, но истекшего токена
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid возвращается для токена с неверной подписью или форматом
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims - полезная нагрузка сессионного токена.
// Несет только идентификатор пользователя и флаг админа; токен не хранится
// на сервере, единственная граница жизни - exp.
type Claims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer подписывает и проверяет сессионные JWT
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer создает TokenIssuer с общим секретом и TTL по умолчанию
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue выдает подписанный токен для пользователя со стандартным TTL
func (t *TokenIssuer) Issue(userID string, isAdmin bool) (string, error) {
	return t.IssueWithTTL(userID, isAdmin, t.ttl)
}

// IssueWithTTL выдает подписанный токен с явным TTL
func (t *TokenIssuer) IssueWithTTL(userID string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse проверяет подпись и срок действия, возвращает claims
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
