package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はセッショントークンの署名・形式・有効期限が不正であることを表す。
var ErrInvalidToken = errors.New("invalid session token")

// TokenManager はセッションCookieに格納する署名付きトークンを発行・検証する。
// トークンはHS256のJWTで、subにユーザーIDを持つ。サーバー側にセッション状態は持たない。
type TokenManager struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, maxAge time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Issue はユーザーIDを埋め込んだトークンを発行する。
func (m *TokenManager) Issue(userID int64) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、ユーザーIDを返す。
// 検証に失敗した場合は理由によらずErrInvalidTokenを返す。
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
