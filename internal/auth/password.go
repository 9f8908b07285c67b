package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptは72バイトを超える入力を扱えない。
const maxPasswordBytes = 72

// HashPassword は生パスワードをbcryptでハッシュ化する。
// ソルトは呼び出しごとにランダムに生成されるため、同じ入力でも結果は毎回異なる。
func HashPassword(raw string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword は保存済みハッシュと生パスワードを定数時間で照合する。
// bcryptは先頭72バイトしか比較しないため、それを超える入力は常に不一致とする。
func VerifyPassword(storedHash, raw string) bool {
	if len(raw) > maxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)) == nil
}
