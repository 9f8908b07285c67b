// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Emailは正規化（前後空白除去・小文字化）済みの値を保持する。
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// IsAdmin は最初に登録されたユーザー（ID=1）を管理者として扱う。
func (u *User) IsAdmin() bool {
	return u.ID == 1
}
