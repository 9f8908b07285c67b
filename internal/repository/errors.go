package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateEmail はusers.emailのユニーク制約違反を表す。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound は対象ユーザーが存在しないことを表す。
	ErrUserNotFound = errors.New("user not found")
)

// PostgreSQLのエラーコード
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// hasPQCode はerrが指定コードの*pq.Errorを含むかを判定する。
func hasPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
