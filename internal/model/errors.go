// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError はサービス層が返す型付きエラー。
// ハンドラーはCodeに応じてHTTPステータスへ変換する。
type APIError struct {
	Code     string // エラーコード
	Message  string // クライアントに返す短いメッセージ
	Category string // カテゴリ: auth, validation, system

	cause error // ログ出力用の内部エラー。レスポンスには含めない
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap は内部エラーを返す。
func (e *APIError) Unwrap() error {
	return e.cause
}

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmailAlreadyExists = "EMAIL_ALREADY_REGISTERED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodePersistence        = "PERSISTENCE_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewValidationError は入力値不正エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
	}
}

// NewConflictError はメールアドレス重複エラーを生成する。
func NewConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyExists,
		Message:  "Email already registered",
		Category: "validation",
	}
}

// NewAuthenticationError は認証失敗エラーを生成する。
// ユーザー列挙を防ぐため、ユーザー不在とパスワード不一致を区別しない。
func NewAuthenticationError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password",
		Category: "auth",
	}
}

// NewUnauthorizedError は有効なセッションがない場合のエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Not authenticated",
		Category: "auth",
	}
}

// NewPersistenceError は永続化層の失敗を表すエラーを生成する。
// causeはログにのみ出力される。
func NewPersistenceError(cause error) *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  "An error occurred. Please try again.",
		Category: "system",
		cause:    cause,
	}
}
