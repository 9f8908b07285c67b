// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/breaktime/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成し、採番されたIDと作成日時をuserに設定する。
	// メールアドレスが既に登録済みの場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail は正規化済みメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// Count は登録ユーザー総数を返す。
	Count(ctx context.Context) (int, error)

	// CountUpTo はIDが指定値以下のユーザー数を返す（ユーザー番号の算出に使う）。
	CountUpTo(ctx context.Context, id int64) (int, error)

	// DeleteByID はユーザーとそのタイマーセッションを同一トランザクションで削除する。
	// ユーザーが存在しない場合はErrUserNotFoundを返す。
	DeleteByID(ctx context.Context, id int64) error
}

// TimerSessionRepository はタイマーセッション履歴の永続化インターフェース。
type TimerSessionRepository interface {
	// Create はセッションを作成し、採番されたIDをsessionに設定する。
	// 所有ユーザーが存在しない場合はErrUserNotFoundを返す。
	Create(ctx context.Context, session *model.TimerSession) error

	// ListByUserID はユーザーのセッションをcompleted_at降順、id降順で最大limit件返す。
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*model.TimerSession, error)

	// CountByUserID はユーザーのセッション総数を返す。
	CountByUserID(ctx context.Context, userID int64) (int, error)

	// DailyStats はsince以降に完了したセッションの休憩回数と作業時間（分）を集計する。
	DailyStats(ctx context.Context, userID int64, since time.Time) (model.DailyStats, error)
}
