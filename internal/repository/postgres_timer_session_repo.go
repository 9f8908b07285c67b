package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/breaktime/internal/model"
)

// PostgresTimerSessionRepo はPostgreSQLを使用したタイマーセッションリポジトリ。
type PostgresTimerSessionRepo struct {
	db *sql.DB
}

// NewPostgresTimerSessionRepo はPostgresTimerSessionRepoを生成する。
func NewPostgresTimerSessionRepo(db *sql.DB) *PostgresTimerSessionRepo {
	return &PostgresTimerSessionRepo{db: db}
}

// Create はセッションを作成する。
// ユーザーが削除済みでFK違反（23503）となった場合はErrUserNotFoundを返す。
func (r *PostgresTimerSessionRepo) Create(ctx context.Context, session *model.TimerSession) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO timer_sessions (user_id, session_type, duration, completed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		session.UserID, session.SessionType, session.Duration, session.CompletedAt,
	).Scan(&session.ID)
	if err != nil {
		if hasPQCode(err, pqForeignKeyViolation) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to insert timer session: %w", err)
	}
	return nil
}

// ListByUserID はユーザーのセッションを新しい順に最大limit件返す。
func (r *PostgresTimerSessionRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*model.TimerSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, session_type, duration, completed_at
		 FROM timer_sessions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list timer sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*model.TimerSession, 0, limit)
	for rows.Next() {
		s := &model.TimerSession{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionType, &s.Duration, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan timer session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timer sessions: %w", err)
	}

	return sessions, nil
}

// CountByUserID はユーザーのセッション総数を返す。
func (r *PostgresTimerSessionRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM timer_sessions WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count timer sessions: %w", err)
	}
	return count, nil
}

// DailyStats はsince以降のshort/longセッション数とworkセッションの合計時間を返す。
func (r *PostgresTimerSessionRepo) DailyStats(ctx context.Context, userID int64, since time.Time) (model.DailyStats, error) {
	var stats model.DailyStats
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*) FILTER (WHERE session_type IN ('short', 'long')),
			COALESCE(SUM(duration) FILTER (WHERE session_type = 'work'), 0)
		 FROM timer_sessions
		 WHERE user_id = $1 AND completed_at >= $2`,
		userID, since,
	).Scan(&stats.BreaksCompleted, &stats.WorkMinutes)
	if err != nil {
		return model.DailyStats{}, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}
	return stats, nil
}

// compile-time interface check
var _ TimerSessionRepository = (*PostgresTimerSessionRepo)(nil)
