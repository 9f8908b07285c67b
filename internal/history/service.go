// Package history はユーザーごとのタイマーセッション履歴（記録と一覧）を提供する。
package history

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hitoshi/breaktime/internal/metrics"
	"github.com/hitoshi/breaktime/internal/model"
	"github.com/hitoshi/breaktime/internal/repository"
)

// 一覧取得件数の既定値と上限
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// AppendInput はセッション記録の入力値。
// ペイロードに存在しないフィールドを区別するためポインタで受け取る。
type AppendInput struct {
	SessionType *string
	Duration    *int
	CompletedAt *time.Time
}

// ListResult はセッション一覧と、limitに依存しないユーザーの総件数。
type ListResult struct {
	Sessions []*model.TimerSession
	Total    int
}

// Service はタイマーセッション履歴のサービス層。
type Service struct {
	repo    repository.TimerSessionRepository
	metrics metrics.Recorder
	now     func() time.Time
}

// NewService はServiceを生成する。
func NewService(repo repository.TimerSessionRepository, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		repo:    repo,
		metrics: recorder,
		now:     time.Now,
	}
}

// Append は完了したセッションを記録する。
// CompletedAtが未指定の場合は現在時刻を使う。
func (s *Service) Append(ctx context.Context, userID int64, in AppendInput) (*model.TimerSession, error) {
	if userID <= 0 {
		return nil, model.NewUnauthorizedError()
	}
	if in.SessionType == nil || in.Duration == nil {
		return nil, model.NewValidationError("session_type and duration are required")
	}

	completedAt := s.now()
	if in.CompletedAt != nil {
		completedAt = *in.CompletedAt
	}

	session := &model.TimerSession{
		UserID:      userID,
		SessionType: *in.SessionType,
		Duration:    *in.Duration,
		CompletedAt: completedAt,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		// Cookieは有効だがユーザーが削除済み
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, model.NewUnauthorizedError()
		}
		return nil, model.NewPersistenceError(err)
	}

	s.metrics.RecordTimerSession(session.SessionType)
	slog.Debug("timer session recorded",
		slog.Int64("user_id", userID),
		slog.Int64("session_id", session.ID),
		slog.String("session_type", session.SessionType),
	)
	return session, nil
}

// List はユーザーのセッションを新しい順に最大limit件返す。
// limitが1未満の場合はValidationError、MaxLimitを超える場合はMaxLimitに丸める。
func (s *Service) List(ctx context.Context, userID int64, limit int) (*ListResult, error) {
	if limit < 1 {
		return nil, model.NewValidationError("limit must be a positive integer")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sessions, err := s.repo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}

	return &ListResult{Sessions: sessions, Total: total}, nil
}

// ParseLimit はクエリパラメータのlimitを解釈する。
// 空文字はDefaultLimit、整数でない値や1未満はValidationError、MaxLimit超はMaxLimitを返す。
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, model.NewValidationError("limit must be a positive integer")
	}
	if limit > MaxLimit {
		return MaxLimit, nil
	}
	return limit, nil
}
