// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hitoshi/breaktime/internal/model"
	"github.com/hitoshi/breaktime/internal/repository"
)

// StatsReader は当日集計の読み取りインターフェース。
type StatsReader interface {
	DailyStats(ctx context.Context, userID int64, since time.Time) (model.DailyStats, error)
}

// Service はユーザー管理のサービス層。
// ダッシュボード集計と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	stats    StatsReader
	location *time.Location // 「今日」の境界を決めるタイムゾーン
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	stats StatsReader,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		userRepo: userRepo,
		stats:    stats,
		location: location,
		now:      time.Now,
	}
}

// Dashboard はホーム画面用のユーザー情報と当日の統計を返す。
func (s *Service) Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error) {
	// 1. ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	// 2. 登録順と総ユーザー数
	userNumber, err := s.userRepo.CountUpTo(ctx, user.ID)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}

	// 3. 当日（表示タイムゾーンの0時以降）の集計
	today, err := s.stats.DailyStats(ctx, user.ID, s.startOfToday())
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}

	return &model.Dashboard{
		User:          user,
		UserNumber:    userNumber,
		TotalUsers:    totalUsers,
		IsAdmin:       user.IsAdmin(),
		BreakSettings: model.DefaultBreakSettings(),
		Today:         today,
	}, nil
}

// Withdraw はユーザーの退会処理を実行する。
// タイマーセッションとユーザーを同一トランザクションで削除する。
func (s *Service) Withdraw(ctx context.Context, userID int64) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return model.NewPersistenceError(err)
	}
	if user == nil {
		return model.NewUnauthorizedError()
	}

	slog.Info("退会処理を開始します",
		slog.Int64("user_id", userID),
	)

	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.NewUnauthorizedError()
		}
		return model.NewPersistenceError(err)
	}

	slog.Info("退会処理が完了しました",
		slog.Int64("user_id", userID),
	)

	return nil
}

func (s *Service) startOfToday() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}
