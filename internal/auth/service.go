// Package auth はメールアドレスとパスワードによるアカウント登録・認証と、
// セッショントークンの発行を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/breaktime/internal/metrics"
	"github.com/hitoshi/breaktime/internal/model"
	"github.com/hitoshi/breaktime/internal/repository"
)

// パスワードの最小文字数
const minPasswordLength = 6

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	BcryptCost int // パスワードハッシュのコスト
}

// Service はアカウントの登録・認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	metrics  metrics.Recorder
	config   ServiceConfig

	// dummyHash はユーザー不在時の照合に使い、存在時と処理時間を揃える。
	dummyHash string
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, recorder metrics.Recorder, config ServiceConfig) (*Service, error) {
	dummy, err := HashPassword("breaktime-dummy-password", config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		userRepo:  userRepo,
		metrics:   recorder,
		config:    config,
		dummyHash: dummy,
	}, nil
}

// Register は新規ユーザーを登録する。
// メールアドレスは正規化（前後空白除去・小文字化）して保存する。
func (s *Service) Register(ctx context.Context, email, rawPassword string) (*model.User, error) {
	// 1. 正規化と入力値検証
	email = NormalizeEmail(email)
	if err := validateRegistration(email, rawPassword); err != nil {
		s.metrics.RecordRegistration(metrics.ResultRejected)
		return nil, err
	}

	// 2. 既存ユーザーの事前チェック
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, model.NewPersistenceError(err)
	}
	if existing != nil {
		s.metrics.RecordRegistration(metrics.ResultRejected)
		return nil, model.NewConflictError()
	}

	// 3. パスワードをハッシュ化
	hash, err := HashPassword(rawPassword, s.config.BcryptCost)
	if err != nil {
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, err
	}

	// 4. 作成。同時登録による重複はユニーク制約で検出する
	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.metrics.RecordRegistration(metrics.ResultRejected)
			return nil, model.NewConflictError()
		}
		s.metrics.RecordRegistration(metrics.ResultError)
		return nil, model.NewPersistenceError(err)
	}

	s.metrics.RecordRegistration(metrics.ResultSuccess)
	slog.Info("user registered",
		slog.Int64("user_id", user.ID),
	)
	return user, nil
}

// Authenticate はメールアドレスとパスワードでユーザーを認証する。
// 入力欠落・ユーザー不在・パスワード不一致はすべて同一のAuthenticationErrorを返す。
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || rawPassword == "" {
		s.metrics.RecordLogin(metrics.ResultRejected)
		return nil, model.NewAuthenticationError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.metrics.RecordLogin(metrics.ResultError)
		return nil, model.NewPersistenceError(err)
	}

	if user == nil {
		VerifyPassword(s.dummyHash, rawPassword)
		s.metrics.RecordLogin(metrics.ResultRejected)
		return nil, model.NewAuthenticationError()
	}

	if !VerifyPassword(user.PasswordHash, rawPassword) {
		s.metrics.RecordLogin(metrics.ResultRejected)
		slog.Debug("password mismatch", slog.Int64("user_id", user.ID))
		return nil, model.NewAuthenticationError()
	}

	s.metrics.RecordLogin(metrics.ResultSuccess)
	return user, nil
}

// CurrentUser はセッションのユーザーIDに対応するユーザーを返す。
// ユーザーが削除済みの場合はUnauthorizedErrorを返す。
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, model.NewPersistenceError(err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}
	return user, nil
}

// NormalizeEmail はメールアドレスの前後空白を除去し小文字化する。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRegistration は登録時の入力値を検証する。
func validateRegistration(email, rawPassword string) error {
	switch {
	case email == "":
		return model.NewValidationError("Email is required")
	case !strings.Contains(email, "@") || !strings.Contains(email, "."):
		return model.NewValidationError("Please enter a valid email address")
	case rawPassword == "":
		return model.NewValidationError("Password is required")
	case utf8.RuneCountInString(rawPassword) < minPasswordLength:
		return model.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	case len(rawPassword) > maxPasswordBytes:
		return model.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}
