package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/breaktime/internal/metrics"
	"github.com/hitoshi/breaktime/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	Logger            *slog.Logger     // nilの場合はslog.Default()
	Metrics           metrics.Recorder // nilの場合はmetrics.Nop
	MetricsHandler    http.Handler     // nilの場合は/metricsを公開しない
	HealthChecker     Pinger

	// 認証
	AuthService AuthServiceInterface
	TokenIssuer TokenIssuer
	AuthConfig  AuthHandlerConfig

	// セッション履歴
	HistoryService  HistoryServiceInterface
	DisplayLocation *time.Location

	// ユーザー
	UserService UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Logging → Metrics → Recovery → SecurityHeaders → CORS → (Session)
//
// 認証ルート（/auth/register, /auth/login, /auth/logout）とヘルスチェックは
// セッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(recorder))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.TokenIssuer, deps.AuthConfig)
	sessionHandler := NewSessionHandler(deps.HistoryService, deps.DisplayLocation)
	userHandler := NewUserHandler(deps.UserService, deps.AuthConfig)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// GET /auth/me のみセッション必須
		r.With(middleware.NewSessionMiddleware(deps.TokenVerifier)).Get("/me", authHandler.Me)
	})

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.TokenVerifier))

		// タイマーセッション履歴
		r.Route("/api/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.AppendSession)
			r.Get("/", sessionHandler.ListSessions)
		})

		r.Get("/api/dashboard", userHandler.Dashboard)

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Delete("/me", userHandler.Withdraw)
		})
	})

	return r
}
