package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/breaktime/internal/middleware"
	"github.com/hitoshi/breaktime/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, email, rawPassword string) (*model.User, error)
	Authenticate(ctx context.Context, email, rawPassword string) (*model.User, error)
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// TokenIssuer はセッショントークンを発行するインターフェース。
// auth.TokenManagerが実装する。
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はアカウント登録・ログイン関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	tokens  TokenIssuer
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, tokens TokenIssuer, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		config:  config,
	}
}

// registerRequest はアカウント登録リクエスト。
// confirmは省略可能で、指定された場合のみpasswordと一致するか検証する。
type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Confirm  *string `json:"confirm"`
}

// loginRequest はログインリクエスト。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// authSuccessResponse は登録・ログイン成功時のレスポンス。
type authSuccessResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

// Register はアカウントを登録し、そのままログイン状態にする。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Confirm != nil && *req.Confirm != req.Password {
		middleware.WriteErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("Passwords do not match"))
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusCreated, authSuccessResponse{Success: true, User: toUserResponse(user)})
}

// Login はメールアドレスとパスワードで認証する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if !h.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, authSuccessResponse{Success: true, User: toUserResponse(user)})
}

// Logout はセッションCookieを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		// 退会済みユーザーのトークンはCookieごと無効化する
		if isUnauthorized(err) {
			h.clearSessionCookie(w)
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// startSession はセッショントークンを発行してCookieに設定する。
// 失敗時は500レスポンスを書き込みfalseを返す。
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) bool {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue session token",
			slog.Int64("user_id", user.ID),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

// clearSessionCookie はセッションCookieをクリアする。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	clearSessionCookie(w, h.config)
}

func clearSessionCookie(w http.ResponseWriter, config AuthHandlerConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email}
}
