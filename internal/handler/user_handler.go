package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/breaktime/internal/middleware"
	"github.com/hitoshi/breaktime/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Dashboard はホーム画面用のユーザー情報と当日の統計を返す。
	Dashboard(ctx context.Context, userID int64) (*model.Dashboard, error)
	// Withdraw はユーザーの退会処理を実行する。
	// タイマーセッションとユーザーを一括削除する。
	Withdraw(ctx context.Context, userID int64) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
	cookie  AuthHandlerConfig // Cookieクリア時の属性
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, cookie AuthHandlerConfig) *UserHandler {
	return &UserHandler{
		service: service,
		cookie:  cookie,
	}
}

type breakSettingsResponse struct {
	StudyBreak             int `json:"study_break"`
	ShortBreak             int `json:"short_break"`
	LongBreak              int `json:"long_break"`
	SessionsUntilLongBreak int `json:"sessions_until_long_break"`
}

type dashboardResponse struct {
	User             userResponse          `json:"user"`
	UserNumber       int                   `json:"user_number"`
	TotalUsers       int                   `json:"total_users"`
	IsAdmin          bool                  `json:"is_admin"`
	BreakSettings    breakSettingsResponse `json:"break_settings"`
	TotalBreaksToday int                   `json:"total_breaks_today"`
	TotalWorkTime    int                   `json:"total_work_time"`
}

// Dashboard はホーム画面用の情報を返す。
// GET /api/dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	d, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		if isUnauthorized(err) {
			// Cookieは有効だがユーザーが存在しない
			clearSessionCookie(w, h.cookie)
			middleware.WriteErrorResponse(w, http.StatusUnauthorized, &model.APIError{
				Code:     model.ErrCodeUnauthorized,
				Message:  "Session expired",
				Category: "auth",
			})
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		User:       toUserResponse(d.User),
		UserNumber: d.UserNumber,
		TotalUsers: d.TotalUsers,
		IsAdmin:    d.IsAdmin,
		BreakSettings: breakSettingsResponse{
			StudyBreak:             d.BreakSettings.StudyBreak,
			ShortBreak:             d.BreakSettings.ShortBreak,
			LongBreak:              d.BreakSettings.LongBreak,
			SessionsUntilLongBreak: d.BreakSettings.SessionsUntilLongBreak,
		},
		TotalBreaksToday: d.Today.BreaksCompleted,
		TotalWorkTime:    d.Today.WorkMinutes,
	})
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		if isUnauthorized(err) {
			clearSessionCookie(w, h.cookie)
		}
		handleServiceError(w, r, err)
		return
	}

	clearSessionCookie(w, h.cookie)
	w.WriteHeader(http.StatusNoContent)
}
