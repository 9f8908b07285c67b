package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/breaktime/internal/history"
	"github.com/hitoshi/breaktime/internal/middleware"
	"github.com/hitoshi/breaktime/internal/model"
)

// HistoryServiceInterface はセッション履歴ハンドラーが必要とするサービスインターフェース。
type HistoryServiceInterface interface {
	Append(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error)
	List(ctx context.Context, userID int64, limit int) (*history.ListResult, error)
}

// SessionHandler はタイマーセッション記録のHTTPハンドラー。
type SessionHandler struct {
	service  HistoryServiceInterface
	location *time.Location // date/time表示用のタイムゾーン
}

// NewSessionHandler はSessionHandlerを生成する。
// locationがnilの場合はUTCで表示する。
func NewSessionHandler(service HistoryServiceInterface, location *time.Location) *SessionHandler {
	if location == nil {
		location = time.UTC
	}
	return &SessionHandler{
		service:  service,
		location: location,
	}
}

// appendSessionRequest はセッション記録リクエスト。
type appendSessionRequest struct {
	SessionType *string    `json:"session_type"`
	Duration    *int       `json:"duration"`
	CompletedAt *time.Time `json:"completed_at"`
}

// sessionResponse はセッション記録1件のレスポンス。
type sessionResponse struct {
	ID          int64  `json:"id"`
	SessionType string `json:"session_type"`
	Duration    int    `json:"duration"`
	CompletedAt string `json:"completed_at"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type appendSessionResponse struct {
	Success bool            `json:"success"`
	Session sessionResponse `json:"session"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

// AppendSession は完了したセッションを記録する。
// POST /api/sessions
func (h *SessionHandler) AppendSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req appendSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.service.Append(r.Context(), userID, history.AppendInput{
		SessionType: req.SessionType,
		Duration:    req.Duration,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, appendSessionResponse{
		Success: true,
		Session: h.toSessionResponse(session),
	})
}

// ListSessions はセッション履歴を新しい順に返す。
// GET /api/sessions?limit=N
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	limit, err := history.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(result.Sessions)),
		Total:    result.Total,
	}
	for _, s := range result.Sessions {
		resp.Sessions = append(resp.Sessions, h.toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// toSessionResponse はmodel.TimerSessionを表示用タイムゾーンでレスポンスに変換する。
func (h *SessionHandler) toSessionResponse(s *model.TimerSession) sessionResponse {
	local := s.CompletedAt.In(h.location)
	return sessionResponse{
		ID:          s.ID,
		SessionType: s.SessionType,
		Duration:    s.Duration,
		CompletedAt: local.Format(time.RFC3339),
		Date:        local.Format(time.DateOnly),
		Time:        local.Format("15:04"),
	}
}
