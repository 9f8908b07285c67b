package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/breaktime/internal/history"
	"github.com/hitoshi/breaktime/internal/model"
)

type mockHistoryService struct {
	appendFn func(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error)
	listFn   func(ctx context.Context, userID int64, limit int) (*history.ListResult, error)
}

func (m *mockHistoryService) Append(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error) {
	if m.appendFn != nil {
		return m.appendFn(ctx, userID, in)
	}
	return nil, nil
}

func (m *mockHistoryService) List(ctx context.Context, userID int64, limit int) (*history.ListResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit)
	}
	return &history.ListResult{}, nil
}

func TestSessionHandler_AppendSession_Success(t *testing.T) {
	completedAt := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	var gotUserID int64
	var gotInput history.AppendInput
	svc := &mockHistoryService{
		appendFn: func(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error) {
			gotUserID, gotInput = userID, in
			return &model.TimerSession{
				ID:          10,
				UserID:      userID,
				SessionType: *in.SessionType,
				Duration:    *in.Duration,
				CompletedAt: completedAt,
			}, nil
		},
	}
	tokyo := time.FixedZone("JST", 9*60*60)
	h := NewSessionHandler(svc, tokyo)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"session_type":"work","duration":25}`)), 1)
	w := httptest.NewRecorder()

	h.AppendSession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if gotUserID != 1 {
		t.Errorf("userID = %d, want 1", gotUserID)
	}
	if gotInput.CompletedAt != nil {
		t.Error("CompletedAt should be nil when omitted")
	}

	var body appendSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success {
		t.Error("success should be true")
	}
	s := body.Session
	if s.ID != 10 || s.SessionType != "work" || s.Duration != 25 {
		t.Errorf("session = %+v", s)
	}
	// 表示タイムゾーン（+09:00）で日付が繰り上がる
	if s.CompletedAt != "2024-03-02T08:30:00+09:00" {
		t.Errorf("completed_at = %q", s.CompletedAt)
	}
	if s.Date != "2024-03-02" {
		t.Errorf("date = %q, want %q", s.Date, "2024-03-02")
	}
	if s.Time != "08:30" {
		t.Errorf("time = %q, want %q", s.Time, "08:30")
	}
}

func TestSessionHandler_AppendSession_PassesCompletedAt(t *testing.T) {
	var gotInput history.AppendInput
	svc := &mockHistoryService{
		appendFn: func(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error) {
			gotInput = in
			return &model.TimerSession{ID: 1, UserID: userID, SessionType: *in.SessionType, Duration: *in.Duration, CompletedAt: *in.CompletedAt}, nil
		},
	}
	h := NewSessionHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"session_type":"short","duration":5,"completed_at":"2024-01-02T10:00:00Z"}`)), 1)
	w := httptest.NewRecorder()

	h.AppendSession(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if gotInput.CompletedAt == nil {
		t.Fatal("CompletedAt should be passed through")
	}
	want := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	if !gotInput.CompletedAt.Equal(want) {
		t.Errorf("CompletedAt = %v, want %v", gotInput.CompletedAt, want)
	}
}

func TestSessionHandler_AppendSession_MissingFields_ReturnsBadRequest(t *testing.T) {
	svc := &mockHistoryService{
		appendFn: func(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error) {
			if in.Duration == nil {
				return nil, model.NewValidationError("session_type and duration are required")
			}
			return nil, errors.New("unexpected")
		},
	}
	h := NewSessionHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"session_type":"work"}`)), 1)
	w := httptest.NewRecorder()

	h.AppendSession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	body := decodeErrorBody(t, resp)
	if body.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeValidation)
	}
}

func TestSessionHandler_AppendSession_NoUserID_ReturnsUnauthorized(t *testing.T) {
	h := NewSessionHandler(&mockHistoryService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"session_type":"work","duration":25}`))
	w := httptest.NewRecorder()

	h.AppendSession(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestSessionHandler_AppendSession_PersistenceError(t *testing.T) {
	svc := &mockHistoryService{
		appendFn: func(ctx context.Context, userID int64, in history.AppendInput) (*model.TimerSession, error) {
			return nil, model.NewPersistenceError(errors.New("disk full"))
		},
	}
	h := NewSessionHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodPost, "/api/sessions",
		strings.NewReader(`{"session_type":"work","duration":25}`)), 1)
	w := httptest.NewRecorder()

	h.AppendSession(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
	body := decodeErrorBody(t, resp)
	if strings.Contains(body.Error, "disk full") {
		t.Errorf("error message leaks internal detail: %q", body.Error)
	}
}

func TestSessionHandler_ListSessions_Success(t *testing.T) {
	base := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	var gotLimit int
	svc := &mockHistoryService{
		listFn: func(ctx context.Context, userID int64, limit int) (*history.ListResult, error) {
			gotLimit = limit
			return &history.ListResult{
				Sessions: []*model.TimerSession{
					{ID: 2, UserID: userID, SessionType: "short", Duration: 5, CompletedAt: base.Add(time.Hour)},
					{ID: 1, UserID: userID, SessionType: "work", Duration: 25, CompletedAt: base},
				},
				Total: 7,
			}, nil
		},
	}
	h := NewSessionHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/sessions?limit=2", nil), 1)
	w := httptest.NewRecorder()

	h.ListSessions(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if gotLimit != 2 {
		t.Errorf("limit = %d, want 2", gotLimit)
	}

	var body listSessionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Total != 7 {
		t.Errorf("total = %d, want 7", body.Total)
	}
	if len(body.Sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(body.Sessions))
	}
	if body.Sessions[0].ID != 2 || body.Sessions[0].Time != "10:00" {
		t.Errorf("sessions[0] = %+v", body.Sessions[0])
	}
}

func TestSessionHandler_ListSessions_DefaultLimit(t *testing.T) {
	var gotLimit int
	svc := &mockHistoryService{
		listFn: func(ctx context.Context, userID int64, limit int) (*history.ListResult, error) {
			gotLimit = limit
			return &history.ListResult{}, nil
		},
	}
	h := NewSessionHandler(svc, nil)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/api/sessions", nil), 1)
	w := httptest.NewRecorder()

	h.ListSessions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotLimit != history.DefaultLimit {
		t.Errorf("limit = %d, want %d", gotLimit, history.DefaultLimit)
	}
	// 0件でもsessionsはnullではなく空配列
	if !strings.Contains(w.Body.String(), `"sessions":[]`) {
		t.Errorf("body = %s, want empty sessions array", w.Body.String())
	}
}

func TestSessionHandler_ListSessions_InvalidLimit_ReturnsBadRequest(t *testing.T) {
	called := false
	svc := &mockHistoryService{
		listFn: func(ctx context.Context, userID int64, limit int) (*history.ListResult, error) {
			called = true
			return &history.ListResult{}, nil
		},
	}
	h := NewSessionHandler(svc, nil)

	for _, raw := range []string{"abc", "0", "-3"} {
		req := withUserID(httptest.NewRequest(http.MethodGet, "/api/sessions?limit="+raw, nil), 1)
		w := httptest.NewRecorder()

		h.ListSessions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want %d", raw, w.Code, http.StatusBadRequest)
		}
	}
	if called {
		t.Error("service should not be called for invalid limit")
	}
}
