package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダー名。
const RequestIDHeader = "X-Request-ID"

var requestInfoContextKey = contextKey("request_info")

// requestInfo はリクエスト単位のログ属性。
// 内側のミドルウェアが値を書き込み、ロギングミドルウェアが最後に読み出す。
type requestInfo struct {
	requestID string
	userID    int64
}

func requestInfoFromContext(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoContextKey).(*requestInfo)
	return info
}

// RequestIDFromContext はリクエストIDを返す。ロギングミドルウェア外では空文字。
func RequestIDFromContext(ctx context.Context) string {
	if info := requestInfoFromContext(ctx); info != nil {
		return info.requestID
	}
	return ""
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、request_id、user_id（認証済みの場合）を含む。
// リクエストIDはX-Request-IDヘッダーがUUIDであれば引き継ぎ、なければ生成してレスポンスに付与する。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			info := &requestInfo{requestID: requestID}
			ctx := context.WithValue(r.Context(), requestInfoContextKey, info)

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
				slog.String("request_id", requestID),
			}

			// 認証済みの場合はユーザーIDを追加
			if info.userID > 0 {
				attrs = append(attrs, slog.Int64("user_id", info.userID))
			}

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http_request", attrs...)
		})
	}
}
