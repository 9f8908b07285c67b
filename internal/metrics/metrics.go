// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hitoshi/breaktime/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// resultラベルの値
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected" // 入力不正・重複・認証失敗
	ResultError    = "error"    // 永続化層などの内部エラー
)

// Recorder はメトリクス記録のインターフェース。
// サービス層とミドルウェアから利用する。
type Recorder interface {
	RecordRegistration(result string)
	RecordLogin(result string)
	RecordTimerSession(sessionType string)
	RecordHTTPRequest(statusCode int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	timerSessions *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaktime_registrations_total",
			Help: "ユーザー登録の試行数（結果別）",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaktime_logins_total",
			Help: "ログインの試行数（結果別）",
		}, []string{"result"}),
		timerSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaktime_timer_sessions_recorded_total",
			Help: "記録されたタイマーセッション数（種別ごと）",
		}, []string{"session_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "breaktime_http_requests_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "breaktime_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.registrations,
		c.logins,
		c.timerSessions,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

// RecordRegistration はユーザー登録の結果を記録する。
func (c *Collector) RecordRegistration(result string) {
	c.registrations.WithLabelValues(result).Inc()
}

// RecordLogin はログインの結果を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordTimerSession は記録されたセッションを種別ごとに数える。
// session_typeは任意文字列のため、既知の種別以外は"other"に集約してカーディナリティを抑える。
func (c *Collector) RecordTimerSession(sessionType string) {
	c.timerSessions.WithLabelValues(sessionTypeLabel(sessionType)).Inc()
}

// RecordHTTPRequest はHTTPステータスコードと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

func sessionTypeLabel(sessionType string) string {
	switch sessionType {
	case model.SessionTypeWork, model.SessionTypeShort, model.SessionTypeLong, model.SessionTypeCustom:
		return sessionType
	default:
		return "other"
	}
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しないRecorder。テストやメトリクス無効時に使う。
type Nop struct{}

func (Nop) RecordRegistration(string) {}
func (Nop) RecordLogin(string) {}
func (Nop) RecordTimerSession(string) {}
func (Nop) RecordHTTPRequest(int, time.Duration) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
