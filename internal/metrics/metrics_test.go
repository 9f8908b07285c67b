package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// counterValues はメトリクス名に対応するラベル値→カウンタ値のマップを返す。
func counterValues(t *testing.T, reg *prometheus.Registry, name string) map[string]float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var mf *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == name {
			mf = f
		}
	}
	if mf == nil {
		t.Fatalf("%s metric not found", name)
	}

	values := make(map[string]float64)
	for _, m := range mf.GetMetric() {
		values[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	return values
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordRegistration_CountsByResult は登録結果がラベル別に集計されることを検証する。
func TestRecordRegistration_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration(ResultSuccess)
	c.RecordRegistration(ResultSuccess)
	c.RecordRegistration(ResultRejected)

	got := counterValues(t, reg, "breaktime_registrations_total")
	if got[ResultSuccess] != 2 {
		t.Errorf("registrations_total{result=success} = %v, want 2", got[ResultSuccess])
	}
	if got[ResultRejected] != 1 {
		t.Errorf("registrations_total{result=rejected} = %v, want 1", got[ResultRejected])
	}
}

// TestRecordLogin_CountsByResult はログイン結果がラベル別に集計されることを検証する。
func TestRecordLogin_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(ResultRejected)
	c.RecordLogin(ResultError)

	got := counterValues(t, reg, "breaktime_logins_total")
	if got[ResultRejected] != 1 || got[ResultError] != 1 {
		t.Errorf("unexpected logins_total: %v", got)
	}
}

// TestRecordTimerSession_UnknownTypesCollapse は未知の種別が"other"に集約されることを検証する。
func TestRecordTimerSession_UnknownTypesCollapse(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordTimerSession("work")
	c.RecordTimerSession("short")
	c.RecordTimerSession("custom")
	c.RecordTimerSession("pomodoro-xl")
	c.RecordTimerSession("")

	got := counterValues(t, reg, "breaktime_timer_sessions_recorded_total")
	if len(got) != 4 {
		t.Fatalf("expected 4 label values, got %v", got)
	}
	if got["work"] != 1 || got["short"] != 1 || got["custom"] != 1 {
		t.Errorf("unexpected known type counts: %v", got)
	}
	if got["other"] != 2 {
		t.Errorf("timer_sessions_recorded_total{session_type=other} = %v, want 2", got["other"])
	}
}

// TestRecordHTTPRequest_StatusAndLatency はステータス別カウンタとレイテンシが記録されることを検証する。
func TestRecordHTTPRequest_StatusAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest(200, 100*time.Millisecond)
	c.RecordHTTPRequest(200, 2*time.Second)
	c.RecordHTTPRequest(401, 10*time.Millisecond)

	got := counterValues(t, reg, "breaktime_http_requests_total")
	if got["200"] != 2 {
		t.Errorf("http_requests_total{status_code=200} = %v, want 2", got["200"])
	}
	if got["401"] != 1 {
		t.Errorf("http_requests_total{status_code=401} = %v, want 1", got["401"])
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "breaktime_http_request_duration_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 3 {
				t.Errorf("sample_count = %d, want 3", h.GetSampleCount())
			}
			// 0.1 + 2.0 + 0.01
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.11", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("breaktime_http_request_duration_seconds metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration(ResultSuccess)
	c.RecordLogin(ResultSuccess)
	c.RecordTimerSession("long")
	c.RecordHTTPRequest(201, 5*time.Millisecond)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"breaktime_registrations_total",
		"breaktime_logins_total",
		"breaktime_timer_sessions_recorded_total",
		"breaktime_http_requests_total",
		"breaktime_http_request_duration_seconds",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestNop_ImplementsRecorder はNopがRecorderとして使えることを検証する。
func TestNop_ImplementsRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordRegistration(ResultSuccess)
	r.RecordLogin(ResultError)
	r.RecordTimerSession("work")
	r.RecordHTTPRequest(500, time.Second)
}

// TestMultipleCollectors_IndependentRegistries は異なるレジストリで独立に動作することを検証する。
func TestMultipleCollectors_IndependentRegistries(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	c1 := NewCollector(reg1)
	c2 := NewCollector(reg2)

	c1.RecordLogin(ResultSuccess)
	c2.RecordLogin(ResultSuccess)
	c2.RecordLogin(ResultSuccess)

	if v := counterValues(t, reg1, "breaktime_logins_total")[ResultSuccess]; v != 1 {
		t.Errorf("reg1 logins = %v, want 1", v)
	}
	if v := counterValues(t, reg2, "breaktime_logins_total")[ResultSuccess]; v != 2 {
		t.Errorf("reg2 logins = %v, want 2", v)
	}
}
