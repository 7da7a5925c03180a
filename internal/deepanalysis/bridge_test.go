package deepanalysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func verdictServer(t *testing.T, verdictJSON string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": verdictJSON}},
			"usage":   map[string]int{"input_tokens": 1200, "output_tokens": 80},
		})
	}))
}

func newTestBridge(url string) *Bridge {
	return NewBridge(Config{APIKey: "test-key", BaseURL: url, Timeout: 5 * time.Second})
}

func TestNewBridgeDefaults(t *testing.T) {
	b := NewBridge(Config{APIKey: "test-key"})
	if b.baseURL != DefaultConfig().BaseURL {
		t.Errorf("baseURL = %q", b.baseURL)
	}
	if b.model != DefaultConfig().Model {
		t.Errorf("model = %q", b.model)
	}
	if b.maxRetries != DefaultConfig().MaxRetries {
		t.Errorf("maxRetries = %d, want %d", b.maxRetries, DefaultConfig().MaxRetries)
	}
	if b.httpClient.Timeout != DefaultConfig().Timeout {
		t.Errorf("timeout = %v", b.httpClient.Timeout)
	}
}

func TestAssess(t *testing.T) {
	srv := verdictServer(t, `{"is_high_risk": true, "risk_type": "safety", "risk_score": 9.0,
		"explanation": "instructs harmful behavior", "recommendation": "remove the directive"}`)
	defer srv.Close()

	v, err := newTestBridge(srv.URL).Assess(context.Background(), Request{
		SystemText: "system", UserText: "user",
	})
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if !v.IsHighRisk || v.RiskType != RiskTypeSafety || v.RiskScore != 9.0 {
		t.Errorf("unexpected verdict: %+v", v)
	}
	if v.InputTokens != 1200 || v.OutputTokens != 80 {
		t.Errorf("token usage not carried: %+v", v)
	}
	if v.CostEstimate <= 0 {
		t.Error("cost estimate missing")
	}
}

func TestAssessMissingFields(t *testing.T) {
	cases := map[string]string{
		"no is_high_risk": `{"risk_type": "none", "risk_score": 1.0}`,
		"no risk_score":   `{"is_high_risk": false, "risk_type": "none"}`,
		"bad risk_type":   `{"is_high_risk": false, "risk_type": "mystery", "risk_score": 1.0}`,
		"score range":     `{"is_high_risk": false, "risk_type": "none", "risk_score": 42}`,
		"not json":        `the model rambled instead`,
	}
	for name, body := range cases {
		srv := verdictServer(t, body)
		_, err := newTestBridge(srv.URL).Assess(context.Background(), Request{SystemText: "s"})
		srv.Close()
		if err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestAssessRetriesTransientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": `{"is_high_risk": false, "risk_type": "none", "risk_score": 0}`}},
		})
	}))
	defer srv.Close()

	v, err := newTestBridge(srv.URL).Assess(context.Background(), Request{SystemText: "s"})
	if err != nil {
		t.Fatalf("Assess after retry: %v", err)
	}
	if v.RiskType != RiskTypeNone {
		t.Errorf("unexpected verdict: %+v", v)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestAssessGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestBridge(srv.URL).Assess(context.Background(), Request{SystemText: "s"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls (1 retry), got %d", calls)
	}
}

func TestAssessContextCancelled(t *testing.T) {
	srv := verdictServer(t, `{"is_high_risk": false, "risk_type": "none", "risk_score": 0}`)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestBridge(srv.URL).Assess(ctx, Request{SystemText: "s"}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
