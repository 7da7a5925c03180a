package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/alignment"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/config"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/contradiction"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/embeddings/embtest"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/parser"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/quality"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/internal/verbosity"
	"github.com/Shiva-Subramaniam-NR/llm-prompt-analyzer/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	provider := embeddings.NewProvider(embtest.NewEncoder())
	cfg := config.Default()
	ctx := context.Background()

	extractor, err := parser.NewExtractor(ctx, provider, &cfg.Parser)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	detector, err := contradiction.NewDetector(ctx, provider, &cfg.Contradiction)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	orchestrator := quality.NewOrchestrator(cfg, extractor, detector,
		alignment.NewEvaluator(provider, &cfg.Alignment),
		verbosity.NewAnalyzer(&cfg.Verbosity),
		nil)
	return NewServer(orchestrator)
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t)

	body := `{"system_text": "You are a support agent. You must always verify the customer's account first.", "user_text": "Help me with my bill"}`
	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	var report models.QualityReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.ID == "" {
		t.Error("report has no id")
	}
	if report.OverallScore < 0 || report.OverallScore > 10 {
		t.Errorf("overall score %f out of range", report.OverallScore)
	}
	if report.QualityRating == "" {
		t.Error("report has no rating")
	}
}

func TestHandleAnalyzeShortPrompt(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader(`{"system_text": "hi"}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "10 characters") {
		t.Errorf("error should name the length constraint, got %s", rec.Body.String())
	}
}

func TestHandleAnalyzeBadJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
