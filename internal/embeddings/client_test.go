package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestServer(t *testing.T, dim int, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)

		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}

		resp := EmbeddingResponse{Model: req.Model}
		for i := range req.Input {
			vec := make([]float32, dim)
			vec[i%dim] = 1
			resp.Data = append(resp.Data, EmbeddingData{Index: i, Embedding: vec})
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClientEmbedText(t *testing.T) {
	var requests int32
	srv := newTestServer(t, 4, &requests)
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	vec, err := client.EmbedText(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("EmbedText: %v", err)
	}
	if len(vec) != 4 {
		t.Errorf("expected 4 dimensions, got %d", len(vec))
	}
	if requests != 1 {
		t.Errorf("expected 1 request, got %d", requests)
	}
}

func TestClientBatching(t *testing.T) {
	var requests int32
	srv := newTestServer(t, 8, &requests)
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithBatchSize(2))
	texts := []string{"a", "b", "c", "d", "e"}
	vecs, err := client.EmbedTexts(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedTexts: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("expected %d embeddings, got %d", len(texts), len(vecs))
	}
	for i, vec := range vecs {
		if vec == nil {
			t.Errorf("embedding %d is nil", i)
		}
	}
	// 5 texts at batch size 2 means 3 requests
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.EmbedText(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from non-200 response")
	}
}

func TestDimension(t *testing.T) {
	if d := Dimension(ModelMiniLML6); d != 384 {
		t.Errorf("expected 384, got %d", d)
	}
	if d := Dimension(ModelTextEmbedding3Small); d != 1536 {
		t.Errorf("expected 1536, got %d", d)
	}
}
