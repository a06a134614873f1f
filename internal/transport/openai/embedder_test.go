package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterChatMetrics()
	os.Exit(m.Run())
}

// stubProvider spins up a fake OpenAI-compatible endpoint and returns an
// Embedder pointed at it.
func stubProvider(t *testing.T, handler http.HandlerFunc) *Embedder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewEmbedder(&Config{
		APIKey:   "test-key",
		BaseURL:  server.URL,
		Model:    "test-model",
		Provider: "test",
		Logger:   zap.NewNop(),
	})
}

func writeEmbeddingPayload(w http.ResponseWriter, vec []float32, tokens int) {
	payload := map[string]any{
		"object": "list",
		"model":  "test-model",
		"data": []map[string]any{
			{"object": "embedding", "embedding": vec, "index": 0},
		},
		"usage": map[string]int{
			"prompt_tokens": tokens,
			"total_tokens":  tokens,
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "server_error"},
	})
}

func TestEmbed_ReturnsVectorAndUsage(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3, 0.4}

	emb := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s, want /embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", got)
		}
		writeEmbeddingPayload(w, want, 42)
	})

	result, err := emb.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(result.Embedding) != len(want) {
		t.Fatalf("got %d dimensions, want %d", len(result.Embedding), len(want))
	}
	for i, v := range result.Embedding {
		if v != want[i] {
			t.Errorf("vec[%d] = %f, want %f", i, v, want[i])
		}
	}
	if result.PromptTokens != 42 || result.TotalTokens != 42 {
		t.Errorf("usage = %d/%d tokens, want 42/42", result.PromptTokens, result.TotalTokens)
	}
}

func TestEmbed_SendsDimensionsWhenConfigured(t *testing.T) {
	var gotDims float64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotDims, _ = body["dimensions"].(float64)
		writeEmbeddingPayload(w, []float32{0.5}, 3)
	}))
	defer server.Close()

	emb := NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "test-model",
		Dimensions: 256,
		Provider:   "test",
		Logger:     zap.NewNop(),
	})

	if _, err := emb.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if gotDims != 256 {
		t.Errorf("request dimensions = %v, want 256", gotDims)
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	emb := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	})

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
}

func TestEmbed_ServerError(t *testing.T) {
	emb := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusBadGateway, "upstream unavailable")
	})

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("err = %v, want ErrEmbeddingProviderError", err)
	}
	if errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("502 must not map to ErrRateLimited, got %v", err)
	}
}

func TestEmbed_RateLimited(t *testing.T) {
	emb := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusTooManyRequests, "rate limit exceeded")
	})

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func TestParseAPIError_GatewayDetailField(t *testing.T) {
	reqErr := &openai.RequestError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Body:           []byte(`{"detail":"quota exhausted for project"}`),
		Err:            fmt.Errorf("status 429"),
	}

	err := parseAPIError(reqErr)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if !strings.Contains(err.Error(), "quota exhausted for project") {
		t.Errorf("error %q should carry the gateway detail message", err)
	}
}

func TestHealthCheck(t *testing.T) {
	emb := stubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %s, want /models", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	})

	if err := emb.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck: %v", err)
	}
}
