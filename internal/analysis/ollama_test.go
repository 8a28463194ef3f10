package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

func TestParseResult(t *testing.T) {
	t.Run("extracts embedded json", func(t *testing.T) {
		reply := `Sure, here is the analysis:
{"correlation_score": 8, "relevance_score": 6.5, "security_relevance": 9, "reasoning": "matches dropped file"}
Let me know if you need more.`

		result, err := parseResult(reply)
		require.NoError(t, err)
		assert.InDelta(t, 8, result.CorrelationScore, 1e-9)
		assert.InDelta(t, 6.5, result.RelevanceScore, 1e-9)
		assert.InDelta(t, 9, result.SecurityRelevance, 1e-9)
		assert.Equal(t, "matches dropped file", result.Reasoning)
	})

	t.Run("clamps out of range scores", func(t *testing.T) {
		result, err := parseResult(`{"correlation_score": 15, "relevance_score": -3}`)
		require.NoError(t, err)
		assert.InDelta(t, 10, result.CorrelationScore, 1e-9)
		assert.Zero(t, result.RelevanceScore)
	})

	t.Run("no json object", func(t *testing.T) {
		_, err := parseResult("I cannot analyze this.")
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseResult(`{"correlation_score": }`)
		assert.Error(t, err)
	})
}

func TestOllamaClientAnalyzeCorrelation(t *testing.T) {
	event := &models.ForensicEvent{
		Timestamp: models.NewFlexTime(time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)),
		FilePath:  `C:\Users\victim\Downloads\evil.exe`,
		EventType: "created",
		FileType:  "executable",
		FileSize:  1024,
	}

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/chat", r.URL.Path)

			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "test-model", req.Model)
			require.Len(t, req.Messages, 2)
			assert.Contains(t, req.Messages[1].Content, "evil.exe")

			json.NewEncoder(w).Encode(chatResponse{
				Message: chatMessage{
					Role:    "assistant",
					Content: `{"correlation_score": 7, "relevance_score": 5, "security_relevance": 8, "reasoning": "temporal match"}`,
				},
			})
		}))
		defer srv.Close()

		client := NewOllamaClient(srv.URL, "test-model", 5*time.Second, nil)
		result, err := client.AnalyzeCorrelation(context.Background(), event, "osint content")
		require.NoError(t, err)
		assert.InDelta(t, 7, result.CorrelationScore, 1e-9)
		assert.Equal(t, "temporal match", result.Reasoning)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewOllamaClient(srv.URL, "test-model", 5*time.Second, nil)
		_, err := client.AnalyzeCorrelation(context.Background(), event, "osint content")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		client := NewOllamaClient(srv.URL, "test-model", 20*time.Millisecond, nil)
		_, err := client.AnalyzeCorrelation(context.Background(), event, "osint content")
		assert.Error(t, err)
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewOllamaClient("http://127.0.0.1:1", "test-model", time.Second, nil)
		_, err := client.AnalyzeCorrelation(context.Background(), event, "osint content")
		assert.Error(t, err)
	})
}

func TestOllamaClientScoreRelevance(t *testing.T) {
	fc := &models.ForensicContext{
		SuspiciousFiles: []string{`C:\Users\victim\Downloads\evil.exe`},
		FileTypes:       []string{"executable"},
		Location:        "London",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "evil.exe")
		assert.Contains(t, req.Messages[1].Content, "London")

		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{
				Role:    "assistant",
				Content: `{"relevance_score": 6, "reasoning": "mentions the dropped file"}`,
			},
		})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "test-model", 5*time.Second, nil)
	result, err := client.ScoreRelevance(context.Background(), "osint content", fc)
	require.NoError(t, err)
	assert.InDelta(t, 6, result.RelevanceScore, 1e-9)
	assert.Equal(t, "mentions the dropped file", result.Reasoning)
}
