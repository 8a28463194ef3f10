package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Nathan-Luevano/Sift/internal/models"
)

const correlationSystemPrompt = `You are an expert digital forensics analyst. Analyze the correlation potential between a forensic event and OSINT content. Consider temporal, contextual, and semantic relationships.

Return analysis as JSON with:
- correlation_score: 0-10 rating
- relevance_score: 0-10 rating
- security_relevance: 0-10 rating
- reasoning: explanation of the correlation`

const relevanceSystemPrompt = `You are an expert digital forensics analyst. Rate how relevant the given OSINT content is to an active forensic investigation.

Return analysis as JSON with:
- correlation_score: 0-10 rating
- relevance_score: 0-10 rating
- security_relevance: 0-10 rating
- reasoning: explanation of the relevance`

// maxPromptContent bounds how much OSINT content is sent per request.
const maxPromptContent = 2000

var jsonBlob = regexp.MustCompile(`(?s)\{.*\}`)

// OllamaClient implements Analyzer against an Ollama-compatible chat API.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// NewOllamaClient creates a client for the given endpoint. timeout bounds
// each analysis call; a slow service degrades that call, never the batch.
func NewOllamaClient(baseURL, model string, timeout time.Duration, logger *slog.Logger) *OllamaClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaClient{
		baseURL: baseURL,
		model:   model,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// AnalyzeCorrelation asks the model to rate one (event, content) pair.
// Any transport, decode, or timeout failure returns an error; the caller
// treats that as service unavailable.
func (c *OllamaClient) AnalyzeCorrelation(ctx context.Context, event *models.ForensicEvent, content string) (*models.AnalysisResult, error) {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	prompt := fmt.Sprintf(`Forensic Event:
- File: %s
- Event Type: %s
- Timestamp: %s
- File Type: %s
- Size: %d bytes

OSINT Content:
%s

Analyze correlation potential and return as JSON:`,
		event.FilePath, event.EventType, event.Timestamp.Format(time.RFC3339),
		event.FileType, event.FileSize, content)

	return c.chat(ctx, correlationSystemPrompt, prompt)
}

// ScoreRelevance asks the model to rate one content string against the
// aggregated forensic context.
func (c *OllamaClient) ScoreRelevance(ctx context.Context, content string, fc *models.ForensicContext) (*models.AnalysisResult, error) {
	if len(content) > maxPromptContent {
		content = content[:maxPromptContent]
	}

	prompt := fmt.Sprintf(`Forensic Context:
- File types: %s
- Suspicious files: %s
- Event types: %s
- Location: %s
- Timeframe: %s
- Notes: %s

OSINT Content:
%s

Rate relevance to the investigation and return as JSON:`,
		strings.Join(fc.FileTypes, ", "), strings.Join(fc.SuspiciousFiles, ", "),
		strings.Join(fc.EventTypes, ", "), fc.Location, fc.Timeframe, fc.ContextNotes, content)

	return c.chat(ctx, relevanceSystemPrompt, prompt)
}

func (c *OllamaClient) chat(ctx context.Context, systemPrompt, prompt string) (*models.AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return parseResult(cr.Message.Content)
}

// parseResult extracts the first JSON object from the model's reply and
// decodes the fields ranking consumes. Unknown fields are ignored; a reply
// with no JSON object is treated as unavailable.
func parseResult(reply string) (*models.AnalysisResult, error) {
	blob := jsonBlob.FindString(reply)
	if blob == "" {
		return nil, fmt.Errorf("no JSON object in analysis reply")
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}

	result.CorrelationScore = clampScore(result.CorrelationScore)
	result.RelevanceScore = clampScore(result.RelevanceScore)
	result.SecurityRelevance = clampScore(result.SecurityRelevance)
	return &result, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
