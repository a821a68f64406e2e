package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/pdf-archivist/internal/core/domain"
	"github.com/kirillkom/pdf-archivist/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

type Classifier struct {
	client         *Client
	breaker        *resilience.Breaker
	categories     []string
	maxPromptChars int
	logger         *slog.Logger
}

func NewClassifier(client *Client, breaker *resilience.Breaker, categories []string, maxPromptChars int, logger *slog.Logger) *Classifier {
	return &Classifier{
		client:         client,
		breaker:        breaker,
		categories:     categories,
		maxPromptChars: maxPromptChars,
		logger:         logger,
	}
}

// Classify sends the extracted text to the inference endpoint and parses the
// fixed four-field record out of the response. The call is made exactly once;
// a failed classification fails the document for this run.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	if len(text) > c.maxPromptChars {
		c.logger.Warn("prompt_text_truncated", "limit", c.maxPromptChars, "length", len(text))
	}
	prompt := buildClassificationPrompt(text, c.categories, c.maxPromptChars)

	var payload string
	call := func() error {
		out, err := c.client.generateJSON(ctx, prompt)
		payload = out
		return err
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(call)
	} else {
		err = call()
	}
	if err != nil {
		return domain.Classification{}, domain.WrapError(domain.ErrClassificationTransport, "classify document", err)
	}

	result, err := parseClassification(payload)
	if err != nil {
		c.logger.Error("classification_parse_failed", "error", err, "payload", truncateForLog(payload))
		return domain.Classification{}, domain.WrapError(domain.ErrClassificationParse, "classify document", err)
	}
	return result, nil
}

var requiredKeys = []string{"date", "sender", "title", "category"}

// parseClassification tries a strict parse of the model payload first and
// falls back to the first brace-delimited substring when the model wrapped
// the object in prose. Both paths require all four keys to be present.
func parseClassification(payload string) (domain.Classification, error) {
	result, directErr := decodeClassification(payload)
	if directErr == nil {
		return result, nil
	}

	extracted := extractJSONObject(payload)
	if extracted == payload {
		return domain.Classification{}, directErr
	}
	result, fallbackErr := decodeClassification(extracted)
	if fallbackErr != nil {
		return domain.Classification{}, fmt.Errorf("%w; recovered object: %w", directErr, fallbackErr)
	}
	return result, nil
}

func decodeClassification(payload string) (domain.Classification, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return domain.Classification{}, fmt.Errorf("parse classification json: %w", err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return domain.Classification{}, fmt.Errorf("classification json missing key %q", key)
		}
	}

	var result domain.Classification
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.Classification{}, fmt.Errorf("decode classification fields: %w", err)
	}
	return result, nil
}

// extractJSONObject returns the greedy first-{ to last-} substring, or the
// input unchanged when no object-shaped span exists.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func truncateForLog(s string) string {
	if len(s) > 512 {
		return s[:512]
	}
	return s
}
