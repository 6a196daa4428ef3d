package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fta/models"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	httpTimeout = 60 * time.Second
	maxRetries  = 3
)

// GeminiSummarizer asks a Gemini model for the most discussed topics
type GeminiSummarizer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	backoff func() backoff.BackOff
}

func NewGemini(apiKey string, model string) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: httpTimeout},
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 10 * time.Second
			return b
		},
	}
}

// Summarize returns NoPostsMessage without calling the API when there is
// nothing to summarize
func (g *GeminiSummarizer) Summarize(ctx context.Context, posts []models.Post) (string, error) {
	if len(posts) == 0 {
		return NoPostsMessage, nil
	}
	if g.apiKey == "" {
		return "", errors.New("missing Gemini API key: set GEMINI_API_KEY")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.client,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("could not create Gemini client: %w", err)
	}

	prompt := FormatPrompt(posts)

	var summary string
	attempt := 0
	operation := func() error {
		attempt++
		text, err := g.generate(ctx, client, prompt)
		if err != nil {
			log.WithFields(log.Fields{
				"attempt": attempt,
				"model":   g.model,
				"error":   err,
			}).Warn("Gemini request failed")
			return err
		}
		summary = text
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(g.backoff(), maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return "", fmt.Errorf("could not summarize posts: %w", err)
	}
	return summary, nil
}

func (g *GeminiSummarizer) generate(ctx context.Context, client *genai.Client, prompt string) (string, error) {
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		// Client errors will not go away by retrying, except rate limiting
		if code := statusCode(err); code >= 400 && code < 500 && code != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", backoff.Permanent(errors.New("empty candidates in response"))
	}
	return resp.Text(), nil
}

// statusCode returns the HTTP status of an API error, or 0
func statusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}
