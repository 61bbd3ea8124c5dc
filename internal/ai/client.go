package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	textModel  = "gemini-3-flash-preview"
	imageModel = "gemini-2.5-flash-image"
)

// ErrNoAPIKey is returned when the client is used without a configured key.
var ErrNoAPIKey = errors.New("generative API key is not configured")

// Client talks to the generative-language API. All of its results are
// advisory: callers are expected to fall back to placeholders on failure.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a generative API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateSummary asks the model for a short summary of blog content.
func (c *Client) GenerateSummary(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize this blog content into 2 engaging sentences: %s", text)

	resp, err := c.generate(ctx, textModel, prompt)
	if err != nil {
		return "", err
	}

	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", errors.New("model returned no text")
}

// GenerateImage asks the model for a cover image and returns it as a data URL.
// An empty result with a nil error means the model produced no image.
func (c *Client) GenerateImage(ctx context.Context, subject string) (string, error) {
	prompt := fmt.Sprintf("Professional editorial blog cover for: %s. Minimalist, dark background, 4k.", subject)

	resp, err := c.generate(ctx, imageModel, prompt)
	if err != nil {
		return "", err
	}

	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil {
				return fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data), nil
			}
		}
	}
	return "", nil
}

func (c *Client) generate(ctx context.Context, model, prompt string) (*generateResponse, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generative API request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generative API returned status %d", httpResp.StatusCode)
	}

	var resp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}
