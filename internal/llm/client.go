package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrGeneration is wrapped by every error the client returns.
var ErrGeneration = errors.New("generation failed")

// Client is a client for the Gemini generateContent API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new Gemini client. The http.Client has no timeout;
// callers bound a call through its context.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{},
	}
}

// Generate sends a single prompt and returns the generated text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, c.modelURL("generateContent"), prompt, "application/json")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %w", ErrGeneration, err)
	}

	if genResp.PromptFeedback != nil && genResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked: %s", ErrGeneration, genResp.PromptFeedback.BlockReason)
	}
	if len(genResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates returned", ErrGeneration)
	}

	text := genResp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response (finish reason %s)", ErrGeneration, genResp.Candidates[0].FinishReason)
	}
	return text, nil
}

// StreamGenerate sends a single prompt and reads the answer as Server-Sent Events,
// calling callback for every non-empty text chunk in arrival order. A stream that
// ends without any text is an error.
func (c *Client) StreamGenerate(ctx context.Context, prompt string, callback func(chunk string) error) error {
	resp, err := c.post(ctx, c.modelURL("streamGenerateContent")+"?alt=sse", prompt, "text/event-stream")
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	const dataPrefix = "data: "
	sent := false
	finishReason := ""

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		var event GenerateResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, dataPrefix)), &event); err != nil {
			// Skip malformed events
			continue
		}

		if event.PromptFeedback != nil && event.PromptFeedback.BlockReason != "" {
			return fmt.Errorf("%w: prompt blocked: %s", ErrGeneration, event.PromptFeedback.BlockReason)
		}

		if len(event.Candidates) > 0 && event.Candidates[0].FinishReason != "" {
			finishReason = event.Candidates[0].FinishReason
		}

		if chunk := event.Text(); chunk != "" {
			if err := callback(chunk); err != nil {
				return fmt.Errorf("%w: callback error: %w", ErrGeneration, err)
			}
			sent = true
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: failed to read stream: %w", ErrGeneration, err)
	}

	if !sent {
		return fmt.Errorf("%w: empty response (finish reason %s)", ErrGeneration, finishReason)
	}
	return nil
}

// GetModel fetches metadata for the configured model. It costs no tokens and is used
// as a reachability and credential check.
func (c *Client) GetModel(ctx context.Context) (ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(""), nil)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("%w: failed to create request: %w", ErrGeneration, err)
	}
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("%w: failed to send request: %w", ErrGeneration, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return ModelInfo{}, fmt.Errorf("%w: bad status %d: %s", ErrGeneration, resp.StatusCode, string(raw))
	}

	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ModelInfo{}, fmt.Errorf("%w: failed to decode model: %w", ErrGeneration, err)
	}
	return info, nil
}

func (c *Client) post(ctx context.Context, endpoint, prompt, accept string) (*http.Response, error) {
	payload := GenerateRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: prompt}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %w", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrGeneration, err)
	}

	req.Header.Set("x-goog-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", ErrGeneration, err)
	}

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: bad status %d: %s", ErrGeneration, resp.StatusCode, string(raw))
	}

	return resp, nil
}

// modelURL builds {base}/v1beta/models/{model}[:{method}].
func (c *Client) modelURL(method string) string {
	u := fmt.Sprintf("%s/v1beta/models/%s", c.BaseURL, url.PathEscape(c.Model))
	if method != "" {
		u += ":" + method
	}
	return u
}
