// Package gemini wraps the Google generative AI SDK behind the two
// invocation modes the services need: free text and structured JSON. The
// wrapper never hides a contract violation — structured responses that do not
// parse are reported as *ContractViolation so callers can substitute their
// own fallback objects.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by invocation methods when the client was
// built without an API key.
var ErrNotConfigured = errors.New("gemini: model not configured, set GOOGLE_API_KEY")

// ContractViolation reports a structured-mode response that was not valid
// JSON. Raw carries the model output for logging.
type ContractViolation struct {
	Raw string
	Err error
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("gemini: structured response is not valid JSON: %v", e.Err)
}

func (e *ContractViolation) Unwrap() error { return e.Err }

// MalformedOutput marks the error as a structured-output contract violation.
// Callers detect it through errors.As against an interface with this method.
func (e *ContractViolation) MalformedOutput() bool { return true }

// Client calls Gemini with one model for conversational text and one for
// structured document analysis.
type Client struct {
	api           *genai.Client
	chatModel     string
	analysisModel string
}

// NewClient builds a Client. An empty API key yields an unconfigured client
// whose invocation methods return ErrNotConfigured; the process still starts
// so that model-independent endpoints keep working.
func NewClient(ctx context.Context, apiKey, chatModel, analysisModel string) (*Client, error) {
	if strings.TrimSpace(chatModel) == "" {
		return nil, errors.New("gemini: chat model must not be empty")
	}
	if strings.TrimSpace(analysisModel) == "" {
		return nil, errors.New("gemini: analysis model must not be empty")
	}
	c := &Client{chatModel: chatModel, analysisModel: analysisModel}
	if strings.TrimSpace(apiKey) == "" {
		return c, nil
	}
	api, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c.api = api
	return c, nil
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.api != nil }

// Close releases the underlying API connection.
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	return c.api.Close()
}

// GenerateText sends a prompt to the chat model and returns the response
// text.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", ErrNotConfigured
	}
	model := c.api.GenerativeModel(c.chatModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	return responseText(resp)
}

// GenerateJSON sends a prompt to the analysis model with a JSON response MIME
// type and decodes the response into a generic object. A response that fails
// to decode is returned as *ContractViolation.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	if c.api == nil {
		return nil, ErrNotConfigured
	}
	model := c.api.GenerativeModel(c.analysisModel)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &ContractViolation{Raw: text, Err: err}
	}
	return out, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates in response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
