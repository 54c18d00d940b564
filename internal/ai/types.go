package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

type Provider interface {
	Name() string
	Ask(ctx context.Context, request CompletionRequest) (string, error)
}

type Content struct {
	Type     string `json:"type"` // "text", "image_url", "file"
	Text     string `json:"text,omitempty"`
	ImageURL struct {
		URL string `json:"url"`
	} `json:"image_url,omitzero"`
	File struct {
		Filename string `json:"filename,omitempty"`
		FileData string `json:"file_data"`
	} `json:"file,omitzero"`
}

func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

func ImageContent(url string) Content {
	c := Content{Type: ContentTypeImageURL}
	c.ImageURL.URL = url
	return c
}

func FileContent(filename, data string) Content {
	c := Content{Type: ContentTypeFile}
	c.File.Filename = filename
	c.File.FileData = data
	return c
}

type Message struct {
	Role string `json:"role"`
	// multimodal parts, sent as an array
	Content []Content `json:"-"`
	// plain text, sent as a string
	Text string `json:"-"`
}

func (m Message) HasFiles() bool {
	for _, content := range m.Content {
		if content.Type == ContentTypeFile {
			return true
		}
	}
	return false
}

func (m Message) MarshalJSON() ([]byte, error) {
	type Alias Message
	aux := &struct {
		*Alias
		Content any `json:"content"`
	}{
		Alias: (*Alias)(&m),
	}

	if len(m.Content) > 0 {
		aux.Content = m.Content
	} else {
		aux.Content = m.Text
	}

	return json.Marshal(aux)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type Alias Message
	aux := &struct {
		*Alias
		Content json.RawMessage `json:"content"`
	}{
		Alias: (*Alias)(m),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := strings.TrimSpace(string(aux.Content))
	switch {
	case raw == "" || raw == "null":
	case strings.HasPrefix(raw, "["):
		return json.Unmarshal(aux.Content, &m.Content)
	default:
		if err := json.Unmarshal(aux.Content, &m.Text); err != nil {
			return fmt.Errorf("unexpected content: %w", err)
		}
	}
	return nil
}

type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitzero"`
	MaxTokens   *int      `json:"max_tokens,omitzero"`
}

type CompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *ProviderError `json:"error,omitzero"`
}

type ProviderError struct {
	Message string    `json:"message"`
	Code    ErrorCode `json:"code"`
	Type    string    `json:"type"`
}

// ErrorCode accepts both string codes (OpenAI) and numeric ones (Gemini).
type ErrorCode string

func (c *ErrorCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = ErrorCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ErrorCode(n.String())
	return nil
}

// AIError represents an enriched error from an AI provider
type AIError struct {
	// OriginalErr is the original error (if any)
	OriginalErr error `json:"-"`
	// ProviderName is the provider name (e.g. "gemini", "openai")
	ProviderName string `json:"provider_name"`
	// ModelName is the model name where the error occurred
	ModelName string `json:"model_name"`
	// HTTPStatusCode is the HTTP response status code (if applicable)
	HTTPStatusCode int `json:"http_status_code"`
	// ErrorCode is the provider's error code (e.g. "insufficient_quota", "model_not_found")
	ErrorCode string `json:"error_code"`
	// Message is a human-readable error message
	Message string `json:"message"`
}

func (e *AIError) Error() string {
	msg := e.Message
	if msg == "" && e.OriginalErr != nil {
		msg = e.OriginalErr.Error()
	} else if e.OriginalErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.OriginalErr)
	}
	if e.ProviderName != "" && e.ModelName != "" {
		msg = fmt.Sprintf("[%s:%s] %s", e.ProviderName, e.ModelName, msg)
	}
	if e.ErrorCode != "" {
		msg = fmt.Sprintf("%s (code: %s)", msg, e.ErrorCode)
	}
	if e.HTTPStatusCode != 0 {
		msg = fmt.Sprintf("%d %s", e.HTTPStatusCode, msg)
	}
	return msg
}

// Unwrap for compatibility with errors.Is and errors.As
func (e *AIError) Unwrap() error {
	return e.OriginalErr
}

// ErrorType returns the error type based on HTTP status code, error code and
// the underlying transport error.
func (e *AIError) ErrorType() ErrorType {
	switch {
	case e.HTTPStatusCode == 0 && isTimeout(e.OriginalErr):
		return ErrorTypeTimeout
	case e.HTTPStatusCode == 0 && isNetwork(e.OriginalErr):
		return ErrorTypeNetwork
	case e.HTTPStatusCode == 429:
		return ErrorTypeRateLimit
	case e.HTTPStatusCode >= 500:
		return ErrorTypeServer
	case (e.HTTPStatusCode == 400 || e.HTTPStatusCode == 403) && strings.Contains(strings.ToLower(e.Message), "policy"):
		return ErrorTypeContentPolicy
	case e.HTTPStatusCode >= 400 && e.HTTPStatusCode < 500:
		return ErrorTypeClient
	default:
		return ErrorTypeUnknown
	}
}

// IsRetryable determines if a request can be safely retried
func (e *AIError) IsRetryable() bool {
	switch e.ErrorType() {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeServer:
		return true
	default:
		return false
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetwork(err error) bool {
	var netErr net.Error
	return err != nil && errors.As(err, &netErr)
}

// ErrorType for errors classification
type ErrorType string

const (
	ErrorTypeNetwork       ErrorType = "network"        // connection refused, reset, DNS
	ErrorTypeTimeout       ErrorType = "timeout"        // deadline exceeded before a response
	ErrorTypeRateLimit     ErrorType = "rate_limit"     // 429, provider limits
	ErrorTypeServer        ErrorType = "server"         // 5xx, provider-side error
	ErrorTypeClient        ErrorType = "client"         // 4xx (except 429), invalid request, API key, model not found
	ErrorTypeContentPolicy ErrorType = "content_policy" // 400/403, content policy violation
	ErrorTypeUnknown       ErrorType = "unknown"        // Unknown error
)

// Helper functions for error analysis

func IsRetryableError(err error) bool {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.IsRetryable()
	}
	return false
}

func GetErrorType(err error) ErrorType {
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.ErrorType()
	}
	return ErrorTypeUnknown
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	return GetErrorType(err) == errorType
}
