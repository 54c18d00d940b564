package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xiaohua-travel/linebot/internal/logger"
)

const defaultChatURL = "chat/completions"

// OpenAICompatibleClient talks to any chat-completions endpoint, including the
// OpenAI-compatible surface of Gemini.
type OpenAICompatibleClient struct {
	name       string
	chatURL    string
	logger     logger.Logger
	httpClient *baseHTTPClient
}

func NewOpenAICompatibleClient(
	name string,
	baseURL string,
	apiKey string,
	log logger.Logger,
	httpClient *http.Client,
) *OpenAICompatibleClient {
	log = log.WithField("provider", name)
	return &OpenAICompatibleClient{
		name:       name,
		chatURL:    defaultChatURL,
		httpClient: NewBaseHTTPClient(httpClient, baseURL, apiKey, log),
		logger:     log,
	}
}

func (c *OpenAICompatibleClient) Name() string {
	return c.name
}

func (c *OpenAICompatibleClient) makeRawRequest(ctx context.Context, method string, endpoint string, body any) (*http.Response, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	return c.httpClient.Do(req)
}

func (c *OpenAICompatibleClient) Ask(ctx context.Context, request CompletionRequest) (string, error) {
	body, aiErr := c.doRequest(ctx, http.MethodPost, c.chatURL, request)
	if aiErr != nil {
		aiErr.ModelName = request.Model
		return "", aiErr
	}

	var result CompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &AIError{
			OriginalErr:  err,
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "failed to unmarshal response",
		}
	}

	// some gateways report failures inside a 200 OK
	if result.Error != nil {
		return "", &AIError{
			ProviderName: c.Name(),
			ModelName:    request.Model,
			ErrorCode:    string(result.Error.Code),
			Message:      result.Error.Message,
		}
	}

	if len(result.Choices) == 0 {
		return "", &AIError{
			ProviderName: c.Name(),
			ModelName:    request.Model,
			Message:      "no choices in response",
		}
	}

	c.logger.WithFields(logger.Fields{
		"model":         request.Model,
		"finish_reason": result.Choices[0].FinishReason,
	}).Debug("Completion received")

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c *OpenAICompatibleClient) doRequest(
	ctx context.Context,
	method string,
	endpoint string,
	body any,
) ([]byte, *AIError) {
	resp, err := c.makeRawRequest(ctx, method, endpoint, body)
	if err != nil {
		return nil, &AIError{
			OriginalErr:  err,
			ProviderName: c.Name(),
			Message:      "network request failed",
		}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AIError{
			OriginalErr:  err,
			ProviderName: c.Name(),
			Message:      "failed to read response body",
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		aiError := &AIError{
			ProviderName:   c.Name(),
			HTTPStatusCode: resp.StatusCode,
			Message:        fmt.Sprintf("HTTP request failed with status code: %d", resp.StatusCode),
		}

		// gemini wraps the error object in an array
		var providerError struct {
			Error ProviderError `json:"error"`
		}
		var providerErrors []struct {
			Error ProviderError `json:"error"`
		}
		if json.Unmarshal(responseBody, &providerError) == nil && providerError.Error.Message != "" {
			aiError.Message = providerError.Error.Message
			aiError.ErrorCode = string(providerError.Error.Code)
		} else if json.Unmarshal(responseBody, &providerErrors) == nil && len(providerErrors) > 0 {
			aiError.Message = providerErrors[0].Error.Message
			aiError.ErrorCode = string(providerErrors[0].Error.Code)
		}

		return responseBody, aiError
	}

	return responseBody, nil
}
