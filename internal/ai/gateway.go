package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Chatter is the conversational surface used by the text handlers.
type Chatter interface {
	Chat(ctx context.Context, userID, text string) (string, error)
}

// Describer produces a one-shot description of media.
type Describer interface {
	Describe(ctx context.Context, req DescribeRequest) (string, error)
}

type DescribeRequest struct {
	// Model is a provider:model spec, empty means the vision model.
	Model       string
	Persona     string
	Instruction string
	Data        []byte
	MimeType    string
	Filename    string
}

type Gateway struct {
	registry      *ProviderRegistry
	conversations *ConversationStore
	cfg           config.AIConfig
	systemPrompt  string
	logger        logger.Logger
	newBackOff    func() backoff.BackOff
}

func NewGateway(
	registry *ProviderRegistry,
	conversations *ConversationStore,
	cfg config.AIConfig,
	systemPrompt string,
	log logger.Logger,
) *Gateway {
	if cfg.SystemPrompt != "" {
		systemPrompt = cfg.SystemPrompt
	}
	return &Gateway{
		registry:      registry,
		conversations: conversations,
		cfg:           cfg,
		systemPrompt:  systemPrompt,
		logger:        log,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			// attempts are bounded by MaxRetries
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Chat sends text as the next user turn of the user's conversation. The turn
// is recorded only when the model answers.
func (g *Gateway) Chat(ctx context.Context, userID, text string) (string, error) {
	conv := g.conversations.Get(userID)
	conv.Lock()
	defer conv.Unlock()

	history := conv.History()
	messages := make([]Message, 0, len(history)+2)
	if g.systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Text: g.systemPrompt})
	}
	messages = append(messages, history...)
	user := Message{Role: RoleUser, Text: text}
	messages = append(messages, user)

	answer, err := g.complete(ctx, g.cfg.DefaultModel, messages)
	if err != nil {
		return "", err
	}
	conv.Record(user, Message{Role: RoleAssistant, Text: answer})
	return answer, nil
}

func (g *Gateway) Describe(ctx context.Context, req DescribeRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = g.cfg.GetVisionModel()
	}

	var parts []Content
	if req.Persona != "" {
		parts = append(parts, TextContent(req.Persona))
	}
	if req.Instruction != "" {
		parts = append(parts, TextContent(req.Instruction))
	}
	parts = append(parts, mediaContent(req))

	return g.complete(ctx, model, []Message{{Role: RoleUser, Content: parts}})
}

func mediaContent(req DescribeRequest) Content {
	uri := DataURI(req.MimeType, req.Data)
	// gemini accepts inline video through image_url data URIs
	if strings.HasPrefix(req.MimeType, "image/") || strings.HasPrefix(req.MimeType, "video/") {
		return ImageContent(uri)
	}
	return FileContent(req.Filename, uri)
}

func (g *Gateway) complete(ctx context.Context, modelSpec string, messages []Message) (string, error) {
	provider, model, err := g.registry.ResolveModel(modelSpec)
	if err != nil {
		return "", err
	}

	log := g.logger.WithFields(logger.Fields{
		"provider": provider.Name(),
		"model":    model,
	})

	req := CompletionRequest{Model: model, Messages: messages}
	policy := backoff.WithContext(backoff.WithMaxRetries(g.newBackOff(), uint64(max(g.cfg.MaxRetries, 0))), ctx)

	var answer string
	err = backoff.RetryNotify(func() error {
		var err error
		answer, err = g.ask(ctx, provider, req)
		if err != nil && (!IsRetryableError(err) || ctx.Err() != nil) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait.String()).Warn("Retryable model error")
	})
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

func (g *Gateway) ask(ctx context.Context, provider Provider, req CompletionRequest) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	answer, err := provider.Ask(ctx, req)
	g.logger.WithFields(logger.Fields{
		"model":    req.Model,
		"duration": time.Since(start).String(),
	}).Debug("Model call finished")
	return strings.TrimSpace(answer), err
}
