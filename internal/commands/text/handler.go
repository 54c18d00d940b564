package text

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xiaohua-travel/linebot/internal/ai"
	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/commands/base"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

const CommandName = "text"

// Command runs the text conversation: fixed commands, history search and
// free chat with the travel assistant.
type Command struct {
	*base.Command
}

func New(di *di.Container) *Command {
	return &Command{Command: base.NewCommand(di)}
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Execute(ctx context.Context, event line.Event) ([]line.Message, error) {
	input := strings.TrimSpace(event.Text)

	// these two work in any state
	switch input {
	case c.L("CommandEnterSearch", nil):
		return c.enterSearch(ctx, event.UserID)
	case c.L("CommandEndSearch", nil):
		return c.endSearch(ctx, event.UserID)
	}

	if event.UserID != "" {
		state, err := c.Sessions.Get(ctx, event.UserID)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		if state.Searching {
			return c.search(ctx, event.UserID, input, state)
		}
	}

	if input == c.L("CommandNewPlan", nil) {
		return c.Text("PlanForm", nil), nil
	}

	if prompt, ok := c.imagePrompt(input); ok {
		return c.generateImage(ctx, prompt), nil
	}

	return c.chat(ctx, event.UserID, event.Text), nil
}

func (c *Command) enterSearch(ctx context.Context, userID string) ([]line.Message, error) {
	if userID != "" {
		state, err := c.Sessions.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load session: %w", err)
		}
		state.Searching = true
		if err := c.Sessions.Set(ctx, userID, state); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		c.Logger.WithField("user_id", userID).Debug("Search mode entered")
	}
	return c.Text("SearchInstructions", nil), nil
}

func (c *Command) endSearch(ctx context.Context, userID string) ([]line.Message, error) {
	if userID != "" {
		if err := c.Sessions.Clear(ctx, userID); err != nil {
			return nil, fmt.Errorf("clear session: %w", err)
		}
		c.Logger.WithField("user_id", userID).Debug("Search mode left")
	}
	return c.Text("SearchEnded", nil), nil
}

func (c *Command) chat(ctx context.Context, userID, text string) []line.Message {
	answer, err := c.AI.Chat(ctx, userID, text)
	if err != nil {
		return c.aiFailure(err, userID, "AIFailed")
	}
	return []line.Message{line.NewTextMessage(c.Plain(answer))}
}

func (c *Command) imagePrompt(input string) (string, bool) {
	prefix := c.Cfg.Image().Prefix
	if prefix == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(input, prefix)
	if rest = strings.TrimSpace(rest); !ok || rest == "" {
		return "", false
	}
	if c.Images == nil || !c.Images.Enabled() {
		return "", false
	}
	return rest, true
}

func (c *Command) generateImage(ctx context.Context, prompt string) []line.Message {
	url, err := c.Images.Generate(ctx, c.L("ImageGenerationPrompt", map[string]any{
		"Prompt": prompt,
	}))
	if err != nil {
		c.Logger.WithError(err).Error("Image generation failed")
		return c.Text("ImageGenerationFailed", nil)
	}
	return []line.Message{line.NewImageMessage(url)}
}

func (c *Command) aiFailure(err error, userID, messageID string) []line.Message {
	log := c.Logger.WithError(err).WithFields(logger.Fields{
		"user_id":    userID,
		"error_type": ai.GetErrorType(err),
	})
	if errors.Is(err, ai.ErrEmptyResponse) {
		log.Warn("Model returned no content")
		return c.Text("AIEmptyResponse", nil)
	}
	log.Error("Model call failed")
	return c.Text(messageID, nil)
}
