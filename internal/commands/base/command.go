package base

import (
	"github.com/xiaohua-travel/linebot/internal/ai"
	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/markdown"
	"github.com/xiaohua-travel/linebot/internal/media"
	"github.com/xiaohua-travel/linebot/internal/service"
	"github.com/xiaohua-travel/linebot/internal/session"
)

type Command struct {
	Line      line.Client
	Logger    logger.Logger
	Cfg       *config.Config
	Localizer *service.Localizer
	AI        ai.Chatter
	Vision    ai.Describer
	Images    ai.ImageCreator
	Media     *media.Store
	Sessions  session.Store
	Markdown  *markdown.Sanitizer
}

func NewCommand(di *di.Container) *Command {
	return &Command{
		Line:      di.Line,
		Logger:    di.Logger,
		Cfg:       di.Cfg,
		Localizer: di.Localizer,
		AI:        di.Gateway,
		Vision:    di.Gateway,
		Images:    di.Images,
		Media:     di.Media,
		Sessions:  di.Sessions,
		Markdown:  di.Markdown,
	}
}

func (c *Command) L(messageID string, data map[string]any) string {
	return c.Localizer.Localize(messageID, data)
}

// Text wraps a localized message as a single text reply.
func (c *Command) Text(messageID string, data map[string]any) []line.Message {
	return []line.Message{line.NewTextMessage(c.L(messageID, data))}
}

// Plain sanitizes model output for display; on failure the raw text is kept.
func (c *Command) Plain(text string) string {
	return c.Markdown.MustConvert(text)
}
