package video

import (
	"context"

	"github.com/xiaohua-travel/linebot/internal/ai"
	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/commands/base"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/prompts"
)

const CommandName = "video"

// Command stores a user video, replies with its link and a short narration.
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
	stored, data, mime, err := c.FetchMedia(ctx, event, ".mp4", "video/mp4")
	if err != nil {
		return c.Text("VideoRetrieveFailed", nil), nil
	}

	description, err := c.Vision.Describe(ctx, ai.DescribeRequest{
		Model:       c.Cfg.AI().GetVideoModel(),
		Persona:     prompts.VideoNarrator,
		Instruction: c.L("VideoCaptionInstruction", nil),
		Data:        data,
		MimeType:    mime,
		Filename:    stored.Name,
	})
	if err != nil {
		c.Logger.WithError(err).WithField("message_id", event.MessageID).Error("Video description failed")
		description = c.L("VideoDescribeFailed", nil)
	} else {
		description = c.Plain(description)
	}

	var msgs []line.Message
	if stored.URL != "" {
		msgs = append(msgs, line.NewTextMessage(c.L("VideoLink", map[string]any{"URL": stored.URL})))
	}
	return append(msgs, line.NewTextMessage(description)), nil
}
