package image

import (
	"context"

	"github.com/xiaohua-travel/linebot/internal/ai"
	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/commands/base"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/prompts"
)

const CommandName = "image"

// Command stores a user photo, links it back and captions it.
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
	stored, data, mime, err := c.FetchMedia(ctx, event, ".jpg", "image/jpeg")
	if err != nil {
		return c.Text("ImageRetrieveFailed", nil), nil
	}

	caption, err := c.Vision.Describe(ctx, ai.DescribeRequest{
		Persona:     prompts.PalmReader,
		Instruction: c.L("ImageCaptionInstruction", nil),
		Data:        data,
		MimeType:    mime,
		Filename:    stored.Name,
	})
	if err != nil {
		c.Logger.WithError(err).WithField("message_id", event.MessageID).Error("Image caption failed")
		caption = c.L("ImageDescribeFailed", nil)
	} else {
		caption = c.Plain(caption)
	}

	var msgs []line.Message
	if stored.URL != "" {
		msgs = append(msgs, line.NewImageMessage(stored.URL))
	}
	return append(msgs, line.NewTextMessage(caption)), nil
}
