package start

import (
	"context"

	"github.com/xiaohua-travel/linebot/internal/app/di"
	"github.com/xiaohua-travel/linebot/internal/commands/base"
	"github.com/xiaohua-travel/linebot/internal/line"
)

const CommandName = "start"

// Command greets users who add the bot as a friend.
type Command struct {
	*base.Command
}

func New(di *di.Container) *Command {
	cmd := &Command{}
	cmd.Command = base.NewCommand(di)
	return cmd
}

func (c *Command) Name() string {
	return CommandName
}

func (c *Command) Execute(ctx context.Context, event line.Event) ([]line.Message, error) {
	c.Logger.WithField("user_id", event.UserID).Info("New follower")
	return c.Text("FollowGreeting", nil), nil
}
