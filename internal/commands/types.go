package commands

import (
	"context"

	"github.com/xiaohua-travel/linebot/internal/line"
)

// Command handles one kind of webhook event and returns the reply to send.
// Returned errors are turned into an apology by the router.
type Command interface {
	Name() string
	Execute(ctx context.Context, event line.Event) ([]line.Message, error)
}
