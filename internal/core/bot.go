package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xiaohua-travel/linebot/internal/commands"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/queue"
	"github.com/xiaohua-travel/linebot/internal/service"
	"github.com/xiaohua-travel/linebot/internal/session"
)

// replyTimeout bounds a reply sent after the task context may have expired.
// A reply token is single use, so the reply is attempted even then.
const replyTimeout = 10 * time.Second

// Bot routes webhook events to the command registered for their kind and
// sends the single reply the event token allows.
type Bot struct {
	commands  map[line.EventKind]commands.Command
	line      line.Client
	queue     *queue.Queue
	locks     *session.KeyedMutex
	logger    logger.Logger
	localizer *service.Localizer
}

func NewBot(
	client line.Client,
	queue *queue.Queue,
	locks *session.KeyedMutex,
	logger logger.Logger,
	localizer *service.Localizer,
) *Bot {
	return &Bot{
		commands:  make(map[line.EventKind]commands.Command),
		line:      client,
		queue:     queue,
		locks:     locks,
		logger:    logger,
		localizer: localizer,
	}
}

func (b *Bot) RegisterCommand(kind line.EventKind, cmd commands.Command) {
	if cmd == nil {
		b.logger.Error("Attempting to register nil command")
		return
	}

	b.logger.WithFields(logger.Fields{
		"command": cmd.Name(),
		"kind":    kind,
	}).Debug("Registering command")

	b.commands[kind] = cmd
}

func (b *Bot) GetCommands() map[line.EventKind]commands.Command {
	return b.commands
}

// Dispatch hands the event to the worker pool. When the pool is saturated the
// user is told to retry later.
func (b *Bot) Dispatch(ctx context.Context, event line.Event) error {
	err := b.queue.Add(queue.Task{
		Name: string(event.Kind),
		Run: func(ctx context.Context) error {
			return b.HandleEvent(ctx, event)
		},
	})
	if !errors.Is(err, queue.ErrQueueFull) {
		return err
	}

	observe(string(event.Kind), outcomeBusy)
	if _, ok := b.commands[event.Kind]; ok && event.ReplyToken != "" {
		if replyErr := b.reply(ctx, event.ReplyToken, line.NewTextMessage(b.localizer.Localize("Busy", nil))); replyErr != nil {
			b.logger.WithError(replyErr).Error("Failed to send busy message")
		}
	}
	return err
}

// HandleEvent runs the command for the event and replies with its messages.
// Text events of the same user are handled one at a time.
func (b *Bot) HandleEvent(ctx context.Context, event line.Event) error {
	log := b.logger.WithFields(logger.Fields{
		"kind":       event.Kind,
		"user_id":    event.UserID,
		"message_id": event.MessageID,
	})

	cmd, ok := b.commands[event.Kind]
	if !ok {
		log.WithField("raw_type", event.Raw).Debug("Ignoring unsupported event")
		observe(string(event.Kind), outcomeIgnored)
		return nil
	}
	log.Info("Handling event")

	messages, outcome := b.execute(ctx, log, cmd, event)
	if len(messages) == 0 {
		observe(string(event.Kind), outcomeSilent)
		return nil
	}

	if err := b.reply(ctx, event.ReplyToken, messages...); err != nil {
		log.WithError(err).Error("Failed to send reply")
		observe(string(event.Kind), outcomeReplyFailed)
		return fmt.Errorf("reply to %s event: %w", event.Kind, err)
	}
	observe(string(event.Kind), outcome)
	return nil
}

// execute runs cmd and maps failures to the message the user gets instead.
func (b *Bot) execute(ctx context.Context, log logger.Logger, cmd commands.Command, event line.Event) ([]line.Message, string) {
	if event.Kind == line.EventText {
		unlock, err := b.locks.Lock(ctx, event.UserID)
		if err != nil {
			log.WithError(err).Warn("Gave up waiting for the previous message of this user")
			return []line.Message{line.NewTextMessage(b.localizer.Localize("Busy", nil))}, outcomeBusy
		}
		defer unlock()
	}

	messages, err := cmd.Execute(ctx, event)
	if err != nil {
		log.WithError(err).WithField("command", cmd.Name()).Error("Failed to handle event")
		return []line.Message{line.NewTextMessage(b.localizer.Localize("AIFailed", nil))}, outcomeApology
	}
	return messages, outcomeReplied
}

func (b *Bot) reply(ctx context.Context, token string, messages ...line.Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
	defer cancel()
	return b.line.Reply(ctx, token, messages...)
}
