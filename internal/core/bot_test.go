package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/mocks"
	"github.com/xiaohua-travel/linebot/internal/queue"
	"github.com/xiaohua-travel/linebot/internal/service"
	"github.com/xiaohua-travel/linebot/internal/session"
)

type stubCommand struct {
	name    string
	execute func(ctx context.Context, event line.Event) ([]line.Message, error)
}

func (c *stubCommand) Name() string { return c.name }

func (c *stubCommand) Execute(ctx context.Context, event line.Event) ([]line.Message, error) {
	return c.execute(ctx, event)
}

func reply(text string) *stubCommand {
	return &stubCommand{name: "stub", execute: func(context.Context, line.Event) ([]line.Message, error) {
		return []line.Message{line.NewTextMessage(text)}, nil
	}}
}

func newBot(t *testing.T, queueCfg config.QueueConfig) (*Bot, *mocks.MockClient, *logger.TestLogger) {
	t.Helper()
	log := logger.NewTestLogger()
	localizer, err := service.NewLocalizer("zh-TW")
	require.NoError(t, err)
	client := mocks.NewMockClient(t)
	q := queue.NewQueue(queueCfg, log)
	return NewBot(client, q, session.NewKeyedMutex(), log, localizer), client, log
}

func defaultQueue() config.QueueConfig {
	return config.QueueConfig{Workers: 2, Size: 8, Burst: 1, Timeout: time.Second}
}

func TestHandleEventRepliesOnce(t *testing.T) {
	bot, client, _ := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, reply("你好"))
	client.EXPECT().
		Reply(mock.Anything, "token", []line.Message{line.NewTextMessage("你好")}).
		Return(nil).
		Once()

	err := bot.HandleEvent(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "token", UserID: "U1", Text: "hi"})
	require.NoError(t, err)
}

func TestHandleEventRoutesByKind(t *testing.T) {
	bot, client, _ := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, reply("text"))
	bot.RegisterCommand(line.EventImage, reply("image"))
	bot.RegisterCommand(line.EventVideo, reply("video"))
	bot.RegisterCommand(line.EventFollow, reply("follow"))

	for _, kind := range []line.EventKind{line.EventText, line.EventImage, line.EventVideo, line.EventFollow} {
		client.EXPECT().
			Reply(mock.Anything, "t-"+string(kind), []line.Message{line.NewTextMessage(string(kind))}).
			Return(nil).
			Once()
		require.NoError(t, bot.HandleEvent(context.Background(), line.Event{Kind: kind, ReplyToken: "t-" + string(kind)}))
	}
}

func TestHandleEventCommandErrorBecomesApology(t *testing.T) {
	bot, client, log := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, &stubCommand{name: "text", execute: func(context.Context, line.Event) ([]line.Message, error) {
		return nil, errors.New("boom")
	}})
	client.EXPECT().
		Reply(mock.Anything, "token", []line.Message{line.NewTextMessage("抱歉，AI 回應時發生錯誤。")}).
		Return(nil).
		Once()

	apologies := testutil.ToFloat64(eventsTotal.WithLabelValues("text", outcomeApology))
	require.NoError(t, bot.HandleEvent(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "token"}))
	assert.True(t, log.HasEntry("error", "Failed to handle event"))
	assert.Equal(t, apologies+1, testutil.ToFloat64(eventsTotal.WithLabelValues("text", outcomeApology)))
}

func TestHandleEventIgnoresUnknownKinds(t *testing.T) {
	bot, _, log := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, reply("x"))

	require.NoError(t, bot.HandleEvent(context.Background(), line.Event{Kind: line.EventUnknown, Raw: "webhook.UnfollowEvent"}))
	assert.True(t, log.HasEntry("debug", "Ignoring unsupported event"))
}

func TestHandleEventNothingToSay(t *testing.T) {
	bot, _, _ := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, &stubCommand{name: "text", execute: func(context.Context, line.Event) ([]line.Message, error) {
		return nil, nil
	}})

	require.NoError(t, bot.HandleEvent(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "token"}))
}

func TestHandleEventReplyFailure(t *testing.T) {
	bot, client, log := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, reply("x"))
	client.EXPECT().Reply(mock.Anything, "token", mock.Anything).Return(errors.New("expired token")).Once()

	err := bot.HandleEvent(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "token"})
	assert.ErrorContains(t, err, "expired token")
	assert.True(t, log.HasEntry("error", "Failed to send reply"))
}

func TestHandleEventSerializesTextPerUser(t *testing.T) {
	bot, client, _ := newBot(t, defaultQueue())
	var active, peak atomic.Int32
	bot.RegisterCommand(line.EventText, &stubCommand{name: "text", execute: func(context.Context, line.Event) ([]line.Message, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return []line.Message{line.NewTextMessage("ok")}, nil
	}})
	client.EXPECT().Reply(mock.Anything, mock.Anything, mock.Anything).Return(nil).Times(5)

	var wg sync.WaitGroup
	for range 5 {
		wg.Go(func() {
			assert.NoError(t, bot.HandleEvent(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "t", UserID: "U1"}))
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak.Load())
}

func TestDispatchRunsThroughQueue(t *testing.T) {
	bot, client, _ := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventFollow, reply("歡迎"))
	done := make(chan struct{})
	client.EXPECT().
		Reply(mock.Anything, "token", []line.Message{line.NewTextMessage("歡迎")}).
		Run(func(context.Context, string, []line.Message) { close(done) }).
		Return(nil).
		Once()

	bot.queue.Start(context.Background())
	defer bot.queue.Stop()

	require.NoError(t, bot.Dispatch(context.Background(), line.Event{Kind: line.EventFollow, ReplyToken: "token"}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not handled")
	}
}

func TestDispatchRepliesBusyWhenQueueIsFull(t *testing.T) {
	// no workers started, so the single slot stays taken
	bot, client, _ := newBot(t, config.QueueConfig{Workers: 1, Size: 1, Burst: 1})
	bot.RegisterCommand(line.EventText, reply("x"))
	client.EXPECT().
		Reply(mock.Anything, "second", []line.Message{line.NewTextMessage("目前訊息較多，請稍後再試。")}).
		Return(nil).
		Once()

	require.NoError(t, bot.Dispatch(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "first"}))
	err := bot.Dispatch(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "second"})
	assert.ErrorIs(t, err, queue.ErrQueueFull)
}

func TestApologyIsSentAfterTaskTimeout(t *testing.T) {
	bot, client, _ := newBot(t, config.QueueConfig{Workers: 1, Size: 1, Burst: 1, Timeout: 50 * time.Millisecond})
	bot.RegisterCommand(line.EventText, &stubCommand{name: "text", execute: func(ctx context.Context, _ line.Event) ([]line.Message, error) {
		<-ctx.Done()
		return []line.Message{line.NewTextMessage("抱歉，AI 回應時發生錯誤。")}, nil
	}})
	replied := make(chan error, 1)
	client.EXPECT().
		Reply(mock.Anything, "token", []line.Message{line.NewTextMessage("抱歉，AI 回應時發生錯誤。")}).
		Run(func(ctx context.Context, _ string, _ []line.Message) { replied <- ctx.Err() }).
		Return(nil).
		Once()

	bot.queue.Start(context.Background())
	defer bot.queue.Stop()

	require.NoError(t, bot.Dispatch(context.Background(), line.Event{Kind: line.EventText, ReplyToken: "token", UserID: "U1"}))
	select {
	case err := <-replied:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply after the task timed out")
	}
}

func TestHandleEventBusyWhileUserLockIsHeld(t *testing.T) {
	bot, client, log := newBot(t, defaultQueue())
	bot.RegisterCommand(line.EventText, reply("x"))
	unlock, err := bot.locks.Lock(context.Background(), "U1")
	require.NoError(t, err)
	defer unlock()
	client.EXPECT().
		Reply(mock.Anything, "token", []line.Message{line.NewTextMessage("目前訊息較多，請稍後再試。")}).
		Return(nil).
		Once()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, bot.HandleEvent(ctx, line.Event{Kind: line.EventText, ReplyToken: "token", UserID: "U1"}))
	assert.True(t, log.HasEntry("warn", "Gave up waiting for the previous message of this user"))
}
