package line

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrEmptyContent     = errors.New("empty message content")
	ErrContentTooLarge  = errors.New("message content too large")
)

type Client interface {
	// ParseRequest verifies the X-Line-Signature header and decodes the events.
	ParseRequest(r *http.Request) ([]Event, error)
	Reply(ctx context.Context, replyToken string, messages ...Message) error
	Content(ctx context.Context, messageID string) ([]byte, error)
}

type Options struct {
	ChannelSecret      string
	ChannelAccessToken string
	HTTPClient         *http.Client
	// Endpoint and DataEndpoint override the API hosts, used in tests.
	Endpoint       string
	DataEndpoint   string
	MaxContentSize int64
}

type SDKClient struct {
	secret  string
	api     *messaging_api.MessagingApiAPI
	blob    *messaging_api.MessagingApiBlobAPI
	maxSize int64
	logger  logger.Logger
}

func NewClient(opts Options, log logger.Logger) (*SDKClient, error) {
	var apiOpts []messaging_api.MessagingApiAPIOption
	var blobOpts []messaging_api.MessagingApiBlobAPIOption
	if opts.HTTPClient != nil {
		apiOpts = append(apiOpts, messaging_api.WithHTTPClient(opts.HTTPClient))
		blobOpts = append(blobOpts, messaging_api.WithBlobHTTPClient(opts.HTTPClient))
	}
	if opts.Endpoint != "" {
		apiOpts = append(apiOpts, messaging_api.WithEndpoint(opts.Endpoint))
	}
	if opts.DataEndpoint != "" {
		blobOpts = append(blobOpts, messaging_api.WithBlobEndpoint(opts.DataEndpoint))
	}

	api, err := messaging_api.NewMessagingApiAPI(opts.ChannelAccessToken, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("create messaging api: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(opts.ChannelAccessToken, blobOpts...)
	if err != nil {
		return nil, fmt.Errorf("create blob api: %w", err)
	}

	return &SDKClient{
		secret:  opts.ChannelSecret,
		api:     api,
		blob:    blob,
		maxSize: opts.MaxContentSize,
		logger:  log.WithField("component", "line"),
	}, nil
}

func (c *SDKClient) ParseRequest(r *http.Request) ([]Event, error) {
	cb, err := webhook.ParseRequest(c.secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("parse webhook: %w", err)
	}

	events := make([]Event, 0, len(cb.Events))
	for _, e := range cb.Events {
		events = append(events, adaptEvent(e))
	}
	return events, nil
}

func (c *SDKClient) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	_, err := c.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   toSDKMessages(messages),
	})
	if err != nil {
		return fmt.Errorf("reply message: %w", err)
	}
	return nil
}

func (c *SDKClient) Content(ctx context.Context, messageID string) ([]byte, error) {
	resp, err := c.blob.WithContext(ctx).GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("get message content: %w", err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.maxSize > 0 {
		body = io.LimitReader(resp.Body, c.maxSize+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read message content: %w", err)
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrContentTooLarge, c.maxSize)
	}
	if len(data) == 0 {
		return nil, ErrEmptyContent
	}

	c.logger.WithFields(logger.Fields{
		"message_id": messageID,
		"size":       len(data),
	}).Debug("Message content downloaded")
	return data, nil
}

func adaptEvent(e webhook.EventInterface) Event {
	switch ev := e.(type) {
	case webhook.MessageEvent:
		event := Event{
			ReplyToken: ev.ReplyToken,
			UserID:     sourceUserID(ev.Source),
		}
		switch m := ev.Message.(type) {
		case webhook.TextMessageContent:
			event.Kind = EventText
			event.MessageID = m.Id
			event.Text = m.Text
		case webhook.ImageMessageContent:
			event.Kind = EventImage
			event.MessageID = m.Id
		case webhook.VideoMessageContent:
			event.Kind = EventVideo
			event.MessageID = m.Id
		default:
			event.Kind = EventUnknown
			event.Raw = fmt.Sprintf("message:%T", m)
		}
		return event
	case webhook.FollowEvent:
		return Event{
			Kind:       EventFollow,
			ReplyToken: ev.ReplyToken,
			UserID:     sourceUserID(ev.Source),
		}
	default:
		return Event{Kind: EventUnknown, Raw: fmt.Sprintf("%T", e)}
	}
}

func sourceUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}

func toSDKMessages(messages []Message) []messaging_api.MessageInterface {
	out := make([]messaging_api.MessageInterface, 0, len(messages))
	for _, m := range messages {
		switch m.Type {
		case MessageImage:
			out = append(out, messaging_api.ImageMessage{
				OriginalContentUrl: m.ImageURL,
				PreviewImageUrl:    m.ImageURL,
			})
		default:
			out = append(out, messaging_api.TextMessage{Text: m.Text})
		}
	}
	return out
}
