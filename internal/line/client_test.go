package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaohua-travel/linebot/internal/logger"
)

const testSecret = "channel-secret"

const webhookBody = `{
  "destination": "Ubot",
  "events": [
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "01",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "r-text",
      "source": {"type": "user", "userId": "U1"},
      "message": {"type": "text", "id": "m1", "quoteToken": "q", "text": "我要瀏覽歷史紀錄"}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "02",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "r-image",
      "source": {"type": "group", "groupId": "G1"},
      "message": {"type": "image", "id": "m2", "quoteToken": "q", "contentProvider": {"type": "line"}}
    },
    {
      "type": "message",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "03",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "r-video",
      "source": {"type": "room", "roomId": "R1", "userId": "U3"},
      "message": {"type": "video", "id": "m3", "quoteToken": "q", "duration": 1000, "contentProvider": {"type": "line"}}
    },
    {
      "type": "follow",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "04",
      "deliveryContext": {"isRedelivery": false},
      "replyToken": "r-follow",
      "source": {"type": "user", "userId": "U4"},
      "follow": {"isUnblocked": false}
    },
    {
      "type": "unfollow",
      "mode": "active",
      "timestamp": 1700000000000,
      "webhookEventId": "05",
      "deliveryContext": {"isRedelivery": false},
      "source": {"type": "user", "userId": "U5"}
    }
  ]
}`

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("X-Line-Signature", signature)
	return req
}

func newTestClient(t *testing.T, endpoint string, maxSize int64) *SDKClient {
	t.Helper()
	client, err := NewClient(Options{
		ChannelSecret:      testSecret,
		ChannelAccessToken: "token",
		Endpoint:           endpoint,
		DataEndpoint:       endpoint,
		MaxContentSize:     maxSize,
	}, logger.NewTestLogger())
	require.NoError(t, err)
	return client
}

func TestParseRequest(t *testing.T) {
	client := newTestClient(t, "", 0)

	events, err := client.ParseRequest(newWebhookRequest(webhookBody, sign(webhookBody)))
	require.NoError(t, err)
	require.Len(t, events, 5)

	assert.Equal(t, Event{
		Kind:       EventText,
		ReplyToken: "r-text",
		UserID:     "U1",
		MessageID:  "m1",
		Text:       "我要瀏覽歷史紀錄",
	}, events[0])

	assert.Equal(t, EventImage, events[1].Kind)
	assert.Equal(t, "m2", events[1].MessageID)
	assert.Empty(t, events[1].UserID)

	assert.Equal(t, EventVideo, events[2].Kind)
	assert.Equal(t, "U3", events[2].UserID)

	assert.Equal(t, EventFollow, events[3].Kind)
	assert.Equal(t, "r-follow", events[3].ReplyToken)
	assert.Equal(t, "U4", events[3].UserID)

	assert.Equal(t, EventUnknown, events[4].Kind)
	assert.Contains(t, events[4].Raw, "UnfollowEvent")
}

func TestParseRequestInvalidSignature(t *testing.T) {
	client := newTestClient(t, "", 0)

	_, err := client.ParseRequest(newWebhookRequest(webhookBody, sign("tampered")))
	require.ErrorIs(t, err, ErrInvalidSignature)

	_, err = client.ParseRequest(newWebhookRequest(webhookBody, ""))
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestReply(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentMessages":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0)
	err := client.Reply(context.Background(), "r1",
		NewImageMessage("https://bot.example.com/images/a.jpg"),
		NewTextMessage("手相很好"),
	)
	require.NoError(t, err)

	assert.Equal(t, "r1", got["replyToken"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	image := messages[0].(map[string]any)
	assert.Equal(t, "image", image["type"])
	assert.Equal(t, "https://bot.example.com/images/a.jpg", image["originalContentUrl"])
	assert.Equal(t, "https://bot.example.com/images/a.jpg", image["previewImageUrl"])
	text := messages[1].(map[string]any)
	assert.Equal(t, "text", text["type"])
	assert.Equal(t, "手相很好", text["text"])
}

func TestReplyWithoutMessagesIsNoop(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", 0)
	assert.NoError(t, client.Reply(context.Background(), "r1"))
}

func TestContent(t *testing.T) {
	payload := []byte("jpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/bot/message/m1/content":
			_, _ = w.Write(payload)
		case "/v2/bot/message/empty/content":
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, 0)
	data, err := client.Content(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	_, err = client.Content(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrEmptyContent)

	limited := newTestClient(t, srv.URL, 4)
	_, err = limited.Content(context.Background(), "m1")
	assert.ErrorIs(t, err, ErrContentTooLarge)
}
