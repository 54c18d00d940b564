package line

type EventKind string

const (
	EventText    EventKind = "text"
	EventImage   EventKind = "image"
	EventVideo   EventKind = "video"
	EventFollow  EventKind = "follow"
	EventUnknown EventKind = "unknown"
)

// Event is the part of a webhook event the bot acts on.
type Event struct {
	Kind       EventKind
	ReplyToken string
	// UserID is empty for group or room events without a user.
	UserID    string
	MessageID string
	Text      string
	// Raw is the SDK type name, kept for logging unknown events.
	Raw string
}

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

// Message is an outgoing reply part.
type Message struct {
	Type     MessageType
	Text     string
	ImageURL string
}

func NewTextMessage(text string) Message {
	return Message{Type: MessageText, Text: text}
}

func NewImageMessage(url string) Message {
	return Message{Type: MessageImage, ImageURL: url}
}
