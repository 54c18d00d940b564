package ai

import (
	"slices"
	"sync"
)

// ConversationStore holds one bounded chat history per user, or a single
// history for everyone when shared is set.
type ConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*Conversation
	limit         int
	shared        bool
}

func NewConversationStore(limit int, shared bool) *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*Conversation),
		limit:         limit,
		shared:        shared,
	}
}

func (s *ConversationStore) key(userID string) string {
	switch {
	case s.shared:
		return sharedConversationKey
	case userID == "":
		return anonymousKey
	default:
		return userID
	}
}

func (s *ConversationStore) Get(userID string) *Conversation {
	key := s.key(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[key]
	if !ok {
		conv = &Conversation{limit: s.limit}
		s.conversations[key] = conv
	}
	return conv
}

func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// Conversation is a ring of the most recent turns. Callers hold Lock for the
// whole send so turns of one conversation never interleave.
type Conversation struct {
	sync.Mutex
	history []Message
	limit   int
}

// History returns a copy of the recorded turns. The caller must hold the lock.
func (c *Conversation) History() []Message {
	return slices.Clone(c.history)
}

// Record appends a completed exchange and evicts the oldest exchanges beyond
// the limit. The caller must hold the lock.
func (c *Conversation) Record(user, assistant Message) {
	c.history = append(c.history, user, assistant)
	if c.limit <= 0 {
		return
	}
	limit := c.limit
	// keep whole exchanges so the history never starts with an assistant turn
	if limit%2 == 1 {
		limit--
	}
	if limit == 0 {
		limit = 2
	}
	if over := len(c.history) - limit; over > 0 {
		c.history = slices.Clone(c.history[over:])
	}
}
