package text

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/session"
)

func (c *Command) search(ctx context.Context, userID, input string, state session.State) ([]line.Message, error) {
	if len(state.Results) > 0 && input == c.L("CommandShowAll", nil) {
		return c.showAll(state), nil
	}
	if digitsOnly.MatchString(input) {
		return c.resolve(ctx, userID, input, state)
	}
	return c.query(ctx, userID, input, state)
}

func (c *Command) showAll(state session.State) []line.Message {
	parts := make([]string, 0, len(state.Results))
	for i, record := range state.Results {
		parts = append(parts, fmt.Sprintf("%d.\n%s", i+1, record.Content()))
	}
	return []line.Message{line.NewTextMessage(strings.Join(parts, "\n\n"))}
}

// resolve answers a 1-based index, asking the model for the full itinerary
// the first time an entry is opened.
func (c *Command) resolve(ctx context.Context, userID, input string, state session.State) ([]line.Message, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(state.Results) {
		return c.Text("SearchNoSuchIndex", nil), nil
	}
	idx := n - 1
	record := state.Results[idx]
	if record.Full != nil {
		return []line.Message{line.NewTextMessage(*record.Full)}, nil
	}

	answer, err := c.AI.Chat(ctx, userID, c.L("SearchDetailPrompt", map[string]any{
		"Summary": stripNumbering(record.Summary),
	}))
	if err != nil {
		return c.aiFailure(err, userID, "SearchFailed"), nil
	}

	full := c.Plain(answer)
	state.Results[idx].Full = &full
	if err := c.Sessions.Set(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return []line.Message{line.NewTextMessage(full)}, nil
}

// query runs a keyword search over the conversation memory. The result set is
// replaced only after the model answered.
func (c *Command) query(ctx context.Context, userID, keyword string, state session.State) ([]line.Message, error) {
	marker := c.L("SearchIndexMarker", nil)
	promptID := "SearchPrompt"
	if c.Cfg.Search().StructuredOutput {
		promptID = "SearchStructuredPrompt"
	}
	prompt := c.L(promptID, map[string]any{
		"Keyword": keyword,
		"Marker":  marker,
		"ShowAll": c.L("CommandShowAll", nil),
	})

	answer, err := c.AI.Chat(ctx, userID, prompt)
	if err != nil {
		return c.aiFailure(err, userID, "SearchFailed"), nil
	}

	reply, records := c.parseResults(answer, marker)
	state.Results = records
	if err := c.Sessions.Set(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.Logger.WithFields(logger.Fields{
		"user_id": userID,
		"results": len(records),
	}).Debug("Search results stored")
	return []line.Message{line.NewTextMessage(reply)}, nil
}

// parseResults returns the text to show and the records to keep. Tagged
// entries win; otherwise numbered entries count only when the reply carries
// the index marker.
func (c *Command) parseResults(raw, marker string) (string, []session.Record) {
	if c.Cfg.Search().StructuredOutput {
		if entries := taggedEntries(raw); len(entries) > 0 {
			records := make([]session.Record, 0, len(entries))
			for _, entry := range entries {
				records = append(records, session.Record{Summary: c.Plain(entry)})
			}
			return c.Plain(stripEntryTags(raw)), records
		}
	}

	text := c.Plain(raw)
	if !strings.Contains(text, marker) && !strings.Contains(text, c.L("CommandShowAll", nil)) {
		return text, nil
	}

	entries := numberedEntries(text, marker)
	records := make([]session.Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, session.Record{Summary: entry})
	}
	return text, records
}
