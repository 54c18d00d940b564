package base

import (
	"context"
	"net/http"
	"strings"

	"github.com/xiaohua-travel/linebot/internal/line"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/media"
)

// FetchMedia downloads the content of a media message and stores it. The
// returned mime type is sniffed from the data, falling back to fallbackMime
// when it does not match the expected family.
func (c *Command) FetchMedia(ctx context.Context, event line.Event, ext, fallbackMime string) (media.Stored, []byte, string, error) {
	log := c.Logger.WithFields(logger.Fields{
		"user_id":    event.UserID,
		"message_id": event.MessageID,
	})

	data, err := c.Line.Content(ctx, event.MessageID)
	if err != nil {
		log.WithError(err).Error("Failed to get message content")
		return media.Stored{}, nil, "", err
	}

	stored, err := c.Media.Save(data, ext)
	if err != nil {
		log.WithError(err).Error("Failed to store message content")
		return media.Stored{}, nil, "", err
	}

	mime := fallbackMime
	family, _, _ := strings.Cut(fallbackMime, "/")
	if detected, _, _ := strings.Cut(http.DetectContentType(data), ";"); strings.HasPrefix(detected, family+"/") {
		mime = detected
	}
	return stored, data, mime, nil
}
