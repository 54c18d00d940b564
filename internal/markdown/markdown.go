// Package markdown turns model output into plain text for chat transports
// that cannot render Markdown.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/xiaohua-travel/linebot/internal/logger"
)

type Sanitizer struct {
	md     goldmark.Markdown
	logger logger.Logger
}

func NewSanitizer(logger logger.Logger) *Sanitizer {
	return &Sanitizer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Table),
			// raw html is kept so its text survives tag stripping
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		logger: logger,
	}
}

// Convert renders text as Markdown and returns the visible text of the result.
// List items keep their markers so numbered entries stay recognizable.
func (s *Sanitizer) Convert(text string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", err
	}

	doc.Find("ol").Each(func(_ int, list *goquery.Selection) {
		start := 1
		if v, ok := list.Attr("start"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				start = n
			}
		}
		list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
			prefixItem(li, strconv.Itoa(start+i)+". ")
		})
	})
	doc.Find("ul").Each(func(_ int, list *goquery.Selection) {
		list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
			prefixItem(li, "- ")
		})
	})

	return strings.TrimSpace(doc.Find("body").Text()), nil
}

// MustConvert falls back to the raw text when rendering fails.
func (s *Sanitizer) MustConvert(text string) string {
	out, err := s.Convert(text)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to sanitize markdown, sending raw text")
		return strings.TrimSpace(text)
	}
	return out
}

func prefixItem(li *goquery.Selection, marker string) {
	// loose lists wrap item content in a paragraph
	if first := li.Children().First(); first.Length() > 0 && goquery.NodeName(first) == "p" {
		first.PrependHtml(marker)
		return
	}
	li.PrependHtml(marker)
}
