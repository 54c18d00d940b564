package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaohua-travel/linebot/internal/logger"
)

func TestSanitizerConvert(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Hello there",
			expected: "Hello there",
		},
		{
			name:     "emphasis and code",
			input:    "**bold** _italic_ `code` ~~gone~~",
			expected: "bold italic code gone",
		},
		{
			name:     "heading and paragraph",
			input:    "# Trip to Tokyo\n\nDay one is Asakusa.",
			expected: "Trip to Tokyo\nDay one is Asakusa.",
		},
		{
			name:     "link keeps label",
			input:    "See [the map](https://example.com/map)",
			expected: "See the map",
		},
		{
			name:     "ordered list keeps numbers",
			input:    "1. Tokyo\n2. Osaka\n3. Kyoto",
			expected: "1. Tokyo\n2. Osaka\n3. Kyoto",
		},
		{
			name:     "ordered list with start",
			input:    "3. Nara\n4. Kobe",
			expected: "3. Nara\n4. Kobe",
		},
		{
			name:     "unordered list",
			input:    "* sushi\n* ramen",
			expected: "- sushi\n- ramen",
		},
		{
			name:     "raw html is stripped",
			input:    "<b>Budget</b>: 30000",
			expected: "Budget: 30000",
		},
		{
			name:     "entities are decoded",
			input:    "Tom &amp; Jerry",
			expected: "Tom & Jerry",
		},
	}

	s := NewSanitizer(logger.NewTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Convert(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestSanitizerLooseList(t *testing.T) {
	s := NewSanitizer(logger.NewTestLogger())

	out, err := s.Convert("1. **Tokyo** trip\n\n   - main sights: Asakusa\n\n2. Osaka trip\n")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "1. Tokyo trip"), out)
	assert.Contains(t, out, "- main sights: Asakusa")
	assert.Contains(t, out, "2. Osaka trip")
}

func TestSanitizerMustConvert(t *testing.T) {
	s := NewSanitizer(logger.NewTestLogger())
	assert.Equal(t, "hi", s.MustConvert("  *hi*  "))
}

func BenchmarkSanitizer(b *testing.B) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "small",
			data: "**bold** _italic_ `code`",
		},
		{
			name: "medium",
			data: strings.Repeat("**bold** _italic_ `code` ", 100),
		},
		{
			name: "large",
			data: strings.Repeat("**bold** _italic_ `code` ", 1000),
		},
	}

	s := NewSanitizer(logger.NewTestLogger())

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			for b.Loop() {
				_, _ = s.Convert(tt.data)
			}
		})
	}
}
