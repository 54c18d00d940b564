package text

import (
	"regexp"
	"strings"
)

var (
	entryTag      = regexp.MustCompile(`(?s)<entry>\s*(.*?)\s*</entry>`)
	entryTagStrip = regexp.MustCompile(`(?:\s*</?entry>)+\s*`)
	// a numbered entry starts a line: "1. ", "12. "
	numberedStart = regexp.MustCompile(`(?m)^[ \t]*\d+\.\s`)
	leadingNumber = regexp.MustCompile(`^\s*\d+\.\s*`)
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
)

// taggedEntries returns the bodies of <entry> blocks in raw model output.
func taggedEntries(raw string) []string {
	var entries []string
	for _, m := range entryTag.FindAllStringSubmatch(raw, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			entries = append(entries, body)
		}
	}
	return entries
}

// stripEntryTags removes <entry> markup, leaving one blank line between entries.
func stripEntryTags(raw string) string {
	return strings.TrimSpace(entryTagStrip.ReplaceAllString(raw, "\n\n"))
}

// numberedEntries scans sanitized text for numbered entries. Each entry runs
// until the next numbered line or the end of the text; anything from marker
// on is cut off the last entry.
func numberedEntries(text, marker string) []string {
	starts := numberedStart.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	entries := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		entry := text[loc[0]:end]
		if i == len(starts)-1 && marker != "" {
			if idx := strings.Index(entry, marker); idx > 0 {
				// drop the whole footer line
				if nl := strings.LastIndex(entry[:idx], "\n"); nl > 0 {
					idx = nl
				}
				entry = entry[:idx]
			}
		}
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

func stripNumbering(summary string) string {
	return strings.TrimSpace(leadingNumber.ReplaceAllString(summary, ""))
}
