package ai

import (
	"encoding/base64"
	"strings"
)

func ParseModelSpec(modelSpec string) (provider string, model string, err error) {
	parts := strings.SplitN(modelSpec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", modelSpec, ErrInvalidModelFormat
	}
	return parts[0], parts[1], nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}
