package service

import (
	"regexp"
	"strings"
)

var (
	// Some models glue sentences together ("word.Next"); reinsert the
	// space. Letters only, so decimals like 70.83 are left alone.
	punctSpacing = regexp.MustCompile(`([.,!?:;])([A-Za-z])`)

	assistantPrefixes = []string{"assistant:", "model:", "ai:", "gemma:", "a:"}
)

// CleanResponse normalizes a complete model response for display and
// storage. It never runs on individual stream units, only on the
// accumulated text.
func CleanResponse(text string) string {
	text = punctSpacing.ReplaceAllString(text, "$1 $2")

	lower := strings.ToLower(text)
	for _, prefix := range assistantPrefixes {
		if strings.HasPrefix(lower, prefix) {
			text = strings.TrimLeft(text[len(prefix):], " \t")
			break
		}
	}

	return strings.TrimSpace(text)
}
