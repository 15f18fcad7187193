// Package formatting provides lenient parsing of structured content out of
// model responses, which frequently wrap JSON in markdown fences or
// surrounding prose despite instructions not to.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON directly,
// from a markdown code fence, or from the outermost brace pair.
var ErrParseFailed = errors.New("failed to parse response")

var (
	jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")
	jsonBraceRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parse attempts to unmarshal content as JSON into T. If direct parsing
// fails it extracts JSON from a markdown code fence, then falls back to the
// outermost brace pair in the text. Returns ErrParseFailed when every
// attempt fails.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	if match := jsonBraceRegex.FindString(content); match != "" {
		if err := json.Unmarshal([]byte(match), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}
