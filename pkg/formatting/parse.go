package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly, after sanitizing, or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

var punctuation = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u201e", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"\u2013", "-",
	"\u2014", "-",
	"\u2026", "...",
	"\u00a0", " ",
	"\u200b", "",
	"\ufeff", "",
)

// ParseError carries the raw content that failed to parse alongside the decoder error.
// It matches ErrParseFailed with errors.Is.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v: %s", ErrParseFailed, e.Err, e.Raw)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParseFailed, e.Err}
}

// Sanitize replaces typographic punctuation that language models substitute for
// JSON syntax characters and strips zero-width characters.
func Sanitize(content string) string {
	return punctuation.Replace(content)
}

// Parse attempts to unmarshal content as JSON into T.
// Candidates are tried in order: the content as given, the sanitized content,
// and the body of a markdown code fence. On failure the returned *ParseError
// holds the original content and the first decoder error.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	firstErr := json.Unmarshal([]byte(content), &result)
	if firstErr == nil {
		return result, nil
	}

	for _, candidate := range candidates(content) {
		var retry T
		if err := json.Unmarshal([]byte(candidate), &retry); err == nil {
			return retry, nil
		}
	}

	var zero T
	return zero, &ParseError{Raw: content, Err: firstErr}
}

func candidates(content string) []string {
	sanitized := Sanitize(content)
	out := []string{sanitized}

	if matches := jsonBlockRegex.FindStringSubmatch(sanitized); len(matches) >= 2 {
		out = append(out, strings.TrimSpace(matches[1]))
	}

	return out
}
