// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// FindJSONObject returns the first balanced {...} value in an LLM response
// that is valid JSON, skipping code fences and any conversational text around
// it. If no candidate is valid JSON, the first balanced one is returned; if
// none balances, the text from the first brace. Either way the decoder gets
// to report the problem. With no brace at all the result is "".
func FindJSONObject(text string) string {
	text = StripCodeFence(text)

	first := strings.IndexByte(text, '{')
	if first < 0 {
		return ""
	}
	fallback := ""
	for i := first; ; {
		if found := extractJSONObject(text[i:]); found != "" {
			if json.Valid([]byte(found)) {
				return found
			}
			if fallback == "" {
				fallback = found
			}
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	if fallback != "" {
		return fallback
	}
	return strings.TrimSpace(text[first:])
}

// StripCodeFence trims text and removes a surrounding ``` block, including
// a language tag
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		// A language identifier is short, has no spaces and no JSON
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the balanced {...} value at the start of text,
// or "" if text does not start with one.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractBalanced scans from an opening delimiter to its matching close,
// ignoring delimiters inside JSON strings.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
