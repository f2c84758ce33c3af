package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ,} or ,]
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
	// "a"\n"b": needs a comma between the two
	missingCommaRegex = regexp.MustCompile(`("|\d|true|false|null|[}\]])\s*\n\s*("[\w][^"]*"\s*:)`)
)

// ExtractAndParseJSON extracts the first JSON value from a model response and
// unmarshals it into T. Markdown fences and trailing prose are ignored, and a
// second attempt is made after repairing common syntax slips.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := stripFences(response)
	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("no JSON found in response")
	}
	jsonPart := cleaned[idx:]

	err := json.NewDecoder(strings.NewReader(jsonPart)).Decode(&result)
	if err == nil {
		return result, nil
	}

	repaired := repairJSON(jsonPart)
	if repaired != jsonPart {
		var second T
		if json.NewDecoder(strings.NewReader(repaired)).Decode(&second) == nil {
			return second, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}

func repairJSON(input string) string {
	out := escapeControlChars(input)
	out = missingCommaRegex.ReplaceAllString(out, `$1, $2`)
	out = trailingCommaRegex.ReplaceAllString(out, `$1`)
	return closeTruncated(out)
}

// escapeControlChars escapes raw newlines and tabs that appear inside strings.
func escapeControlChars(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))

	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c == '\n':
			sb.WriteString(`\n`)
			continue
		case inString && c == '\t':
			sb.WriteString(`\t`)
			continue
		case inString && c == '\r':
			sb.WriteString(`\r`)
			continue
		case inString && c < 0x20:
			fmt.Fprintf(&sb, `\u%04x`, c)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// closeTruncated closes an unterminated string and any open brackets, in
// nesting order.
func closeTruncated(input string) string {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			stack = append(stack, '}')
		case c == '[':
			stack = append(stack, ']')
		case (c == '}' || c == ']') && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}

	var sb strings.Builder
	sb.WriteString(input)
	if inString {
		sb.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}

func stripFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
