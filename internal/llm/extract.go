package llm

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractJSONObject returns the first balanced {...} object found in free
// text. Providers routinely wrap JSON in prose or markdown fences, so the
// scanner tracks string literals and escapes rather than trusting the text to
// start with a brace.
func ExtractJSONObject(content string) (string, error) {
	content = CleanMarkdownWrapper(content)

	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return content[start : i+1], nil
				}
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in response")
}

// CleanMarkdownWrapper strips ```json fences that models wrap around output.
func CleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	return strings.TrimSpace(content)
}

// CoerceInt converts a loosely typed numeric value to an int. Models return
// prices as numbers, numeric strings, or formatted strings ("₹1,19,900");
// anything unparseable coerces to 0.
func CoerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, n)
		if digits == "" {
			return 0
		}
		i, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// CoerceFloat converts a loosely typed value to a float64 clamped to [0,1].
// Used for confidence scores, which models occasionally return as percentages
// or strings.
func CoerceFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if strings.HasSuffix(s, "%") {
			if p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64); err == nil {
				f = p / 100.0
			}
		} else if p, err := strconv.ParseFloat(s, 64); err == nil {
			f = p
		}
	}
	if f > 1.0 && f <= 100.0 {
		f /= 100.0
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f
}
