package guard

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Guard cleans up malformed model output before it reaches the tool layer.
// Local models routinely emit almost-JSON: trailing commas, single quotes,
// unquoted keys. We repair in stages and stop at the first parse success.

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
)

// RepairToolCall tries to parse raw as a JSON object, applying repairs of
// increasing aggressiveness. Returns nil when nothing parseable remains.
func RepairToolCall(raw string) map[string]interface{} {
	candidate := strings.TrimSpace(raw)
	candidate = stripCodeFence(candidate)

	stages := []func(string) string{
		func(s string) string { return s },
		stripTrailingCommas,
		normalizeQuotes,
		quoteBareKeys,
	}

	for _, stage := range stages {
		candidate = stage(candidate)
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			return parsed
		}
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func normalizeQuotes(s string) string {
	replacer := strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", `'`, "’", `'`,
	)
	s = replacer.Replace(s)
	// Swap single for double quotes only when the text carries no double
	// quotes at all, otherwise we would corrupt valid strings.
	if !strings.Contains(s, `"`) {
		s = strings.ReplaceAll(s, `'`, `"`)
	}
	return s
}

func quoteBareKeys(s string) string {
	return bareKeyRe.ReplaceAllString(s, `$1"$2":`)
}

// EmbeddedCall is a tool invocation the model buried inside prose instead
// of emitting through the action protocol.
type EmbeddedCall struct {
	Tool   string
	Params map[string]interface{}
	Raw    string
}

// ScanForEmbeddedCalls finds JSON objects of the shape
// {"tool": ..., "params": {...}} inside a free text answer. The orchestrator
// executes these instead of showing the raw JSON to the user.
func ScanForEmbeddedCalls(text string) []EmbeddedCall {
	var calls []EmbeddedCall
	for _, raw := range extractObjects(text) {
		if !strings.Contains(raw, `"tool"`) {
			continue
		}
		parsed := RepairToolCall(raw)
		if parsed == nil {
			continue
		}
		tool, ok := parsed["tool"].(string)
		if !ok || tool == "" {
			continue
		}
		params, _ := parsed["params"].(map[string]interface{})
		calls = append(calls, EmbeddedCall{Tool: tool, Params: params, Raw: raw})
	}
	return calls
}

// extractObjects walks the text and returns every top level {...} span,
// tracking brace depth and string state so braces inside values do not
// split objects.
func extractObjects(text string) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i, r := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					spans = append(spans, text[start:i+1])
					start = -1
				}
			}
		}
	}
	return spans
}

// StripEmbeddedCalls removes the raw JSON of the given calls from a text so
// the user never sees protocol leakage.
func StripEmbeddedCalls(text string, calls []EmbeddedCall) string {
	for _, c := range calls {
		text = strings.Replace(text, c.Raw, "", 1)
	}
	return strings.TrimSpace(text)
}
