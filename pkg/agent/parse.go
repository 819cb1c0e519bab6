package agent

import (
	"regexp"
	"strings"

	"kanzlei-ai-be/pkg/agent/guard"
)

var (
	actionRe  = regexp.MustCompile(`(?m)^\s*Action:\s*([A-Za-z0-9_\-]+)\s*$`)
	thoughtRe = regexp.MustCompile(`(?m)^\s*Thought:\s*(.+)$`)
)

type action struct {
	tool     string
	rawInput string
	params   map[string]interface{}
}

// parseThoughts extracts the Thought lines of a model response.
func parseThoughts(response string) []string {
	matches := thoughtRe.FindAllStringSubmatch(response, -1)
	thoughts := make([]string, 0, len(matches))
	for _, m := range matches {
		thoughts = append(thoughts, strings.TrimSpace(m[1]))
	}
	return thoughts
}

// parseActions extracts every Action / Action Input pair from a model
// response. The input JSON is read by brace matching from the first '{'
// after the Action Input marker, so multi line objects survive. Broken
// JSON goes through the repair stages; if nothing parses the action is
// returned with nil params and the caller reports it back to the model.
func parseActions(response string) []action {
	locs := actionRe.FindAllStringSubmatchIndex(response, -1)
	actions := make([]action, 0, len(locs))

	for i, loc := range locs {
		tool := response[loc[2]:loc[3]]

		searchEnd := len(response)
		if i+1 < len(locs) {
			searchEnd = locs[i+1][0]
		}
		segment := response[loc[1]:searchEnd]

		raw := extractActionInput(segment)
		a := action{tool: tool, rawInput: raw}
		if raw != "" {
			a.params = guard.RepairToolCall(raw)
		} else {
			a.params = map[string]interface{}{}
		}
		actions = append(actions, a)
	}
	return actions
}

// extractActionInput finds the JSON object following an "Action Input:"
// marker within a segment.
func extractActionInput(segment string) string {
	idx := strings.Index(segment, "Action Input:")
	if idx < 0 {
		return ""
	}
	rest := segment[idx+len("Action Input:"):]

	start := strings.IndexByte(rest, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(rest); i++ {
		c := rest[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[start : i+1]
			}
		}
	}
	return ""
}

// stripProtocol removes Thought/Action blocks from a response, leaving
// only prose meant for the user.
func stripProtocol(response string) string {
	lines := strings.Split(response, "\n")
	var kept []string
	skipJSON := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if skipJSON > 0 {
			skipJSON += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
			if skipJSON < 0 {
				skipJSON = 0
			}
			continue
		}
		if strings.HasPrefix(trimmed, "Thought:") || strings.HasPrefix(trimmed, "Action:") {
			continue
		}
		if strings.HasPrefix(trimmed, "Action Input:") {
			skipJSON = strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
			if skipJSON < 0 {
				skipJSON = 0
			}
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
