package token

import (
	"math"
	"strings"

	"kanzlei-ai-be/pkg/llm"
)

// Rough chars-per-token ratio. Good enough for budget decisions, we never
// bill against this number.
const charsPerToken = 3.5

// Fixed overhead per chat message (role framing, separators).
const perMessageOverhead = 4

// EstimateTokens approximates the token count of a text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(len(text)) / charsPerToken))
}

// EstimateMessages approximates the total token count of a chat history.
func EstimateMessages(messages []llm.Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateTokens(m.Content) + perMessageOverhead
	}
	return total
}

// knownWindows maps model name fragments to their context window sizes.
// Matched by substring so version suffixes (":14b", "-instruct") still hit.
var knownWindows = []struct {
	fragment string
	window   int
}{
	{"llama3.1", 131072},
	{"llama3", 8192},
	{"qwen2.5", 32768},
	{"qwen", 32768},
	{"mistral", 32768},
	{"mixtral", 32768},
	{"gemma2", 8192},
	{"phi3", 131072},
	{"deepseek", 65536},
	{"gpt-4o", 128000},
	{"command-r", 131072},
}

const defaultWindow = 32768

// ContextWindow resolves the context window for a model name.
func ContextWindow(modelName string) int {
	name := strings.ToLower(modelName)
	for _, k := range knownWindows {
		if strings.Contains(name, k.fragment) {
			return k.window
		}
	}
	return defaultWindow
}

// DefaultBudgetPercent is the share of the window the working message list
// may occupy before old messages get evicted.
const DefaultBudgetPercent = 0.75

// TruncateMessages evicts old messages until the estimate fits under
// window*percent. Protected and never evicted: all system messages, the
// first user message, and the last three messages. Eviction order: tool
// results first, then assistant messages, then the rest, oldest first
// within each category. Returns the (possibly shorter) list and whether
// anything was removed.
func TruncateMessages(messages []llm.Message, window int, percent float64) ([]llm.Message, bool) {
	if percent <= 0 {
		percent = DefaultBudgetPercent
	}
	budget := int(float64(window) * percent)

	if EstimateMessages(messages) <= budget {
		return messages, false
	}

	protected := make(map[int]bool, len(messages))
	firstUserSeen := false
	for i, m := range messages {
		if m.Role == llm.RoleSystem {
			protected[i] = true
		}
		if m.Role == llm.RoleUser && !firstUserSeen {
			protected[i] = true
			firstUserSeen = true
		}
	}
	for i := len(messages) - 3; i < len(messages); i++ {
		if i >= 0 {
			protected[i] = true
		}
	}

	evicted := make(map[int]bool)
	estimate := EstimateMessages(messages)

	evictClass := func(match func(llm.Message) bool) {
		for i, m := range messages {
			if estimate <= budget {
				return
			}
			if protected[i] || evicted[i] || !match(m) {
				continue
			}
			evicted[i] = true
			estimate -= EstimateTokens(m.Content) + perMessageOverhead
		}
	}

	evictClass(func(m llm.Message) bool { return m.Role == llm.RoleTool })
	evictClass(func(m llm.Message) bool { return m.Role == llm.RoleAssistant })
	evictClass(func(m llm.Message) bool { return true })

	if len(evicted) == 0 {
		return messages, false
	}

	kept := make([]llm.Message, 0, len(messages)-len(evicted))
	for i, m := range messages {
		if !evicted[i] {
			kept = append(kept, m)
		}
	}
	return kept, true
}
