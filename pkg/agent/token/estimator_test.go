package token

import (
	"strings"
	"testing"

	"kanzlei-ai-be/pkg/llm"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"seven chars", "abcdefg", 2},
		{"exact multiple", "abcdefg", 2}, // ceil(7/3.5)
		{"single char", "a", 1},
		{"fourteen chars", "abcdefghijklmn", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestContextWindow(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{"qwen2.5:14b", 32768},
		{"llama3:8b", 8192},
		{"llama3.1:70b", 131072},
		{"totally-unknown-model", 32768},
		{"Mistral-7B-Instruct", 32768},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := ContextWindow(tt.model); got != tt.want {
				t.Errorf("ContextWindow(%q) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}

func TestTruncateMessagesUnderBudget(t *testing.T) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "system"},
		{Role: llm.RoleUser, Content: "hello"},
	}

	got, truncated := TruncateMessages(messages, 32768, 0.75)
	if truncated {
		t.Error("expected no truncation under budget")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 messages, got %d", len(got))
	}
}

func TestTruncateMessagesProtection(t *testing.T) {
	long := strings.Repeat("x", 400)

	// Build a history that is far over a tiny budget no matter what.
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: long},
		{Role: llm.RoleUser, Content: long},      // first user message
		{Role: llm.RoleTool, Content: long},      // evictable
		{Role: llm.RoleAssistant, Content: long}, // evictable
		{Role: llm.RoleTool, Content: long},      // evictable
		{Role: llm.RoleAssistant, Content: long}, // last three start here
		{Role: llm.RoleUser, Content: long},
		{Role: llm.RoleAssistant, Content: long},
	}

	got, truncated := TruncateMessages(messages, 100, 0.75)
	if !truncated {
		t.Fatal("expected truncation")
	}

	// System message must survive
	if got[0].Role != llm.RoleSystem {
		t.Error("system message was evicted")
	}

	// First user message must survive
	foundFirstUser := false
	for _, m := range got {
		if m.Role == llm.RoleUser && m.Content == long {
			foundFirstUser = true
			break
		}
	}
	if !foundFirstUser {
		t.Error("first user message was evicted")
	}

	// Last three of the original list must survive
	if len(got) < 3 {
		t.Fatalf("fewer than 3 messages kept: %d", len(got))
	}
	tail := got[len(got)-3:]
	if tail[0].Role != llm.RoleAssistant || tail[1].Role != llm.RoleUser || tail[2].Role != llm.RoleAssistant {
		t.Errorf("last three messages not preserved in order: %+v", tail)
	}

	// All plain tool messages outside the tail should be gone
	for i, m := range got {
		if m.Role == llm.RoleTool && i < len(got)-3 {
			t.Error("tool message outside protected tail survived over-budget truncation")
		}
	}
}

func TestTruncateMessagesEvictionOrder(t *testing.T) {
	long := strings.Repeat("y", 200)
	short := "ok"

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: short},
		{Role: llm.RoleUser, Content: short},
		{Role: llm.RoleAssistant, Content: long},
		{Role: llm.RoleTool, Content: long},
		{Role: llm.RoleUser, Content: short},
		{Role: llm.RoleAssistant, Content: short},
		{Role: llm.RoleUser, Content: short},
	}

	// Budget chosen so evicting the tool message alone is enough.
	budgetWindow := int(float64(EstimateMessages(messages)-EstimateTokens(long)) / 0.75)

	got, truncated := TruncateMessages(messages, budgetWindow, 0.75)
	if !truncated {
		t.Fatal("expected truncation")
	}

	for _, m := range got {
		if m.Role == llm.RoleTool {
			t.Error("tool message should be evicted before assistant messages")
		}
	}
	// The long assistant message should still be there (tool went first)
	foundAssistant := false
	for _, m := range got {
		if m.Role == llm.RoleAssistant && m.Content == long {
			foundAssistant = true
		}
	}
	if !foundAssistant {
		t.Error("assistant message evicted although tool eviction was sufficient")
	}
}
