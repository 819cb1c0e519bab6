package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/llm"
	"kanzlei-ai-be/pkg/tools"

	"github.com/google/uuid"
)

type scriptedProvider struct {
	responses []string
	calls     [][]llm.Message
	err       error
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	snapshot := make([]llm.Message, len(history))
	copy(snapshot, history)
	p.calls = append(p.calls, snapshot)

	if p.err != nil {
		return "", p.err
	}
	idx := len(p.calls) - 1
	if idx >= len(p.responses) {
		return "", errors.New("script exhausted")
	}
	return p.responses[idx], nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
}

type echoTool struct {
	name  string
	kind  tools.Kind
	calls int
	reply string
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "test tool" }
func (e *echoTool) Kind() tools.Kind    { return e.kind }
func (e *echoTool) Execute(ctx context.Context, tc *tools.Context, params map[string]interface{}) tools.Result {
	e.calls++
	reply := e.reply
	if reply == "" {
		reply = "ergebnis"
	}
	return tools.Result{Data: map[string]interface{}{"antwort": reply, "aufruf": e.calls}}
}

func newTestRequest(provider llm.LLMProvider, reg *tools.Registry) *RunRequest {
	return &RunRequest{
		Provider:     provider,
		Model:        "qwen2.5:14b",
		Tools:        reg,
		ToolContext:  &tools.Context{UserID: uuid.New(), Role: "anwalt"},
		SystemPrompt: "Du bist Helena.",
		History:      []llm.Message{{Role: llm.RoleUser, Content: "Was steht in der Akte?"}},
		Mode:         ModeInline,
		UserID:       uuid.New(),
		Tier:         2,
		Timeout:      5 * time.Second,
	}
}

func TestRunDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"In der Akte steht nichts Neues."}}
	reg := tools.NewRegistry(logger.NewNopLogger())
	o := NewOrchestrator(nil, logger.NewNopLogger())

	result := o.Run(context.Background(), newTestRequest(provider, reg))

	if result.FinishReason != FinishStop {
		t.Errorf("finish = %s, want %s", result.FinishReason, FinishStop)
	}
	if result.Text != "In der Akte steht nichts Neues." {
		t.Errorf("text = %q", result.Text)
	}
	if result.Rounds != 1 {
		t.Errorf("rounds = %d, want 1", result.Rounds)
	}
	if result.TotalTokens == 0 {
		t.Error("token accounting missing")
	}
}

func TestRunToolCallThenAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Thought: Ich muss die Akte lesen.\nAction: akte_lesen\nAction Input: {\"akte_id\": \"a1\"}",
		"Die Akte betrifft eine Kündigungsschutzklage.",
	}}
	tool := &echoTool{name: "akte_lesen", kind: tools.KindRead}
	reg := tools.NewRegistry(logger.NewNopLogger(), tool)
	o := NewOrchestrator(nil, logger.NewNopLogger())

	result := o.Run(context.Background(), newTestRequest(provider, reg))

	if result.FinishReason != FinishStop {
		t.Fatalf("finish = %s", result.FinishReason)
	}
	if tool.calls != 1 {
		t.Errorf("tool executed %d times, want 1", tool.calls)
	}
	if result.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", result.Rounds)
	}

	// Audit trail: thought, tool call, tool result.
	var haveThought, haveCall, haveResult bool
	for _, s := range result.Steps {
		switch s.Type {
		case StepThought:
			haveThought = true
		case StepToolCall:
			haveCall = true
		case StepToolResult:
			haveResult = true
		}
	}
	if !haveThought || !haveCall || !haveResult {
		t.Errorf("incomplete audit trail: %+v", result.Steps)
	}

	// Second model call must have seen the observation.
	second := provider.calls[1]
	found := false
	for _, m := range second {
		if m.Role == llm.RoleTool && strings.Contains(m.Content, "akte_lesen") {
			found = true
		}
	}
	if !found {
		t.Error("observation not fed back to the model")
	}
}

func TestRunStallForcesAnswer(t *testing.T) {
	repeat := "Thought: Nochmal lesen.\nAction: akte_lesen\nAction Input: {\"akte_id\": \"a1\"}"
	provider := &scriptedProvider{responses: []string{
		repeat,
		repeat,
		"Mehr Informationen liegen nicht vor.",
	}}
	tool := &echoTool{name: "akte_lesen", kind: tools.KindRead}
	reg := tools.NewRegistry(logger.NewNopLogger(), tool)
	o := NewOrchestrator(nil, logger.NewNopLogger())

	req := newTestRequest(provider, reg)
	// No caching so the duplicate call reaches the detector with a result.
	req.ToolContext.Cache = nil

	result := o.Run(context.Background(), req)

	if !result.Stalled {
		t.Fatal("run should be marked stalled")
	}
	if result.FinishReason != FinishStop {
		t.Errorf("finish = %s, want %s (model answered after nudge)", result.FinishReason, FinishStop)
	}

	// The force answer instruction must have been injected before the
	// third call.
	third := provider.calls[2]
	found := false
	for _, m := range third {
		if strings.Contains(m.Content, constant.ForceAnswerInstructionV1) {
			found = true
		}
	}
	if !found {
		t.Error("force answer instruction missing from the conversation")
	}
}

func TestRunStepCap(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Action: akte_lesen\nAction Input: {\"akte_id\": \"a1\"}",
		"Action: akte_lesen\nAction Input: {\"akte_id\": \"a2\"}",
		"Zusammenfassung aus den bisherigen Ergebnissen.",
	}}
	tool := &echoTool{name: "akte_lesen", kind: tools.KindRead}
	reg := tools.NewRegistry(logger.NewNopLogger(), tool)
	o := NewOrchestrator(nil, logger.NewNopLogger())

	req := newTestRequest(provider, reg)
	req.MaxSteps = 2

	result := o.Run(context.Background(), req)

	// The wire value matters, clients and usage rows key on it.
	if result.FinishReason != "tool-calls" {
		t.Errorf("finish = %s, want tool-calls", result.FinishReason)
	}
	if result.Rounds != 2 {
		t.Errorf("rounds = %d, want 2", result.Rounds)
	}
	if result.Text != "Zusammenfassung aus den bisherigen Ergebnissen." {
		t.Errorf("salvage answer missing, text = %q", result.Text)
	}
}

func TestRunProviderError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	reg := tools.NewRegistry(logger.NewNopLogger())
	o := NewOrchestrator(nil, logger.NewNopLogger())

	result := o.Run(context.Background(), newTestRequest(provider, reg))

	if result.FinishReason != FinishError {
		t.Errorf("finish = %s, want %s", result.FinishReason, FinishError)
	}
	if result.Text == "" {
		t.Error("error run must still produce text")
	}
}

func TestRunEmbeddedToolCallNotExecuted(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		`Die Akte ist vollständig. {"tool": "akte_lesen", "params": {"akte_id": "a1"}}`,
	}}
	tool := &echoTool{name: "akte_lesen", kind: tools.KindRead}
	reg := tools.NewRegistry(logger.NewNopLogger(), tool)
	o := NewOrchestrator(nil, logger.NewNopLogger())

	result := o.Run(context.Background(), newTestRequest(provider, reg))

	// Tool-call JSON inside prose is stripped, never executed.
	if tool.calls != 0 {
		t.Errorf("embedded call executed %d times, want 0", tool.calls)
	}
	if result.FinishReason != FinishStop {
		t.Errorf("finish = %s, want %s", result.FinishReason, FinishStop)
	}
	if result.Text != "Die Akte ist vollständig." {
		t.Errorf("text = %q", result.Text)
	}
	if strings.Contains(result.Text, `"tool"`) {
		t.Error("raw tool JSON leaked into the final answer")
	}
	if len(provider.calls) != 1 {
		t.Errorf("model called %d times, want 1", len(provider.calls))
	}
}

func TestSummarizeKeepsUmlautsIntact(t *testing.T) {
	s := strings.Repeat("ä", 10)

	got := summarize(s, 4)
	if got != "ääää…" {
		t.Errorf("summarize = %q, want 4 runes plus ellipsis", got)
	}
	if summarize("kurz", 10) != "kurz" {
		t.Error("short strings must pass through untouched")
	}
}

func TestRunCancellation(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"egal"}}
	reg := tools.NewRegistry(logger.NewNopLogger())
	o := NewOrchestrator(nil, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := o.Run(ctx, newTestRequest(provider, reg))

	if result.FinishReason != FinishAbort {
		t.Errorf("finish = %s, want %s", result.FinishReason, FinishAbort)
	}
	if !strings.HasPrefix(result.Text, constant.PartialAnswerPrefixV1) {
		t.Errorf("cancelled run should return partial text, got %q", result.Text)
	}
}
