package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/agent/guard"
	"kanzlei-ai-be/pkg/agent/stall"
	"kanzlei-ai-be/pkg/agent/token"
	"kanzlei-ai-be/pkg/llm"
	"kanzlei-ai-be/pkg/tools"

	"github.com/google/uuid"
)

// Run modes.
const (
	ModeInline     = "inline"
	ModeBackground = "background"
)

// Terminal reasons of a run.
const (
	FinishStop    = "stop"       // model produced a final answer
	FinishStall   = "stall"      // step cap hit while stalled
	FinishSteps   = "tool-calls" // step cap hit, the model still wanted tools
	FinishAbort   = "abort"      // caller cancelled
	FinishTimeout = "timeout"    // run deadline exceeded
	FinishError   = "error"      // provider failure
)

// Default caps per mode.
const (
	DefaultInlineMaxSteps     = 5
	DefaultBackgroundMaxSteps = 20
	DefaultInlineTimeout      = 30 * time.Second
	DefaultBackgroundTimeout  = 180 * time.Minute
)

// Step types in the audit trail.
const (
	StepThought    = "thought"
	StepToolCall   = "tool_call"
	StepToolResult = "tool_result"
	StepError      = "error"
)

// Step is one entry of a run's audit trail.
type Step struct {
	Type       string                 `json:"type"`
	Content    string                 `json:"content,omitempty"`
	Tool       string                 `json:"tool,omitempty"`
	Params     map[string]interface{} `json:"params,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// ProgressUpdate is pushed to the caller after every model round.
type ProgressUpdate struct {
	Round     int    `json:"round"`
	MaxSteps  int    `json:"max_steps"`
	LastStep  *Step  `json:"last_step,omitempty"`
	Stalled   bool   `json:"stalled"`
	Truncated bool   `json:"truncated"`
	Text      string `json:"text,omitempty"`
}

// RunRequest describes one agent run.
type RunRequest struct {
	Provider     llm.LLMProvider
	Model        string
	Tools        *tools.Registry
	ToolContext  *tools.Context
	SystemPrompt string
	History      []llm.Message
	Mode         string
	UserID       uuid.UUID
	SessionID    *uuid.UUID
	Tier         int
	MaxSteps     int
	Timeout      time.Duration
	OnProgress   func(ProgressUpdate)
}

// RunResult is the complete outcome of a run. Run never returns an error:
// whatever happens is folded into the result so callers always have
// something to show and to audit.
type RunResult struct {
	Text             string
	Steps            []Step
	FinishReason     string
	Stalled          bool
	Truncated        bool
	Rounds           int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Duration         time.Duration
}

// UsageRecorder persists accounting rows. Failures are logged, never
// propagated into the run.
type UsageRecorder interface {
	Record(ctx context.Context, usage *entity.AgentUsage) error
}

// Orchestrator drives the reason/act loop against an LLM provider.
type Orchestrator struct {
	usage UsageRecorder
	log   logger.ILogger
}

func NewOrchestrator(usage UsageRecorder, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		usage: usage,
		log:   log,
	}
}

func (o *Orchestrator) defaults(req *RunRequest) (int, time.Duration) {
	maxSteps := req.MaxSteps
	timeout := req.Timeout
	if req.Mode == ModeBackground {
		if maxSteps <= 0 {
			maxSteps = DefaultBackgroundMaxSteps
		}
		if timeout <= 0 {
			timeout = DefaultBackgroundTimeout
		}
	} else {
		if maxSteps <= 0 {
			maxSteps = DefaultInlineMaxSteps
		}
		if timeout <= 0 {
			timeout = DefaultInlineTimeout
		}
	}
	return maxSteps, timeout
}

// Run executes the loop until the model answers, a cap is hit, or the
// context dies.
func (o *Orchestrator) Run(ctx context.Context, req *RunRequest) *RunResult {
	start := time.Now()
	maxSteps, timeout := o.defaults(req)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := &RunResult{FinishReason: FinishStop}
	window := token.ContextWindow(req.Model)
	detector := stall.NewDetector()
	nudged := false

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: req.SystemPrompt})
	messages = append(messages, req.History...)

	defer func() {
		result.Duration = time.Since(start)
		result.TotalTokens = result.PromptTokens + result.CompletionTokens
		o.recordUsage(req, result)
	}()

	for round := 1; round <= maxSteps; round++ {
		result.Rounds = round

		if err := runCtx.Err(); err != nil {
			o.finishInterrupted(result, err)
			return result
		}

		result.PromptTokens += token.EstimateMessages(messages)
		response, err := req.Provider.Chat(runCtx, messages, llm.WithModel(req.Model))
		if err != nil {
			o.finishFailed(result, runCtx, err)
			return result
		}
		result.CompletionTokens += token.EstimateTokens(response)

		for _, thought := range parseThoughts(response) {
			result.Steps = append(result.Steps, Step{
				Type:      StepThought,
				Content:   thought,
				Timestamp: time.Now(),
			})
		}

		actions := parseActions(response)
		if len(actions) == 0 {
			if embedded := guard.ScanForEmbeddedCalls(response); len(embedded) > 0 {
				// Tool-call JSON hidden in prose is never executed. It is
				// logged for the audit trail and stripped from the answer.
				for _, e := range embedded {
					o.log.Warn("agent", "tool call embedded in prose, dropped", map[string]interface{}{
						"user_id": req.UserID.String(),
						"tool":    e.Tool,
					})
				}
				response = guard.StripEmbeddedCalls(response, embedded)
			}
			result.Text = stripProtocol(response)
			result.FinishReason = FinishStop
			o.progress(req, result, maxSteps, nil)
			return result
		}

		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: response})
		messages = o.executeActions(runCtx, req, result, detector, messages, actions)

		if detector.IsStalled() && !nudged {
			nudged = true
			result.Stalled = true
			o.log.Warn("agent", "run stalled, forcing answer", map[string]interface{}{
				"user_id": req.UserID.String(),
				"reason":  detector.Reason(),
			})
			messages = append(messages, llm.Message{
				Role:    llm.RoleUser,
				Content: constant.ForceAnswerInstructionV1,
			})
		}

		if truncated, changed := token.TruncateMessages(messages, window, token.DefaultBudgetPercent); changed {
			messages = truncated
			result.Truncated = true
		}

		o.progress(req, result, maxSteps, lastStep(result.Steps))
	}

	// Step cap reached without a final answer. One last call, tools
	// forbidden, to salvage an answer from what was gathered.
	result.FinishReason = FinishSteps
	if result.Stalled {
		result.FinishReason = FinishStall
	}
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: constant.ForceAnswerInstructionV1,
	})
	response, err := req.Provider.Chat(runCtx, messages, llm.WithModel(req.Model))
	if err != nil {
		result.Text = o.partialText(result)
		return result
	}
	result.CompletionTokens += token.EstimateTokens(response)
	result.Text = stripProtocol(response)
	if result.Text == "" {
		result.Text = o.partialText(result)
	}
	o.progress(req, result, maxSteps, nil)
	return result
}

// executeActions runs all tool calls of one round in parallel and appends
// the observations in call order.
func (o *Orchestrator) executeActions(ctx context.Context, req *RunRequest, result *RunResult, detector *stall.Detector, messages []llm.Message, actions []action) []llm.Message {
	results := make([]tools.Result, len(actions))
	var wg sync.WaitGroup

	for i, a := range actions {
		result.Steps = append(result.Steps, Step{
			Type:      StepToolCall,
			Tool:      a.tool,
			Params:    a.params,
			Timestamp: time.Now(),
		})

		if a.params == nil {
			results[i] = tools.Errorf("ungültige Parameter für %s: %s", a.tool, a.rawInput)
			continue
		}

		wg.Add(1)
		go func(idx int, act action) {
			defer wg.Done()
			results[idx] = req.Tools.Execute(ctx, req.ToolContext, act.tool, act.params)
		}(i, a)
	}
	wg.Wait()

	for i, a := range actions {
		r := results[i]
		payload, merr := json.Marshal(r)
		if merr != nil {
			payload = []byte(fmt.Sprintf(`{"error":"%v"}`, merr))
		}

		stepType := StepToolResult
		if r.Error != "" {
			stepType = StepError
		}
		result.Steps = append(result.Steps, Step{
			Type:      stepType,
			Tool:      a.tool,
			Content:   summarize(string(payload), 500),
			Timestamp: time.Now(),
		})

		detector.Record(a.tool, a.params, string(payload))

		messages = append(messages, llm.Message{
			Role:    llm.RoleTool,
			Content: fmt.Sprintf("Observation (%s): %s", a.tool, payload),
		})
	}
	return messages
}

func (o *Orchestrator) finishInterrupted(result *RunResult, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		result.FinishReason = FinishTimeout
	} else {
		result.FinishReason = FinishAbort
	}
	result.Text = o.partialText(result)
}

func (o *Orchestrator) finishFailed(result *RunResult, ctx context.Context, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.FinishReason = FinishTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		result.FinishReason = FinishAbort
	default:
		result.FinishReason = FinishError
		o.log.Error("agent", "provider call failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	result.Text = o.partialText(result)
}

// partialText assembles a fallback answer from the thoughts gathered so
// far. Better an honest fragment than an empty reply.
func (o *Orchestrator) partialText(result *RunResult) string {
	var thoughts []string
	for _, s := range result.Steps {
		if s.Type == StepThought && s.Content != "" {
			thoughts = append(thoughts, "- "+s.Content)
		}
	}
	if len(thoughts) == 0 {
		return constant.PartialAnswerPrefixV1 + "Es liegen noch keine Zwischenergebnisse vor."
	}
	return constant.PartialAnswerPrefixV1 + strings.Join(thoughts, "\n")
}

func (o *Orchestrator) progress(req *RunRequest, result *RunResult, maxSteps int, last *Step) {
	if req.OnProgress == nil {
		return
	}
	req.OnProgress(ProgressUpdate{
		Round:     result.Rounds,
		MaxSteps:  maxSteps,
		LastStep:  last,
		Stalled:   result.Stalled,
		Truncated: result.Truncated,
		Text:      result.Text,
	})
}

func (o *Orchestrator) recordUsage(req *RunRequest, result *RunResult) {
	if o.usage == nil {
		return
	}
	usage := &entity.AgentUsage{
		Id:               uuid.New(),
		UserId:           req.UserID,
		SessionId:        req.SessionID,
		Modell:           req.Model,
		Tier:             req.Tier,
		Modus:            req.Mode,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,
		Schritte:         result.Rounds,
		DauerMs:          result.Duration.Milliseconds(),
		FinishReason:     result.FinishReason,
		Stalled:          result.Stalled,
	}
	// Detached context: usage must survive a cancelled run context.
	recordCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.usage.Record(recordCtx, usage); err != nil {
		o.log.Warn("agent", "usage recording failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// summarize truncates on rune boundaries so umlauts survive the cut.
func summarize(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func lastStep(steps []Step) *Step {
	if len(steps) == 0 {
		return nil
	}
	return &steps[len(steps)-1]
}
