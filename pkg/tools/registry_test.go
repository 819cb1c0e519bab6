package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	"kanzlei-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type countingTool struct {
	name  string
	kind  Kind
	calls int
	fail  bool
	panik bool
}

func (c *countingTool) Name() string        { return c.name }
func (c *countingTool) Description() string { return "test tool" }
func (c *countingTool) Kind() Kind          { return c.kind }
func (c *countingTool) Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result {
	c.calls++
	if c.panik {
		panic(errors.New("boom"))
	}
	if c.fail {
		return Errorf("kaputt")
	}
	return Result{Data: map[string]interface{}{"calls": c.calls}}
}

func newToolContext() *Context {
	return &Context{
		UserID: uuid.New(),
		Role:   "anwalt",
		Cache:  NewRunCache(time.Minute),
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	reg := NewRegistry(logger.NewNopLogger())
	result := reg.Execute(context.Background(), newToolContext(), "gibt_es_nicht", nil)
	if result.Error == "" {
		t.Fatal("unknown tool must return an error result")
	}
}

func TestRegistryPanicContainment(t *testing.T) {
	tool := &countingTool{name: "explosiv", kind: KindRead, panik: true}
	reg := NewRegistry(logger.NewNopLogger(), tool)

	result := reg.Execute(context.Background(), newToolContext(), "explosiv", nil)
	if result.Error == "" {
		t.Fatal("panicking tool must come back as an error result")
	}
}

func TestRegistryMemoizesIdenticalCalls(t *testing.T) {
	tool := &countingTool{name: "zaehler", kind: KindRead}
	reg := NewRegistry(logger.NewNopLogger(), tool)
	tc := newToolContext()
	params := map[string]interface{}{"akte_id": "a1"}

	first := reg.Execute(context.Background(), tc, "zaehler", params)
	second := reg.Execute(context.Background(), tc, "zaehler", params)

	if tool.calls != 1 {
		t.Errorf("identical call executed %d times, want 1", tool.calls)
	}
	if first.Error != "" || second.Error != "" {
		t.Error("unexpected errors")
	}

	// Different params miss the cache.
	reg.Execute(context.Background(), tc, "zaehler", map[string]interface{}{"akte_id": "a2"})
	if tool.calls != 2 {
		t.Errorf("distinct call executed %d times total, want 2", tool.calls)
	}
}

func TestRegistryDoesNotCacheErrors(t *testing.T) {
	tool := &countingTool{name: "wackelig", kind: KindRead, fail: true}
	reg := NewRegistry(logger.NewNopLogger(), tool)
	tc := newToolContext()

	reg.Execute(context.Background(), tc, "wackelig", nil)
	reg.Execute(context.Background(), tc, "wackelig", nil)

	if tool.calls != 2 {
		t.Errorf("failed call executed %d times, want 2 (errors must not be cached)", tool.calls)
	}
}

func TestRegistryFilter(t *testing.T) {
	reg := NewRegistry(logger.NewNopLogger(),
		&countingTool{name: "a", kind: KindRead},
		&countingTool{name: "b", kind: KindWrite},
		&countingTool{name: "c", kind: KindRead},
	)

	filtered := reg.Filter([]string{"a", "c", "unbekannt"})
	names := filtered.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("filtered names = %v", names)
	}
}

func TestFormatForPrompt(t *testing.T) {
	reg := NewRegistry(logger.NewNopLogger(), &countingTool{name: "akte_lesen", kind: KindRead})
	out := reg.FormatForPrompt()
	if out == "" {
		t.Fatal("empty prompt listing")
	}
	if out[0] != '-' {
		t.Errorf("expected bullet list, got %q", out)
	}
}
