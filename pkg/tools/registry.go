package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/agent/stall"
)

// Registry holds the tools available to a run and wraps every execution
// with caching, audit logging and panic containment.
type Registry struct {
	tools map[string]Tool
	order []string
	log   logger.ILogger
}

func NewRegistry(log logger.ILogger, tools ...Tool) *Registry {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		log:   log,
	}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Filter returns a new registry limited to the given tool names. Unknown
// names are ignored.
func (r *Registry) Filter(names []string) *Registry {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	filtered := &Registry{tools: map[string]Tool{}, log: r.log}
	for _, n := range r.order {
		if allowed[n] {
			filtered.Register(r.tools[n])
		}
	}
	return filtered
}

// FormatForPrompt renders the tool list for the system prompt.
func (r *Registry) FormatForPrompt() string {
	var b strings.Builder
	for _, name := range r.order {
		t := r.tools[name]
		fmt.Fprintf(&b, "- %s: %s\n", t.Name(), t.Description())
	}
	return b.String()
}

// Execute runs a tool by name. Unknown tools, panics and tool errors all
// come back as a Result with Error set. The run itself never dies here.
func (r *Registry) Execute(ctx context.Context, tc *Context, name string, params map[string]interface{}) (result Result) {
	tool, ok := r.tools[name]
	if !ok {
		return Errorf("unbekanntes Werkzeug: %s", name)
	}

	cacheKey := stall.CallKey(name, params)
	if tc.Cache != nil {
		if cached, hit := tc.Cache.Get(cacheKey); hit {
			r.log.Debug("tools", "cache hit", map[string]interface{}{
				"tool": name,
			})
			return cached
		}
	}

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("tools", "tool panicked", map[string]interface{}{
				"tool":  name,
				"panic": fmt.Sprintf("%v", rec),
			})
			result = Errorf("Werkzeug %s ist fehlgeschlagen", name)
		}

		paramsJSON, _ := json.Marshal(params)
		r.log.Info("tools", "tool executed", map[string]interface{}{
			"tool":        name,
			"params":      string(paramsJSON),
			"user_id":     tc.UserID.String(),
			"duration_ms": time.Since(start).Milliseconds(),
			"failed":      result.Error != "",
		})

		if tc.Cache != nil && result.Error == "" {
			tc.Cache.Set(cacheKey, result)
		}
	}()

	return tool.Execute(ctx, tc, params)
}
