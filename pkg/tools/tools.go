package tools

import (
	"context"
	"fmt"

	"kanzlei-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Kind separates read tools from tools that mutate case data. The role
// filter uses this to build per-role tool sets.
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
)

// Context carries the per-run identity and data access a tool may use.
type Context struct {
	UserID uuid.UUID
	Role   string
	// AkteID is the case the conversation is anchored to, if any.
	AkteID *uuid.UUID
	// CanAccessAkte guards cross-case access. A nil predicate allows
	// everything, the service layer always sets one.
	CanAccessAkte func(akteId uuid.UUID) bool
	UOW           unitofwork.RepositoryFactory
	Cache         *RunCache
}

// Source records where a tool result came from, for the audit trail.
type Source struct {
	Table string `json:"table"`
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
}

// Result is what every tool returns. Data and Error are mutually
// exclusive: a failed call carries Error and nil Data, and never aborts
// the surrounding run.
type Result struct {
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Sources []Source    `json:"sources,omitempty"`
}

func Errorf(format string, args ...interface{}) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Tool is one capability exposed to the model.
type Tool interface {
	Name() string
	Description() string
	Kind() Kind
	Execute(ctx context.Context, tc *Context, params map[string]interface{}) Result
}

// Param helpers. Model-produced params arrive as map[string]interface{}
// with JSON types only.

func stringParam(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

func uuidParam(params map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, ok := params[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// resolveAkteID takes the case id from params, falling back to the
// conversation anchor, and enforces the caller's case access.
func resolveAkteID(tc *Context, params map[string]interface{}) (uuid.UUID, error) {
	id, ok := uuidParam(params, "akte_id")
	if !ok {
		if tc.AkteID == nil {
			return uuid.Nil, fmt.Errorf("akte_id fehlt und das Gespräch ist an keine Akte gebunden")
		}
		id = *tc.AkteID
	}
	if tc.CanAccessAkte != nil && !tc.CanAccessAkte(id) {
		return uuid.Nil, fmt.Errorf("kein Zugriff auf Akte %s", id)
	}
	return id, nil
}
