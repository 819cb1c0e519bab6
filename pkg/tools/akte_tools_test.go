package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestResolveAkteIDEnforcesCaseAccess(t *testing.T) {
	anchor := uuid.New()
	foreign := uuid.New()
	tc := &Context{
		UserID: uuid.New(),
		Role:   "anwalt",
		AkteID: &anchor,
		CanAccessAkte: func(id uuid.UUID) bool {
			return id == anchor
		},
	}

	id, err := resolveAkteID(tc, map[string]interface{}{})
	if err != nil || id != anchor {
		t.Fatalf("anchor fallback failed: id=%s err=%v", id, err)
	}

	id, err = resolveAkteID(tc, map[string]interface{}{"akte_id": anchor.String()})
	if err != nil || id != anchor {
		t.Fatalf("explicit anchor id failed: id=%s err=%v", id, err)
	}

	if _, err = resolveAkteID(tc, map[string]interface{}{"akte_id": foreign.String()}); err == nil {
		t.Fatal("foreign akte_id must be refused")
	}

	// The refusal reaches the model as a tool error, before any
	// repository is touched.
	result := (&AkteLesenTool{}).Execute(context.Background(), tc, map[string]interface{}{
		"akte_id": foreign.String(),
	})
	if result.Error == "" || !strings.Contains(result.Error, "kein Zugriff") {
		t.Errorf("tool error = %q, want access refusal", result.Error)
	}
	if result.Data != nil {
		t.Error("denied call must not return data")
	}
}

func TestResolveAkteIDWithoutAnchor(t *testing.T) {
	tc := &Context{UserID: uuid.New(), Role: "anwalt"}

	if _, err := resolveAkteID(tc, map[string]interface{}{}); err == nil {
		t.Fatal("missing akte_id without anchor must fail")
	}
}
