package roles

import (
	"context"
	"testing"

	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/tools"
)

type fakeTool struct {
	name string
	kind tools.Kind
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return f.name }
func (f *fakeTool) Kind() tools.Kind    { return f.kind }
func (f *fakeTool) Execute(ctx context.Context, tc *tools.Context, params map[string]interface{}) tools.Result {
	return tools.Result{Data: "ok"}
}

func newTestRegistry() *tools.Registry {
	return tools.NewRegistry(logger.NewNopLogger(),
		&fakeTool{name: "akte_lesen", kind: tools.KindRead},
		&fakeTool{name: "dokumente_suchen", kind: tools.KindRead},
		&fakeTool{name: "notiz_erstellen", kind: tools.KindWrite},
		&fakeTool{name: "akte_aktualisieren", kind: tools.KindWrite},
	)
}

func TestFilterRegistry(t *testing.T) {
	tests := []struct {
		role string
		want []string
	}{
		{RolePartner, []string{"akte_lesen", "dokumente_suchen", "notiz_erstellen", "akte_aktualisieren"}},
		{RoleAnwalt, []string{"akte_lesen", "dokumente_suchen", "notiz_erstellen", "akte_aktualisieren"}},
		{RoleSachbearbeiter, []string{"akte_lesen", "dokumente_suchen", "notiz_erstellen"}},
		{RoleReferendar, []string{"akte_lesen", "dokumente_suchen", "notiz_erstellen"}},
		{"praktikant", []string{"akte_lesen", "dokumente_suchen"}},
		{"", []string{"akte_lesen", "dokumente_suchen"}},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			filtered := FilterRegistry(newTestRegistry(), tt.role)
			got := filtered.Names()
			if len(got) != len(tt.want) {
				t.Fatalf("got tools %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tool %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
