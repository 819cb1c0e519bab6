package classify

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantMode Mode
		wantTier int
	}{
		{
			name:     "simple case lookup",
			query:    "Was ist die Akte?",
			wantMode: ModeInline,
			wantTier: TierFast,
		},
		{
			name:     "schriftsatz drafting",
			query:    "Erstelle einen Schriftsatz für die Kündigungsschutzklage in der Akte Müller",
			wantMode: ModeBackground,
			wantTier: TierHeavy,
		},
		{
			name:     "research request",
			query:    "Recherchiere die aktuelle Rechtsprechung zu Verzugszinsen",
			wantMode: ModeBackground,
			wantTier: TierStandard,
		},
		{
			name:     "comparison request",
			query:    "Vergleiche die beiden Mietverträge in der Akte",
			wantMode: ModeBackground,
			wantTier: TierStandard,
		},
		{
			name:     "long query goes background",
			query:    strings.Repeat("Bitte um Einschätzung. ", 20),
			wantMode: ModeBackground,
			wantTier: TierStandard,
		},
		{
			name:     "default is inline standard",
			query:    "Fasse das letzte Telefonat mit dem Mandanten zusammen",
			wantMode: ModeInline,
			wantTier: TierStandard,
		},
		{
			name:     "simple opener but long stays standard",
			query:    "Was ist " + strings.Repeat("x", 130),
			wantMode: ModeInline,
			wantTier: TierStandard,
		},
		{
			name:     "draft without filing keyword",
			query:    "Entwerfe eine kurze Antwort an den Mandanten",
			wantMode: ModeBackground,
			wantTier: TierStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.query)
			if got.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s (reason: %s)", got.Mode, tt.wantMode, got.Reason)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("tier = %d, want %d (reason: %s)", got.Tier, tt.wantTier, got.Reason)
			}
		})
	}
}

func TestEscalateTier(t *testing.T) {
	if EscalateTier(TierFast) != TierStandard {
		t.Error("tier 1 should escalate to 2")
	}
	if EscalateTier(TierStandard) != TierHeavy {
		t.Error("tier 2 should escalate to 3")
	}
	if EscalateTier(TierHeavy) != TierHeavy {
		t.Error("tier 3 must stay capped")
	}
}
