package schriftsatz

import "testing"

func TestRegistryFallsBackToGenerisch(t *testing.T) {
	reg := NewRegistry()

	if def := reg.Get("erbschein_antrag"); def.ID != GenerischID {
		t.Errorf("unknown Klageart resolved to %q", def.ID)
	}
	if !reg.Has("kuendigungsschutzklage") {
		t.Error("builtin Klageart missing")
	}
	if reg.Has("erbschein_antrag") {
		t.Error("Has must not report unknown ids")
	}
}

func TestStreitwertRegeln(t *testing.T) {
	tests := []struct {
		name  string
		regel StreitwertRegel
		slots SlotValues
		want  float64
	}{
		{
			name:  "quartalsgehalt is three months pay",
			regel: StreitwertRegel{Art: StreitwertQuartalsgehalt, SlotKey: "MONATSGEHALT"},
			slots: SlotValues{"MONATSGEHALT": 3800.0},
			want:  11400,
		},
		{
			name:  "aus_slot reads the slot",
			regel: StreitwertRegel{Art: StreitwertAusSlot, SlotKey: "FORDERUNG_BETRAG"},
			slots: SlotValues{"FORDERUNG_BETRAG": 5400.0},
			want:  5400,
		},
		{
			name:  "fest ignores slots",
			regel: StreitwertRegel{Art: StreitwertFest, Betrag: 10000},
			slots: SlotValues{},
			want:  10000,
		},
		{
			name:  "missing slot yields zero",
			regel: StreitwertRegel{Art: StreitwertAusSlot, SlotKey: "STREITWERT"},
			slots: SlotValues{},
			want:  0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.regel.Berechnen(tc.slots); got != tc.want {
				t.Errorf("Berechnen() = %v, want %v", got, tc.want)
			}
		})
	}
}
