package guard

import (
	"testing"
)

func TestRepairToolCall(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantNil bool
		wantKey string
	}{
		{
			name:    "valid json untouched",
			raw:     `{"akte_id": "a1"}`,
			wantKey: "akte_id",
		},
		{
			name:    "trailing comma",
			raw:     `{"akte_id": "a1",}`,
			wantKey: "akte_id",
		},
		{
			name:    "single quotes",
			raw:     `{'akte_id': 'a1'}`,
			wantKey: "akte_id",
		},
		{
			name:    "bare keys",
			raw:     `{akte_id: "a1"}`,
			wantKey: "akte_id",
		},
		{
			name:    "code fence",
			raw:     "```json\n{\"akte_id\": \"a1\"}\n```",
			wantKey: "akte_id",
		},
		{
			name:    "smart quotes",
			raw:     "{“akte_id”: “a1”}",
			wantKey: "akte_id",
		},
		{
			name:    "hopeless garbage",
			raw:     "not json at all",
			wantNil: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RepairToolCall(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected repaired object, got nil")
			}
			if _, ok := got[tt.wantKey]; !ok {
				t.Errorf("repaired object missing key %q: %v", tt.wantKey, got)
			}
		})
	}
}

func TestScanForEmbeddedCalls(t *testing.T) {
	text := `Ich schaue mir die Akte an.
{"tool": "akte_lesen", "params": {"akte_id": "a1"}}
Danach fasse ich zusammen.`

	calls := ScanForEmbeddedCalls(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 embedded call, got %d", len(calls))
	}
	if calls[0].Tool != "akte_lesen" {
		t.Errorf("tool = %q", calls[0].Tool)
	}
	if calls[0].Params["akte_id"] != "a1" {
		t.Errorf("params = %v", calls[0].Params)
	}
}

func TestScanIgnoresPlainJSON(t *testing.T) {
	text := `Die Antwort enthält Daten: {"streitwert": 12000, "gericht": "ArbG Berlin"}`

	calls := ScanForEmbeddedCalls(text)
	if len(calls) != 0 {
		t.Errorf("expected no calls in plain JSON, got %d", len(calls))
	}
}

func TestScanNestedBraces(t *testing.T) {
	text := `{"tool": "akte_aktualisieren", "params": {"felder": {"gericht": "LG München I"}}}`

	calls := ScanForEmbeddedCalls(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Tool != "akte_aktualisieren" {
		t.Errorf("tool = %q", calls[0].Tool)
	}
}

func TestStripEmbeddedCalls(t *testing.T) {
	raw := `{"tool": "akte_lesen", "params": {}}`
	text := "Hier ist die Antwort. " + raw

	calls := ScanForEmbeddedCalls(text)
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}

	cleaned := StripEmbeddedCalls(text, calls)
	if cleaned != "Hier ist die Antwort." {
		t.Errorf("cleaned = %q", cleaned)
	}
}
