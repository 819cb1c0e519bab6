package stall

import (
	"strings"
	"testing"
)

func TestDetectorDuplicateCall(t *testing.T) {
	d := NewDetector()

	d.Record("akte_lesen", map[string]interface{}{"akte_id": "a1"}, "result one")
	if d.IsStalled() {
		t.Fatal("stalled after a single call")
	}

	d.Record("akte_lesen", map[string]interface{}{"akte_id": "a2"}, "result two")
	if d.IsStalled() {
		t.Fatal("stalled on distinct params")
	}

	d.Record("akte_lesen", map[string]interface{}{"akte_id": "a1"}, "result three")
	if !d.IsStalled() {
		t.Fatal("duplicate call not detected")
	}
	if d.Reason() == "" {
		t.Error("expected a stall reason")
	}
}

func TestDetectorParamOrderIrrelevant(t *testing.T) {
	d := NewDetector()

	d.Record("dokumente_suchen", map[string]interface{}{"akte_id": "a1", "stichwort": "kuendigung"}, "r1")
	d.Record("dokumente_suchen", map[string]interface{}{"stichwort": "kuendigung", "akte_id": "a1"}, "r2")

	if !d.IsStalled() {
		t.Fatal("same call with reordered params not treated as duplicate")
	}
}

func TestDetectorIdenticalResults(t *testing.T) {
	d := NewDetector()

	d.Record("tool_a", map[string]interface{}{"x": 1}, "same payload")
	d.Record("tool_b", map[string]interface{}{"y": 2}, "same payload")
	if d.IsStalled() {
		t.Fatal("stalled before three identical results")
	}

	d.Record("tool_c", map[string]interface{}{"z": 3}, "same payload")
	if !d.IsStalled() {
		t.Fatal("three identical results not detected")
	}
}

func TestDetectorLargeResultsHashed(t *testing.T) {
	d := NewDetector()
	big := strings.Repeat("abc", 200)

	d.Record("tool_a", map[string]interface{}{"x": 1}, big)
	d.Record("tool_b", map[string]interface{}{"x": 2}, big)
	d.Record("tool_c", map[string]interface{}{"x": 3}, big)

	if !d.IsStalled() {
		t.Fatal("identical large results not detected")
	}
}

func TestDetectorHealthyRun(t *testing.T) {
	d := NewDetector()

	d.Record("akte_lesen", map[string]interface{}{"akte_id": "a1"}, "case data")
	d.Record("dokumente_suchen", map[string]interface{}{"stichwort": "frist"}, "two documents")
	d.Record("notiz_erstellen", map[string]interface{}{"inhalt": "besprochen"}, "created")

	if d.IsStalled() {
		t.Fatal("healthy run flagged as stalled")
	}
}

func TestCallKeyStable(t *testing.T) {
	a := CallKey("t", map[string]interface{}{"b": 2, "a": 1})
	b := CallKey("t", map[string]interface{}{"a": 1, "b": 2})
	if a != b {
		t.Errorf("call keys differ: %q vs %q", a, b)
	}
	if CallKey("t", nil) != "t()" {
		t.Errorf("empty params key = %q", CallKey("t", nil))
	}
}
