package schriftsatz

import (
	"context"
	"errors"
	"testing"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/llm"
)

// stubProvider replays scripted responses, shared by the router and
// pipeline tests.
type stubProvider struct {
	responses []string
	err       error
	calls     int
}

func (p *stubProvider) next() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.calls >= len(p.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.next()
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.next()
}

func TestRouteParsesModelIntent(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`{"klageart_id": "kuendigungsschutzklage", "rechtsgebiet": "arbeitsrecht", "gerichtsbarkeit": "arbeitsgericht", "verfahrensstand": "erstinstanzlich", "parteirolle": "klaeger", "gericht": "Arbeitsgericht Köln", "confidence": 0.92, "begruendung": "Kündigung erhalten"}`,
	}}
	router := NewRouter(provider, NewRegistry(), logger.NewNopLogger())

	intent := router.Route(context.Background(), nil, "Bitte Kündigungsschutzklage entwerfen")
	if intent.KlageartId != "kuendigungsschutzklage" {
		t.Errorf("KlageartId = %q", intent.KlageartId)
	}
	if intent.Confidence != 0.92 {
		t.Errorf("Confidence = %v", intent.Confidence)
	}
	if intent.Verfahrensstand != "erstinstanzlich" {
		t.Errorf("Verfahrensstand = %q", intent.Verfahrensstand)
	}
	if intent.Gericht != "Arbeitsgericht Köln" {
		t.Errorf("Gericht = %q", intent.Gericht)
	}
}

func TestRouteDefaultsVerfahrensstand(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`{"klageart_id": "lohnklage", "confidence": 0.8}`,
	}}
	router := NewRouter(provider, NewRegistry(), logger.NewNopLogger())

	intent := router.Route(context.Background(), nil, "Lohnklage bitte")
	if intent.Verfahrensstand != "unbekannt" {
		t.Errorf("missing Verfahrensstand should default to unbekannt, got %q", intent.Verfahrensstand)
	}
}

func TestRouteCapsHallucinatedKlageart(t *testing.T) {
	provider := &stubProvider{responses: []string{
		`{"klageart_id": "mondklage", "confidence": 0.95}`,
	}}
	router := NewRouter(provider, NewRegistry(), logger.NewNopLogger())

	intent := router.Route(context.Background(), nil, "irgendwas")
	if intent.KlageartId != GenerischID {
		t.Errorf("unknown Klageart should fall back to generisch, got %q", intent.KlageartId)
	}
	if intent.Confidence > 0.6 {
		t.Errorf("confidence must be capped, got %v", intent.Confidence)
	}
	if intent.Parteirolle != entity.RolleKlaeger {
		t.Errorf("empty Parteirolle should default to klaeger, got %q", intent.Parteirolle)
	}
}

func TestRouteKeywordFallback(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Die Kündigung kam gestern per Post", "kuendigungsschutzklage"},
		{"Mein Lohn für März fehlt noch", "lohnklage"},
		{"Wir brauchen eine einstweilige Verfügung", "einstweilige_verfuegung"},
		{"Bitte ein Schreiben an das Gericht aufsetzen", GenerischID},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			provider := &stubProvider{err: errors.New("model down")}
			router := NewRouter(provider, NewRegistry(), logger.NewNopLogger())

			intent := router.Route(context.Background(), nil, tc.message)
			if intent.KlageartId != tc.want {
				t.Errorf("Route(%q) = %q, want %q", tc.message, intent.KlageartId, tc.want)
			}
			if tc.want == GenerischID && intent.Confidence != 0.3 {
				t.Errorf("generic fallback confidence = %v", intent.Confidence)
			}
		})
	}
}

func TestRouteUnparseableResponseFallsBack(t *testing.T) {
	provider := &stubProvider{responses: []string{"Dafür würde ich eine Lohnklage empfehlen."}}
	router := NewRouter(provider, NewRegistry(), logger.NewNopLogger())

	intent := router.Route(context.Background(), nil, "Gehalt seit Monaten offen")
	if intent.KlageartId != "lohnklage" {
		t.Errorf("keyword fallback expected, got %q", intent.KlageartId)
	}
}
