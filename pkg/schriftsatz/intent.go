package schriftsatz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/pkg/agent/guard"
	"kanzlei-ai-be/pkg/llm"
)

// Below this confidence the router asks for clarification instead of
// guessing a Klageart.
const MinRouteConfidence = 0.5

// Router classifies a drafting request into one of the registered
// Klagearten. Primary path is an LLM call, keyword matching is the
// fallback when the model output is unusable.
type Router struct {
	provider llm.LLMProvider
	registry *Registry
	log      logger.ILogger
}

func NewRouter(provider llm.LLMProvider, registry *Registry, log logger.ILogger) *Router {
	return &Router{
		provider: provider,
		registry: registry,
		log:      log,
	}
}

// Route never fails: if both the model and its JSON are unusable, the
// keyword fallback decides, at reduced confidence.
func (r *Router) Route(ctx context.Context, akte *entity.Akte, message string) *Intent {
	prompt := fmt.Sprintf(constant.SchriftsatzIntentPromptV1,
		r.registry.FormatForPrompt(), akteSummary(akte), message)

	response, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		r.log.Warn("schriftsatz", "intent model call failed, using keyword fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return r.keywordFallback(message)
	}

	parsed := guard.RepairToolCall(response)
	if parsed == nil {
		r.log.Warn("schriftsatz", "intent response unparseable, using keyword fallback", map[string]interface{}{
			"response": response,
		})
		return r.keywordFallback(message)
	}

	raw, _ := json.Marshal(parsed)
	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return r.keywordFallback(message)
	}

	// Hallucinated Klageart ids fall back to the generic filing with a
	// confidence penalty.
	if !r.registry.Has(intent.KlageartId) {
		intent.KlageartId = GenerischID
		if intent.Confidence > 0.6 {
			intent.Confidence = 0.6
		}
	}
	if intent.Parteirolle == "" {
		intent.Parteirolle = entity.RolleKlaeger
	}
	if intent.Verfahrensstand == "" {
		intent.Verfahrensstand = "unbekannt"
	}
	return &intent
}

var keywordRoutes = []struct {
	klageartId string
	keywords   []string
}{
	{"kuendigungsschutzklage", []string{"kündigungsschutz", "kuendigungsschutz", "kündigung", "kuendigung"}},
	{"lohnklage", []string{"lohn", "gehalt", "vergütung", "verguetung", "zahlungsklage"}},
	{"einstweilige_verfuegung", []string{"einstweilige", "eilverfahren", "unterlassung"}},
}

func (r *Router) keywordFallback(message string) *Intent {
	q := strings.ToLower(message)
	for _, route := range keywordRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(q, kw) {
				def := r.registry.Get(route.klageartId)
				return &Intent{
					KlageartId:      def.ID,
					Rechtsgebiet:    def.Rechtsgebiet,
					Gerichtsbarkeit: def.Gerichtsbarkeit,
					Verfahrensstand: "unbekannt",
					Parteirolle:     entity.RolleKlaeger,
					Confidence:      0.6,
					Begruendung:     "Schlagwort-Zuordnung",
				}
			}
		}
	}
	return &Intent{
		KlageartId:      GenerischID,
		Rechtsgebiet:    "allgemein",
		Verfahrensstand: "unbekannt",
		Parteirolle:     entity.RolleKlaeger,
		Confidence:      0.3,
		Begruendung:     "keine eindeutige Zuordnung",
	}
}

func akteSummary(akte *entity.Akte) string {
	if akte == nil {
		return "keine Akte verknüpft"
	}
	return fmt.Sprintf("Aktenzeichen %s, %s, Rechtsgebiet %s, Mandant %s (%s), Gegner %s",
		akte.Aktenzeichen, akte.Titel, akte.Rechtsgebiet,
		akte.MandantName, akte.MandantRolle, akte.GegnerName)
}
