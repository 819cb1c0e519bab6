package classify

import (
	"strings"
)

// Mode decides where a run executes.
type Mode string

const (
	ModeInline     Mode = "inline"
	ModeBackground Mode = "background"
)

// Tier selects the model size. Higher tiers cost more and answer better.
const (
	TierFast     = 1
	TierStandard = 2
	TierHeavy    = 3
)

// Result of a complexity classification.
type Result struct {
	Mode   Mode
	Tier   int
	Reason string
}

// Query length above which a request always goes to the background.
const longQueryThreshold = 300

// Keyword families, matched case insensitively against the raw query.
// The draft/filing combination is checked first: drafting a Schriftsatz
// is the heaviest path in the system.
var (
	draftKeywords = []string{
		"schriftsatz", "entwurf", "entwerfe", "erstelle", "verfasse",
		"aufsetzen", "draft",
	}
	filingKeywords = []string{
		"klage", "klageschrift", "kündigungsschutz", "kuendigungsschutz",
		"einstweilige verfügung", "einstweilige verfuegung", "abmahnung",
		"berufung", "widerspruch",
	}
	researchKeywords = []string{
		"recherchiere", "recherche", "vergleiche", "vergleich", "analysiere",
		"analyse", "umfassend", "ausführlich", "ausfuehrlich", "gutachten",
		"prüfe die rechtslage", "pruefe die rechtslage",
	}
	simpleOpeners = []string{
		"was ist", "was steht", "wer ist", "wann", "wo ist", "wie heißt",
		"wie heisst", "wie lautet", "zeig", "zeige", "liste", "welche",
		"gibt es",
	}
)

// Classify routes a user query to an execution mode and a model tier.
// Pure keyword heuristics, no model call. Misrouting is cheap: an inline
// run that turns out heavy still finishes, it just takes longer.
func Classify(query string) Result {
	q := strings.ToLower(strings.TrimSpace(query))

	if containsAny(q, draftKeywords) && containsAny(q, filingKeywords) {
		return Result{Mode: ModeBackground, Tier: TierHeavy, Reason: "schriftsatz drafting request"}
	}

	if containsAny(q, draftKeywords) || containsAny(q, researchKeywords) {
		return Result{Mode: ModeBackground, Tier: TierStandard, Reason: "drafting or research request"}
	}

	if len(query) > longQueryThreshold {
		return Result{Mode: ModeBackground, Tier: TierStandard, Reason: "long query"}
	}

	if len(query) <= 120 && hasOpener(q, simpleOpeners) {
		return Result{Mode: ModeInline, Tier: TierFast, Reason: "simple lookup"}
	}

	return Result{Mode: ModeInline, Tier: TierStandard, Reason: "default"}
}

// EscalateTier returns the next tier up, capped at the heaviest model.
// Used once per run when a stall suggests the model is out of its depth.
func EscalateTier(tier int) int {
	if tier >= TierHeavy {
		return TierHeavy
	}
	return tier + 1
}

func containsAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func hasOpener(q string, openers []string) bool {
	for _, o := range openers {
		if strings.HasPrefix(q, o) {
			return true
		}
	}
	return false
}
