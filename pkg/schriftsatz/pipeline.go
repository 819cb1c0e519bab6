package schriftsatz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Pipeline drives a drafting request end to end: route the intent, collect
// the missing facts over one or more rounds, assemble and validate the
// filing, persist it as a draft waiting for lawyer approval.
type Pipeline struct {
	registry   *Registry
	router     *Router
	assembler  *Assembler
	pending    *PendingStore
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
	maxRounds  int
}

func NewPipeline(
	registry *Registry,
	router *Router,
	assembler *Assembler,
	pending *PendingStore,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		registry:   registry,
		router:     router,
		assembler:  assembler,
		pending:    pending,
		uowFactory: uowFactory,
		log:        log,
		maxRounds:  DefaultMaxRounds,
	}
}

// Execute runs one drafting round. The result is never an error value:
// every failure mode folds into a PipelineResult the agent can relay to
// the user.
func (p *Pipeline) Execute(ctx context.Context, userId, akteId uuid.UUID, message string) (result *PipelineResult) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("schriftsatz", "pipeline panic", map[string]interface{}{
				"user_id": userId.String(),
				"akte_id": akteId.String(),
				"panic":   fmt.Sprintf("%v", rec),
			})
			result = &PipelineResult{
				Status: StatusError,
				Text:   "Die Schriftsatz-Erstellung ist fehlgeschlagen. Bitte versuchen Sie es erneut.",
			}
		}
	}()

	akte, err := p.loadAkte(ctx, akteId)
	if err != nil {
		return p.fail("Akte konnte nicht geladen werden.", err)
	}
	if akte == nil {
		return &PipelineResult{
			Status: StatusError,
			Text:   "Zu dieser Anfrage wurde keine Akte gefunden.",
		}
	}

	state, err := p.pending.Load(ctx, userId, akteId)
	if err != nil {
		return p.fail("Zwischenstand konnte nicht geladen werden.", err)
	}

	var (
		intent  *Intent
		answers = SlotValues{}
		runde   = 1
	)

	if state != nil {
		runde = state.Runde + 1
		if runde > p.maxRounds {
			if cerr := p.pending.Clear(ctx, userId, akteId); cerr != nil {
				p.log.Warn("schriftsatz", "failed to clear exhausted pending state", map[string]interface{}{
					"error": cerr.Error(),
				})
			}
			return &PipelineResult{
				Status: StatusError,
				Runde:  runde,
				Text:   "Die Rückfragerunden sind ausgeschöpft. Bitte starten Sie die Schriftsatz-Erstellung mit vollständigen Angaben neu.",
			}
		}

		if state.KlageartId == "" {
			// First round only clarified the Klageart. Route again with the
			// original request plus the clarification.
			intent = p.router.Route(ctx, akte, state.UrsprungsNachricht+"\n"+message)
		} else {
			intent = state.Intent
			if intent == nil {
				intent = &Intent{KlageartId: state.KlageartId, Parteirolle: entity.RolleKlaeger}
			}
			if state.GefragterSlot != "" {
				answers[state.GefragterSlot] = message
			}
		}
	} else {
		intent = p.router.Route(ctx, akte, message)
		if intent.Confidence < MinRouteConfidence {
			return p.askForClarification(ctx, userId, akteId, message, intent)
		}
	}

	def := p.registry.Get(intent.KlageartId)

	prefilled := PrefillFromAkte(def, akte)
	if state != nil {
		for k, v := range state.Slots {
			prefilled[k] = v
		}
	}

	fill := Fill(def, prefilled, answers, time.Now())
	if !fill.Vollstaendig {
		originalMessage := message
		if state != nil {
			originalMessage = state.UrsprungsNachricht
		}
		save := &State{
			UserId:             userId,
			AkteId:             akteId,
			KlageartId:         def.ID,
			Intent:             intent,
			Slots:              fill.Werte,
			LetzteFrage:        fill.Frage,
			GefragterSlot:      fill.Fehlend[0],
			Runde:              runde,
			UrsprungsNachricht: originalMessage,
		}
		if serr := p.pending.Save(ctx, save); serr != nil {
			return p.fail("Zwischenstand konnte nicht gespeichert werden.", serr)
		}
		return &PipelineResult{
			Status: StatusNeedsInput,
			Frage:  fill.Frage,
			Intent: intent,
			Runde:  runde,
		}
	}

	doc, err := p.assembler.Assemble(ctx, def, intent, akte, fill.Werte)
	if err != nil {
		return p.fail("Der Schriftsatz konnte nicht erstellt werden.", err)
	}

	ResolvePlaceholders(doc, fill.Werte)
	doc.Warnungen = Validate(doc, def, fill.Werte, time.Now())
	text := Render(doc, def)

	draft, err := p.persistDraft(ctx, userId, akteId, akte, def, doc, text)
	if err != nil {
		return p.fail("Der Entwurf konnte nicht gespeichert werden.", err)
	}

	if cerr := p.pending.Clear(ctx, userId, akteId); cerr != nil {
		p.log.Warn("schriftsatz", "failed to clear pending state after completion", map[string]interface{}{
			"error": cerr.Error(),
		})
	}

	p.log.Info("schriftsatz", "draft created", map[string]interface{}{
		"draft_id":    draft.Id.String(),
		"akte_id":     akteId.String(),
		"klageart_id": def.ID,
		"warnungen":   len(doc.Warnungen),
		"runde":       runde,
	})

	return &PipelineResult{
		Status:    StatusComplete,
		Intent:    intent,
		DraftId:   &draft.Id,
		Titel:     draft.Titel,
		Text:      text,
		Warnungen: doc.Warnungen,
		Runde:     runde,
	}
}

func (p *Pipeline) loadAkte(ctx context.Context, akteId uuid.UUID) (*entity.Akte, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.AkteRepository().FindOne(ctx, specification.ByID{ID: akteId})
}

// askForClarification parks the run with an empty Klageart so the next
// message re-routes against the combined request.
func (p *Pipeline) askForClarification(ctx context.Context, userId, akteId uuid.UUID, message string, intent *Intent) *PipelineResult {
	frage := fmt.Sprintf(
		"Ich bin nicht sicher, welche Art von Schriftsatz Sie benötigen (vermutet: %s, %s). Können Sie das Anliegen genauer beschreiben?",
		p.registry.Get(intent.KlageartId).Name, intent.Begruendung)

	save := &State{
		UserId:             userId,
		AkteId:             akteId,
		KlageartId:         "",
		Intent:             intent,
		Slots:              SlotValues{},
		LetzteFrage:        frage,
		Runde:              1,
		UrsprungsNachricht: message,
	}
	if err := p.pending.Save(ctx, save); err != nil {
		return p.fail("Zwischenstand konnte nicht gespeichert werden.", err)
	}
	return &PipelineResult{
		Status: StatusNeedsInput,
		Frage:  frage,
		Intent: intent,
		Runde:  1,
	}
}

func (p *Pipeline) persistDraft(ctx context.Context, userId, akteId uuid.UUID, akte *entity.Akte, def *Definition, doc *Schriftsatz, text string) (*entity.Draft, error) {
	meta, err := json.Marshal(map[string]interface{}{
		"zitate":             doc.Zitate,
		"warnungen":          doc.Warnungen,
		"offene_platzhalter": doc.OffenePlatzhalter,
		"kosten":             doc.Kosten,
	})
	if err != nil {
		return nil, err
	}

	draft := &entity.Draft{
		Id:     uuid.New(),
		AkteId: akteId,
		UserId: userId,
		Art:    def.ID,
		Status: entity.DraftStatusPendingApproval,
		Titel:  fmt.Sprintf("%s (%s)", def.Name, akte.Aktenzeichen),
		Inhalt: text,
		Meta:   meta,
	}

	uow := p.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DraftRepository().Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (p *Pipeline) fail(userText string, err error) *PipelineResult {
	p.log.Error("schriftsatz", "pipeline step failed", map[string]interface{}{
		"error": err.Error(),
	})
	return &PipelineResult{
		Status: StatusError,
		Text:   userText,
	}
}
