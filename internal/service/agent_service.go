package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/agent"
	"kanzlei-ai-be/pkg/agent/classify"
	"kanzlei-ai-be/pkg/agent/ratelimit"
	"kanzlei-ai-be/pkg/agent/roles"
	"kanzlei-ai-be/pkg/events"
	"kanzlei-ai-be/pkg/llm"
	"kanzlei-ai-be/pkg/schriftsatz"
	"kanzlei-ai-be/pkg/tools"

	"github.com/google/uuid"
)

// History window handed to the model, newest messages win.
const historyLimit = 20

// Identity is the authenticated caller of a run, taken from JWT claims.
type Identity struct {
	UserID uuid.UUID
	Role   string
	Email  string
}

// ProgressSink receives live run updates. The websocket hub in production.
type ProgressSink interface {
	Push(userId uuid.UUID, payload interface{})
}

// RunQueue hands a run off to the background executor.
type RunQueue interface {
	Enqueue(job *BackgroundJob) error
}

// AgentRunInput is one user turn.
type AgentRunInput struct {
	Identity     Identity
	AkteId       *uuid.UUID
	SessionId    *uuid.UUID
	Message      string
	ModeOverride string // "", "inline" or "background"
}

// AgentRunOutput is everything the controller needs to answer the turn.
type AgentRunOutput struct {
	SessionId            uuid.UUID             `json:"session_id"`
	Text                 string                `json:"text"`
	Mode                 string                `json:"mode"`
	Tier                 int                   `json:"tier"`
	FinishReason         string                `json:"finish_reason"`
	Steps                []agent.Step          `json:"steps,omitempty"`
	TotalTokens          int                   `json:"total_tokens"`
	Stalled              bool                  `json:"stalled"`
	CapReached           bool                  `json:"cap_reached"`
	ContinueInBackground bool                  `json:"continue_in_background"`
	Queued               bool                  `json:"queued"`
	RateLimited          bool                  `json:"rate_limited"`
	RateLimitReset       *time.Time            `json:"rate_limit_reset,omitempty"`
	DraftId              *uuid.UUID            `json:"draft_id,omitempty"`
	Warnungen            []schriftsatz.Warnung `json:"warnungen,omitempty"`
}

// AgentService is the public entry point of the Helena agent core. It
// decides per turn between the drafting pipeline, an inline reason/act
// run and a background handoff.
type AgentService struct {
	cfg        *config.Config
	provider   llm.LLMProvider
	orch       *agent.Orchestrator
	limiter    *ratelimit.Limiter
	registry   *tools.Registry
	pipeline   *schriftsatz.Pipeline
	pending    *schriftsatz.PendingStore
	uowFactory unitofwork.RepositoryFactory
	queue      RunQueue
	progress   ProgressSink
	publisher  EventPublisher
	log        logger.ILogger
}

func NewAgentService(
	cfg *config.Config,
	provider llm.LLMProvider,
	orch *agent.Orchestrator,
	limiter *ratelimit.Limiter,
	registry *tools.Registry,
	pipeline *schriftsatz.Pipeline,
	pending *schriftsatz.PendingStore,
	uowFactory unitofwork.RepositoryFactory,
	queue RunQueue,
	progress ProgressSink,
	publisher EventPublisher,
	log logger.ILogger,
) *AgentService {
	return &AgentService{
		cfg:        cfg,
		provider:   provider,
		orch:       orch,
		limiter:    limiter,
		registry:   registry,
		pipeline:   pipeline,
		pending:    pending,
		uowFactory: uowFactory,
		queue:      queue,
		progress:   progress,
		publisher:  publisher,
		log:        log,
	}
}

// RunHelenaAgent executes one user turn. Turn order: rate limit, pending
// drafting continuation, complexity routing, then pipeline, background
// handoff or inline run.
func (s *AgentService) RunHelenaAgent(ctx context.Context, in *AgentRunInput) (*AgentRunOutput, error) {
	decision := s.limiter.Check(ctx, in.Identity.UserID.String())
	if !decision.Allowed {
		reset := decision.ResetAt
		return &AgentRunOutput{
			Mode:           agent.ModeInline,
			FinishReason:   "rate_limited",
			RateLimited:    true,
			RateLimitReset: &reset,
			Text:           decision.Message,
		}, nil
	}

	session, err := s.ensureSession(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare session: %w", err)
	}
	if err := s.persistMessage(ctx, session.Id, constant.AgentMessageRoleUser, in.Message, nil); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	// A parked drafting run always consumes the next message on its case,
	// it is the answer to Helena's open question.
	if in.AkteId != nil {
		state, perr := s.pending.Load(ctx, in.Identity.UserID, *in.AkteId)
		if perr != nil {
			s.log.Warn("agent", "pending lookup failed", map[string]interface{}{
				"error": perr.Error(),
			})
		}
		if state != nil {
			return s.runPipeline(ctx, in, session)
		}
	}

	cls := classify.Classify(in.Message)
	mode := string(cls.Mode)
	switch in.ModeOverride {
	case agent.ModeInline, agent.ModeBackground:
		mode = in.ModeOverride
	}

	// Drafting requests bypass the reason/act loop entirely.
	if cls.Mode == classify.ModeBackground && cls.Tier == classify.TierHeavy {
		if in.AkteId == nil {
			out := &AgentRunOutput{
				SessionId:    session.Id,
				Mode:         agent.ModeInline,
				Tier:         cls.Tier,
				FinishReason: agent.FinishStop,
				Text:         "Für einen Schriftsatz brauche ich eine Akte. Bitte öffnen Sie die betreffende Akte und stellen Sie die Anfrage dort erneut.",
			}
			return out, s.persistMessage(ctx, session.Id, constant.AgentMessageRoleAssistant, out.Text, nil)
		}
		return s.runPipeline(ctx, in, session)
	}

	if mode == agent.ModeBackground {
		job := &BackgroundJob{
			UserId:    in.Identity.UserID,
			Role:      in.Identity.Role,
			AkteId:    in.AkteId,
			SessionId: session.Id,
			Message:   in.Message,
			Tier:      cls.Tier,
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.log.Error("agent", "background enqueue failed, running inline", map[string]interface{}{
				"error": err.Error(),
			})
			return s.runInline(ctx, in, session, cls.Tier)
		}
		if session.Modus != agent.ModeBackground {
			session.Modus = agent.ModeBackground
			if uerr := s.uowFactory.NewUnitOfWork(ctx).AgentSessionRepository().Update(ctx, session); uerr != nil {
				s.log.Warn("agent", "failed to update session mode", map[string]interface{}{
					"error": uerr.Error(),
				})
			}
		}
		return &AgentRunOutput{
			SessionId:    session.Id,
			Mode:         agent.ModeBackground,
			Tier:         cls.Tier,
			FinishReason: "queued",
			Queued:       true,
			Text:         "Das ist eine umfangreichere Aufgabe. Ich arbeite im Hintergrund daran und melde mich, sobald das Ergebnis vorliegt.",
		}, nil
	}

	return s.runInline(ctx, in, session, cls.Tier)
}

func (s *AgentService) runInline(ctx context.Context, in *AgentRunInput, session *entity.AgentSession, tier int) (*AgentRunOutput, error) {
	result, usedTier, err := s.runReact(ctx, in.Identity, in.AkteId, session.Id, agent.ModeInline, tier)
	if err != nil {
		return nil, err
	}

	if err := s.persistMessage(ctx, session.Id, constant.AgentMessageRoleAssistant, result.Text, result.Steps); err != nil {
		s.log.Error("agent", "failed to persist assistant message", map[string]interface{}{
			"error": err.Error(),
		})
	}

	capReached := result.FinishReason == agent.FinishSteps || result.FinishReason == agent.FinishStall
	return &AgentRunOutput{
		SessionId:            session.Id,
		Text:                 result.Text,
		Mode:                 agent.ModeInline,
		Tier:                 usedTier,
		FinishReason:         result.FinishReason,
		Steps:                result.Steps,
		TotalTokens:          result.TotalTokens,
		Stalled:              result.Stalled,
		CapReached:           capReached,
		ContinueInBackground: capReached || result.FinishReason == agent.FinishTimeout,
	}, nil
}

// runReact drives one orchestrator run, escalating the model tier once
// when the first run stalls. If the escalated run fails outright the
// stalled result of the original run is kept.
func (s *AgentService) runReact(ctx context.Context, identity Identity, akteId *uuid.UUID, sessionId uuid.UUID, mode string, tier int) (*agent.RunResult, int, error) {
	history, err := s.loadHistory(ctx, sessionId)
	if err != nil {
		return nil, tier, fmt.Errorf("failed to load history: %w", err)
	}

	filtered := roles.FilterRegistry(s.registry, identity.Role)
	req := &agent.RunRequest{
		Provider:     s.provider,
		Model:        s.modelForTier(tier),
		Tools:        filtered,
		SystemPrompt: fmt.Sprintf(constant.HelenaSystemPromptV1, filtered.FormatForPrompt()),
		History:      history,
		Mode:         mode,
		UserID:       identity.UserID,
		SessionID:    &sessionId,
		Tier:         tier,
		MaxSteps:     s.maxSteps(mode),
		Timeout:      s.timeout(mode),
		OnProgress:   s.progressCallback(identity.UserID, sessionId),
	}
	req.ToolContext = s.toolContext(identity, akteId, req.Timeout)

	result := s.orch.Run(ctx, req)

	if result.Stalled && tier < classify.TierHeavy {
		escalated := classify.EscalateTier(tier)
		s.log.Info("agent", "stalled run, escalating tier", map[string]interface{}{
			"user_id": identity.UserID.String(),
			"from":    tier,
			"to":      escalated,
		})
		s.publishEvent(events.New(events.TypeAgentRunStalled, map[string]interface{}{
			"user_id":    identity.UserID.String(),
			"session_id": sessionId.String(),
			"tier":       tier,
		}))

		req.Model = s.modelForTier(escalated)
		req.Tier = escalated
		req.ToolContext = s.toolContext(identity, akteId, req.Timeout)
		second := s.orch.Run(ctx, req)
		if second.FinishReason != agent.FinishError {
			return second, escalated, nil
		}
		s.log.Warn("agent", "escalated run failed, keeping original result", map[string]interface{}{
			"user_id": identity.UserID.String(),
		})
	}
	return result, tier, nil
}

// ExecuteBackground runs a queued job to completion. Called by the
// background runner, never from the request path.
func (s *AgentService) ExecuteBackground(ctx context.Context, job *BackgroundJob) {
	identity := Identity{UserID: job.UserId, Role: job.Role}
	result, usedTier, err := s.runReact(ctx, identity, job.AkteId, job.SessionId, agent.ModeBackground, job.Tier)
	if err != nil {
		s.log.Error("agent", "background run failed", map[string]interface{}{
			"session_id": job.SessionId.String(),
			"error":      err.Error(),
		})
		return
	}

	if err := s.persistMessage(ctx, job.SessionId, constant.AgentMessageRoleAssistant, result.Text, result.Steps); err != nil {
		s.log.Error("agent", "failed to persist background answer", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.publishEvent(events.New(events.TypeAgentRunFinished, map[string]interface{}{
		"user_id":       job.UserId.String(),
		"session_id":    job.SessionId.String(),
		"tier":          usedTier,
		"finish_reason": result.FinishReason,
		"total_tokens":  result.TotalTokens,
		"text":          result.Text,
	}))
}

func (s *AgentService) runPipeline(ctx context.Context, in *AgentRunInput, session *entity.AgentSession) (*AgentRunOutput, error) {
	res := s.pipeline.Execute(ctx, in.Identity.UserID, *in.AkteId, in.Message)

	out := &AgentRunOutput{
		SessionId:    session.Id,
		Mode:         agent.ModeInline,
		Tier:         classify.TierHeavy,
		FinishReason: agent.FinishStop,
		DraftId:      res.DraftId,
		Warnungen:    res.Warnungen,
	}

	switch res.Status {
	case schriftsatz.StatusNeedsInput:
		out.Text = res.Frage
	case schriftsatz.StatusComplete:
		out.Text = fmt.Sprintf(
			"Der Entwurf \"%s\" wurde erstellt und wartet auf Ihre Freigabe.", res.Titel)
		if n := len(res.Warnungen); n > 0 {
			out.Text += fmt.Sprintf(" Die Compliance-Prüfung hat %d Hinweise ergeben, bitte prüfen Sie den Entwurf sorgfältig.", n)
		}
		s.publishEvent(events.New(events.TypeDraftCreated, map[string]interface{}{
			"draft_id": res.DraftId.String(),
			"user_id":  in.Identity.UserID.String(),
			"email":    in.Identity.Email,
			"akte_id":  in.AkteId.String(),
			"titel":    res.Titel,
		}))
	default:
		out.Text = res.Text
		out.FinishReason = agent.FinishError
	}

	if err := s.persistMessage(ctx, session.Id, constant.AgentMessageRoleAssistant, out.Text, nil); err != nil {
		s.log.Error("agent", "failed to persist pipeline answer", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return out, nil
}

func (s *AgentService) ensureSession(ctx context.Context, in *AgentRunInput) (*entity.AgentSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.AgentSessionRepository()

	if in.SessionId != nil {
		session, err := repo.FindOne(ctx,
			specification.ByID{ID: *in.SessionId},
			specification.ByUser{UserID: in.Identity.UserID},
		)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
	}

	session := &entity.AgentSession{
		Id:     uuid.New(),
		UserId: in.Identity.UserID,
		AkteId: in.AkteId,
		Titel:  sessionTitle(in.Message),
		Modus:  agent.ModeInline,
	}
	if err := repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AgentService) persistMessage(ctx context.Context, sessionId uuid.UUID, rolle, inhalt string, steps []agent.Step) error {
	var stepsJSON []byte
	if len(steps) > 0 {
		stepsJSON, _ = json.Marshal(steps)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AgentMessageRepository().Create(ctx, &entity.AgentMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Rolle:     rolle,
		Inhalt:    inhalt,
		StepsJSON: stepsJSON,
	})
}

// loadHistory returns the newest messages of the session in chat order.
// The just-persisted user message is included.
func (s *AgentService) loadHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.AgentMessageRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyLimit},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		role := llm.RoleUser
		if rows[i].Rolle == constant.AgentMessageRoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: rows[i].Inhalt})
	}
	return history, nil
}

// ListSessions returns the user's chat sessions, newest first.
func (s *AgentService) ListSessions(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.AgentSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.AgentSessionRepository().FindAll(ctx,
		specification.ByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
}

// ListMessages returns a session's messages in chat order. Sessions of
// other users stay invisible.
func (s *AgentService) ListMessages(ctx context.Context, userId, sessionId uuid.UUID) ([]*entity.AgentMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.AgentSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUser{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return uow.AgentMessageRepository().FindAll(ctx,
		specification.BySession{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
}

func (s *AgentService) toolContext(identity Identity, akteId *uuid.UUID, ttl time.Duration) *tools.Context {
	return &tools.Context{
		UserID:        identity.UserID,
		Role:          identity.Role,
		AkteID:        akteId,
		CanAccessAkte: s.canAccessAkte(identity, akteId),
		UOW:           s.uowFactory,
		Cache:         tools.NewRunCache(ttl),
	}
}

// canAccessAkte allows the conversation anchor and cases owned by the
// caller. Lookup failures deny.
func (s *AgentService) canAccessAkte(identity Identity, anchor *uuid.UUID) func(uuid.UUID) bool {
	return func(akteId uuid.UUID) bool {
		if anchor != nil && *anchor == akteId {
			return true
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		akte, err := s.uowFactory.NewUnitOfWork(ctx).AkteRepository().FindOne(ctx, specification.ByID{ID: akteId})
		if err != nil || akte == nil {
			return false
		}
		return akte.OwnerId == identity.UserID
	}
}

func (s *AgentService) progressCallback(userId, sessionId uuid.UUID) func(agent.ProgressUpdate) {
	if s.progress == nil {
		return nil
	}
	return func(update agent.ProgressUpdate) {
		s.progress.Push(userId, map[string]interface{}{
			"type":       "agent_progress",
			"session_id": sessionId.String(),
			"update":     update,
		})
	}
}

func (s *AgentService) publishEvent(event events.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("agent", "event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *AgentService) modelForTier(tier int) string {
	switch tier {
	case classify.TierFast:
		return s.cfg.Ai.TierOneModel
	case classify.TierHeavy:
		return s.cfg.Ai.TierThreeModel
	default:
		return s.cfg.Ai.TierTwoModel
	}
}

func (s *AgentService) maxSteps(mode string) int {
	if mode == agent.ModeBackground {
		return s.cfg.Agent.BackgroundMaxSteps
	}
	return s.cfg.Agent.InlineMaxSteps
}

func (s *AgentService) timeout(mode string) time.Duration {
	if mode == agent.ModeBackground {
		return time.Duration(s.cfg.Agent.BackgroundTimeoutMin) * time.Minute
	}
	return time.Duration(s.cfg.Agent.InlineTimeoutSec) * time.Second
}

func sessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= 80 {
		return message
	}
	return string(runes[:80]) + "…"
}
