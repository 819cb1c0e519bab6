package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kanzlei-ai-be/internal/config"
	"kanzlei-ai-be/internal/constant"
	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/contract"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/agent"
	"kanzlei-ai-be/pkg/agent/classify"
	"kanzlei-ai-be/pkg/agent/ratelimit"
	"kanzlei-ai-be/pkg/events"
	"kanzlei-ai-be/pkg/llm"
	pkgNats "kanzlei-ai-be/pkg/nats"
	"kanzlei-ai-be/pkg/schriftsatz"
	"kanzlei-ai-be/pkg/tools"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	responses []string
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if p.calls >= len(p.responses) {
		return "Mehr weiß ich dazu nicht.", nil
	}
	r := p.responses[p.calls]
	p.calls++
	return r, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.AgentSession
	created  int
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.AgentSession) error {
	r.sessions[session.Id] = session
	r.created++
	return nil
}
func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.AgentSession) error { return nil }
func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error                 { return nil }
func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AgentSession, error) {
	var id, userId uuid.UUID
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.ByID:
			id = sp.ID
		case specification.ByUser:
			userId = sp.UserID
		}
	}
	session, ok := r.sessions[id]
	if !ok || session.UserId != userId {
		return nil, nil
	}
	return session, nil
}
func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentSession, error) {
	all := make([]*entity.AgentSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all, nil
}

type fakeMessageRepo struct {
	messages []*entity.AgentMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.AgentMessage) error {
	r.messages = append(r.messages, message)
	return nil
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMessage, error) {
	limit := len(r.messages)
	desc := false
	for _, s := range specs {
		switch sp := s.(type) {
		case specification.Pagination:
			if sp.Limit > 0 && sp.Limit < limit {
				limit = sp.Limit
			}
		case specification.OrderBy:
			desc = sp.Desc
		}
	}
	out := make([]*entity.AgentMessage, len(r.messages))
	copy(out, r.messages)
	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out[:limit], nil
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakePendingRepo struct{}

func (r *fakePendingRepo) Upsert(ctx context.Context, p *entity.PendingPipeline) error { return nil }
func (r *fakePendingRepo) Delete(ctx context.Context, id uuid.UUID) error              { return nil }
func (r *fakePendingRepo) DeleteByUserAndAkte(ctx context.Context, userId, akteId uuid.UUID) error {
	return nil
}
func (r *fakePendingRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
func (r *fakePendingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PendingPipeline, error) {
	return nil, nil
}
func (r *fakePendingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PendingPipeline, error) {
	return nil, nil
}

type fakeUOW struct {
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
}

func (u *fakeUOW) Begin(ctx context.Context) error { return nil }
func (u *fakeUOW) Commit() error                   { return nil }
func (u *fakeUOW) Rollback() error                 { return nil }

func (u *fakeUOW) AkteRepository() contract.AkteRepository                       { return nil }
func (u *fakeUOW) AkteNotizRepository() contract.AkteNotizRepository             { return nil }
func (u *fakeUOW) DokumentRepository() contract.DokumentRepository               { return nil }
func (u *fakeUOW) DraftRepository() contract.DraftRepository                     { return nil }
func (u *fakeUOW) PendingPipelineRepository() contract.PendingPipelineRepository { return &fakePendingRepo{} }
func (u *fakeUOW) LegalChunkRepository() contract.LegalChunkRepository           { return nil }
func (u *fakeUOW) AgentSessionRepository() contract.AgentSessionRepository       { return u.sessions }
func (u *fakeUOW) AgentMessageRepository() contract.AgentMessageRepository       { return u.messages }
func (u *fakeUOW) AgentUsageRepository() contract.AgentUsageRepository           { return nil }
func (u *fakeUOW) NotificationRepository() contract.NotificationRepository       { return nil }

type fakeFactory struct {
	uow *fakeUOW
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

type fakeQueue struct {
	jobs []*BackgroundJob
	err  error
}

func (q *fakeQueue) Enqueue(job *BackgroundJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeRecorder struct {
	records []*entity.AgentUsage
}

func (r *fakeRecorder) Record(ctx context.Context, usage *entity.AgentUsage) error {
	r.records = append(r.records, usage)
	return nil
}

type testEnv struct {
	svc      *AgentService
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	queue    *fakeQueue
	recorder *fakeRecorder
}

func newTestService(provider llm.LLMProvider, rateLimit int) *testEnv {
	log := logger.NewNopLogger()
	uow := &fakeUOW{
		sessions: &fakeSessionRepo{sessions: map[uuid.UUID]*entity.AgentSession{}},
		messages: &fakeMessageRepo{},
	}
	factory := &fakeFactory{uow: uow}
	queue := &fakeQueue{}
	recorder := &fakeRecorder{}

	cfg := &config.Config{
		Ai: config.AIConfig{
			TierOneModel:   "tier1",
			TierTwoModel:   "tier2",
			TierThreeModel: "tier3",
		},
		Agent: config.AgentConfig{
			RateLimitPerHour:     rateLimit,
			InlineMaxSteps:       5,
			BackgroundMaxSteps:   20,
			InlineTimeoutSec:     30,
			BackgroundTimeoutMin: 180,
		},
	}

	svc := NewAgentService(
		cfg,
		provider,
		agent.NewOrchestrator(recorder, log),
		ratelimit.NewLimiter(newCountingStore(), rateLimit, time.Hour, log),
		tools.NewRegistry(log),
		nil,
		schriftsatz.NewPendingStore(factory, 0, log),
		factory,
		queue,
		nil,
		nil,
		log,
	)
	return &testEnv{svc: svc, sessions: uow.sessions, messages: uow.messages, queue: queue, recorder: recorder}
}

type countingStore struct {
	counts map[string]int64
}

func newCountingStore() *countingStore {
	return &countingStore{counts: map[string]int64{}}
}

func (s *countingStore) Incr(ctx context.Context, key string) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}
func (s *countingStore) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func anwalt() Identity {
	return Identity{UserID: uuid.New(), Role: "anwalt", Email: "kanzlei@example.de"}
}

func TestRunHelenaAgentAnswersInline(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"Thought: Das steht im Sachverhalt.\nDie Akte betrifft eine betriebsbedingte Kündigung vom 02.05.2025.",
	}}
	env := newTestService(provider, 10)

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity: anwalt(),
		Message:  "Worum geht es in dieser Akte?",
	})
	require.NoError(t, err)

	assert.Equal(t, agent.ModeInline, out.Mode)
	assert.Equal(t, agent.FinishStop, out.FinishReason)
	assert.Contains(t, out.Text, "betriebsbedingte Kündigung")
	assert.NotContains(t, out.Text, "Thought:")
	assert.False(t, out.Queued)
	assert.False(t, out.ContinueInBackground)

	// User turn and assistant answer are both persisted on the session.
	require.Len(t, env.messages.messages, 2)
	assert.Equal(t, constant.AgentMessageRoleUser, env.messages.messages[0].Rolle)
	assert.Equal(t, constant.AgentMessageRoleAssistant, env.messages.messages[1].Rolle)
	assert.Equal(t, 1, env.sessions.created)
	assert.Len(t, env.recorder.records, 1)
}

func TestRunHelenaAgentRateLimited(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Die Frist endet am 23.05.2025."}}
	env := newTestService(provider, 1)
	identity := anwalt()

	first, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity: identity,
		Message:  "Wann endet die Klagefrist?",
	})
	require.NoError(t, err)
	assert.False(t, first.RateLimited)

	second, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity: identity,
		Message:  "Und die Berufungsfrist?",
	})
	require.NoError(t, err)

	assert.True(t, second.RateLimited)
	assert.Equal(t, "rate_limited", second.FinishReason)
	assert.Contains(t, second.Text, "Anfragelimit")
	require.NotNil(t, second.RateLimitReset)

	// The rejected turn never reaches the session.
	assert.Len(t, env.messages.messages, 2)
}

func TestRunHelenaAgentQueuesBackgroundRuns(t *testing.T) {
	provider := &scriptedProvider{}
	env := newTestService(provider, 10)
	identity := anwalt()

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity:     identity,
		Message:      "Fasse die letzten Schreiben der Gegenseite zusammen.",
		ModeOverride: agent.ModeBackground,
	})
	require.NoError(t, err)

	assert.True(t, out.Queued)
	assert.Equal(t, agent.ModeBackground, out.Mode)
	assert.Equal(t, "queued", out.FinishReason)
	assert.NotEmpty(t, out.Text)

	require.Len(t, env.queue.jobs, 1)
	job := env.queue.jobs[0]
	assert.Equal(t, identity.UserID, job.UserId)
	assert.Equal(t, out.SessionId, job.SessionId)
	assert.Equal(t, classify.TierStandard, job.Tier)

	// Only the user turn is stored, the answer comes from the worker.
	assert.Len(t, env.messages.messages, 1)
	assert.Zero(t, provider.calls)
}

func TestRunHelenaAgentFallsBackInlineWhenQueueFails(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Hier ist die Zusammenfassung."}}
	env := newTestService(provider, 10)
	env.queue.err = errors.New("bus closed")

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity:     anwalt(),
		Message:      "Fasse die letzten Schreiben der Gegenseite zusammen.",
		ModeOverride: agent.ModeBackground,
	})
	require.NoError(t, err)

	assert.False(t, out.Queued)
	assert.Equal(t, agent.ModeInline, out.Mode)
	assert.Equal(t, agent.FinishStop, out.FinishReason)
	assert.Contains(t, out.Text, "Zusammenfassung")
	assert.Len(t, env.messages.messages, 2)
}

func TestRunHelenaAgentDraftRequestNeedsAkte(t *testing.T) {
	provider := &scriptedProvider{}
	env := newTestService(provider, 10)

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity: anwalt(),
		Message:  "Erstelle eine Kündigungsschutzklage gegen die Kündigung vom 02.05.2025.",
	})
	require.NoError(t, err)

	assert.Equal(t, classify.TierHeavy, out.Tier)
	assert.Equal(t, agent.FinishStop, out.FinishReason)
	assert.Contains(t, out.Text, "Akte")
	assert.Zero(t, provider.calls)

	// The hint is persisted like any other assistant answer.
	require.Len(t, env.messages.messages, 2)
	assert.Equal(t, out.Text, env.messages.messages[1].Inhalt)
}

func TestRunHelenaAgentReusesExistingSession(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Verstanden."}}
	env := newTestService(provider, 10)
	identity := anwalt()

	existing := &entity.AgentSession{
		Id:     uuid.New(),
		UserId: identity.UserID,
		Titel:  "Bestehende Unterhaltung",
		Modus:  agent.ModeInline,
	}
	env.sessions.sessions[existing.Id] = existing

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity:  identity,
		SessionId: &existing.Id,
		Message:   "Danke, das war alles.",
	})
	require.NoError(t, err)

	assert.Equal(t, existing.Id, out.SessionId)
	assert.Zero(t, env.sessions.created)
}

func TestPublishEventSurvivesDisconnectedPublisher(t *testing.T) {
	env := newTestService(&scriptedProvider{}, 10)

	// A failed NATS connect leaves a typed-nil *Publisher. Behind the
	// interface it passes the nil check in publishEvent, so the
	// publisher itself has to refuse instead of dereferencing.
	var pub *pkgNats.Publisher
	env.svc.publisher = pub

	assert.NotPanics(t, func() {
		env.svc.publishEvent(events.New(events.TypeAgentRunFinished, map[string]interface{}{
			"session_id": uuid.New().String(),
		}))
	})
}

func TestRunHelenaAgentHidesForeignSessions(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Gerne."}}
	env := newTestService(provider, 10)

	other := &entity.AgentSession{Id: uuid.New(), UserId: uuid.New()}
	env.sessions.sessions[other.Id] = other

	out, err := env.svc.RunHelenaAgent(context.Background(), &AgentRunInput{
		Identity:  anwalt(),
		SessionId: &other.Id,
		Message:   "Zeig mir den Verlauf.",
	})
	require.NoError(t, err)

	// A foreign session id silently starts a fresh session.
	assert.NotEqual(t, other.Id, out.SessionId)
	assert.Equal(t, 1, env.sessions.created)
}
