package schriftsatz

import (
	"context"
	"encoding/json"
	"time"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	DefaultPendingTTL = 7 * 24 * time.Hour
	DefaultMaxRounds  = 5
)

// State is a paused drafting run, in memory form.
type State struct {
	UserId             uuid.UUID
	AkteId             uuid.UUID
	KlageartId         string
	Intent             *Intent
	Slots              SlotValues
	LetzteFrage        string
	GefragterSlot      string
	Runde              int
	UrsprungsNachricht string
}

// PendingStore persists paused pipelines so a user can answer the follow
// up question hours later, from another device.
type PendingStore struct {
	uowFactory unitofwork.RepositoryFactory
	ttl        time.Duration
	log        logger.ILogger
}

func NewPendingStore(uowFactory unitofwork.RepositoryFactory, ttl time.Duration, log logger.ILogger) *PendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &PendingStore{
		uowFactory: uowFactory,
		ttl:        ttl,
		log:        log,
	}
}

// Load returns the paused run for the (user, case) pair, or nil. Expired
// state is deleted on sight.
func (s *PendingStore) Load(ctx context.Context, userId, akteId uuid.UUID) (*State, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.PendingPipelineRepository()

	row, err := repo.FindOne(ctx,
		specification.ByUser{UserID: userId},
		specification.ByAkte{AkteID: akteId},
	)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	if time.Now().After(row.ExpiresAt) {
		if derr := repo.Delete(ctx, row.Id); derr != nil {
			s.log.Warn("schriftsatz", "failed to delete expired pending state", map[string]interface{}{
				"error": derr.Error(),
			})
		}
		return nil, nil
	}

	state := &State{
		UserId:             row.UserId,
		AkteId:             row.AkteId,
		KlageartId:         row.KlageartId,
		LetzteFrage:        row.LetzteFrage,
		GefragterSlot:      row.GefragterSlot,
		Runde:              row.Runde,
		UrsprungsNachricht: row.UrsprungsNachricht,
		Slots:              SlotValues{},
	}
	if len(row.IntentJSON) > 0 {
		var intent Intent
		if err := json.Unmarshal(row.IntentJSON, &intent); err == nil {
			state.Intent = &intent
		}
	}
	if len(row.SlotsJSON) > 0 {
		_ = json.Unmarshal(row.SlotsJSON, &state.Slots)
	}
	return state, nil
}

func (s *PendingStore) Save(ctx context.Context, state *State) error {
	intentJSON, _ := json.Marshal(state.Intent)
	slotsJSON, _ := json.Marshal(state.Slots)

	row := &entity.PendingPipeline{
		Id:                 uuid.New(),
		UserId:             state.UserId,
		AkteId:             state.AkteId,
		KlageartId:         state.KlageartId,
		IntentJSON:         intentJSON,
		SlotsJSON:          slotsJSON,
		LetzteFrage:        state.LetzteFrage,
		GefragterSlot:      state.GefragterSlot,
		Runde:              state.Runde,
		UrsprungsNachricht: state.UrsprungsNachricht,
		ExpiresAt:          time.Now().Add(s.ttl),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PendingPipelineRepository().Upsert(ctx, row)
}

func (s *PendingStore) Clear(ctx context.Context, userId, akteId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PendingPipelineRepository().DeleteByUserAndAkte(ctx, userId, akteId)
}

// Sweep removes all expired pending runs. Called from the background
// consumer on a timer.
func (s *PendingStore) Sweep(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PendingPipelineRepository().DeleteExpired(ctx, time.Now())
}
