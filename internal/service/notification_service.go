package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kanzlei-ai-be/internal/entity"
	"kanzlei-ai-be/internal/pkg/logger"
	"kanzlei-ai-be/internal/pkg/mailer"
	"kanzlei-ai-be/internal/repository/specification"
	"kanzlei-ai-be/internal/repository/unitofwork"
	"kanzlei-ai-be/pkg/events"
	"kanzlei-ai-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationService turns agent domain events into persisted
// notifications, websocket pushes and best-effort mail.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	hub        ProgressSink
	mailer     *mailer.Mailer
	log        logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, hub ProgressSink, m *mailer.Mailer, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		hub:        hub,
		mailer:     m,
		log:        log,
	}
}

// Start binds the durable event consumers. Call once at boot.
func (s *NotificationService) Start(subscriber *nats.Subscriber) error {
	if err := subscriber.Subscribe("events."+events.TypeDraftCreated, "helena-notify-draft", s.handleDraftCreated); err != nil {
		return fmt.Errorf("failed to subscribe to draft events: %w", err)
	}
	if err := subscriber.Subscribe("events."+events.TypeAgentRunFinished, "helena-notify-run", s.handleRunFinished); err != nil {
		return fmt.Errorf("failed to subscribe to run events: %w", err)
	}
	return nil
}

func (s *NotificationService) handleDraftCreated(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userId, err := payloadUUID(payload, "user_id")
	if err != nil {
		s.log.Warn("notification", "draft event without user, dropped", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	titel, _ := payload["titel"].(string)

	notif, err := s.deliver(ctx, userId, &entity.Notification{
		Typ:       entity.NotificationDraftReady,
		Titel:     "Entwurf wartet auf Freigabe",
		Nachricht: fmt.Sprintf("Der Entwurf %q wurde fertiggestellt und wartet auf Ihre Freigabe.", titel),
	}, payload)
	if err != nil {
		return err
	}

	if email, _ := payload["email"].(string); email != "" && s.mailer != nil && s.mailer.Enabled() {
		body := fmt.Sprintf("<p>%s</p><p>Bitte prüfen und freigeben Sie den Entwurf in der Kanzlei-App.</p>", notif.Nachricht)
		if merr := s.mailer.Send(email, notif.Titel, body); merr != nil {
			s.log.Warn("notification", "draft mail failed", map[string]interface{}{
				"error": merr.Error(),
			})
		}
	}
	return nil
}

func (s *NotificationService) handleRunFinished(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	userId, err := payloadUUID(payload, "user_id")
	if err != nil {
		return nil
	}

	text, _ := payload["text"].(string)
	nachricht := "Helena hat Ihre Hintergrund-Anfrage abgeschlossen."
	if text != "" {
		nachricht += " " + firstSentence(text)
	}

	_, err = s.deliver(ctx, userId, &entity.Notification{
		Typ:       entity.NotificationRunFinished,
		Titel:     "Hintergrund-Auftrag abgeschlossen",
		Nachricht: nachricht,
	}, payload)
	return err
}

// deliver persists the notification and pushes it to connected clients.
// Persistence failure propagates so the event is retried, push loss does
// not.
func (s *NotificationService) deliver(ctx context.Context, userId uuid.UUID, notif *entity.Notification, payload map[string]interface{}) (*entity.Notification, error) {
	notif.Id = uuid.New()
	notif.UserId = userId
	notif.DataJSON, _ = json.Marshal(payload)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Push(userId, map[string]interface{}{
			"type":         "notification",
			"notification": notif,
		})
	}
	return notif, nil
}

func (s *NotificationService) List(ctx context.Context, userId uuid.UUID, unreadOnly bool, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	specs := []specification.Specification{
		specification.ByUser{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	}
	if unreadOnly {
		specs = append(specs, specification.Filter("gelesen", false))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindAll(ctx, specs...)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllRead(ctx, userId)
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, error) {
	raw, _ := payload[key].(string)
	return uuid.Parse(raw)
}

func firstSentence(text string) string {
	if idx := strings.IndexAny(text, ".!?\n"); idx > 0 && idx < 160 {
		return text[:idx+1]
	}
	runes := []rune(text)
	if len(runes) > 160 {
		return string(runes[:160]) + "…"
	}
	return text
}
