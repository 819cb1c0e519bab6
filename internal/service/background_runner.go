package service

import (
	"context"
	"encoding/json"
	"fmt"

	"kanzlei-ai-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const backgroundRunTopic = "agent.background.run"

// BackgroundJob is one queued agent run.
type BackgroundJob struct {
	UserId    uuid.UUID  `json:"user_id"`
	Role      string     `json:"role"`
	AkteId    *uuid.UUID `json:"akte_id,omitempty"`
	SessionId uuid.UUID  `json:"session_id"`
	Message   string     `json:"message"`
	Tier      int        `json:"tier"`
}

// BackgroundRunner moves long agent runs off the request path through an
// in-process watermill bus. The HTTP handler answers immediately, the
// runner works the queue and announces results over the event bus.
type BackgroundRunner struct {
	bus *gochannel.GoChannel
	log logger.ILogger
}

func NewBackgroundRunner(log logger.ILogger) *BackgroundRunner {
	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})

	return &BackgroundRunner{
		bus: bus,
		log: log,
	}
}

func (r *BackgroundRunner) Enqueue(job *BackgroundJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal background job: %w", err)
	}
	return r.bus.Publish(backgroundRunTopic, message.NewMessage(watermill.NewUUID(), payload))
}

// Start consumes the queue until ctx dies. Jobs run sequentially: one
// heavy model call at a time keeps the provider responsive for inline
// traffic.
func (r *BackgroundRunner) Start(ctx context.Context, svc *AgentService) error {
	messages, err := r.bus.Subscribe(ctx, backgroundRunTopic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to background queue: %w", err)
	}

	go func() {
		for msg := range messages {
			var job BackgroundJob
			if err := json.Unmarshal(msg.Payload, &job); err != nil {
				r.log.Error("background", "undecodable job dropped", map[string]interface{}{
					"error": err.Error(),
				})
				msg.Ack()
				continue
			}

			r.log.Info("background", "job started", map[string]interface{}{
				"session_id": job.SessionId.String(),
				"tier":       job.Tier,
			})
			svc.ExecuteBackground(ctx, &job)
			msg.Ack()
		}
	}()
	return nil
}

func (r *BackgroundRunner) Close() error {
	return r.bus.Close()
}
