package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification types raised by the agent core.
const (
	NotificationDraftReady      = "DRAFT_READY"
	NotificationRunFinished     = "RUN_FINISHED"
	NotificationDeadlineWarning = "DEADLINE_WARNING"
)

type Notification struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Typ       string
	Titel     string
	Nachricht string
	DataJSON  []byte
	Gelesen   bool
	CreatedAt time.Time
}
