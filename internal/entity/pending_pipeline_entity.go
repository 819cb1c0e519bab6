package entity

import (
	"time"

	"github.com/google/uuid"
)

// PendingPipeline is a paused Schriftsatz drafting run waiting for a user
// answer. At most one exists per (user, case) pair.
type PendingPipeline struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId             uuid.UUID `gorm:"type:uuid;index"`
	AkteId             uuid.UUID `gorm:"type:uuid;index"`
	KlageartId         string
	IntentJSON         []byte
	SlotsJSON          []byte
	LetzteFrage        string
	GefragterSlot      string
	Runde              int
	UrsprungsNachricht string
	ExpiresAt          time.Time
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}
