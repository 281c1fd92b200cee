package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReminderLogModel struct {
	ReminderID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"                 json:"id"`
	ReminderSubscriptionID uuid.UUID      `gorm:"column:suscripcion_id;type:uuid;not null;index" json:"suscripcion_id"`
	ReminderClientID       uuid.UUID      `gorm:"column:cliente;type:uuid;not null"              json:"cliente"`
	ReminderPayload        datatypes.JSON `gorm:"column:payload"                                 json:"payload"`
	ReminderDispatched     bool           `gorm:"column:enviado;not null;default:false"          json:"enviado"`
	ReminderError          *string        `gorm:"column:error;type:text"                         json:"error,omitempty"`
	ReminderCreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"               json:"created_at"`
}

func (ReminderLogModel) TableName() string { return "recordatorios_enviados" }

func (m *ReminderLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReminderID == uuid.Nil {
		m.ReminderID = uuid.New()
	}
	return nil
}
