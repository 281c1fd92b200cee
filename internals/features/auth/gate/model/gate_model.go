package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfigModel is the single configuracion row (id = 1).
type ConfigModel struct {
	ConfigID        int       `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ConfigClaveHash string    `gorm:"column:clave_hash;type:text"              json:"-"`
	ConfigUpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"         json:"updated_at"`
}

func (ConfigModel) TableName() string { return "configuracion" }

const ConfigRowID = 1

type SessionModel struct {
	SessionID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"          json:"id"`
	SessionExpiresAt time.Time  `gorm:"column:expires_at;not null;index"        json:"expires_at"`
	SessionRevokedAt *time.Time `gorm:"column:revoked_at"                       json:"revoked_at,omitempty"`
	SessionUserAgent *string    `gorm:"column:user_agent;type:text"             json:"user_agent,omitempty"`
	SessionIP        *string    `gorm:"column:ip;type:text"                     json:"ip,omitempty"`
	SessionCreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"        json:"created_at"`
}

func (SessionModel) TableName() string { return "sesiones" }

func (m *SessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SessionID == uuid.Nil {
		m.SessionID = uuid.New()
	}
	return nil
}

// Active reports whether the session can still authenticate requests.
func (m SessionModel) Active(now time.Time) bool {
	return m.SessionRevokedAt == nil && now.Before(m.SessionExpiresAt)
}
