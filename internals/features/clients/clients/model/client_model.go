package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientModel struct {
	ClientID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	ClientName       string  `gorm:"column:nombre;type:text;not null" json:"nombre"`
	ClientEmail      *string `gorm:"column:email;type:text"           json:"email,omitempty"`
	ClientPhone      *string `gorm:"column:telefono;type:text"        json:"telefono,omitempty"`
	ClientTaxID      *string `gorm:"column:rtn;type:text"             json:"rtn,omitempty"`
	ClientOccupation *string `gorm:"column:oficio;type:text"          json:"oficio,omitempty"`

	ClientCreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ClientModel) TableName() string { return "clientes" }

func (m *ClientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClientID == uuid.Nil {
		m.ClientID = uuid.New()
	}
	return nil
}
