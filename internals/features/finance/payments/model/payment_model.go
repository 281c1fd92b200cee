package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentModel is append-only: rows are inserted and read, never changed.
type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	PaymentClientID  uuid.UUID  `gorm:"column:cliente;type:uuid;not null;index" json:"cliente"`
	PaymentProjectID *uuid.UUID `gorm:"column:proyecto;type:uuid"               json:"proyecto,omitempty"`

	PaymentAmount decimal.Decimal `gorm:"column:monto;type:numeric(14,2);not null" json:"monto"`
	// contrato | suscripcion | unico
	PaymentType        string     `gorm:"column:tipo;type:text;not null"          json:"tipo"`
	PaymentReferenceID *uuid.UUID `gorm:"column:referencia_id;type:uuid;index"    json:"referencia_id,omitempty"`
	PaymentNotes       *string    `gorm:"column:notas;type:text"                  json:"notas,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:fecha_de_creacion;autoCreateTime" json:"fecha_de_creacion"`
}

func (PaymentModel) TableName() string { return "pagos" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}
