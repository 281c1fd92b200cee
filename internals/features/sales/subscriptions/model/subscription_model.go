package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubscriptionModel struct {
	SubscriptionID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	SubscriptionClientID  uuid.UUID  `gorm:"column:cliente;type:uuid;not null;index"  json:"cliente"`
	SubscriptionProjectID uuid.UUID  `gorm:"column:proyecto;type:uuid;not null;index" json:"proyecto"`
	SubscriptionSaleID    *uuid.UUID `gorm:"column:venta_id;type:uuid"                json:"venta_id,omitempty"`

	SubscriptionMonthlyFee  decimal.Decimal `gorm:"column:mensualidad;type:numeric(14,2);not null" json:"mensualidad"`
	SubscriptionNextDueDate *time.Time      `gorm:"column:proxima_fecha_de_pago;type:date"         json:"proxima_fecha_de_pago,omitempty"`
	SubscriptionIsActive    bool            `gorm:"column:is_active;not null;default:true"         json:"is_active"`
	SubscriptionContractURL *string         `gorm:"column:contrato_url;type:text"                  json:"contrato_url,omitempty"`

	SubscriptionCreatedAt time.Time `gorm:"column:fecha_de_creacion;autoCreateTime" json:"fecha_de_creacion"`
}

func (SubscriptionModel) TableName() string { return "suscripciones" }

func (m *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubscriptionID == uuid.Nil {
		m.SubscriptionID = uuid.New()
	}
	return nil
}
