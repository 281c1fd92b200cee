package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleModel struct {
	SaleID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	SaleClientID  uuid.UUID `gorm:"column:cliente;type:uuid;not null;index"  json:"cliente"`
	SaleProjectID uuid.UUID `gorm:"column:proyecto;type:uuid;not null;index" json:"proyecto"`

	// venta_total | suscripcion
	SaleType string    `gorm:"column:tipo_de_venta;type:text;not null" json:"tipo_de_venta"`
	SaleDate time.Time `gorm:"column:fecha;type:date;not null"          json:"fecha"`

	SaleInitialPayment decimal.Decimal `gorm:"column:pago_inicial;type:numeric(14,2);not null;default:0"  json:"pago_inicial"`
	SaleTotalAmount    decimal.Decimal `gorm:"column:total_a_pagar;type:numeric(14,2);not null;default:0" json:"total_a_pagar"`
	SaleInstallments   int             `gorm:"column:cantidad_de_pagos;not null;default:0"                json:"cantidad_de_pagos"`
	SaleMonthlyFee     decimal.Decimal `gorm:"column:mensualidad;type:numeric(14,2);not null;default:0"   json:"mensualidad"`

	SaleContractURL *string `gorm:"column:contrato_url;type:text" json:"contrato_url,omitempty"`

	SaleCreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SaleModel) TableName() string { return "venta" }

func (m *SaleModel) BeforeCreate(tx *gorm.DB) error {
	if m.SaleID == uuid.Nil {
		m.SaleID = uuid.New()
	}
	return nil
}
