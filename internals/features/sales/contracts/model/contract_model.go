package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ContractModel struct {
	ContractID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	ContractClientID  uuid.UUID  `gorm:"column:cliente;type:uuid;not null;index"  json:"cliente"`
	ContractProjectID uuid.UUID  `gorm:"column:proyecto;type:uuid;not null;index" json:"proyecto"`
	ContractSaleID    *uuid.UUID `gorm:"column:venta_id;type:uuid"                json:"venta_id,omitempty"`

	ContractTotalAmount    decimal.Decimal `gorm:"column:monto_total;type:numeric(14,2);not null"             json:"monto_total"`
	ContractInitialPayment decimal.Decimal `gorm:"column:pago_inicial;type:numeric(14,2);not null;default:0" json:"pago_inicial"`
	// 0 is read as a single installment
	ContractInstallments int `gorm:"column:cantidad_de_pagos;not null;default:0" json:"cantidad_de_pagos"`

	ContractNextDueDate *time.Time `gorm:"column:proxima_fecha_de_pago;type:date" json:"proxima_fecha_de_pago,omitempty"`

	// activo | cancelado
	ContractStatus string  `gorm:"column:estado;type:text;not null;default:'activo'" json:"estado"`
	ContractURL    *string `gorm:"column:contrato_url;type:text"                       json:"contrato_url,omitempty"`

	ContractCreatedAt time.Time `gorm:"column:fecha_de_creacion;autoCreateTime" json:"fecha_de_creacion"`
}

func (ContractModel) TableName() string { return "contratos" }

func (m *ContractModel) BeforeCreate(tx *gorm.DB) error {
	if m.ContractID == uuid.Nil {
		m.ContractID = uuid.New()
	}
	return nil
}
