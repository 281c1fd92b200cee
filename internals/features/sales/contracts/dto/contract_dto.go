package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"admon_backend/internals/features/sales/contracts/model"
)

type ListContractQuery struct {
	Status    string `query:"estado"`
	Q         string `query:"q"`
	ClientID  string `query:"cliente"`
	ProjectID string `query:"proyecto"`
}

type UpdateDueDateRequest struct {
	// Blank clears the due date.
	NextDueDate *string `json:"proxima_fecha_de_pago" validate:"omitempty,datetime=2006-01-02"`
}

type ContractResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClientID       uuid.UUID       `json:"cliente"`
	ClientName     string          `json:"cliente_nombre,omitempty"`
	ProjectID      uuid.UUID       `json:"proyecto"`
	ProjectName    string          `json:"proyecto_nombre,omitempty"`
	SaleID         *uuid.UUID      `json:"venta_id,omitempty"`
	TotalAmount    decimal.Decimal `json:"monto_total"`
	InitialPayment decimal.Decimal `json:"pago_inicial"`
	Installments   int             `json:"cantidad_de_pagos"`
	NextDueDate    *string         `json:"proxima_fecha_de_pago,omitempty"`
	Status         string          `json:"estado"`
	ContractURL    *string         `json:"contrato_url,omitempty"`
	CreatedAt      time.Time       `json:"fecha_de_creacion"`

	// Nil when the payments join could not be loaded.
	Paid              *decimal.Decimal `json:"pagos_registrados,omitempty"`
	Remaining         *decimal.Decimal `json:"valor_restante,omitempty"`
	InstallmentAmount *decimal.Decimal `json:"valor_cuota,omitempty"`
}

func FromModel(m *model.ContractModel) ContractResponse {
	out := ContractResponse{
		ID:             m.ContractID,
		ClientID:       m.ContractClientID,
		ProjectID:      m.ContractProjectID,
		SaleID:         m.ContractSaleID,
		TotalAmount:    m.ContractTotalAmount,
		InitialPayment: m.ContractInitialPayment,
		Installments:   m.ContractInstallments,
		Status:         m.ContractStatus,
		ContractURL:    m.ContractURL,
		CreatedAt:      m.ContractCreatedAt,
	}
	if m.ContractNextDueDate != nil {
		s := m.ContractNextDueDate.Format("2006-01-02")
		out.NextDueDate = &s
	}
	return out
}

// Stats summarises the listed contracts. TotalRemaining sums valor_restante
// over the filtered list as is: any status, negative on overpayment.
type Stats struct {
	Total          int              `json:"total"`
	Active         int              `json:"activos"`
	Cancelled      int              `json:"cancelados"`
	TotalRemaining *decimal.Decimal `json:"total_restante,omitempty"`
}
