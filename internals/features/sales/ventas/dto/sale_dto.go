package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"admon_backend/internals/constants"
	"admon_backend/internals/features/sales/ventas/model"
)

/* =========================================================
   CREATE
========================================================= */

// CreateSaleRequest registers a sale. venta_total sales open a contract,
// suscripcion sales open a subscription.
type CreateSaleRequest struct {
	ClientID  uuid.UUID `json:"cliente"       validate:"required"`
	ProjectID uuid.UUID `json:"proyecto"      validate:"required"`
	Type      string    `json:"tipo_de_venta" validate:"required,oneof=venta_total suscripcion"`
	Date      string    `json:"fecha"         validate:"omitempty,datetime=2006-01-02"`

	InitialPayment decimal.Decimal `json:"pago_inicial"`
	TotalAmount    decimal.Decimal `json:"total_a_pagar"`
	Installments   int             `json:"cantidad_de_pagos" validate:"min=0,max=360"`
	MonthlyFee     decimal.Decimal `json:"mensualidad"`

	// First due date of the generated contract or subscription; defaults to
	// one month after fecha.
	NextDueDate *string `json:"proxima_fecha_de_pago" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateSaleRequest) Normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Date = strings.TrimSpace(r.Date)
}

// CheckAmounts validates the money fields for the chosen sale type.
func (r CreateSaleRequest) CheckAmounts() map[string][]string {
	errs := map[string][]string{}
	switch r.Type {
	case constants.SaleTypeOneTime:
		if !r.TotalAmount.IsPositive() {
			errs["total_a_pagar"] = append(errs["total_a_pagar"], "gt")
		}
		if r.InitialPayment.IsNegative() {
			errs["pago_inicial"] = append(errs["pago_inicial"], "gte")
		}
		if r.InitialPayment.GreaterThan(r.TotalAmount) {
			errs["pago_inicial"] = append(errs["pago_inicial"], "ltefield")
		}
	case constants.SaleTypeSubscription:
		if !r.MonthlyFee.IsPositive() {
			errs["mensualidad"] = append(errs["mensualidad"], "gt")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r CreateSaleRequest) ToModel(date time.Time) *model.SaleModel {
	m := &model.SaleModel{
		SaleClientID:  r.ClientID,
		SaleProjectID: r.ProjectID,
		SaleType:      r.Type,
		SaleDate:      date,
	}
	if r.Type == constants.SaleTypeOneTime {
		m.SaleTotalAmount = r.TotalAmount.Round(2)
		m.SaleInitialPayment = r.InitialPayment.Round(2)
		m.SaleInstallments = r.Installments
	} else {
		m.SaleMonthlyFee = r.MonthlyFee.Round(2)
	}
	return m
}

/* =========================================================
   QUERY & RESPONSE
========================================================= */

type ListSaleQuery struct {
	ClientID  string `query:"cliente"`
	ProjectID string `query:"proyecto"`
	Type      string `query:"tipo_de_venta"`
}

type SaleResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClientID       uuid.UUID       `json:"cliente"`
	ClientName     string          `json:"cliente_nombre,omitempty"`
	ProjectID      uuid.UUID       `json:"proyecto"`
	ProjectName    string          `json:"proyecto_nombre,omitempty"`
	Type           string          `json:"tipo_de_venta"`
	Date           string          `json:"fecha"`
	InitialPayment decimal.Decimal `json:"pago_inicial"`
	TotalAmount    decimal.Decimal `json:"total_a_pagar"`
	Installments   int             `json:"cantidad_de_pagos"`
	MonthlyFee     decimal.Decimal `json:"mensualidad"`
	ContractURL    *string         `json:"contrato_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	ContractID     *uuid.UUID `json:"contrato_id,omitempty"`
	SubscriptionID *uuid.UUID `json:"suscripcion_id,omitempty"`
}

func FromModel(m *model.SaleModel) SaleResponse {
	return SaleResponse{
		ID:             m.SaleID,
		ClientID:       m.SaleClientID,
		ProjectID:      m.SaleProjectID,
		Type:           m.SaleType,
		Date:           m.SaleDate.Format("2006-01-02"),
		InitialPayment: m.SaleInitialPayment,
		TotalAmount:    m.SaleTotalAmount,
		Installments:   m.SaleInstallments,
		MonthlyFee:     m.SaleMonthlyFee,
		ContractURL:    m.SaleContractURL,
		CreatedAt:      m.SaleCreatedAt,
	}
}
