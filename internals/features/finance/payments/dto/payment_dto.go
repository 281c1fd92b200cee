package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"admon_backend/internals/features/finance/payments/model"
)

/* =========================================================
   CREATE
========================================================= */

type CreatePaymentRequest struct {
	ClientID    uuid.UUID       `json:"cliente"       validate:"required"`
	ProjectID   *uuid.UUID      `json:"proyecto"`
	Amount      decimal.Decimal `json:"monto"`
	Type        string          `json:"tipo"          validate:"required,oneof=contrato suscripcion unico"`
	ReferenceID *uuid.UUID      `json:"referencia_id"`
	Notes       *string         `json:"notas"         validate:"omitempty,max=2000"`
	// Optional backdating for payments recorded after the fact.
	PaidAt *time.Time `json:"fecha_de_creacion"`
}

func (r *CreatePaymentRequest) Normalize() {
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.Notes != nil {
		s := strings.TrimSpace(*r.Notes)
		if s == "" {
			r.Notes = nil
		} else {
			r.Notes = &s
		}
	}
	if r.ProjectID != nil && *r.ProjectID == uuid.Nil {
		r.ProjectID = nil
	}
	if r.ReferenceID != nil && *r.ReferenceID == uuid.Nil {
		r.ReferenceID = nil
	}
}

func (r CreatePaymentRequest) ToModel() *model.PaymentModel {
	m := &model.PaymentModel{
		PaymentClientID:    r.ClientID,
		PaymentProjectID:   r.ProjectID,
		PaymentAmount:      r.Amount.Round(2),
		PaymentType:        r.Type,
		PaymentReferenceID: r.ReferenceID,
		PaymentNotes:       r.Notes,
	}
	if r.PaidAt != nil && !r.PaidAt.IsZero() {
		m.PaymentCreatedAt = *r.PaidAt
	}
	return m
}

/* =========================================================
   LIST QUERY
========================================================= */

type ListPaymentQuery struct {
	ClientID    string `query:"cliente"`
	Type        string `query:"tipo"`
	ReferenceID string `query:"referencia_id"`
	From        string `query:"desde"` // YYYY-MM-DD
	To          string `query:"hasta"` // YYYY-MM-DD, inclusive
	Page        int    `query:"page"`
	PerPage     int    `query:"per_page"`
}

/* =========================================================
   RESPONSE
========================================================= */

type PaymentResponse struct {
	PaymentID   uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"cliente"`
	ProjectID   *uuid.UUID      `json:"proyecto,omitempty"`
	Amount      decimal.Decimal `json:"monto"`
	Type        string          `json:"tipo"`
	ReferenceID *uuid.UUID      `json:"referencia_id,omitempty"`
	Notes       *string         `json:"notas,omitempty"`
	CreatedAt   time.Time       `json:"fecha_de_creacion"`
}

func FromModel(m *model.PaymentModel) PaymentResponse {
	return PaymentResponse{
		PaymentID:   m.PaymentID,
		ClientID:    m.PaymentClientID,
		ProjectID:   m.PaymentProjectID,
		Amount:      m.PaymentAmount,
		Type:        m.PaymentType,
		ReferenceID: m.PaymentReferenceID,
		Notes:       m.PaymentNotes,
		CreatedAt:   m.PaymentCreatedAt,
	}
}

func FromModels(list []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
