package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"admon_backend/internals/features/sales/subscriptions/model"
)

type CreateSubscriptionRequest struct {
	ClientID    uuid.UUID       `json:"cliente"               validate:"required"`
	ProjectID   uuid.UUID       `json:"proyecto"              validate:"required"`
	MonthlyFee  decimal.Decimal `json:"mensualidad"`
	NextDueDate *string         `json:"proxima_fecha_de_pago" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool           `json:"is_active"`
}

func (r CreateSubscriptionRequest) ToModel(nextDue *time.Time) *model.SubscriptionModel {
	return &model.SubscriptionModel{
		SubscriptionClientID:    r.ClientID,
		SubscriptionProjectID:   r.ProjectID,
		SubscriptionMonthlyFee:  r.MonthlyFee.Round(2),
		SubscriptionNextDueDate: nextDue,
		SubscriptionIsActive:    r.IsActive == nil || *r.IsActive,
	}
}

type UpdateSubscriptionRequest struct {
	MonthlyFee  *decimal.Decimal `json:"mensualidad"`
	NextDueDate *string          `json:"proxima_fecha_de_pago" validate:"omitempty,datetime=2006-01-02"`
}

type ListSubscriptionQuery struct {
	// "true" / "false"; empty lists both.
	Active    string `query:"activa"`
	Overdue   bool   `query:"vencidas"`
	ClientID  string `query:"cliente"`
	ProjectID string `query:"proyecto"`
}

type SubscriptionResponse struct {
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"cliente"`
	ClientName  string          `json:"cliente_nombre,omitempty"`
	ProjectID   uuid.UUID       `json:"proyecto"`
	ProjectName string          `json:"proyecto_nombre,omitempty"`
	SaleID      *uuid.UUID      `json:"venta_id,omitempty"`
	MonthlyFee  decimal.Decimal `json:"mensualidad"`
	NextDueDate *string         `json:"proxima_fecha_de_pago,omitempty"`
	IsActive    bool            `json:"is_active"`
	ContractURL *string         `json:"contrato_url,omitempty"`
	CreatedAt   time.Time       `json:"fecha_de_creacion"`

	DaysOverdue int `json:"dias_atraso,omitempty"`
}

func FromModel(m *model.SubscriptionModel) SubscriptionResponse {
	out := SubscriptionResponse{
		ID:          m.SubscriptionID,
		ClientID:    m.SubscriptionClientID,
		ProjectID:   m.SubscriptionProjectID,
		SaleID:      m.SubscriptionSaleID,
		MonthlyFee:  m.SubscriptionMonthlyFee,
		IsActive:    m.SubscriptionIsActive,
		ContractURL: m.SubscriptionContractURL,
		CreatedAt:   m.SubscriptionCreatedAt,
	}
	if m.SubscriptionNextDueDate != nil {
		s := m.SubscriptionNextDueDate.Format("2006-01-02")
		out.NextDueDate = &s
	}
	return out
}
