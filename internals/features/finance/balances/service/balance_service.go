package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"admon_backend/internals/constants"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/helpers/dbtime"
)

// UpcomingLimit is how many upcoming items a summary exposes.
const UpcomingLimit = 5

const (
	KindContract     = "contrato"
	KindSubscription = "suscripcion"
)

// Names resolves ids to display names; either map may be nil.
type Names struct {
	Clients  map[uuid.UUID]string
	Projects map[uuid.UUID]string
}

type DueItem struct {
	Kind        string          `json:"tipo"`
	ID          uuid.UUID       `json:"id"`
	ClientID    uuid.UUID       `json:"cliente"`
	ClientName  string          `json:"cliente_nombre,omitempty"`
	ProjectID   uuid.UUID       `json:"proyecto"`
	ProjectName string          `json:"proyecto_nombre,omitempty"`
	Amount      decimal.Decimal `json:"monto"`
	DueDate     time.Time       `json:"fecha_vencimiento"`
	DaysOverdue int             `json:"dias_atraso"`
}

type ContractBalance struct {
	ContractID        uuid.UUID       `json:"id"`
	ClientID          uuid.UUID       `json:"cliente"`
	ProjectID         uuid.UUID       `json:"proyecto"`
	Status            string          `json:"estado"`
	Total             decimal.Decimal `json:"monto_total"`
	Initial           decimal.Decimal `json:"pago_inicial"`
	Paid              decimal.Decimal `json:"pagos_registrados"`
	Remaining         decimal.Decimal `json:"valor_restante"`
	Installments      int             `json:"cantidad_de_pagos"`
	InstallmentAmount decimal.Decimal `json:"valor_cuota"`
}

type Summary struct {
	TotalRemainingContracts   decimal.Decimal   `json:"total_remaining_contracts"`
	TotalOverdueSubscriptions decimal.Decimal   `json:"total_overdue_subscriptions"`
	TotalBalance              decimal.Decimal   `json:"total_balance"`
	OverdueItems              []DueItem         `json:"overdue_items"`
	UpcomingItems             []DueItem         `json:"upcoming_items"`
	UpcomingCount             int               `json:"upcoming_count"`
	Contracts                 []ContractBalance `json:"contracts"`
}

// PaidByContract sums contract-type payments per referenced contract.
func PaidByContract(payments []paymentModel.PaymentModel) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, p := range payments {
		if p.PaymentType != constants.PaymentContract || p.PaymentReferenceID == nil {
			continue
		}
		out[*p.PaymentReferenceID] = out[*p.PaymentReferenceID].Add(p.PaymentAmount)
	}
	return out
}

// ContractBalanceOf computes paid, remaining and the flat installment amount.
// The installment is constant per contract; payments never reduce it.
// Remaining may go negative on overpayment; callers clamp when summing.
func ContractBalanceOf(c contractModel.ContractModel, paid decimal.Decimal) ContractBalance {
	n := c.ContractInstallments
	if n < 1 {
		n = 1
	}
	financed := c.ContractTotalAmount.Sub(c.ContractInitialPayment)
	return ContractBalance{
		ContractID:        c.ContractID,
		ClientID:          c.ContractClientID,
		ProjectID:         c.ContractProjectID,
		Status:            c.ContractStatus,
		Total:             c.ContractTotalAmount,
		Initial:           c.ContractInitialPayment,
		Paid:              paid,
		Remaining:         financed.Sub(paid),
		Installments:      n,
		InstallmentAmount: financed.Div(decimal.NewFromInt(int64(n))).Round(2),
	}
}

// Aggregate is the one place client balances are computed. It is pure:
// same inputs and now give the same summary.
func Aggregate(
	contracts []contractModel.ContractModel,
	subs []subscriptionModel.SubscriptionModel,
	payments []paymentModel.PaymentModel,
	names Names,
	now time.Time,
	loc *time.Location,
) Summary {
	today := dbtime.StartOfDay(now, loc)
	paid := PaidByContract(payments)

	sum := Summary{
		TotalRemainingContracts:   decimal.Zero,
		TotalOverdueSubscriptions: decimal.Zero,
		OverdueItems:              []DueItem{},
		UpcomingItems:             []DueItem{},
		Contracts:                 make([]ContractBalance, 0, len(contracts)),
	}
	var upcoming []DueItem

	for _, c := range contracts {
		cb := ContractBalanceOf(c, paid[c.ContractID])
		sum.Contracts = append(sum.Contracts, cb)
		if cb.Remaining.IsPositive() {
			sum.TotalRemainingContracts = sum.TotalRemainingContracts.Add(cb.Remaining)
		}

		if c.ContractNextDueDate == nil || c.ContractStatus != constants.ContractActive {
			continue
		}
		item := DueItem{
			Kind:      KindContract,
			ID:        c.ContractID,
			ClientID:  c.ContractClientID,
			ProjectID: c.ContractProjectID,
			Amount:    cb.InstallmentAmount,
			DueDate:   *c.ContractNextDueDate,
		}
		if due := dueDay(item.DueDate, loc); due.Before(today) {
			item.DaysOverdue = dbtime.DaysBetween(due, today, loc)
			sum.OverdueItems = append(sum.OverdueItems, item)
		} else {
			upcoming = append(upcoming, item)
		}
	}

	for _, s := range subs {
		if s.SubscriptionNextDueDate == nil || !s.SubscriptionIsActive {
			continue
		}
		item := DueItem{
			Kind:      KindSubscription,
			ID:        s.SubscriptionID,
			ClientID:  s.SubscriptionClientID,
			ProjectID: s.SubscriptionProjectID,
			Amount:    s.SubscriptionMonthlyFee,
			DueDate:   *s.SubscriptionNextDueDate,
		}
		if due := dueDay(item.DueDate, loc); due.Before(today) {
			item.DaysOverdue = dbtime.DaysBetween(due, today, loc)
			sum.OverdueItems = append(sum.OverdueItems, item)
			sum.TotalOverdueSubscriptions = sum.TotalOverdueSubscriptions.Add(item.Amount)
		} else {
			upcoming = append(upcoming, item)
		}
	}

	sortDue(sum.OverdueItems)
	sortDue(upcoming)
	sum.UpcomingCount = len(upcoming)
	if len(upcoming) > UpcomingLimit {
		upcoming = upcoming[:UpcomingLimit]
	}
	if upcoming != nil {
		sum.UpcomingItems = upcoming
	}

	for i := range sum.OverdueItems {
		names.fill(&sum.OverdueItems[i])
	}
	for i := range sum.UpcomingItems {
		names.fill(&sum.UpcomingItems[i])
	}

	sum.TotalBalance = sum.TotalRemainingContracts.Add(sum.TotalOverdueSubscriptions)
	return sum
}

// dueDay pins a due date to local midnight. Due dates are calendar
// dates, so the zone they were stored with is ignored.
func dueDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sortDue(items []DueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID.String() < b.ID.String()
	})
}

func (n Names) fill(it *DueItem) {
	if n.Clients != nil {
		it.ClientName = n.Clients[it.ClientID]
	}
	if n.Projects != nil {
		it.ProjectName = n.Projects[it.ProjectID]
	}
}
