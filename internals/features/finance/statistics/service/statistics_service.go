package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	clientModel "admon_backend/internals/features/clients/clients/model"
	balanceService "admon_backend/internals/features/finance/balances/service"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/helpers/dbtime"
)

// RevenueMonths is how many monthly buckets the revenue view returns.
const RevenueMonths = 6

type Service struct {
	DB  *gorm.DB
	Loc *time.Location
	Now func() time.Time
}

func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{DB: db, Loc: loc, Now: time.Now}
}

type Totals struct {
	TotalRevenue            decimal.Decimal `json:"totalRevenue"`
	TotalClients            int             `json:"totalClients"`
	ActiveSubscriptions     int             `json:"activeSubscriptions"`
	MonthlyRecurringRevenue decimal.Decimal `json:"monthlyRecurringRevenue"`
	PendingPayments         int             `json:"pendingPayments"`
	OutstandingBalance      decimal.Decimal `json:"outstandingBalance"`
}

type MonthBucket struct {
	Month         string          `json:"month"`
	Subscriptions decimal.Decimal `json:"subscriptions"`
	OneTime       decimal.Decimal `json:"oneTime"`
	Revenue       decimal.Decimal `json:"revenue"`
}

type TypeBucket struct {
	Type    string          `json:"tipo"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Acquisition struct {
	OnlyContracts     int `json:"soloContratos"`
	OnlySubscriptions int `json:"soloSuscripciones"`
	Both              int `json:"ambos"`
}

type Distribution struct {
	ByType      []TypeBucket `json:"porTipo"`
	Acquisition Acquisition  `json:"clientes"`
}

type rows struct {
	clients   []clientModel.ClientModel
	contracts []contractModel.ContractModel
	subs      []subscriptionModel.SubscriptionModel
	payments  []paymentModel.PaymentModel
}

func (s *Service) load(ctx context.Context) (*rows, error) {
	var r rows
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.DB.WithContext(gctx).Find(&r.clients).Error; err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.DB.WithContext(gctx).Find(&r.contracts).Error; err != nil {
			return fmt.Errorf("contracts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.DB.WithContext(gctx).Find(&r.subs).Error; err != nil {
			return fmt.Errorf("subscriptions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.DB.WithContext(gctx).Find(&r.payments).Error; err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Service) loader() *balanceService.Loader {
	l := balanceService.NewLoader(s.DB, s.Loc)
	l.Now = s.Now
	return l
}

/* ===================== TOTALS ===================== */

func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	r, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	bal := balanceService.Aggregate(r.contracts, r.subs, r.payments, balanceService.Names{}, now, s.Loc)

	out := &Totals{
		TotalRevenue:            decimal.Zero,
		TotalClients:            len(r.clients),
		MonthlyRecurringRevenue: decimal.Zero,
		OutstandingBalance:      bal.TotalBalance,
	}
	for _, p := range r.payments {
		out.TotalRevenue = out.TotalRevenue.Add(p.PaymentAmount)
	}
	for _, c := range r.contracts {
		out.TotalRevenue = out.TotalRevenue.Add(c.ContractInitialPayment)
	}

	// pending counts every subscription due by today, active or not
	today := dbtime.StartOfDay(now, s.Loc)
	for _, sub := range r.subs {
		if sub.SubscriptionIsActive {
			out.ActiveSubscriptions++
			out.MonthlyRecurringRevenue = out.MonthlyRecurringRevenue.Add(sub.SubscriptionMonthlyFee)
		}
		if sub.SubscriptionNextDueDate == nil {
			continue
		}
		due := *sub.SubscriptionNextDueDate
		if !time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, s.Loc).After(today) {
			out.PendingPayments++
		}
	}
	return out, nil
}

/* ===================== MONTHLY REVENUE ===================== */

// MonthlyRevenue buckets payments and contract initial payments into the
// last RevenueMonths calendar months, oldest first. Empty months are zero.
func (s *Service) MonthlyRevenue(ctx context.Context) ([]MonthBucket, error) {
	r, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return bucketMonths(r, s.Now(), s.Loc), nil
}

func bucketMonths(r *rows, now time.Time, loc *time.Location) []MonthBucket {
	keys := dbtime.LastMonths(now, RevenueMonths, loc)
	out := make([]MonthBucket, len(keys))
	idx := make(map[string]int, len(keys))
	for i, k := range keys {
		out[i] = MonthBucket{Month: k, Subscriptions: decimal.Zero, OneTime: decimal.Zero, Revenue: decimal.Zero}
		idx[k] = i
	}

	for _, p := range r.payments {
		i, ok := idx[dbtime.MonthKey(p.PaymentCreatedAt, loc)]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(p.PaymentAmount)
		if p.PaymentType == constants.PaymentSubscription {
			out[i].Subscriptions = out[i].Subscriptions.Add(p.PaymentAmount)
		} else {
			out[i].OneTime = out[i].OneTime.Add(p.PaymentAmount)
		}
	}
	for _, c := range r.contracts {
		i, ok := idx[dbtime.MonthKey(c.ContractCreatedAt, loc)]
		if !ok || c.ContractInitialPayment.IsZero() {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(c.ContractInitialPayment)
		out[i].OneTime = out[i].OneTime.Add(c.ContractInitialPayment)
	}
	return out
}

/* ===================== DISTRIBUTION ===================== */

func (s *Service) Distribution(ctx context.Context) (*Distribution, error) {
	r, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]*TypeBucket, len(constants.PaymentTypes))
	out := &Distribution{ByType: make([]TypeBucket, 0, len(constants.PaymentTypes))}
	for _, t := range constants.PaymentTypes {
		out.ByType = append(out.ByType, TypeBucket{Type: t, Revenue: decimal.Zero})
	}
	for i := range out.ByType {
		byType[out.ByType[i].Type] = &out.ByType[i]
	}
	for _, p := range r.payments {
		b, ok := byType[p.PaymentType]
		if !ok {
			b = byType[constants.PaymentOneOff]
		}
		b.Count++
		b.Revenue = b.Revenue.Add(p.PaymentAmount)
	}

	withContract := map[uuid.UUID]bool{}
	for _, c := range r.contracts {
		withContract[c.ContractClientID] = true
	}
	withSub := map[uuid.UUID]bool{}
	for _, sub := range r.subs {
		withSub[sub.SubscriptionClientID] = true
	}
	for id := range withContract {
		if withSub[id] {
			out.Acquisition.Both++
		} else {
			out.Acquisition.OnlyContracts++
		}
	}
	for id := range withSub {
		if !withContract[id] {
			out.Acquisition.OnlySubscriptions++
		}
	}
	return out, nil
}
