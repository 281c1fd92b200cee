package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
)

var ErrClientNotFound = errors.New("client not found")

type Loader struct {
	DB  *gorm.DB
	Now func() time.Time
	Loc *time.Location
}

func NewLoader(db *gorm.DB, loc *time.Location) *Loader {
	return &Loader{DB: db, Now: time.Now, Loc: loc}
}

type ClientBalance struct {
	ClientID   uuid.UUID `json:"cliente"`
	ClientName string    `json:"cliente_nombre"`
	Summary
}

type AllBalances struct {
	Clients                   []ClientBalance `json:"clientes"`
	TotalRemainingContracts   decimal.Decimal `json:"total_remaining_contracts"`
	TotalOverdueSubscriptions decimal.Decimal `json:"total_overdue_subscriptions"`
	TotalBalance              decimal.Decimal `json:"total_balance"`
	UpcomingItems             []DueItem       `json:"upcoming_items"`
}

type snapshot struct {
	clients   []clientModel.ClientModel
	projects  []projectModel.ProjectModel
	contracts []contractModel.ContractModel
	subs      []subscriptionModel.SubscriptionModel
	payments  []paymentModel.PaymentModel
}

// fetch reads every source concurrently. Any failing source fails the
// whole view: a balance built from partial data would be wrong, not stale.
func (l *Loader) fetch(ctx context.Context, clientID *uuid.UUID) (*snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	scoped := func(q *gorm.DB) *gorm.DB {
		if clientID != nil {
			return q.Where("cliente = ?", *clientID)
		}
		return q
	}

	g.Go(func() error {
		q := l.DB.WithContext(gctx)
		if clientID != nil {
			q = q.Where("id = ?", *clientID)
		}
		if err := q.Order("nombre ASC").Find(&snap.clients).Error; err != nil {
			return fmt.Errorf("clients: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := l.DB.WithContext(gctx).Find(&snap.projects).Error; err != nil {
			return fmt.Errorf("projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := scoped(l.DB.WithContext(gctx)).Find(&snap.contracts).Error; err != nil {
			return fmt.Errorf("contracts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := scoped(l.DB.WithContext(gctx)).Find(&snap.subs).Error; err != nil {
			return fmt.Errorf("subscriptions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := scoped(l.DB.WithContext(gctx)).Find(&snap.payments).Error; err != nil {
			return fmt.Errorf("payments: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *snapshot) names() Names {
	n := Names{
		Clients:  make(map[uuid.UUID]string, len(s.clients)),
		Projects: make(map[uuid.UUID]string, len(s.projects)),
	}
	for _, c := range s.clients {
		n.Clients[c.ClientID] = c.ClientName
	}
	for _, p := range s.projects {
		n.Projects[p.ProjectID] = p.ProjectName
	}
	return n
}

// ForClient builds one client's balance view.
func (l *Loader) ForClient(ctx context.Context, clientID uuid.UUID) (*ClientBalance, error) {
	snap, err := l.fetch(ctx, &clientID)
	if err != nil {
		return nil, err
	}
	if len(snap.clients) == 0 {
		return nil, ErrClientNotFound
	}
	sum := Aggregate(snap.contracts, snap.subs, snap.payments, snap.names(), l.Now(), l.Loc)
	return &ClientBalance{
		ClientID:   clientID,
		ClientName: snap.clients[0].ClientName,
		Summary:    sum,
	}, nil
}

// ForAll builds per-client views plus the grand totals.
func (l *Loader) ForAll(ctx context.Context) (*AllBalances, error) {
	snap, err := l.fetch(ctx, nil)
	if err != nil {
		return nil, err
	}
	names := snap.names()
	now := l.Now()

	contractsBy := map[uuid.UUID][]contractModel.ContractModel{}
	for _, c := range snap.contracts {
		contractsBy[c.ContractClientID] = append(contractsBy[c.ContractClientID], c)
	}
	subsBy := map[uuid.UUID][]subscriptionModel.SubscriptionModel{}
	for _, s := range snap.subs {
		subsBy[s.SubscriptionClientID] = append(subsBy[s.SubscriptionClientID], s)
	}
	paymentsBy := map[uuid.UUID][]paymentModel.PaymentModel{}
	for _, p := range snap.payments {
		paymentsBy[p.PaymentClientID] = append(paymentsBy[p.PaymentClientID], p)
	}

	out := &AllBalances{Clients: make([]ClientBalance, 0, len(snap.clients))}
	for _, c := range snap.clients {
		sum := Aggregate(contractsBy[c.ClientID], subsBy[c.ClientID], paymentsBy[c.ClientID], names, now, l.Loc)
		out.Clients = append(out.Clients, ClientBalance{ClientID: c.ClientID, ClientName: c.ClientName, Summary: sum})
	}
	sort.SliceStable(out.Clients, func(i, j int) bool {
		return out.Clients[i].TotalBalance.GreaterThan(out.Clients[j].TotalBalance)
	})

	total := Aggregate(snap.contracts, snap.subs, snap.payments, names, now, l.Loc)
	out.TotalRemainingContracts = total.TotalRemainingContracts
	out.TotalOverdueSubscriptions = total.TotalOverdueSubscriptions
	out.TotalBalance = total.TotalBalance
	out.UpcomingItems = total.UpcomingItems
	return out, nil
}
