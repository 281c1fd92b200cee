package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
)

// Acquisition is one side of a client/project pair plus how it was bought:
// "contrato", "suscripcion" or both.
type Acquisition struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Tipos  []string  `json:"tipos"`
}

type pair struct {
	Cliente  uuid.UUID
	Proyecto uuid.UUID
}

func loadPairs(ctx context.Context, db *gorm.DB, column string, id uuid.UUID) (contracts, subs []pair, err error) {
	if err = db.WithContext(ctx).Model(&contractModel.ContractModel{}).
		Select("cliente, proyecto").Where(column+" = ?", id).
		Find(&contracts).Error; err != nil {
		return nil, nil, fmt.Errorf("contracts: %w", err)
	}
	if err = db.WithContext(ctx).Model(&subscriptionModel.SubscriptionModel{}).
		Select("cliente, proyecto").Where(column+" = ?", id).
		Find(&subs).Error; err != nil {
		return nil, nil, fmt.Errorf("subscriptions: %w", err)
	}
	return contracts, subs, nil
}

// collect groups pairs by key and records the acquisition kinds per key.
func collect(contracts, subs []pair, key func(pair) uuid.UUID) (map[uuid.UUID][]string, []uuid.UUID) {
	tipos := map[uuid.UUID][]string{}
	var order []uuid.UUID
	add := func(p pair, kind string) {
		k := key(p)
		cur, ok := tipos[k]
		if !ok {
			order = append(order, k)
		}
		for _, t := range cur {
			if t == kind {
				return
			}
		}
		tipos[k] = append(cur, kind)
	}
	for _, p := range contracts {
		add(p, constants.PaymentContract)
	}
	for _, p := range subs {
		add(p, constants.PaymentSubscription)
	}
	return tipos, order
}

func finish(tipos map[uuid.UUID][]string, order []uuid.UUID, names map[uuid.UUID]string) []Acquisition {
	out := make([]Acquisition, 0, len(order))
	for _, id := range order {
		name := names[id]
		if name == "" {
			name = id.String()
		}
		out = append(out, Acquisition{ID: id, Nombre: name, Tipos: tipos[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out
}

// ProjectsOfClient lists the projects a client holds a contract or
// subscription for.
func ProjectsOfClient(ctx context.Context, db *gorm.DB, clientID uuid.UUID) ([]Acquisition, error) {
	contracts, subs, err := loadPairs(ctx, db, "cliente", clientID)
	if err != nil {
		return nil, err
	}
	tipos, order := collect(contracts, subs, func(p pair) uuid.UUID { return p.Proyecto })

	names := map[uuid.UUID]string{}
	if len(order) > 0 {
		var rows []projectModel.ProjectModel
		if err := db.WithContext(ctx).Select("id, nombre").Where("id IN ?", order).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("projects: %w", err)
		}
		for _, r := range rows {
			names[r.ProjectID] = r.ProjectName
		}
	}
	return finish(tipos, order, names), nil
}

// ClientsOfProject lists the clients that acquired a project.
func ClientsOfProject(ctx context.Context, db *gorm.DB, projectID uuid.UUID) ([]Acquisition, error) {
	contracts, subs, err := loadPairs(ctx, db, "proyecto", projectID)
	if err != nil {
		return nil, err
	}
	tipos, order := collect(contracts, subs, func(p pair) uuid.UUID { return p.Cliente })

	names := map[uuid.UUID]string{}
	if len(order) > 0 {
		var rows []clientModel.ClientModel
		if err := db.WithContext(ctx).Select("id, nombre").Where("id IN ?", order).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("clients: %w", err)
		}
		for _, r := range rows {
			names[r.ClientID] = r.ClientName
		}
	}
	return finish(tipos, order, names), nil
}
