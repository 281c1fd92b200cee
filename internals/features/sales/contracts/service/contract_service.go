package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	balanceService "admon_backend/internals/features/finance/balances/service"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	"admon_backend/internals/features/sales/contracts/dto"
	"admon_backend/internals/features/sales/contracts/model"
	helper "admon_backend/internals/helpers"
)

type Filter struct {
	Status    string
	Q         string
	ClientID  *uuid.UUID
	ProjectID *uuid.UUID
}

type Listing struct {
	Contracts []dto.ContractResponse
	Stats     dto.Stats
	// False when payments could not be joined and totals are missing.
	WithTotals bool
}

// List returns contracts newest first, each joined with what was paid on
// it. The payments join is best effort: if it fails the contracts are still
// returned, without totals.
func List(ctx context.Context, db *gorm.DB, f Filter) (*Listing, error) {
	tx := db.WithContext(ctx).Model(&model.ContractModel{})
	if f.Status != "" {
		tx = tx.Where("estado = ?", f.Status)
	}
	if f.ClientID != nil {
		tx = tx.Where("cliente = ?", *f.ClientID)
	}
	if f.ProjectID != nil {
		tx = tx.Where("proyecto = ?", *f.ProjectID)
	}
	if s := strings.TrimSpace(f.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where(
			"(cliente IN (?) OR proyecto IN (?))",
			db.Model(&clientModel.ClientModel{}).Select("id").Where("LOWER(nombre) LIKE ?", like),
			db.Model(&projectModel.ProjectModel{}).Select("id").Where("LOWER(nombre) LIKE ?", like),
		)
	}

	var rows []model.ContractModel
	if err := tx.Order("fecha_de_creacion DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("contracts: %w", err)
	}

	clients, projects, err := names(ctx, db, rows)
	if err != nil {
		return nil, err
	}

	out := &Listing{Contracts: make([]dto.ContractResponse, 0, len(rows))}
	paid, err := paidFor(ctx, db, rows)
	if err != nil {
		log.Printf("[CONTRACT] payments join failed, listing without totals: %v", err)
	} else {
		out.WithTotals = true
	}

	totalRemaining := decimal.Zero
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.ClientName = clients[r.ClientID]
		r.ProjectName = projects[r.ProjectID]
		if out.WithTotals {
			cb := balanceService.ContractBalanceOf(rows[i], paid[rows[i].ContractID])
			r.Paid, r.Remaining, r.InstallmentAmount = &cb.Paid, &cb.Remaining, &cb.InstallmentAmount
			totalRemaining = totalRemaining.Add(cb.Remaining)
		}
		out.Contracts = append(out.Contracts, r)

		out.Stats.Total++
		switch rows[i].ContractStatus {
		case constants.ContractActive:
			out.Stats.Active++
		case constants.ContractCancelled:
			out.Stats.Cancelled++
		}
	}
	if out.WithTotals {
		out.Stats.TotalRemaining = &totalRemaining
	}
	return out, nil
}

// Enrich joins a single contract with its payments.
func Enrich(ctx context.Context, db *gorm.DB, m model.ContractModel) (dto.ContractResponse, error) {
	r := dto.FromModel(&m)
	paid, err := paidFor(ctx, db, []model.ContractModel{m})
	if err != nil {
		return r, err
	}
	cb := balanceService.ContractBalanceOf(m, paid[m.ContractID])
	r.Paid, r.Remaining, r.InstallmentAmount = &cb.Paid, &cb.Remaining, &cb.InstallmentAmount
	return r, nil
}

func paidFor(ctx context.Context, db *gorm.DB, rows []model.ContractModel) (map[uuid.UUID]decimal.Decimal, error) {
	if len(rows) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ContractID)
	}
	var pays []paymentModel.PaymentModel
	if err := db.WithContext(ctx).
		Where("tipo = ? AND referencia_id IN ?", constants.PaymentContract, ids).
		Find(&pays).Error; err != nil {
		return nil, fmt.Errorf("payments: %w", err)
	}
	return balanceService.PaidByContract(pays), nil
}

func names(ctx context.Context, db *gorm.DB, rows []model.ContractModel) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	clients := map[uuid.UUID]string{}
	projects := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return clients, projects, nil
	}
	var cids, pids []uuid.UUID
	for _, r := range rows {
		cids = append(cids, r.ContractClientID)
		pids = append(pids, r.ContractProjectID)
	}
	var cl []clientModel.ClientModel
	if err := db.WithContext(ctx).Select("id, nombre").Where("id IN ?", cids).Find(&cl).Error; err != nil {
		return nil, nil, fmt.Errorf("clients: %w", err)
	}
	for _, c := range cl {
		clients[c.ClientID] = c.ClientName
	}
	var pr []projectModel.ProjectModel
	if err := db.WithContext(ctx).Select("id, nombre").Where("id IN ?", pids).Find(&pr).Error; err != nil {
		return nil, nil, fmt.Errorf("projects: %w", err)
	}
	for _, p := range pr {
		projects[p.ProjectID] = p.ProjectName
	}
	return clients, projects, nil
}
