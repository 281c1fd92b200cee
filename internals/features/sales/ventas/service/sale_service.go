package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/features/sales/ventas/model"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrSaleLocked      = errors.New("sale has a signed contract attached")
	ErrSaleHasPayments = errors.New("sale has recorded payments")
)

// Created is a sale plus the contract or subscription it opened.
type Created struct {
	Sale         model.SaleModel
	Contract     *contractModel.ContractModel
	Subscription *subscriptionModel.SubscriptionModel
}

// CreateSale inserts the sale and its contract or subscription in one
// transaction. nextDue nil means one month after the sale date.
func CreateSale(ctx context.Context, db *gorm.DB, sale *model.SaleModel, nextDue *time.Time) (*Created, error) {
	if nextDue == nil {
		d := sale.SaleDate.AddDate(0, 1, 0)
		nextDue = &d
	}

	out := &Created{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &clientModel.ClientModel{}, sale.SaleClientID, ErrClientNotFound); err != nil {
			return err
		}
		if err := mustExist(tx, &projectModel.ProjectModel{}, sale.SaleProjectID, ErrProjectNotFound); err != nil {
			return err
		}

		if err := tx.Create(sale).Error; err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		out.Sale = *sale

		switch sale.SaleType {
		case constants.SaleTypeOneTime:
			ct := &contractModel.ContractModel{
				ContractClientID:       sale.SaleClientID,
				ContractProjectID:      sale.SaleProjectID,
				ContractSaleID:         &sale.SaleID,
				ContractTotalAmount:    sale.SaleTotalAmount,
				ContractInitialPayment: sale.SaleInitialPayment,
				ContractInstallments:   sale.SaleInstallments,
				ContractNextDueDate:    nextDue,
				ContractStatus:         constants.ContractActive,
			}
			if err := tx.Create(ct).Error; err != nil {
				return fmt.Errorf("insert contract: %w", err)
			}
			out.Contract = ct
		case constants.SaleTypeSubscription:
			sub := &subscriptionModel.SubscriptionModel{
				SubscriptionClientID:    sale.SaleClientID,
				SubscriptionProjectID:   sale.SaleProjectID,
				SubscriptionSaleID:      &sale.SaleID,
				SubscriptionMonthlyFee:  sale.SaleMonthlyFee,
				SubscriptionNextDueDate: nextDue,
				SubscriptionIsActive:    true,
			}
			if err := tx.Create(sub).Error; err != nil {
				return fmt.Errorf("insert subscription: %w", err)
			}
			out.Subscription = sub
		default:
			return fmt.Errorf("unknown sale type %q", sale.SaleType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSale removes a sale together with the contract or subscription it
// opened. Sales with a signed document or with payments against their
// contract/subscription are kept.
func DeleteSale(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sale model.SaleModel
		if err := tx.First(&sale, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			return err
		}
		if sale.SaleContractURL != nil && *sale.SaleContractURL != "" {
			return ErrSaleLocked
		}

		var refs []uuid.UUID
		if err := tx.Model(&contractModel.ContractModel{}).Where("venta_id = ?", id).Pluck("id", &refs).Error; err != nil {
			return err
		}
		var subRefs []uuid.UUID
		if err := tx.Model(&subscriptionModel.SubscriptionModel{}).Where("venta_id = ?", id).Pluck("id", &subRefs).Error; err != nil {
			return err
		}
		refs = append(refs, subRefs...)

		if len(refs) > 0 {
			var n int64
			if err := tx.Model(&paymentModel.PaymentModel{}).Where("referencia_id IN ?", refs).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrSaleHasPayments
			}
		}

		if err := tx.Where("venta_id = ?", id).Delete(&contractModel.ContractModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("venta_id = ?", id).Delete(&subscriptionModel.SubscriptionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.SaleModel{}, "id = ?", id).Error
	})
}

func mustExist(tx *gorm.DB, m any, id uuid.UUID, notFound error) error {
	var n int64
	if err := tx.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
