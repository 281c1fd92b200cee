package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
)

var (
	ErrReferenceRequired = errors.New("referencia_id is required for this payment type")
	ErrReferenceNotFound = errors.New("referenced record not found")
	ErrReferenceOwner    = errors.New("referenced record belongs to another client")
)

// CheckReference makes sure contract and subscription payments point at a
// row of the matching table owned by clientID. One-off payments pass as is.
func CheckReference(ctx context.Context, db *gorm.DB, clientID uuid.UUID, paymentType string, ref *uuid.UUID) error {
	var table any
	switch paymentType {
	case constants.PaymentContract:
		table = &contractModel.ContractModel{}
	case constants.PaymentSubscription:
		table = &subscriptionModel.SubscriptionModel{}
	default:
		return nil
	}
	if ref == nil {
		return ErrReferenceRequired
	}

	var owner struct{ Cliente uuid.UUID }
	err := db.WithContext(ctx).Model(table).
		Select("cliente").
		Where("id = ?", *ref).
		Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReferenceNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s reference: %w", paymentType, err)
	}
	if owner.Cliente != clientID {
		return ErrReferenceOwner
	}
	return nil
}
