package database

import (
	gateModel "admon_backend/internals/features/auth/gate/model"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	reminderModel "admon_backend/internals/features/notifications/reminders/model"
	avanceModel "admon_backend/internals/features/progress/avances/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	saleModel "admon_backend/internals/features/sales/ventas/model"
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&gateModel.ConfigModel{},
		&gateModel.SessionModel{},
		&clientModel.ClientModel{},
		&projectModel.ProjectModel{},
		&saleModel.SaleModel{},
		&contractModel.ContractModel{},
		&subscriptionModel.SubscriptionModel{},
		&paymentModel.PaymentModel{},
		&avanceModel.AvanceModel{},
		&avanceModel.AvanceFeatureModel{},
		&reminderModel.ReminderLogModel{},
	}
}
