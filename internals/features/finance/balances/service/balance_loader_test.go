package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
)

func seedClient(t *testing.T, l *Loader, name string) (clientModel.ClientModel, projectModel.ProjectModel) {
	t.Helper()
	cl := clientModel.ClientModel{ClientName: name}
	pr := projectModel.ProjectModel{ProjectName: "Proyecto " + name}
	require.NoError(t, l.DB.Create(&cl).Error)
	require.NoError(t, l.DB.Create(&pr).Error)
	return cl, pr
}

func newLoader(t *testing.T) *Loader {
	l := NewLoader(dbtest.Open(t), tegucigalpa)
	l.Now = func() time.Time { return now }
	return l
}

func TestLoader_ForClient(t *testing.T) {
	l := newLoader(t)
	cl, pr := seedClient(t, l, "Ana")
	other, _ := seedClient(t, l, "Beto")

	ct := contractModel.ContractModel{
		ContractClientID: cl.ClientID, ContractProjectID: pr.ProjectID,
		ContractTotalAmount: d("10000"), ContractInitialPayment: d("2000"), ContractInstallments: 5,
		ContractStatus: constants.ContractActive, ContractNextDueDate: date(2025, 4, 1),
	}
	require.NoError(t, l.DB.Create(&ct).Error)
	require.NoError(t, l.DB.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: cl.ClientID, SubscriptionProjectID: pr.ProjectID,
		SubscriptionMonthlyFee: d("500"), SubscriptionIsActive: true, SubscriptionNextDueDate: date(2025, 3, 9),
	}).Error)
	require.NoError(t, l.DB.Create(&paymentModel.PaymentModel{
		PaymentClientID: cl.ClientID, PaymentAmount: d("1000"),
		PaymentType: constants.PaymentContract, PaymentReferenceID: &ct.ContractID,
	}).Error)
	// another client's subscription must not leak in
	require.NoError(t, l.DB.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: other.ClientID, SubscriptionProjectID: pr.ProjectID,
		SubscriptionMonthlyFee: d("999"), SubscriptionIsActive: true, SubscriptionNextDueDate: date(2025, 1, 1),
	}).Error)

	got, err := l.ForClient(context.Background(), cl.ClientID)
	require.NoError(t, err)
	require.Equal(t, "Ana", got.ClientName)
	require.True(t, d("7000").Equal(got.TotalRemainingContracts))
	require.True(t, d("500").Equal(got.TotalOverdueSubscriptions))
	require.True(t, d("7500").Equal(got.TotalBalance))
	require.Equal(t, "Proyecto Ana", got.OverdueItems[0].ProjectName)
}

func TestLoader_ForClientNotFound(t *testing.T) {
	l := newLoader(t)
	_, err := l.ForClient(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestLoader_FailingSourceAbortsView(t *testing.T) {
	l := newLoader(t)
	cl, _ := seedClient(t, l, "Ana")
	require.NoError(t, l.DB.Migrator().DropTable(&paymentModel.PaymentModel{}))

	_, err := l.ForClient(context.Background(), cl.ClientID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "payments")
}

func TestLoader_ForAll(t *testing.T) {
	l := newLoader(t)
	ana, pr := seedClient(t, l, "Ana")
	beto, _ := seedClient(t, l, "Beto")

	require.NoError(t, l.DB.Create(&contractModel.ContractModel{
		ContractClientID: ana.ClientID, ContractProjectID: pr.ProjectID,
		ContractTotalAmount: d("3000"), ContractInitialPayment: d("1000"), ContractInstallments: 2,
		ContractStatus: constants.ContractActive,
	}).Error)
	require.NoError(t, l.DB.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: beto.ClientID, SubscriptionProjectID: pr.ProjectID,
		SubscriptionMonthlyFee: d("300"), SubscriptionIsActive: true, SubscriptionNextDueDate: date(2025, 3, 1),
	}).Error)

	got, err := l.ForAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Clients, 2)
	require.Equal(t, "Ana", got.Clients[0].ClientName)
	require.True(t, d("2000").Equal(got.Clients[0].TotalBalance))
	require.True(t, d("300").Equal(got.Clients[1].TotalBalance))
	require.True(t, d("2300").Equal(got.TotalBalance))
}
