package service

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	clientModel "admon_backend/internals/features/clients/clients/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func day(y int, m time.Month, dd int) time.Time { return time.Date(y, m, dd, 12, 0, 0, 0, time.UTC) }

func datePtr(y int, m time.Month, dd int) *time.Time {
	t := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	return &t
}

func client(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	c := clientModel.ClientModel{ClientName: name}
	require.NoError(t, db.Create(&c).Error)
	return c.ClientID
}

// Four clients: Ana has a contract and an overdue subscription, Beto a
// subscription due today, Carla a contract and an inactive subscription,
// Dario a fully prepaid contract.
func seed(t *testing.T, db *gorm.DB) {
	ana, beto, carla, dario := client(t, db, "Ana"), client(t, db, "Beto"), client(t, db, "Carla"), client(t, db, "Dario")

	anaContract := contractModel.ContractModel{
		ContractClientID: ana, ContractProjectID: uuid.New(),
		ContractTotalAmount: d("10000"), ContractInitialPayment: d("2000"), ContractInstallments: 5,
		ContractNextDueDate: datePtr(2025, 4, 1), ContractCreatedAt: day(2025, 1, 15),
	}
	carlaContract := contractModel.ContractModel{
		ContractClientID: carla, ContractProjectID: uuid.New(),
		ContractTotalAmount: d("1000"), ContractInstallments: 1, ContractCreatedAt: day(2024, 8, 1),
	}
	darioContract := contractModel.ContractModel{
		ContractClientID: dario, ContractProjectID: uuid.New(),
		ContractTotalAmount: d("500"), ContractInitialPayment: d("500"), ContractInstallments: 1,
		ContractCreatedAt: day(2025, 3, 1),
	}
	for _, c := range []*contractModel.ContractModel{&anaContract, &carlaContract, &darioContract} {
		require.NoError(t, db.Create(c).Error)
	}

	subs := []subscriptionModel.SubscriptionModel{
		{SubscriptionClientID: ana, SubscriptionProjectID: uuid.New(), SubscriptionMonthlyFee: d("500"), SubscriptionNextDueDate: datePtr(2025, 3, 9)},
		{SubscriptionClientID: beto, SubscriptionProjectID: uuid.New(), SubscriptionMonthlyFee: d("300"), SubscriptionNextDueDate: datePtr(2025, 3, 10)},
		{SubscriptionClientID: carla, SubscriptionProjectID: uuid.New(), SubscriptionMonthlyFee: d("999"), SubscriptionNextDueDate: datePtr(2025, 1, 1)},
	}
	for i := range subs {
		require.NoError(t, db.Create(&subs[i]).Error)
	}
	require.NoError(t, db.Model(&subs[2]).Update("is_active", false).Error)

	ref := anaContract.ContractID
	pays := []paymentModel.PaymentModel{
		{PaymentClientID: ana, PaymentAmount: d("1000"), PaymentType: constants.PaymentContract, PaymentReferenceID: &ref, PaymentCreatedAt: day(2025, 2, 5)},
		{PaymentClientID: beto, PaymentAmount: d("300"), PaymentType: constants.PaymentSubscription, PaymentCreatedAt: day(2024, 12, 20)},
		{PaymentClientID: carla, PaymentAmount: d("150"), PaymentType: constants.PaymentOneOff, PaymentCreatedAt: day(2025, 3, 2)},
		{PaymentClientID: carla, PaymentAmount: d("50"), PaymentType: constants.PaymentContract, PaymentCreatedAt: day(2024, 9, 30)},
	}
	for i := range pays {
		require.NoError(t, db.Create(&pays[i]).Error)
	}
}

func newSvc(t *testing.T) *Service {
	svc := NewService(dbtest.Open(t), time.UTC)
	svc.Now = func() time.Time { return fixedNow }
	seed(t, svc.DB)
	return svc
}

func TestTotals(t *testing.T) {
	svc := newSvc(t)

	got, err := svc.Totals(context.Background())
	require.NoError(t, err)

	require.True(t, d("4000").Equal(got.TotalRevenue), got.TotalRevenue.String())
	require.Equal(t, 4, got.TotalClients)
	require.Equal(t, 2, got.ActiveSubscriptions)
	require.True(t, d("800").Equal(got.MonthlyRecurringRevenue))
	// Ana overdue, Beto due today, Carla's inactive subscription long past due
	require.Equal(t, 3, got.PendingPayments)
	require.True(t, d("8500").Equal(got.OutstandingBalance), got.OutstandingBalance.String())
}

func TestTotals_ReadsEachTableOnce(t *testing.T) {
	svc := newSvc(t)

	var queries atomic.Int32
	require.NoError(t, svc.DB.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		queries.Add(1)
	}))

	got, err := svc.Totals(context.Background())
	require.NoError(t, err)
	require.True(t, d("8500").Equal(got.OutstandingBalance))
	require.Equal(t, int32(4), queries.Load())
}

func TestMonthlyRevenue_SixBucketsOldestFirst(t *testing.T) {
	svc := newSvc(t)

	got, err := svc.MonthlyRevenue(context.Background())
	require.NoError(t, err)
	require.Len(t, got, RevenueMonths)

	var months []string
	for _, b := range got {
		months = append(months, b.Month)
	}
	require.Equal(t, []string{"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}, months)

	require.True(t, got[0].Revenue.IsZero())
	require.True(t, got[1].Revenue.IsZero())
	require.True(t, d("300").Equal(got[2].Subscriptions))
	require.True(t, got[2].OneTime.IsZero())
	require.True(t, d("2000").Equal(got[3].OneTime))
	require.True(t, d("1000").Equal(got[4].OneTime))
	require.True(t, d("650").Equal(got[5].OneTime))
	require.True(t, d("650").Equal(got[5].Revenue))
}

func TestMonthlyRevenue_EmptyStoreStillHasSixMonths(t *testing.T) {
	svc := NewService(dbtest.Open(t), time.UTC)
	svc.Now = func() time.Time { return fixedNow }

	got, err := svc.MonthlyRevenue(context.Background())
	require.NoError(t, err)
	require.Len(t, got, RevenueMonths)
	for _, b := range got {
		require.True(t, b.Revenue.IsZero())
	}
}

func TestDistribution(t *testing.T) {
	svc := newSvc(t)

	got, err := svc.Distribution(context.Background())
	require.NoError(t, err)

	require.Len(t, got.ByType, 3)
	require.Equal(t, constants.PaymentContract, got.ByType[0].Type)
	require.Equal(t, 2, got.ByType[0].Count)
	require.True(t, d("1050").Equal(got.ByType[0].Revenue))
	require.Equal(t, 1, got.ByType[1].Count)
	require.True(t, d("300").Equal(got.ByType[1].Revenue))
	require.Equal(t, 1, got.ByType[2].Count)
	require.True(t, d("150").Equal(got.ByType[2].Revenue))

	require.Equal(t, Acquisition{OnlyContracts: 1, OnlySubscriptions: 1, Both: 2}, got.Acquisition)
}

func TestExport_Workbook(t *testing.T) {
	svc := newSvc(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	revenue, err := f.GetRows(SheetRevenue)
	require.NoError(t, err)
	require.Len(t, revenue, RevenueMonths+1)
	require.Equal(t, "Mes", revenue[0][0])
	require.Equal(t, "2025-03", revenue[RevenueMonths][0])
	require.Equal(t, "650", revenue[RevenueMonths][3])

	balances, err := f.GetRows(SheetBalances)
	require.NoError(t, err)
	require.Len(t, balances, 6)
	require.Equal(t, "Ana", balances[1][0])
	require.Equal(t, "7500", balances[1][3])
	last := balances[len(balances)-1]
	require.Equal(t, "Total", last[0])
	require.Equal(t, "8500", last[3])
}
