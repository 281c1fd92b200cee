package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/features/sales/ventas/model"
	"admon_backend/internals/features/sales/ventas/route"
	helper "admon_backend/internals/helpers"
)

type fixture struct {
	app     *fiber.App
	db      *gorm.DB
	client  clientModel.ClientModel
	project projectModel.ProjectModel
}

func setup(t *testing.T) fixture {
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	route.SaleRoutes(app, db)

	f := fixture{app: app, db: db,
		client:  clientModel.ClientModel{ClientName: "Ana"},
		project: projectModel.ProjectModel{ProjectName: "Tienda"},
	}
	require.NoError(t, db.Create(&f.client).Error)
	require.NoError(t, db.Create(&f.project).Error)
	return f
}

func (f fixture) post(t *testing.T, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/ventas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	var env struct {
		Data map[string]any `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Data
}

func TestCreateSale_OneTimeOpensContract(t *testing.T) {
	f := setup(t)

	status, data := f.post(t, fmt.Sprintf(`{
		"cliente":"%s","proyecto":"%s","tipo_de_venta":"venta_total","fecha":"2025-03-01",
		"total_a_pagar":"10000","pago_inicial":"2000","cantidad_de_pagos":5}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusCreated, status, data)
	require.NotEmpty(t, data["contrato_id"])

	var contracts []contractModel.ContractModel
	require.NoError(t, f.db.Find(&contracts).Error)
	require.Len(t, contracts, 1)
	ct := contracts[0]
	require.Equal(t, constants.ContractActive, ct.ContractStatus)
	require.True(t, decimal.NewFromInt(10000).Equal(ct.ContractTotalAmount))
	require.True(t, decimal.NewFromInt(2000).Equal(ct.ContractInitialPayment))
	require.Equal(t, 5, ct.ContractInstallments)
	require.NotNil(t, ct.ContractNextDueDate)
	require.Equal(t, "2025-04-01", ct.ContractNextDueDate.Format("2006-01-02"))
	require.Equal(t, data["id"], ct.ContractSaleID.String())

	var subs int64
	f.db.Model(&subscriptionModel.SubscriptionModel{}).Count(&subs)
	require.Zero(t, subs)
}

func TestCreateSale_SubscriptionOpensSubscription(t *testing.T) {
	f := setup(t)

	status, data := f.post(t, fmt.Sprintf(`{
		"cliente":"%s","proyecto":"%s","tipo_de_venta":"suscripcion","fecha":"2025-03-01",
		"mensualidad":"450","proxima_fecha_de_pago":"2025-03-15"}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusCreated, status, data)

	var subs []subscriptionModel.SubscriptionModel
	require.NoError(t, f.db.Find(&subs).Error)
	require.Len(t, subs, 1)
	require.True(t, subs[0].SubscriptionIsActive)
	require.True(t, decimal.NewFromInt(450).Equal(subs[0].SubscriptionMonthlyFee))
	require.Equal(t, "2025-03-15", subs[0].SubscriptionNextDueDate.Format("2006-01-02"))

	var contracts int64
	f.db.Model(&contractModel.ContractModel{}).Count(&contracts)
	require.Zero(t, contracts)
}

func TestCreateSale_Validation(t *testing.T) {
	f := setup(t)

	status, _ := f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"venta_total","total_a_pagar":"100","pago_inicial":"500"}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"suscripcion","mensualidad":"0"}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"suscripcion","mensualidad":"10"}`,
		uuid.New(), f.project.ProjectID))
	require.Equal(t, fiber.StatusBadRequest, status)

	var n int64
	f.db.Model(&model.SaleModel{}).Count(&n)
	require.Zero(t, n)
}

func TestDeleteSale_RemovesOpenedContract(t *testing.T) {
	f := setup(t)
	status, data := f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"venta_total","total_a_pagar":"100","cantidad_de_pagos":1}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusCreated, status)

	resp, err := f.app.Test(httptest.NewRequest("DELETE", "/ventas/"+data["id"].(string), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var n int64
	f.db.Model(&contractModel.ContractModel{}).Count(&n)
	require.Zero(t, n)
}

func TestDeleteSale_BlockedByDocumentOrPayments(t *testing.T) {
	f := setup(t)

	url := "https://blob/contratos-firmados/x.pdf"
	locked := model.SaleModel{SaleClientID: f.client.ClientID, SaleProjectID: f.project.ProjectID,
		SaleType: constants.SaleTypeSubscription, SaleContractURL: &url}
	require.NoError(t, f.db.Create(&locked).Error)

	resp, err := f.app.Test(httptest.NewRequest("DELETE", "/ventas/"+locked.SaleID.String(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	status, data := f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"venta_total","total_a_pagar":"100","cantidad_de_pagos":1}`,
		f.client.ClientID, f.project.ProjectID))
	require.Equal(t, fiber.StatusCreated, status)
	ctID := uuid.MustParse(data["contrato_id"].(string))
	require.NoError(t, f.db.Create(&paymentModel.PaymentModel{
		PaymentClientID: f.client.ClientID, PaymentAmount: decimal.NewFromInt(10),
		PaymentType: constants.PaymentContract, PaymentReferenceID: &ctID,
	}).Error)

	resp, err = f.app.Test(httptest.NewRequest("DELETE", "/ventas/"+data["id"].(string), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestListSales_NewestFirstWithNames(t *testing.T) {
	f := setup(t)
	for _, d := range []string{"2025-01-10", "2025-03-10", "2025-02-10"} {
		status, _ := f.post(t, fmt.Sprintf(`{"cliente":"%s","proyecto":"%s","tipo_de_venta":"suscripcion","mensualidad":"10","fecha":"%s"}`,
			f.client.ClientID, f.project.ProjectID, d))
		require.Equal(t, fiber.StatusCreated, status)
	}

	resp, err := f.app.Test(httptest.NewRequest("GET", "/ventas", nil))
	require.NoError(t, err)
	var env struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.Len(t, env.Data, 3)
	require.Equal(t, "2025-03-10", env.Data[0]["fecha"])
	require.Equal(t, "2025-01-10", env.Data[2]["fecha"])
	require.Equal(t, "Ana", env.Data[0]["cliente_nombre"])
	require.Equal(t, "Tienda", env.Data[0]["proyecto_nombre"])
}
