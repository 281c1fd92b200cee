package controller_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	clientModel "admon_backend/internals/features/clients/clients/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	"admon_backend/internals/features/finance/statistics/route"
	"admon_backend/internals/features/finance/statistics/service"
	helper "admon_backend/internals/helpers"
)

func setup(t *testing.T) *fiber.App {
	db := dbtest.Open(t)
	c := clientModel.ClientModel{ClientName: "Ana"}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Create(&paymentModel.PaymentModel{PaymentClientID: c.ClientID, PaymentAmount: decimal.NewFromInt(120), PaymentType: constants.PaymentOneOff}).Error)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	route.StatisticsRoutes(app.Group("/api"), db, time.UTC)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) map[string]any {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body))
	return body["data"].(map[string]any)
}

func TestStatisticsEndpoints(t *testing.T) {
	app := setup(t)

	totals := getJSON(t, app, "/api/estadisticas")
	require.EqualValues(t, 1, totals["totalClients"])
	require.Equal(t, "120", totals["totalRevenue"])

	dist := getJSON(t, app, "/api/estadisticas/distribucion")
	require.Len(t, dist["porTipo"], 3)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/estadisticas/ingresos-mensuales", nil), -1)
	require.NoError(t, err)
	var monthly struct {
		Data []service.MonthBucket `json:"data"`
	}
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&monthly))
	require.Len(t, monthly.Data, service.RevenueMonths)
	require.True(t, decimal.NewFromInt(120).Equal(monthly.Data[service.RevenueMonths-1].Revenue))
}

func TestExportXLSX(t *testing.T) {
	app := setup(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/estadisticas/export.xlsx", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	require.Regexp(t, `attachment; filename="estadisticas-\d{4}-\d{2}-\d{2}\.xlsx"`, resp.Header.Get("Content-Disposition"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{service.SheetRevenue, service.SheetBalances}, f.GetSheetList())
}
