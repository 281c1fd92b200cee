package controller_test

import (
	"encoding/json"
	"fmt"
	"io"
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
	"admon_backend/internals/features/finance/payments/model"
	"admon_backend/internals/features/finance/payments/route"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	helper "admon_backend/internals/helpers"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	route.PaymentRoutes(app, db)
	return app, db
}

func seedContract(t *testing.T, db *gorm.DB) (clientModel.ClientModel, contractModel.ContractModel) {
	t.Helper()
	cl := clientModel.ClientModel{ClientName: "Ana"}
	require.NoError(t, db.Create(&cl).Error)
	ct := contractModel.ContractModel{
		ContractClientID:    cl.ClientID,
		ContractProjectID:   uuid.New(),
		ContractTotalAmount: decimal.NewFromInt(5000),
		ContractStatus:      constants.ContractActive,
	}
	require.NoError(t, db.Create(&ct).Error)
	return cl, ct
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/pagos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestCreatePayment_ContractReference(t *testing.T) {
	app, db := setup(t)
	cl, ct := seedContract(t, db)

	status, body := post(t, app, fmt.Sprintf(
		`{"cliente":"%s","monto":"1000","tipo":"contrato","referencia_id":"%s"}`, cl.ClientID, ct.ContractID))
	require.Equal(t, fiber.StatusCreated, status, body)

	var rows []model.PaymentModel
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.True(t, decimal.NewFromInt(1000).Equal(rows[0].PaymentAmount))
	require.Equal(t, ct.ContractID, *rows[0].PaymentReferenceID)
}

func TestCreatePayment_RejectsOtherClientsContract(t *testing.T) {
	app, db := setup(t)
	_, ct := seedContract(t, db)
	other := clientModel.ClientModel{ClientName: "Beto"}
	require.NoError(t, db.Create(&other).Error)

	status, body := post(t, app, fmt.Sprintf(
		`{"cliente":"%s","monto":"50","tipo":"contrato","referencia_id":"%s"}`, other.ClientID, ct.ContractID))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Contains(t, body["message"], "another client")

	var n int64
	db.Model(&model.PaymentModel{}).Count(&n)
	require.Zero(t, n)
}

func TestCreatePayment_ReferenceRequiredForContract(t *testing.T) {
	app, db := setup(t)
	cl, _ := seedContract(t, db)

	status, _ := post(t, app, fmt.Sprintf(`{"cliente":"%s","monto":"50","tipo":"contrato"}`, cl.ClientID))
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreatePayment_OneOffNeedsNoReference(t *testing.T) {
	app, db := setup(t)
	cl, _ := seedContract(t, db)

	status, _ := post(t, app, fmt.Sprintf(`{"cliente":"%s","monto":"75.5","tipo":"unico","notas":" dominio "}`, cl.ClientID))
	require.Equal(t, fiber.StatusCreated, status)

	var m model.PaymentModel
	require.NoError(t, db.First(&m).Error)
	require.Equal(t, "dominio", *m.PaymentNotes)
}

func TestCreatePayment_Validation(t *testing.T) {
	app, db := setup(t)
	cl, _ := seedContract(t, db)

	status, body := post(t, app, fmt.Sprintf(`{"cliente":"%s","monto":"0","tipo":"unico"}`, cl.ClientID))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	require.Contains(t, body["errors"], "monto")

	status, _ = post(t, app, fmt.Sprintf(`{"cliente":"%s","monto":"10","tipo":"regalo"}`, cl.ClientID))
	require.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = post(t, app, fmt.Sprintf(`{"cliente":"%s","monto":"10","tipo":"unico"}`, uuid.New()))
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestListPayments_FilterByClientAndType(t *testing.T) {
	app, db := setup(t)
	cl, ct := seedContract(t, db)
	other := clientModel.ClientModel{ClientName: "Beto"}
	require.NoError(t, db.Create(&other).Error)

	for _, p := range []model.PaymentModel{
		{PaymentClientID: cl.ClientID, PaymentAmount: decimal.NewFromInt(10), PaymentType: constants.PaymentContract, PaymentReferenceID: &ct.ContractID},
		{PaymentClientID: cl.ClientID, PaymentAmount: decimal.NewFromInt(20), PaymentType: constants.PaymentOneOff},
		{PaymentClientID: other.ClientID, PaymentAmount: decimal.NewFromInt(30), PaymentType: constants.PaymentOneOff},
	} {
		p := p
		require.NoError(t, db.Create(&p).Error)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/pagos?cliente="+cl.ClientID.String()+"&tipo=unico", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data       []map[string]any  `json:"data"`
		Pagination helper.Pagination `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 1)
	require.Equal(t, int64(1), out.Pagination.Total)
	require.Equal(t, "unico", out.Data[0]["tipo"])
}

func TestGetPayment_NotFound(t *testing.T) {
	app, _ := setup(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/pagos/"+uuid.NewString(), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/pagos/nope", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
