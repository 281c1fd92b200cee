package controller_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	"admon_backend/internals/databases/dbtest"
	"admon_backend/internals/features/clients/clients/model"
	"admon_backend/internals/features/clients/clients/route"
	projectModel "admon_backend/internals/features/clients/projects/model"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	helper "admon_backend/internals/helpers"
)

type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *helper.Pagination `json:"pagination"`
}

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	route.ClientRoutes(app, db)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env
}

func TestClient_CreateNormalizes(t *testing.T) {
	app, db := setup(t)

	status, _ := do(t, app, "POST", "/clientes", `{"nombre":"  Ana López ","email":"ANA@Mail.com","rtn":"  "}`)
	require.Equal(t, fiber.StatusCreated, status)

	var m model.ClientModel
	require.NoError(t, db.First(&m).Error)
	require.Equal(t, "Ana López", m.ClientName)
	require.Equal(t, "ana@mail.com", *m.ClientEmail)
	require.Nil(t, m.ClientTaxID)
}

func TestClient_CreateValidation(t *testing.T) {
	app, _ := setup(t)
	status, _ := do(t, app, "POST", "/clientes", `{"nombre":"A","email":"not-an-email"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestClient_ListSearch(t *testing.T) {
	app, db := setup(t)
	for _, n := range []string{"Ana", "Beto", "Carla Anaya"} {
		require.NoError(t, db.Create(&model.ClientModel{ClientName: n}).Error)
	}

	status, env := do(t, app, "GET", "/clientes?q=ana", "")
	require.Equal(t, fiber.StatusOK, status)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 2)
	require.Equal(t, "Ana", list[0]["nombre"])
	require.Equal(t, int64(2), env.Pagination.Total)
}

func TestClient_DetailListsAcquiredProjects(t *testing.T) {
	app, db := setup(t)
	cl := model.ClientModel{ClientName: "Ana"}
	web := projectModel.ProjectModel{ProjectName: "Web"}
	app2 := projectModel.ProjectModel{ProjectName: "App"}
	require.NoError(t, db.Create(&cl).Error)
	require.NoError(t, db.Create(&web).Error)
	require.NoError(t, db.Create(&app2).Error)
	require.NoError(t, db.Create(&contractModel.ContractModel{
		ContractClientID: cl.ClientID, ContractProjectID: web.ProjectID,
		ContractTotalAmount: decimal.NewFromInt(100), ContractStatus: constants.ContractActive,
	}).Error)
	require.NoError(t, db.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: cl.ClientID, SubscriptionProjectID: web.ProjectID,
		SubscriptionMonthlyFee: decimal.NewFromInt(10), SubscriptionIsActive: true,
	}).Error)
	require.NoError(t, db.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: cl.ClientID, SubscriptionProjectID: app2.ProjectID,
		SubscriptionMonthlyFee: decimal.NewFromInt(10), SubscriptionIsActive: true,
	}).Error)

	status, env := do(t, app, "GET", "/clientes/"+cl.ClientID.String(), "")
	require.Equal(t, fiber.StatusOK, status)

	var out struct {
		Proyectos []struct {
			Nombre string   `json:"nombre"`
			Tipos  []string `json:"tipos"`
		} `json:"proyectos"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Proyectos, 2)
	require.Equal(t, "App", out.Proyectos[0].Nombre)
	require.Equal(t, []string{"suscripcion"}, out.Proyectos[0].Tipos)
	require.Equal(t, "Web", out.Proyectos[1].Nombre)
	require.ElementsMatch(t, []string{"contrato", "suscripcion"}, out.Proyectos[1].Tipos)
}

func TestClient_UpdatePartial(t *testing.T) {
	app, db := setup(t)
	phone := "9999"
	cl := model.ClientModel{ClientName: "Ana", ClientPhone: &phone}
	require.NoError(t, db.Create(&cl).Error)

	status, _ := do(t, app, "PATCH", "/clientes/"+cl.ClientID.String(), `{"oficio":"Abogada","telefono":""}`)
	require.Equal(t, fiber.StatusOK, status)

	var m model.ClientModel
	require.NoError(t, db.First(&m, "id = ?", cl.ClientID).Error)
	require.Equal(t, "Ana", m.ClientName)
	require.Equal(t, "Abogada", *m.ClientOccupation)
	require.Nil(t, m.ClientPhone)

	status, _ = do(t, app, "PATCH", "/clientes/"+cl.ClientID.String(), `{"email":"bad"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestClient_DeleteBlockedByLedger(t *testing.T) {
	app, db := setup(t)
	cl := model.ClientModel{ClientName: "Ana"}
	require.NoError(t, db.Create(&cl).Error)
	require.NoError(t, db.Create(&paymentModel.PaymentModel{
		PaymentClientID: cl.ClientID, PaymentAmount: decimal.NewFromInt(5), PaymentType: constants.PaymentOneOff,
	}).Error)

	status, env := do(t, app, "DELETE", "/clientes/"+cl.ClientID.String(), "")
	require.Equal(t, fiber.StatusConflict, status)
	require.Contains(t, env.Message, "payments")

	free := model.ClientModel{ClientName: "Beto"}
	require.NoError(t, db.Create(&free).Error)
	status, _ = do(t, app, "DELETE", "/clientes/"+free.ClientID.String(), "")
	require.Equal(t, fiber.StatusOK, status)
}
