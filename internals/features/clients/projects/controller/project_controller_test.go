package controller_test

import (
	"encoding/json"
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
	"admon_backend/internals/features/clients/projects/model"
	"admon_backend/internals/features/clients/projects/route"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	helper "admon_backend/internals/helpers"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	route.ProjectRoutes(app, db)
	return app, db
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp.StatusCode, env.Data
}

func TestProject_CreateAndGet(t *testing.T) {
	app, _ := setup(t)

	status, data := do(t, app, "POST", "/proyectos", `{"nombre":"Portal Web","tipo":"web","correo_administracion":"admin@portal.hn"}`)
	require.Equal(t, fiber.StatusCreated, status)
	var created struct{ ID uuid.UUID }
	require.NoError(t, json.Unmarshal(data, &created))

	status, data = do(t, app, "GET", "/proyectos/"+created.ID.String(), "")
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(data), "Portal Web")

	status, _ = do(t, app, "POST", "/proyectos", `{"nombre":"X","correo_administracion":"nope"}`)
	require.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestProject_ClientsWithAcquisitionTypes(t *testing.T) {
	app, db := setup(t)
	pr := model.ProjectModel{ProjectName: "ERP"}
	ana := clientModel.ClientModel{ClientName: "Ana"}
	beto := clientModel.ClientModel{ClientName: "Beto"}
	require.NoError(t, db.Create(&pr).Error)
	require.NoError(t, db.Create(&ana).Error)
	require.NoError(t, db.Create(&beto).Error)

	require.NoError(t, db.Create(&contractModel.ContractModel{
		ContractClientID: ana.ClientID, ContractProjectID: pr.ProjectID,
		ContractTotalAmount: decimal.NewFromInt(100), ContractStatus: constants.ContractActive,
	}).Error)
	require.NoError(t, db.Create(&contractModel.ContractModel{
		ContractClientID: ana.ClientID, ContractProjectID: pr.ProjectID,
		ContractTotalAmount: decimal.NewFromInt(200), ContractStatus: constants.ContractCancelled,
	}).Error)
	require.NoError(t, db.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: beto.ClientID, SubscriptionProjectID: pr.ProjectID,
		SubscriptionMonthlyFee: decimal.NewFromInt(10), SubscriptionIsActive: true,
	}).Error)

	status, data := do(t, app, "GET", "/proyectos/"+pr.ProjectID.String()+"/clientes", "")
	require.Equal(t, fiber.StatusOK, status)

	var list []struct {
		Nombre string   `json:"nombre"`
		Tipos  []string `json:"tipos"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	require.Equal(t, "Ana", list[0].Nombre)
	require.Equal(t, []string{"contrato"}, list[0].Tipos)
	require.Equal(t, "Beto", list[1].Nombre)
	require.Equal(t, []string{"suscripcion"}, list[1].Tipos)

	status, _ = do(t, app, "GET", "/proyectos/"+uuid.NewString()+"/clientes", "")
	require.Equal(t, fiber.StatusNotFound, status)
}

func TestProject_DeleteBlockedBySales(t *testing.T) {
	app, db := setup(t)
	pr := model.ProjectModel{ProjectName: "ERP"}
	require.NoError(t, db.Create(&pr).Error)
	require.NoError(t, db.Create(&subscriptionModel.SubscriptionModel{
		SubscriptionClientID: uuid.New(), SubscriptionProjectID: pr.ProjectID,
		SubscriptionMonthlyFee: decimal.NewFromInt(10),
	}).Error)

	status, _ := do(t, app, "DELETE", "/proyectos/"+pr.ProjectID.String(), "")
	require.Equal(t, fiber.StatusConflict, status)
}
