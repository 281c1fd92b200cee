package controller_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"admon_backend/internals/databases/dbtest"
	avanceModel "admon_backend/internals/features/progress/avances/model"
	"admon_backend/internals/features/progress/reports/controller"
	helper "admon_backend/internals/helpers"
)

func TestReport_Render(t *testing.T) {
	db := dbtest.Open(t)
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	ctl := controller.NewReportController(db)
	ctl.Now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	app.Get("/avances/:id/reporte", ctl.Render)

	av := avanceModel.AvanceModel{AvanceProjectName: "Portal", AvanceClientName: "Ana", AvanceTotal: 2, AvanceCompleted: 1, AvancePercentage: 50}
	require.NoError(t, db.Create(&av).Error)
	require.NoError(t, db.Create(&[]avanceModel.AvanceFeatureModel{
		{FeatureAvanceID: av.AvanceID, FeatureName: "Login", FeatureOrder: 1},
		{FeatureAvanceID: av.AvanceID, FeatureName: "Pagos", FeatureOrder: 2},
	}).Error)

	t.Run("desktop", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/avances/"+av.AvanceID.String()+"/reporte", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		body, _ := io.ReadAll(resp.Body)
		require.Contains(t, string(body), "stroke-dashoffset=\"157.08\"")
		require.Contains(t, string(body), "Login")
	})

	t.Run("mobile without print", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/avances/"+av.AvanceID.String()+"/reporte?layout=mobile&print=false", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		require.Contains(t, string(body), "A4 portrait")
		require.NotContains(t, string(body), "window.print()")
	})

	t.Run("unknown layout", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/avances/"+av.AvanceID.String()+"/reporte?layout=tablet", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing record", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/avances/"+uuid.NewString()+"/reporte", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
