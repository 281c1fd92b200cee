package controller

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	avanceService "admon_backend/internals/features/progress/avances/service"
	"admon_backend/internals/features/progress/reports/service"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

type ReportController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, Now: time.Now}
}

// GET /api/avances/:id/reporte?layout=desktop|mobile&print=false
func (h *ReportController) Render(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	layout, err := service.ParseLayout(c.Query("layout"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "layout must be desktop or mobile")
	}

	av, err := avanceService.Load(c.UserContext(), h.DB, id)
	if err != nil {
		if errors.Is(err, avanceService.ErrAvanceNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "progress record not found")
		}
		return helper.MapDBError(err, "progress record")
	}

	report := service.Build(av, h.Now(), dbtime.GetLocation(c))
	report.AutoPrint = !strings.EqualFold(strings.TrimSpace(c.Query("print")), "false")

	var buf bytes.Buffer
	if err := service.Render(&buf, layout, report); err != nil {
		log.Printf("[REPORT] render %s (%s): %v", id, layout, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not render report")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
