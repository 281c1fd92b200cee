package controller

import (
	"bytes"
	"log"

	"github.com/gofiber/fiber/v2"

	"admon_backend/internals/features/finance/statistics/service"
	helper "admon_backend/internals/helpers"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatisticsController struct {
	Svc *service.Service
}

func NewStatisticsController(svc *service.Service) *StatisticsController {
	return &StatisticsController{Svc: svc}
}

// GET /api/estadisticas
func (h *StatisticsController) Totals(c *fiber.Ctx) error {
	out, err := h.Svc.Totals(c.UserContext())
	if err != nil {
		log.Printf("[STATS] totals: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load statistics")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/estadisticas/ingresos-mensuales
func (h *StatisticsController) MonthlyRevenue(c *fiber.Ctx) error {
	out, err := h.Svc.MonthlyRevenue(c.UserContext())
	if err != nil {
		log.Printf("[STATS] monthly: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load monthly revenue")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/estadisticas/distribucion
func (h *StatisticsController) Distribution(c *fiber.Ctx) error {
	out, err := h.Svc.Distribution(c.UserContext())
	if err != nil {
		log.Printf("[STATS] distribution: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load distribution")
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/estadisticas/export.xlsx
func (h *StatisticsController) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.Svc.Export(c.UserContext(), &buf); err != nil {
		log.Printf("[STATS] export: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not build workbook")
	}

	name := helper.Slugify("estadisticas "+h.Svc.Now().In(h.Svc.Loc).Format("2006-01-02"), 60) + ".xlsx"
	c.Set(fiber.HeaderContentType, xlsxMime)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(buf.Bytes())
}
