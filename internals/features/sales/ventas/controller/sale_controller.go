package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/features/sales/ventas/dto"
	"admon_backend/internals/features/sales/ventas/model"
	"admon_backend/internals/features/sales/ventas/service"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

type SaleController struct {
	DB *gorm.DB
}

func NewSaleController(db *gorm.DB) *SaleController {
	return &SaleController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /api/ventas
func (h *SaleController) Create(c *fiber.Ctx) error {
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if errs := req.CheckAmounts(); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	date := dbtime.StartOfDay(time.Now(), dbtime.GetLocation(c))
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		d, err := dbtime.ParseDate(req.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "fecha must be YYYY-MM-DD")
		}
		date = d
	}
	nextDue, err := dbtime.ParseDatePtr(req.NextDueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "proxima_fecha_de_pago must be YYYY-MM-DD")
	}

	created, err := service.CreateSale(c.UserContext(), h.DB, req.ToModel(date), nextDue)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrProjectNotFound):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[SALE] create: %v", err)
		return helper.MapDBError(err, "sale")
	}

	out := dto.FromModel(&created.Sale)
	if created.Contract != nil {
		out.ContractID = &created.Contract.ContractID
	}
	if created.Subscription != nil {
		out.SubscriptionID = &created.Subscription.SubscriptionID
	}
	log.Printf("[SALE] %s sale %s client=%s project=%s", out.Type, out.ID, out.ClientID, out.ProjectID)
	return helper.JsonCreated(c, "sale created", out)
}

/* ===================== LIST ===================== */
// GET /api/ventas?cliente=&proyecto=&tipo_de_venta=
func (h *SaleController) List(c *fiber.Ctx) error {
	var q dto.ListSaleQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 50, 200)
	ctx := c.UserContext()

	tx := h.DB.WithContext(ctx).Model(&model.SaleModel{})
	for _, f := range []struct{ raw, col string }{{q.ClientID, "cliente"}, {q.ProjectID, "proyecto"}} {
		if s := strings.TrimSpace(f.raw); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, f.col+" is not a valid UUID")
			}
			tx = tx.Where(f.col+" = ?", id)
		}
	}
	if s := strings.TrimSpace(q.Type); s != "" {
		tx = tx.Where("tipo_de_venta = ?", strings.ToLower(s))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.MapDBError(err, "sale")
	}
	var rows []model.SaleModel
	if err := tx.Order("fecha DESC").Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "sale")
	}

	clientNames, projectNames, err := h.names(c, rows)
	if err != nil {
		return helper.MapDBError(err, "sale")
	}
	out := make([]dto.SaleResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.ClientName = clientNames[r.ClientID]
		r.ProjectName = projectNames[r.ProjectID]
		out = append(out, r)
	}

	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", out, &pg)
}

func (h *SaleController) names(c *fiber.Ctx, rows []model.SaleModel) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	clients := map[uuid.UUID]string{}
	projects := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return clients, projects, nil
	}
	var cids, pids []uuid.UUID
	for _, r := range rows {
		cids = append(cids, r.SaleClientID)
		pids = append(pids, r.SaleProjectID)
	}

	var cl []clientModel.ClientModel
	if err := h.DB.WithContext(c.UserContext()).Select("id, nombre").Where("id IN ?", cids).Find(&cl).Error; err != nil {
		return nil, nil, err
	}
	for _, x := range cl {
		clients[x.ClientID] = x.ClientName
	}
	var pr []projectModel.ProjectModel
	if err := h.DB.WithContext(c.UserContext()).Select("id, nombre").Where("id IN ?", pids).Find(&pr).Error; err != nil {
		return nil, nil, err
	}
	for _, x := range pr {
		projects[x.ProjectID] = x.ProjectName
	}
	return clients, projects, nil
}

/* ===================== DETAIL ===================== */
// GET /api/ventas/:id
func (h *SaleController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var m model.SaleModel
	if err := h.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "sale")
	}
	out := dto.FromModel(&m)

	var ct contractModel.ContractModel
	if err := h.DB.WithContext(ctx).Select("id").Where("venta_id = ?", id).Limit(1).Find(&ct).Error; err == nil && ct.ContractID != uuid.Nil {
		out.ContractID = &ct.ContractID
	}
	var sub subscriptionModel.SubscriptionModel
	if err := h.DB.WithContext(ctx).Select("id").Where("venta_id = ?", id).Limit(1).Find(&sub).Error; err == nil && sub.SubscriptionID != uuid.Nil {
		out.SubscriptionID = &sub.SubscriptionID
	}
	return helper.JsonOK(c, "ok", out)
}

/* ===================== DELETE ===================== */
// DELETE /api/ventas/:id
func (h *SaleController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	switch err := service.DeleteSale(c.UserContext(), h.DB, id); {
	case err == nil:
		return helper.JsonDeleted(c, "sale deleted", fiber.Map{"id": id})
	case errors.Is(err, service.ErrSaleNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSaleLocked), errors.Is(err, service.ErrSaleHasPayments):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		log.Printf("[SALE] delete %s: %v", id, err)
		return helper.MapDBError(err, "sale")
	}
}
