package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"admon_backend/internals/features/clients/clients/dto"
	"admon_backend/internals/features/clients/clients/model"
	"admon_backend/internals/features/clients/clients/service"
	paymentModel "admon_backend/internals/features/finance/payments/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	saleModel "admon_backend/internals/features/sales/ventas/model"
	helper "admon_backend/internals/helpers"
)

type ClientController struct {
	DB *gorm.DB
}

func NewClientController(db *gorm.DB) *ClientController {
	return &ClientController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /api/clientes
func (h *ClientController) Create(c *fiber.Ctx) error {
	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	return helper.JsonCreated(c, "client created", dto.FromModel(m))
}

/* ===================== LIST ===================== */
// GET /api/clientes?q=&page=&per_page=
func (h *ClientController) List(c *fiber.Ctx) error {
	var q dto.ListClientQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.ClientModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(nombre) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(rtn, '')) LIKE ?)", like, like, like)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	var rows []model.ClientModel
	if err := tx.Order("nombre ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "client")
	}

	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/* ===================== DETAIL ===================== */
// GET /api/clientes/:id
func (h *ClientController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var m model.ClientModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "client")
	}

	out := dto.FromModel(&m)
	projects, err := service.ProjectsOfClient(c.UserContext(), h.DB, id)
	if err != nil {
		log.Printf("[CLIENT] projects of %s: %v", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load client projects")
	}
	out.Proyectos = projects
	return helper.JsonOK(c, "ok", out)
}

/* ===================== UPDATE ===================== */
// PATCH /api/clientes/:id
func (h *ClientController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		if err := helper.ValidateVar(strings.TrimSpace(*req.Email), "email"); err != nil {
			return helper.JsonValidationError(c, map[string][]string{"email": {"email"}})
		}
	}

	ctx := c.UserContext()
	var m model.ClientModel
	if err := h.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	req.ApplyTo(&m)
	if strings.TrimSpace(m.ClientName) == "" {
		return helper.JsonValidationError(c, map[string][]string{"nombre": {"required"}})
	}
	if err := h.DB.WithContext(ctx).Save(&m).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	return helper.JsonUpdated(c, "client updated", dto.FromModel(&m))
}

/* ===================== DELETE ===================== */
// DELETE /api/clientes/:id
// Clients with sales, contracts, subscriptions or payments stay; the ledger
// would otherwise point at nothing.
func (h *ClientController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var m model.ClientModel
	if err := h.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "client")
	}

	for _, dep := range []struct {
		model any
		what  string
	}{
		{&saleModel.SaleModel{}, "sales"},
		{&contractModel.ContractModel{}, "contracts"},
		{&subscriptionModel.SubscriptionModel{}, "subscriptions"},
		{&paymentModel.PaymentModel{}, "payments"},
	} {
		var n int64
		if err := h.DB.WithContext(ctx).Model(dep.model).Where("cliente = ?", id).Count(&n).Error; err != nil {
			return helper.MapDBError(err, "client")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "client still has "+dep.what)
		}
	}

	if err := h.DB.WithContext(ctx).Delete(&model.ClientModel{}, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	return helper.JsonDeleted(c, "client deleted", fiber.Map{"id": id})
}
