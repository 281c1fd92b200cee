package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	clientService "admon_backend/internals/features/clients/clients/service"
	"admon_backend/internals/features/clients/projects/dto"
	"admon_backend/internals/features/clients/projects/model"
	contractModel "admon_backend/internals/features/sales/contracts/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	saleModel "admon_backend/internals/features/sales/ventas/model"
	helper "admon_backend/internals/helpers"
)

type ProjectController struct {
	DB *gorm.DB
}

func NewProjectController(db *gorm.DB) *ProjectController {
	return &ProjectController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /api/proyectos
func (h *ProjectController) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.UserContext()).Create(m).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	return helper.JsonCreated(c, "project created", dto.FromModel(m))
}

/* ===================== LIST ===================== */
// GET /api/proyectos?q=&tipo=
func (h *ProjectController) List(c *fiber.Ctx) error {
	var q dto.ListProjectQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 50, 200)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.ProjectModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("LOWER(nombre) LIKE ?", helper.LikePattern(s))
	}
	if s := strings.TrimSpace(q.Tipo); s != "" {
		tx = tx.Where("LOWER(tipo) = ?", strings.ToLower(s))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	var rows []model.ProjectModel
	if err := tx.Order("nombre ASC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "project")
	}

	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/* ===================== DETAIL ===================== */
// GET /api/proyectos/:id
func (h *ProjectController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var m model.ProjectModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(&m))
}

/* ===================== CLIENTS OF PROJECT ===================== */
// GET /api/proyectos/:id/clientes
func (h *ProjectController) Clients(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var n int64
	if err := h.DB.WithContext(ctx).Model(&model.ProjectModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "project not found")
	}

	list, err := clientService.ClientsOfProject(ctx, h.DB, id)
	if err != nil {
		log.Printf("[PROJECT] clients of %s: %v", id, err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not load project clients")
	}
	return helper.JsonOK(c, "ok", list)
}

/* ===================== UPDATE ===================== */
// PATCH /api/proyectos/:id
func (h *ProjectController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if req.CorreoAdministracion != nil && strings.TrimSpace(*req.CorreoAdministracion) != "" {
		if err := helper.ValidateVar(strings.TrimSpace(*req.CorreoAdministracion), "email"); err != nil {
			return helper.JsonValidationError(c, map[string][]string{"correo_administracion": {"email"}})
		}
	}

	ctx := c.UserContext()
	var m model.ProjectModel
	if err := h.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	req.ApplyTo(&m)
	if strings.TrimSpace(m.ProjectName) == "" {
		return helper.JsonValidationError(c, map[string][]string{"nombre": {"required"}})
	}
	if err := h.DB.WithContext(ctx).Save(&m).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	return helper.JsonUpdated(c, "project updated", dto.FromModel(&m))
}

/* ===================== DELETE ===================== */
// DELETE /api/proyectos/:id
func (h *ProjectController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var m model.ProjectModel
	if err := h.DB.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	for _, dep := range []struct {
		model any
		what  string
	}{
		{&saleModel.SaleModel{}, "sales"},
		{&contractModel.ContractModel{}, "contracts"},
		{&subscriptionModel.SubscriptionModel{}, "subscriptions"},
	} {
		var n int64
		if err := h.DB.WithContext(ctx).Model(dep.model).Where("proyecto = ?", id).Count(&n).Error; err != nil {
			return helper.MapDBError(err, "project")
		}
		if n > 0 {
			return fiber.NewError(fiber.StatusConflict, "project still has "+dep.what)
		}
	}

	if err := h.DB.WithContext(ctx).Delete(&model.ProjectModel{}, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "project")
	}
	return helper.JsonDeleted(c, "project deleted", fiber.Map{"id": id})
}
