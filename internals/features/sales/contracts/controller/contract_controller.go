package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	"admon_backend/internals/features/sales/contracts/dto"
	"admon_backend/internals/features/sales/contracts/model"
	"admon_backend/internals/features/sales/contracts/service"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

type ContractController struct {
	DB *gorm.DB
}

func NewContractController(db *gorm.DB) *ContractController {
	return &ContractController{DB: db}
}

/* ===================== LIST ===================== */
// GET /api/contratos?estado=&q=&cliente=&proyecto=
func (h *ContractController) List(c *fiber.Ctx) error {
	var q dto.ListContractQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}

	f := service.Filter{Q: q.Q}
	switch s := strings.ToLower(strings.TrimSpace(q.Status)); s {
	case "", "todos":
	case constants.ContractActive, constants.ContractCancelled:
		f.Status = s
	default:
		return fiber.NewError(fiber.StatusBadRequest, "estado must be activo or cancelado")
	}
	for _, p := range []struct {
		raw  string
		name string
		dst  **uuid.UUID
	}{{q.ClientID, "cliente", &f.ClientID}, {q.ProjectID, "proyecto", &f.ProjectID}} {
		if s := strings.TrimSpace(p.raw); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, p.name+" is not a valid UUID")
			}
			*p.dst = &id
		}
	}

	res, err := service.List(c.UserContext(), h.DB, f)
	if err != nil {
		log.Printf("[CONTRACT] list: %v", err)
		return helper.MapDBError(err, "contract")
	}
	return helper.JsonListEx(c, "ok", res.Contracts, nil, fiber.Map{
		"stats":       res.Stats,
		"with_totals": res.WithTotals,
	})
}

/* ===================== DETAIL ===================== */
// GET /api/contratos/:id
func (h *ContractController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return err
	}
	out, err := service.Enrich(c.UserContext(), h.DB, *m)
	if err != nil {
		log.Printf("[CONTRACT] payments of %s: %v", m.ContractID, err)
	}
	return helper.JsonOK(c, "ok", out)
}

/* ===================== DUE DATE ===================== */
// PATCH /api/contratos/:id/proxima-fecha
func (h *ContractController) UpdateDueDate(c *fiber.Ctx) error {
	var req dto.UpdateDueDateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	due, err := dbtime.ParseDatePtr(req.NextDueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "proxima_fecha_de_pago must be YYYY-MM-DD")
	}

	m, err := h.load(c)
	if err != nil {
		return err
	}
	if m.ContractStatus == constants.ContractCancelled {
		return fiber.NewError(fiber.StatusConflict, "contract is cancelled")
	}

	if err := h.DB.WithContext(c.UserContext()).Model(m).
		Update("proxima_fecha_de_pago", due).Error; err != nil {
		return helper.MapDBError(err, "contract")
	}
	m.ContractNextDueDate = due
	return helper.JsonUpdated(c, "due date updated", dto.FromModel(m))
}

/* ===================== CANCEL ===================== */
// POST /api/contratos/:id/cancelar
func (h *ContractController) Cancel(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return err
	}
	if m.ContractStatus == constants.ContractCancelled {
		return helper.JsonOK(c, "contract already cancelled", dto.FromModel(m))
	}

	if err := h.DB.WithContext(c.UserContext()).Model(m).Updates(map[string]any{
		"estado":                constants.ContractCancelled,
		"proxima_fecha_de_pago": nil,
	}).Error; err != nil {
		return helper.MapDBError(err, "contract")
	}
	m.ContractStatus = constants.ContractCancelled
	m.ContractNextDueDate = nil
	log.Printf("[CONTRACT] cancelled %s", m.ContractID)
	return helper.JsonUpdated(c, "contract cancelled", dto.FromModel(m))
}

func (h *ContractController) load(c *fiber.Ctx) (*model.ContractModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.ContractModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "id = ?", id).Error; err != nil {
		return nil, helper.MapDBError(err, "contract")
	}
	return &m, nil
}
