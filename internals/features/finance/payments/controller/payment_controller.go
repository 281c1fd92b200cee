package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	clientModel "admon_backend/internals/features/clients/clients/model"
	"admon_backend/internals/features/finance/payments/dto"
	"admon_backend/internals/features/finance/payments/model"
	"admon_backend/internals/features/finance/payments/service"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

// Payments are a ledger: there is deliberately no update or delete handler.
type PaymentController struct {
	DB *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

/* ===================== CREATE ===================== */
// POST /api/pagos
func (h *PaymentController) Create(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if !req.Amount.IsPositive() {
		return helper.JsonValidationError(c, map[string][]string{"monto": {"gt"}})
	}

	ctx := c.UserContext()
	var count int64
	if err := h.DB.WithContext(ctx).Model(&clientModel.ClientModel{}).
		Where("id = ?", req.ClientID).Count(&count).Error; err != nil {
		return helper.MapDBError(err, "client")
	}
	if count == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "client not found")
	}

	if err := service.CheckReference(ctx, h.DB, req.ClientID, req.Type, req.ReferenceID); err != nil {
		switch {
		case errors.Is(err, service.ErrReferenceRequired),
			errors.Is(err, service.ErrReferenceNotFound),
			errors.Is(err, service.ErrReferenceOwner):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[PAYMENT] reference check: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not verify reference")
	}

	m := req.ToModel()
	if err := h.DB.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapDBError(err, "payment")
	}
	log.Printf("[PAYMENT] recorded %s %s for client=%s", m.PaymentType, m.PaymentAmount.StringFixed(2), m.PaymentClientID)
	return helper.JsonCreated(c, "payment recorded", dto.FromModel(m))
}

/* ===================== LIST ===================== */
// GET /api/pagos?cliente=&tipo=&referencia_id=&desde=&hasta=
func (h *PaymentController) List(c *fiber.Ctx) error {
	var q dto.ListPaymentQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	loc := dbtime.GetLocation(c)
	p := helper.ResolvePaging(c, 20, 200)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.PaymentModel{})

	if s := strings.TrimSpace(q.ClientID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cliente is not a valid UUID")
		}
		tx = tx.Where("cliente = ?", id)
	}
	if s := strings.ToLower(strings.TrimSpace(q.Type)); s != "" {
		if !isPaymentType(s) {
			return fiber.NewError(fiber.StatusBadRequest, "tipo must be contrato, suscripcion or unico")
		}
		tx = tx.Where("tipo = ?", s)
	}
	if s := strings.TrimSpace(q.ReferenceID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "referencia_id is not a valid UUID")
		}
		tx = tx.Where("referencia_id = ?", id)
	}
	if s := strings.TrimSpace(q.From); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "desde must be YYYY-MM-DD")
		}
		tx = tx.Where("fecha_de_creacion >= ?", t)
	}
	if s := strings.TrimSpace(q.To); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "hasta must be YYYY-MM-DD")
		}
		tx = tx.Where("fecha_de_creacion < ?", t.AddDate(0, 0, 1))
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.MapDBError(err, "payment")
	}

	var rows []model.PaymentModel
	if err := tx.Order("fecha_de_creacion DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "payment")
	}

	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromModels(rows), &pg)
}

/* ===================== GET ===================== */
// GET /api/pagos/:id
func (h *PaymentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var m model.PaymentModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "id = ?", id).Error; err != nil {
		return helper.MapDBError(err, "payment")
	}
	return helper.JsonOK(c, "ok", dto.FromModel(&m))
}

func isPaymentType(s string) bool {
	for _, t := range constants.PaymentTypes {
		if t == s {
			return true
		}
	}
	return false
}
