package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	"admon_backend/internals/features/sales/subscriptions/dto"
	"admon_backend/internals/features/sales/subscriptions/model"
	helper "admon_backend/internals/helpers"
	"admon_backend/internals/helpers/dbtime"
)

type SubscriptionController struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{DB: db, Now: time.Now}
}

// today is the business calendar date as stored in date columns.
func (h *SubscriptionController) today(c *fiber.Ctx) time.Time {
	t := dbtime.StartOfDay(h.Now(), dbtime.GetLocation(c))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

/* ===================== CREATE ===================== */
// POST /api/suscripciones
func (h *SubscriptionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	if !req.MonthlyFee.IsPositive() {
		return helper.JsonValidationError(c, map[string][]string{"mensualidad": {"gt"}})
	}
	due, err := dbtime.ParseDatePtr(req.NextDueDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "proxima_fecha_de_pago must be YYYY-MM-DD")
	}

	ctx := c.UserContext()
	for _, chk := range []struct {
		m    any
		id   uuid.UUID
		what string
	}{{&clientModel.ClientModel{}, req.ClientID, "client"}, {&projectModel.ProjectModel{}, req.ProjectID, "project"}} {
		var n int64
		if err := h.DB.WithContext(ctx).Model(chk.m).Where("id = ?", chk.id).Count(&n).Error; err != nil {
			return helper.MapDBError(err, chk.what)
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusBadRequest, chk.what+" not found")
		}
	}

	m := req.ToModel(due)
	// is_active has a DB default of true; a false needs an explicit write.
	if err := h.DB.WithContext(ctx).Create(m).Error; err != nil {
		return helper.MapDBError(err, "subscription")
	}
	if !m.SubscriptionIsActive {
		if err := h.DB.WithContext(ctx).Model(m).Update("is_active", false).Error; err != nil {
			return helper.MapDBError(err, "subscription")
		}
	}
	return helper.JsonCreated(c, "subscription created", dto.FromModel(m))
}

/* ===================== LIST ===================== */
// GET /api/suscripciones?activa=&vencidas=&cliente=&proyecto=
func (h *SubscriptionController) List(c *fiber.Ctx) error {
	var q dto.ListSubscriptionQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	ctx := c.UserContext()
	today := h.today(c)

	tx := h.DB.WithContext(ctx).Model(&model.SubscriptionModel{})
	if s := strings.TrimSpace(q.Active); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "activa must be true or false")
		}
		tx = tx.Where("is_active = ?", b)
	}
	if q.Overdue {
		tx = tx.Where("is_active = ? AND proxima_fecha_de_pago IS NOT NULL AND proxima_fecha_de_pago < ?", true, today)
	}
	for _, f := range []struct{ raw, col string }{{q.ClientID, "cliente"}, {q.ProjectID, "proyecto"}} {
		if s := strings.TrimSpace(f.raw); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, f.col+" is not a valid UUID")
			}
			tx = tx.Where(f.col+" = ?", id)
		}
	}

	order := "fecha_de_creacion DESC"
	if q.Overdue {
		order = "proxima_fecha_de_pago ASC"
	}
	var rows []model.SubscriptionModel
	if err := tx.Order(order).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "subscription")
	}

	clients, projects, err := h.names(c, rows)
	if err != nil {
		return helper.MapDBError(err, "subscription")
	}
	out := make([]dto.SubscriptionResponse, 0, len(rows))
	for i := range rows {
		r := dto.FromModel(&rows[i])
		r.ClientName = clients[r.ClientID]
		r.ProjectName = projects[r.ProjectID]
		if d := rows[i].SubscriptionNextDueDate; rows[i].SubscriptionIsActive && d != nil {
			due := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			if due.Before(today) {
				r.DaysOverdue = dbtime.DaysBetween(due, today, time.UTC)
			}
		}
		out = append(out, r)
	}
	return helper.JsonList(c, "ok", out, nil)
}

func (h *SubscriptionController) names(c *fiber.Ctx, rows []model.SubscriptionModel) (map[uuid.UUID]string, map[uuid.UUID]string, error) {
	clients := map[uuid.UUID]string{}
	projects := map[uuid.UUID]string{}
	if len(rows) == 0 {
		return clients, projects, nil
	}
	var cids, pids []uuid.UUID
	for _, r := range rows {
		cids = append(cids, r.SubscriptionClientID)
		pids = append(pids, r.SubscriptionProjectID)
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
// GET /api/suscripciones/:id
func (h *SubscriptionController) Get(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

/* ===================== UPDATE ===================== */
// PATCH /api/suscripciones/:id
func (h *SubscriptionController) Update(c *fiber.Ctx) error {
	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}
	m, err := h.load(c)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if req.MonthlyFee != nil {
		if !req.MonthlyFee.IsPositive() {
			return helper.JsonValidationError(c, map[string][]string{"mensualidad": {"gt"}})
		}
		m.SubscriptionMonthlyFee = req.MonthlyFee.Round(2)
		updates["mensualidad"] = m.SubscriptionMonthlyFee
	}
	if req.NextDueDate != nil {
		due, err := dbtime.ParseDatePtr(req.NextDueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "proxima_fecha_de_pago must be YYYY-MM-DD")
		}
		m.SubscriptionNextDueDate = due
		updates["proxima_fecha_de_pago"] = due
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "nothing to update", dto.FromModel(m))
	}
	if err := h.DB.WithContext(c.UserContext()).Model(m).Updates(updates).Error; err != nil {
		return helper.MapDBError(err, "subscription")
	}
	return helper.JsonUpdated(c, "subscription updated", dto.FromModel(m))
}

/* ===================== TOGGLE ===================== */
// POST /api/suscripciones/:id/toggle
func (h *SubscriptionController) Toggle(c *fiber.Ctx) error {
	m, err := h.load(c)
	if err != nil {
		return err
	}
	m.SubscriptionIsActive = !m.SubscriptionIsActive
	if err := h.DB.WithContext(c.UserContext()).Model(m).Update("is_active", m.SubscriptionIsActive).Error; err != nil {
		return helper.MapDBError(err, "subscription")
	}
	msg := "subscription paused"
	if m.SubscriptionIsActive {
		msg = "subscription resumed"
	}
	return helper.JsonUpdated(c, msg, dto.FromModel(m))
}

func (h *SubscriptionController) load(c *fiber.Ctx) (*model.SubscriptionModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var m model.SubscriptionModel
	if err := h.DB.WithContext(c.UserContext()).First(&m, "id = ?", id).Error; err != nil {
		return nil, helper.MapDBError(err, "subscription")
	}
	return &m, nil
}
