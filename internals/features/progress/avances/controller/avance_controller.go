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
	"admon_backend/internals/features/progress/avances/dto"
	"admon_backend/internals/features/progress/avances/model"
	"admon_backend/internals/features/progress/avances/service"
	helper "admon_backend/internals/helpers"
)

var errFeatureNotFound = fiber.NewError(fiber.StatusNotFound, "feature not found")

type AvanceController struct {
	DB *gorm.DB
}

func NewAvanceController(db *gorm.DB) *AvanceController {
	return &AvanceController{DB: db}
}

func avanceError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, service.ErrAvanceNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return helper.MapDBError(err, "progress record")
	}
}

/* ===================== CREATE ===================== */
// POST /api/avances
func (h *AvanceController) Create(c *fiber.Ctx) error {
	var req dto.CreateAvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	ctx := c.UserContext()
	av := req.ToModel()
	err := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(av).Error; err != nil {
			return err
		}
		if feats := req.ToFeatures(av.AvanceID, time.Now()); len(feats) > 0 {
			if err := tx.Create(&feats).Error; err != nil {
				return err
			}
		}
		_, err := service.Recompute(tx, av.AvanceID)
		return err
	})
	if err != nil {
		return avanceError(err)
	}

	out, err := service.Load(ctx, h.DB, av.AvanceID)
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonCreated(c, "progress record created", dto.FromModel(out))
}

/* ===================== LIST ===================== */
// GET /api/avances?q=&estado=
func (h *AvanceController) List(c *fiber.Ctx) error {
	var q dto.ListAvanceQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	p := helper.ResolvePaging(c, 20, 100)

	tx := h.DB.WithContext(c.UserContext()).Model(&model.AvanceModel{})
	if s := strings.TrimSpace(q.Q); s != "" {
		like := helper.LikePattern(s)
		tx = tx.Where("(LOWER(nombre_proyecto) LIKE ? OR LOWER(cliente_nombre) LIKE ?)", like, like)
	}
	switch s := strings.TrimSpace(q.Estado); s {
	case "":
	case constants.ProgressCompleted, constants.ProgressInProgress:
		tx = tx.Where("estado = ?", s)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "estado must be completado or en_progreso")
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.MapDBError(err, "progress record")
	}
	var rows []model.AvanceModel
	if err := tx.Order("fecha_actualizacion DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return helper.MapDBError(err, "progress record")
	}

	out := make([]dto.AvanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i]))
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", out, &pg)
}

/* ===================== DETAIL ===================== */
// GET /api/avances/:id
func (h *AvanceController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	av, err := service.Load(c.UserContext(), h.DB, id)
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(av))
}

/* ===================== UPDATE HEADER ===================== */
// PATCH /api/avances/:id
func (h *AvanceController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAvanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	ctx := c.UserContext()
	updates := req.Updates()
	if len(updates) > 0 {
		updates["fecha_actualizacion"] = time.Now()
		res := h.DB.WithContext(ctx).Model(&model.AvanceModel{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return helper.MapDBError(res.Error, "progress record")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "progress record not found")
		}
	}

	av, err := service.Load(ctx, h.DB, id)
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonUpdated(c, "progress record updated", dto.FromModel(av))
}

/* ===================== DELETE ===================== */
// DELETE /api/avances/:id
func (h *AvanceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("avance_id = ?", id).Delete(&model.AvanceFeatureModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.AvanceModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return service.ErrAvanceNotFound
		}
		return nil
	})
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonDeleted(c, "progress record deleted", fiber.Map{"id": id})
}

/* ===================== FEATURES ===================== */
// POST /api/avances/:id/caracteristicas
func (h *AvanceController) AddFeature(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddFeatureRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	if err := helper.Validate(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var feat model.AvanceFeatureModel
	var av *model.AvanceModel
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AvanceModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return service.ErrAvanceNotFound
		}

		order := 0
		if req.Orden != nil {
			order = *req.Orden
		} else {
			var maxOrder int
			if err := tx.Model(&model.AvanceFeatureModel{}).Where("avance_id = ?", id).
				Select("COALESCE(MAX(orden), 0)").Scan(&maxOrder).Error; err != nil {
				return err
			}
			order = maxOrder + 1
		}

		feat = model.AvanceFeatureModel{
			FeatureAvanceID:    id,
			FeatureName:        req.Nombre,
			FeatureDescription: req.Descripcion,
			FeatureOrder:       order,
		}
		if err := tx.Create(&feat).Error; err != nil {
			return err
		}
		var err error
		av, err = service.Recompute(tx, id)
		return err
	})
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonCreated(c, "feature added", fiber.Map{
		"caracteristica": dto.FeatureFromModel(&feat),
		"avance":         dto.FromModel(av),
	})
}

// PATCH /api/avances/:id/caracteristicas/:featureId/toggle
func (h *AvanceController) ToggleFeature(c *fiber.Ctx) error {
	id, featID, err := featureParams(c)
	if err != nil {
		return err
	}

	var feat model.AvanceFeatureModel
	var av *model.AvanceModel
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&feat, "id = ? AND avance_id = ?", featID, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errFeatureNotFound
			}
			return err
		}
		feat.FeatureCompleted = !feat.FeatureCompleted
		var doneAt *time.Time
		if feat.FeatureCompleted {
			now := time.Now()
			doneAt = &now
		}
		feat.FeatureCompletedAt = doneAt
		if err := tx.Model(&feat).Updates(map[string]any{
			"completada":       feat.FeatureCompleted,
			"fecha_completado": doneAt,
		}).Error; err != nil {
			return err
		}
		var err error
		av, err = service.Recompute(tx, id)
		return err
	})
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonUpdated(c, "feature updated", fiber.Map{
		"caracteristica": dto.FeatureFromModel(&feat),
		"avance":         dto.FromModel(av),
	})
}

// DELETE /api/avances/:id/caracteristicas/:featureId
func (h *AvanceController) DeleteFeature(c *fiber.Ctx) error {
	id, featID, err := featureParams(c)
	if err != nil {
		return err
	}

	var av *model.AvanceModel
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND avance_id = ?", featID, id).Delete(&model.AvanceFeatureModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errFeatureNotFound
		}
		var err error
		av, err = service.Recompute(tx, id)
		return err
	})
	if err != nil {
		return avanceError(err)
	}
	return helper.JsonDeleted(c, "feature deleted", dto.FromModel(av))
}

/* ===================== RECALCULATE ===================== */
// POST /api/avances/recalcular
func (h *AvanceController) RecalculateAll(c *fiber.Ctx) error {
	res, err := service.RecalculateAll(c.UserContext(), h.DB)
	if err != nil {
		log.Printf("[AVANCE] recalculate all: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not recalculate progress records")
	}
	return helper.JsonOK(c, "recalculated", res)
}

func featureParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	featID, err := helper.ParseUUIDParam(c, "featureId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, featID, nil
}
