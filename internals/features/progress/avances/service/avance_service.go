package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"admon_backend/internals/constants"
	"admon_backend/internals/features/progress/avances/model"
)

var ErrAvanceNotFound = errors.New("progress record not found")

// Progress derives the counters of a record from its features.
// 0 features means 0%; estado is completado only at exactly 100%.
func Progress(total, completed int) (pct float64, status string) {
	if total > 0 {
		pct = float64(completed) / float64(total) * 100
	}
	status = constants.ProgressInProgress
	if pct == 100 {
		status = constants.ProgressCompleted
	}
	return pct, status
}

// Recompute refreshes the derived columns of one record. Call it with the
// transaction that changed the features.
func Recompute(tx *gorm.DB, avanceID uuid.UUID) (*model.AvanceModel, error) {
	var av model.AvanceModel
	if err := tx.First(&av, "id = ?", avanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvanceNotFound
		}
		return nil, err
	}

	var total, completed int64
	if err := tx.Model(&model.AvanceFeatureModel{}).Where("avance_id = ?", avanceID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count features: %w", err)
	}
	if err := tx.Model(&model.AvanceFeatureModel{}).Where("avance_id = ? AND completada = ?", avanceID, true).Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}

	pct, status := Progress(int(total), int(completed))
	now := time.Now()
	if err := tx.Model(&av).Updates(map[string]any{
		"total_caracteristicas":       int(total),
		"caracteristicas_completadas": int(completed),
		"porcentaje_avance":           pct,
		"estado":                      status,
		"fecha_actualizacion":         now,
	}).Error; err != nil {
		return nil, fmt.Errorf("update avance: %w", err)
	}

	av.AvanceTotal = int(total)
	av.AvanceCompleted = int(completed)
	av.AvancePercentage = pct
	av.AvanceStatus = status
	av.AvanceUpdatedAt = now
	return &av, nil
}

type RecalcResult struct {
	Updated int      `json:"actualizados"`
	Failed  int      `json:"errores"`
	Errors  []string `json:"detalles,omitempty"`
}

// RecalculateAll recomputes every record, each in its own transaction, so
// one broken record does not stop the rest.
func RecalculateAll(ctx context.Context, db *gorm.DB) (*RecalcResult, error) {
	var ids []struct {
		ID     uuid.UUID
		Nombre string `gorm:"column:nombre_proyecto"`
	}
	if err := db.WithContext(ctx).Model(&model.AvanceModel{}).Select("id, nombre_proyecto").Find(&ids).Error; err != nil {
		return nil, fmt.Errorf("list avances: %w", err)
	}

	res := &RecalcResult{}
	for _, row := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var av *model.AvanceModel
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			av, err = Recompute(tx, row.ID)
			return err
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", row.Nombre, err))
			log.Printf("[AVANCE] ❌ recalculating %q: %v", row.Nombre, err)
			continue
		}
		res.Updated++
		log.Printf("[AVANCE] ✅ %q: %d/%d (%.0f%%) %s", row.Nombre, av.AvanceCompleted, av.AvanceTotal, av.AvancePercentage, av.AvanceStatus)
	}
	return res, nil
}

// Load fetches a record with its features in display order.
func Load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.AvanceModel, error) {
	var av model.AvanceModel
	err := db.WithContext(ctx).
		Preload("Features", func(q *gorm.DB) *gorm.DB {
			return q.Order("orden ASC").Order("created_at ASC")
		}).
		First(&av, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAvanceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &av, nil
}
