package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvanceModel struct {
	AvanceID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	AvanceProjectName string  `gorm:"column:nombre_proyecto;type:text;not null" json:"nombre_proyecto"`
	AvanceDescription *string `gorm:"column:descripcion;type:text"              json:"descripcion,omitempty"`
	AvanceClientName  string  `gorm:"column:cliente_nombre;type:text;not null"  json:"cliente_nombre"`

	// Derived from the features; see service.Recompute.
	AvancePercentage float64 `gorm:"column:porcentaje_avance;type:numeric(6,2);not null;default:0" json:"porcentaje_avance"`
	AvanceTotal      int     `gorm:"column:total_caracteristicas;not null;default:0"       json:"total_caracteristicas"`
	AvanceCompleted  int     `gorm:"column:caracteristicas_completadas;not null;default:0" json:"caracteristicas_completadas"`
	AvanceStatus     string  `gorm:"column:estado;type:text;not null;default:'en_progreso'" json:"estado"`

	AvanceCreatedAt time.Time `gorm:"column:fecha_creacion;autoCreateTime"      json:"fecha_creacion"`
	AvanceUpdatedAt time.Time `gorm:"column:fecha_actualizacion;autoUpdateTime" json:"fecha_actualizacion"`

	Features []AvanceFeatureModel `gorm:"foreignKey:FeatureAvanceID;references:AvanceID;constraint:OnDelete:CASCADE" json:"caracteristicas,omitempty"`
}

func (AvanceModel) TableName() string { return "avances" }

func (m *AvanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AvanceID == uuid.Nil {
		m.AvanceID = uuid.New()
	}
	return nil
}

type AvanceFeatureModel struct {
	FeatureID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"              json:"id"`
	FeatureAvanceID uuid.UUID `gorm:"column:avance_id;type:uuid;not null;index"   json:"avance_id"`

	FeatureName        string     `gorm:"column:nombre;type:text;not null"      json:"nombre"`
	FeatureDescription *string    `gorm:"column:descripcion;type:text"          json:"descripcion,omitempty"`
	FeatureCompleted   bool       `gorm:"column:completada;not null;default:false" json:"completada"`
	FeatureCompletedAt *time.Time `gorm:"column:fecha_completado"               json:"fecha_completado,omitempty"`
	FeatureOrder       int        `gorm:"column:orden;not null;default:0"       json:"orden"`

	FeatureCreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AvanceFeatureModel) TableName() string { return "avances_caracteristicas" }

func (m *AvanceFeatureModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeatureID == uuid.Nil {
		m.FeatureID = uuid.New()
	}
	return nil
}
