package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectModel struct {
	ProjectID uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`

	ProjectName       string  `gorm:"column:nombre;type:text;not null"        json:"nombre"`
	ProjectType       *string `gorm:"column:tipo;type:text"                   json:"tipo,omitempty"`
	ProjectAdminEmail *string `gorm:"column:correo_administracion;type:text"  json:"correo_administracion,omitempty"`

	ProjectCreatedAt time.Time `gorm:"column:creacion;autoCreateTime" json:"creacion"`
}

func (ProjectModel) TableName() string { return "proyectos" }

func (m *ProjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProjectID == uuid.Nil {
		m.ProjectID = uuid.New()
	}
	return nil
}
