package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"admon_backend/internals/features/progress/avances/model"
)

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

/* =========================================================
   REQUESTS
========================================================= */

type FeatureInput struct {
	Nombre      string  `json:"nombre"      validate:"required,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=2000"`
	Completada  bool    `json:"completada"`
}

type CreateAvanceRequest struct {
	NombreProyecto  string         `json:"nombre_proyecto" validate:"required,max=200"`
	Descripcion     *string        `json:"descripcion"     validate:"omitempty,max=4000"`
	ClienteNombre   string         `json:"cliente_nombre"  validate:"required,max=200"`
	Caracteristicas []FeatureInput `json:"caracteristicas" validate:"omitempty,max=500,dive"`
}

func (r *CreateAvanceRequest) Normalize() {
	r.NombreProyecto = strings.TrimSpace(r.NombreProyecto)
	r.ClienteNombre = strings.TrimSpace(r.ClienteNombre)
	r.Descripcion = trimPtr(r.Descripcion)
	for i := range r.Caracteristicas {
		r.Caracteristicas[i].Nombre = strings.TrimSpace(r.Caracteristicas[i].Nombre)
		r.Caracteristicas[i].Descripcion = trimPtr(r.Caracteristicas[i].Descripcion)
	}
}

func (r CreateAvanceRequest) ToModel() *model.AvanceModel {
	return &model.AvanceModel{
		AvanceProjectName: r.NombreProyecto,
		AvanceDescription: r.Descripcion,
		AvanceClientName:  r.ClienteNombre,
	}
}

// ToFeatures numbers the features in the order they were sent.
func (r CreateAvanceRequest) ToFeatures(avanceID uuid.UUID, now time.Time) []model.AvanceFeatureModel {
	out := make([]model.AvanceFeatureModel, 0, len(r.Caracteristicas))
	for i, f := range r.Caracteristicas {
		m := model.AvanceFeatureModel{
			FeatureAvanceID:    avanceID,
			FeatureName:        f.Nombre,
			FeatureDescription: f.Descripcion,
			FeatureCompleted:   f.Completada,
			FeatureOrder:       i + 1,
		}
		if f.Completada {
			t := now
			m.FeatureCompletedAt = &t
		}
		out = append(out, m)
	}
	return out
}

type UpdateAvanceRequest struct {
	NombreProyecto *string `json:"nombre_proyecto" validate:"omitempty,max=200"`
	Descripcion    *string `json:"descripcion"     validate:"omitempty,max=4000"`
	ClienteNombre  *string `json:"cliente_nombre"  validate:"omitempty,max=200"`
}

func (r UpdateAvanceRequest) Updates() map[string]any {
	out := map[string]any{}
	if r.NombreProyecto != nil && strings.TrimSpace(*r.NombreProyecto) != "" {
		out["nombre_proyecto"] = strings.TrimSpace(*r.NombreProyecto)
	}
	if r.ClienteNombre != nil && strings.TrimSpace(*r.ClienteNombre) != "" {
		out["cliente_nombre"] = strings.TrimSpace(*r.ClienteNombre)
	}
	if r.Descripcion != nil {
		out["descripcion"] = trimPtr(r.Descripcion)
	}
	return out
}

type AddFeatureRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,max=200"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=2000"`
	Orden       *int    `json:"orden"       validate:"omitempty,min=1"`
}

type ListAvanceQuery struct {
	Q      string `query:"q"`
	Estado string `query:"estado"`
}

/* =========================================================
   RESPONSES
========================================================= */

type FeatureResponse struct {
	ID              uuid.UUID  `json:"id"`
	Nombre          string     `json:"nombre"`
	Descripcion     *string    `json:"descripcion,omitempty"`
	Completada      bool       `json:"completada"`
	FechaCompletado *time.Time `json:"fecha_completado,omitempty"`
	Orden           int        `json:"orden"`
}

type AvanceResponse struct {
	ID                         uuid.UUID `json:"id"`
	NombreProyecto             string    `json:"nombre_proyecto"`
	Descripcion                *string   `json:"descripcion,omitempty"`
	ClienteNombre              string    `json:"cliente_nombre"`
	PorcentajeAvance           float64   `json:"porcentaje_avance"`
	TotalCaracteristicas       int       `json:"total_caracteristicas"`
	CaracteristicasCompletadas int       `json:"caracteristicas_completadas"`
	Estado                     string    `json:"estado"`
	FechaCreacion              time.Time `json:"fecha_creacion"`
	FechaActualizacion         time.Time `json:"fecha_actualizacion"`

	Caracteristicas []FeatureResponse `json:"caracteristicas,omitempty"`
}

func FeatureFromModel(m *model.AvanceFeatureModel) FeatureResponse {
	return FeatureResponse{
		ID:              m.FeatureID,
		Nombre:          m.FeatureName,
		Descripcion:     m.FeatureDescription,
		Completada:      m.FeatureCompleted,
		FechaCompletado: m.FeatureCompletedAt,
		Orden:           m.FeatureOrder,
	}
}

func FromModel(m *model.AvanceModel) AvanceResponse {
	out := AvanceResponse{
		ID:                         m.AvanceID,
		NombreProyecto:             m.AvanceProjectName,
		Descripcion:                m.AvanceDescription,
		ClienteNombre:              m.AvanceClientName,
		PorcentajeAvance:           m.AvancePercentage,
		TotalCaracteristicas:       m.AvanceTotal,
		CaracteristicasCompletadas: m.AvanceCompleted,
		Estado:                     m.AvanceStatus,
		FechaCreacion:              m.AvanceCreatedAt,
		FechaActualizacion:         m.AvanceUpdatedAt,
	}
	if len(m.Features) > 0 {
		out.Caracteristicas = make([]FeatureResponse, 0, len(m.Features))
		for i := range m.Features {
			out.Caracteristicas = append(out.Caracteristicas, FeatureFromModel(&m.Features[i]))
		}
	}
	return out
}
