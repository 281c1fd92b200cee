package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"admon_backend/internals/features/clients/projects/model"
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

type CreateProjectRequest struct {
	Nombre               string  `json:"nombre"                validate:"required,min=2,max=200"`
	Tipo                 *string `json:"tipo"                  validate:"omitempty,max=80"`
	CorreoAdministracion *string `json:"correo_administracion" validate:"omitempty,email,max=200"`
}

func (r *CreateProjectRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Tipo = trimPtr(r.Tipo)
	r.CorreoAdministracion = trimPtr(r.CorreoAdministracion)
}

func (r CreateProjectRequest) ToModel() *model.ProjectModel {
	return &model.ProjectModel{
		ProjectName:       r.Nombre,
		ProjectType:       r.Tipo,
		ProjectAdminEmail: r.CorreoAdministracion,
	}
}

type UpdateProjectRequest struct {
	Nombre               *string `json:"nombre"                validate:"omitempty,min=2,max=200"`
	Tipo                 *string `json:"tipo"                  validate:"omitempty,max=80"`
	CorreoAdministracion *string `json:"correo_administracion" validate:"omitempty,max=200"`
}

func (r UpdateProjectRequest) ApplyTo(m *model.ProjectModel) {
	if r.Nombre != nil {
		m.ProjectName = strings.TrimSpace(*r.Nombre)
	}
	if r.Tipo != nil {
		m.ProjectType = trimPtr(r.Tipo)
	}
	if r.CorreoAdministracion != nil {
		m.ProjectAdminEmail = trimPtr(r.CorreoAdministracion)
	}
}

type ListProjectQuery struct {
	Q    string `query:"q"`
	Tipo string `query:"tipo"`
}

type ProjectResponse struct {
	ID                   uuid.UUID `json:"id"`
	Nombre               string    `json:"nombre"`
	Tipo                 *string   `json:"tipo,omitempty"`
	CorreoAdministracion *string   `json:"correo_administracion,omitempty"`
	Creacion             time.Time `json:"creacion"`
}

func FromModel(m *model.ProjectModel) ProjectResponse {
	return ProjectResponse{
		ID:                   m.ProjectID,
		Nombre:               m.ProjectName,
		Tipo:                 m.ProjectType,
		CorreoAdministracion: m.ProjectAdminEmail,
		Creacion:             m.ProjectCreatedAt,
	}
}

func FromModels(list []model.ProjectModel) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
