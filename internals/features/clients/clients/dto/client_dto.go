package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"admon_backend/internals/features/clients/clients/model"
	"admon_backend/internals/features/clients/clients/service"
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
   CREATE
========================================================= */

type CreateClientRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=200"`
	Email    *string `json:"email"    validate:"omitempty,email,max=200"`
	Telefono *string `json:"telefono" validate:"omitempty,max=40"`
	RTN      *string `json:"rtn"      validate:"omitempty,max=30"`
	Oficio   *string `json:"oficio"   validate:"omitempty,max=120"`
}

func (r *CreateClientRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = trimPtr(r.Email)
	if r.Email != nil {
		e := strings.ToLower(*r.Email)
		r.Email = &e
	}
	r.Telefono = trimPtr(r.Telefono)
	r.RTN = trimPtr(r.RTN)
	r.Oficio = trimPtr(r.Oficio)
}

func (r CreateClientRequest) ToModel() *model.ClientModel {
	return &model.ClientModel{
		ClientName:       r.Nombre,
		ClientEmail:      r.Email,
		ClientPhone:      r.Telefono,
		ClientTaxID:      r.RTN,
		ClientOccupation: r.Oficio,
	}
}

/* =========================================================
   UPDATE (partial)
========================================================= */

type UpdateClientRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=200"`
	Email    *string `json:"email"    validate:"omitempty,max=200"`
	Telefono *string `json:"telefono" validate:"omitempty,max=40"`
	RTN      *string `json:"rtn"      validate:"omitempty,max=30"`
	Oficio   *string `json:"oficio"   validate:"omitempty,max=120"`
}

// ApplyTo copies the fields that were sent. An empty string clears an
// optional field.
func (r UpdateClientRequest) ApplyTo(m *model.ClientModel) {
	if r.Nombre != nil {
		m.ClientName = strings.TrimSpace(*r.Nombre)
	}
	if r.Email != nil {
		m.ClientEmail = trimPtr(r.Email)
		if m.ClientEmail != nil {
			e := strings.ToLower(*m.ClientEmail)
			m.ClientEmail = &e
		}
	}
	if r.Telefono != nil {
		m.ClientPhone = trimPtr(r.Telefono)
	}
	if r.RTN != nil {
		m.ClientTaxID = trimPtr(r.RTN)
	}
	if r.Oficio != nil {
		m.ClientOccupation = trimPtr(r.Oficio)
	}
}

/* =========================================================
   QUERY & RESPONSE
========================================================= */

type ListClientQuery struct {
	Q string `query:"q"`
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Email     *string   `json:"email,omitempty"`
	Telefono  *string   `json:"telefono,omitempty"`
	RTN       *string   `json:"rtn,omitempty"`
	Oficio    *string   `json:"oficio,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Proyectos []service.Acquisition `json:"proyectos,omitempty"`
}

func FromModel(m *model.ClientModel) ClientResponse {
	return ClientResponse{
		ID:        m.ClientID,
		Nombre:    m.ClientName,
		Email:     m.ClientEmail,
		Telefono:  m.ClientPhone,
		RTN:       m.ClientTaxID,
		Oficio:    m.ClientOccupation,
		CreatedAt: m.ClientCreatedAt,
	}
}

func FromModels(list []model.ClientModel) []ClientResponse {
	out := make([]ClientResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
