package dto

import "github.com/google/uuid"

type CrearClienteRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=2,max=50"`
	Apellido string `json:"apellido" validate:"required,min=2,max=50"`
}

type ActualizarClienteRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=50"`
	Apellido *string `json:"apellido" validate:"omitempty,min=2,max=50"`
}

type ClienteResponse struct {
	ID       uuid.UUID `json:"id"`
	Nombre   string    `json:"nombre"`
	Apellido string    `json:"apellido"`
	Activo   bool      `json:"activo"`
}

type CrearPersonalRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=2,max=50"`
	Apellido string `json:"apellido" validate:"required,min=2,max=50"`
	Cedula   string `json:"cedula"   validate:"required,numeric,len=10"`
}

type ActualizarPersonalRequest struct {
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=50"`
	Apellido *string `json:"apellido" validate:"omitempty,min=2,max=50"`
	Cedula   *string `json:"cedula"   validate:"omitempty,numeric,len=10"`
}

type PersonalResponse struct {
	ID       uuid.UUID `json:"id"`
	Nombre   string    `json:"nombre"`
	Apellido string    `json:"apellido"`
	Cedula   string    `json:"cedula"`
	Activo   bool      `json:"activo"`
}

// PersonaFilter searches clientes and personal by nombre or apellido.
type PersonaFilter struct {
	Buscar string `form:"buscar"`
	Paginacion
}
