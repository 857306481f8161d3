package dto

import "github.com/google/uuid"

type CrearParametroRequest struct {
	Codigo      string  `json:"codigo"      validate:"required,min=1,max=25"`
	Valor       *string `json:"valor"       validate:"omitempty,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=225"`
}

type ActualizarParametroRequest struct {
	Codigo      *string `json:"codigo"      validate:"omitempty,min=1,max=25"`
	Valor       *string `json:"valor"       validate:"omitempty,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=225"`
}

// ParametroFilter matches codigo by substring.
type ParametroFilter struct {
	Codigo string `form:"codigo"`
	Paginacion
}

type ParametroResponse struct {
	ID          uuid.UUID `json:"id"`
	Codigo      string    `json:"codigo"`
	Valor       *string   `json:"valor"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
}
