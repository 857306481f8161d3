package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearTipoRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=2,max=50"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=225"`
}

type ActualizarTipoRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=2,max=50"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=225"`
	Activo      *bool   `json:"activo"`
}

type CrearMarcaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=50"`
}

type ActualizarMarcaRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=50"`
	Activo *bool   `json:"activo"`
}

// CatalogoFilter filters tipos and marcas by name substring.
type CatalogoFilter struct {
	Nombre string `form:"nombre"`
	Paginacion
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type TipoResponse struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion *string   `json:"descripcion,omitempty"`
	Activo      bool      `json:"activo"`
}

type MarcaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Activo bool      `json:"activo"`
}
