package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	TipoID  string          `json:"tipo_id"  validate:"required,uuid"`
	MarcaID *string         `json:"marca_id" validate:"omitempty,uuid"`
	Nombre  string          `json:"nombre"   validate:"required,min=2,max=50"`
	SKU     *string         `json:"sku"      validate:"omitempty,max=25"`
	Precio  decimal.Decimal `json:"precio"   validate:"min=0"`
	UsosEst int             `json:"usos_est" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	TipoID  *string          `json:"tipo_id"  validate:"omitempty,uuid"`
	MarcaID *string          `json:"marca_id" validate:"omitempty,uuid"`
	Nombre  *string          `json:"nombre"   validate:"omitempty,min=2,max=50"`
	SKU     *string          `json:"sku"      validate:"omitempty,max=25"`
	Precio  *decimal.Decimal `json:"precio"`
	UsosEst *int             `json:"usos_est" validate:"omitempty,min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre  string `form:"nombre"`
	TipoID  string `form:"tipo_id"  validate:"omitempty,uuid"`
	MarcaID string `form:"marca_id" validate:"omitempty,uuid"`
	// Activo: "false" = inactivos, "all" = todos, vacío = activos
	Activo string `form:"activo"`
	Paginacion
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RefResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
}

type ProductoResponse struct {
	ID               uuid.UUID       `json:"id"`
	Tipo             *RefResponse    `json:"tipo"`
	Marca            *RefResponse    `json:"marca"`
	Nombre           string          `json:"nombre"`
	SKU              *string         `json:"sku"`
	Precio           decimal.Decimal `json:"precio"`
	UsosEst          int             `json:"usos_est"`
	Activo           bool            `json:"activo"`
	Existencias      int             `json:"existencias"`
	UsosRestantes    int             `json:"usos_restantes"`
	PoseeExistencias bool            `json:"posee_existencias"`
}

// ExistenciasResponse is the stock summary of a single product.
type ExistenciasResponse struct {
	ProductoID       uuid.UUID `json:"producto_id"`
	Existencias      int       `json:"existencias"`
	UsosRestantes    int       `json:"usos_restantes"`
	PoseeExistencias bool      `json:"posee_existencias"`
}
