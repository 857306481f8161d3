package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CrearLoteRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	FeCompra   *time.Time      `json:"fe_compra"`
	FeExp      time.Time       `json:"fe_exp"      validate:"required"`
	Cant       int             `json:"cant"        validate:"required,min=1"`
	Costo      decimal.Decimal `json:"costo"       validate:"min=0"`
}

type LoteFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	// Estado filters by derived state: Activo, Vencido, Consumido, Retirado.
	Estado string `form:"estado" validate:"omitempty,oneof=Activo Vencido Consumido Retirado"`
	Paginacion
}

type LoteResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Producto            *RefResponse    `json:"producto,omitempty"`
	FeCompra            *string         `json:"fe_compra"`
	FeExp               string          `json:"fe_exp"`
	Cant                int             `json:"cant"`
	Costo               decimal.Decimal `json:"costo"`
	Retirado            bool            `json:"retirado"`
	Consumido           bool            `json:"consumido"`
	State               string          `json:"state"`
	ServiciosRealizados int             `json:"servicios_realizados"`
	ServiciosRestantes  int             `json:"servicios_restantes"`
}
