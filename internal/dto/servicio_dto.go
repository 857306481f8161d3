package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CrearServicioRequest struct {
	Nombre       string          `json:"nombre"         validate:"required,min=2,max=100"`
	Descripcion  *string         `json:"descripcion"    validate:"omitempty,max=225"`
	Precio       decimal.Decimal `json:"precio"         validate:"min=0"`
	TiempoEstMin *int            `json:"tiempo_est_min" validate:"omitempty,min=1"`
	EncargadoID  string          `json:"encargado_id"   validate:"required,uuid"`
	ProductoIDs  []string        `json:"productos"      validate:"dive,uuid"`
}

type ActualizarServicioRequest struct {
	Nombre       *string          `json:"nombre"         validate:"omitempty,min=2,max=100"`
	Descripcion  *string          `json:"descripcion"    validate:"omitempty,max=225"`
	Precio       *decimal.Decimal `json:"precio"`
	TiempoEstMin *int             `json:"tiempo_est_min" validate:"omitempty,min=1"`
	EncargadoID  *string          `json:"encargado_id"   validate:"omitempty,uuid"`
	// ProductoIDs replaces the whole product list when present.
	ProductoIDs *[]string `json:"productos" validate:"omitempty,dive,uuid"`
}

type ServicioFilter struct {
	Nombre string `form:"nombre"`
	Paginacion
}

type ServicioResponse struct {
	ID             uuid.UUID          `json:"id"`
	Nombre         string             `json:"nombre"`
	Descripcion    *string            `json:"descripcion"`
	Precio         decimal.Decimal    `json:"precio"`
	TiempoEstMin   *int               `json:"tiempo_est_min"`
	Encargado      *RefResponse       `json:"encargado"`
	Productos      []ProductoResponse `json:"productos"`
	Disponibilidad bool               `json:"disponibilidad"`
	Activo         bool               `json:"activo"`
}
