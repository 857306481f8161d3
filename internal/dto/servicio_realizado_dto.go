package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProductoUsoRequest asks for Cantidad uses of a product.
type ProductoUsoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"`
}

type RegistrarServicioRealizadoRequest struct {
	ClienteID   string               `json:"cliente_id"  validate:"required,uuid"`
	ServicioID  string               `json:"servicio_id" validate:"required,uuid"`
	PersonalID  *string              `json:"personal_id" validate:"omitempty,uuid"`
	Fecha       *time.Time           `json:"fecha"`
	Pagado      bool                 `json:"pagado"`
	Finalizado  bool                 `json:"finalizado"`
	Observacion *string              `json:"observacion" validate:"omitempty,max=225"`
	Productos   []ProductoUsoRequest `json:"productos"   validate:"dive"`
}

type ActualizarServicioRealizadoRequest struct {
	PersonalID  *string    `json:"personal_id" validate:"omitempty,uuid"`
	Fecha       *time.Time `json:"fecha"`
	Pagado      *bool      `json:"pagado"`
	Finalizado  *bool      `json:"finalizado"`
	Observacion *string    `json:"observacion" validate:"omitempty,max=225"`
}

type ServicioRealizadoFilter struct {
	ClienteID  string `form:"cliente_id"  validate:"omitempty,uuid"`
	ServicioID string `form:"servicio_id" validate:"omitempty,uuid"`
	Desde      string `form:"desde"       validate:"omitempty,datetime=2006-01-02"`
	Hasta      string `form:"hasta"       validate:"omitempty,datetime=2006-01-02"`
	Paginacion
}

type ConsumoResponse struct {
	ID       uuid.UUID    `json:"id"`
	Producto *RefResponse `json:"producto"`
	LoteID   uuid.UUID    `json:"lote"`
	Cantidad int          `json:"cantidad"`
}

type ServicioRealizadoResponse struct {
	ID                  uuid.UUID         `json:"id"`
	Cliente             *RefResponse      `json:"cliente"`
	Servicio            *RefResponse      `json:"servicio"`
	Personal            *RefResponse      `json:"personal"`
	Fecha               string            `json:"fecha"`
	Pagado              bool              `json:"pagado"`
	Finalizado          bool              `json:"finalizado"`
	Observacion         *string           `json:"observacion"`
	ProductosUtilizados []ConsumoResponse `json:"productos_utilizados"`
}
