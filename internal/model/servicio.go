package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Servicio is an entry of the service catalog. Productos lists the products
// the service normally consumes.
type Servicio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"size:100;not null"`
	Descripcion  *string         `gorm:"size:225"`
	Precio       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	TiempoEstMin *int
	EncargadoID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Encargado *Personal  `gorm:"foreignKey:EncargadoID"`
	Productos []Producto `gorm:"many2many:servicio_productos"`
}

func (Servicio) TableName() string { return "servicios" }

// ServicioRealizado is one execution of a service for a customer.
type ServicioRealizado struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServicioID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	PersonalID  *uuid.UUID `gorm:"type:uuid;index"`
	Fecha       time.Time  `gorm:"not null"`
	Pagado      bool       `gorm:"not null;default:false"`
	Finalizado  bool       `gorm:"not null;default:false"`
	Observacion *string    `gorm:"size:225"`
	Activo      bool       `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cliente   *Cliente                    `gorm:"foreignKey:ClienteID"`
	Servicio  *Servicio                   `gorm:"foreignKey:ServicioID"`
	Personal  *Personal                   `gorm:"foreignKey:PersonalID"`
	Productos []ServicioRealizadoProducto `gorm:"foreignKey:ServicioRealizadoID"`
}

func (ServicioRealizado) TableName() string { return "servicios_realizados" }

// ServicioRealizadoProducto records that Cantidad uses of a product were
// drawn from Lote during a ServicioRealizado.
type ServicioRealizadoProducto struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServicioRealizadoID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID          uuid.UUID `gorm:"type:uuid;not null;index"`
	LoteID              uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad            int       `gorm:"not null"`
	Activo              bool      `gorm:"not null;default:true"`
	CreatedAt           time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Lote     *Lote     `gorm:"foreignKey:LoteID"`
}

func (ServicioRealizadoProducto) TableName() string { return "servicios_realizados_productos" }
