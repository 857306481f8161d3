package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductoTipo classifies products (tinte, shampoo, esmalte...).
type ProductoTipo struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"size:50;not null"`
	Descripcion *string   `gorm:"size:225"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ProductoTipo) TableName() string { return "producto_tipos" }

// ProductoMarca is the brand of a product.
type ProductoMarca struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"size:50;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProductoMarca) TableName() string { return "producto_marcas" }

// Producto is an item consumed by services. UsosEst is the estimated number
// of uses a single purchased unit yields; a lot holds UsosEst*Cant uses.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	MarcaID   *uuid.UUID      `gorm:"type:uuid;index"`
	Nombre    string          `gorm:"size:50;index;not null"`
	SKU       *string         `gorm:"column:sku;size:25"`
	Precio    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	UsosEst   int             `gorm:"not null;default:0"`
	Activo    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tipo  *ProductoTipo  `gorm:"foreignKey:TipoID"`
	Marca *ProductoMarca `gorm:"foreignKey:MarcaID"`
}

func (Producto) TableName() string { return "productos" }
