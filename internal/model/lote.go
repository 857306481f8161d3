package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lote is a purchased batch of a product. Its remaining uses are never
// stored; they are derived from the active consumption rows on every read.
type Lote struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;index:idx_lotes_producto_fe_exp,priority:1"`
	FeCompra   *time.Time
	FeExp      time.Time       `gorm:"not null;index:idx_lotes_producto_fe_exp,priority:2"`
	Cant       int             `gorm:"not null"`
	Costo      decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	Retirado   bool            `gorm:"not null;default:false"`
	Activo     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (Lote) TableName() string { return "lotes" }
