package model

import (
	"time"

	"github.com/google/uuid"
)

// Parametro is a named setting kept in the database (codigo -> valor).
type Parametro struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"size:25;not null;index"`
	Valor       *string   `gorm:"size:100"`
	Descripcion *string   `gorm:"size:225"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Parametro) TableName() string { return "parametros" }
