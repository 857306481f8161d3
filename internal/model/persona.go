package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a customer of the salon.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"size:50;not null"`
	Apellido  string    `gorm:"size:50;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Personal is a staff member.
type Personal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"size:50;not null"`
	Apellido  string    `gorm:"size:50;not null"`
	Cedula    string    `gorm:"size:10;not null;index"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName avoids GORM's English pluralization (personals).
func (Personal) TableName() string { return "personal" }
