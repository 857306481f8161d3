package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNoEncontrado marks lookups of missing or deactivated records.
	ErrNoEncontrado = errors.New("no encontrado")
	// ErrValidacion marks business rule violations on the request.
	ErrValidacion = errors.New("solicitud inválida")
)

// noEncontrado translates gorm.ErrRecordNotFound into ErrNoEncontrado with a readable subject.
func noEncontrado(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNoEncontrado, entidad)
	}
	return err
}

func invalido(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidacion, fmt.Sprintf(format, args...))
}
