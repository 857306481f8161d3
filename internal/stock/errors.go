package stock

import "errors"

var (
	// ErrCantidadInvalida is returned when the requested quantity is below one use.
	ErrCantidadInvalida = errors.New("la cantidad debe ser mayor a 0")
	// ErrStockInsuficiente is returned when the product's remaining uses cannot cover the request.
	ErrStockInsuficiente = errors.New("no hay stock suficiente")
	// ErrSinLotesDisponibles is returned when the eligible lots run out before the request is covered.
	ErrSinLotesDisponibles = errors.New("no hay lotes disponibles")
)
