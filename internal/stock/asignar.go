package stock

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Asignacion is the quantity taken from one lot.
type Asignacion struct {
	LoteID   uuid.UUID
	Cantidad int
}

// ValidarCantidad rejects quantities below one use.
func ValidarCantidad(cantidad int) error {
	if cantidad < 1 {
		return fmt.Errorf("%w: %d", ErrCantidadInvalida, cantidad)
	}
	return nil
}

// Asignar distributes cantidad uses over the eligible lots of one product,
// soonest expiry first, splitting across lots when one is not enough.
// The input slice is not modified. On error no assignment is returned.
func Asignar(saldos []SaldoLote, cantidad int, now time.Time) ([]Asignacion, error) {
	if err := ValidarCantidad(cantidad); err != nil {
		return nil, err
	}

	resumen := Resumir(saldos, now)
	if resumen.UsosRestantes < cantidad {
		return nil, fmt.Errorf("%w: se requieren %d usos y quedan %d", ErrStockInsuficiente, cantidad, resumen.UsosRestantes)
	}

	candidatos := make([]SaldoLote, 0, len(saldos))
	for _, s := range saldos {
		if s.Elegible(now) && s.Restantes() > 0 {
			candidatos = append(candidatos, s)
		}
	}
	OrdenarFEFO(candidatos)

	var asignaciones []Asignacion
	pendiente := cantidad
	for _, s := range candidatos {
		if pendiente == 0 {
			break
		}
		tomar := min(pendiente, s.Restantes())
		asignaciones = append(asignaciones, Asignacion{LoteID: s.LoteID, Cantidad: tomar})
		pendiente -= tomar
	}
	if pendiente > 0 {
		return nil, fmt.Errorf("%w: faltan %d usos", ErrSinLotesDisponibles, pendiente)
	}
	return asignaciones, nil
}

// OrdenarFEFO sorts by expiry date, then creation time, then id so the
// order is total and matches the order in which lot rows are locked.
func OrdenarFEFO(saldos []SaldoLote) {
	sort.SliceStable(saldos, func(i, j int) bool {
		a, b := saldos[i], saldos[j]
		if !a.FeExp.Equal(b.FeExp) {
			return a.FeExp.Before(b.FeExp)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.LoteID[:], b.LoteID[:]) < 0
	})
}

// Total sums the quantities of a set of assignments.
func Total(asignaciones []Asignacion) int {
	n := 0
	for _, a := range asignaciones {
		n += a.Cantidad
	}
	return n
}
