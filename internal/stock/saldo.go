// Package stock holds the lot arithmetic of the inventory: how many uses a
// lot still has, which lots may be consumed, the per-product aggregates and
// the FEFO allocation of a requested quantity. It performs no I/O; callers
// load the balances (usually under row locks) and persist the result.
package stock

import (
	"time"

	"github.com/google/uuid"
)

// Estados de un lote.
const (
	EstadoActivo    = "Activo"
	EstadoVencido   = "Vencido"
	EstadoConsumido = "Consumido"
	EstadoRetirado  = "Retirado"
)

// SaldoLote is the balance of one lot at a point in time.
// Capacidad is producto.usos_est * lote.cant and Usados is the sum of the
// active consumption rows that reference the lot.
type SaldoLote struct {
	LoteID     uuid.UUID
	ProductoID uuid.UUID
	FeExp      time.Time
	CreatedAt  time.Time
	Cant       int
	Capacidad  int
	Usados     int
	Retirado   bool
}

// NewSaldoLote builds a balance from the raw lot columns.
func NewSaldoLote(loteID, productoID uuid.UUID, feExp, createdAt time.Time, cant, usosEst, usados int, retirado bool) SaldoLote {
	return SaldoLote{
		LoteID:     loteID,
		ProductoID: productoID,
		FeExp:      feExp,
		CreatedAt:  createdAt,
		Cant:       cant,
		Capacidad:  usosEst * cant,
		Usados:     usados,
		Retirado:   retirado,
	}
}

// Restantes may be negative when historical data over-allocated the lot.
func (s SaldoLote) Restantes() int {
	return s.Capacidad - s.Usados
}

// Elegible reports whether the lot can be consumed at now.
func (s SaldoLote) Elegible(now time.Time) bool {
	return !s.Retirado && s.FeExp.After(now)
}

// Consumido is true once every use of a lot with capacity has been taken.
func (s SaldoLote) Consumido() bool {
	return s.Capacidad > 0 && s.Restantes() <= 0
}

// Estado returns the display state of the lot.
func (s SaldoLote) Estado(now time.Time) string {
	return EstadoLote(s.Retirado, s.FeExp, s.Consumido(), now)
}

// EstadoLote resolves the state with precedence Retirado > Vencido > Consumido > Activo.
func EstadoLote(retirado bool, feExp time.Time, consumido bool, now time.Time) string {
	switch {
	case retirado:
		return EstadoRetirado
	case !feExp.After(now):
		return EstadoVencido
	case consumido:
		return EstadoConsumido
	default:
		return EstadoActivo
	}
}

// Resumen holds the derived stock aggregates of a product.
type Resumen struct {
	Existencias      int
	UsosRestantes    int
	PoseeExistencias bool
}

// Resumir computes the aggregates over the balances of a single product.
// Only eligible lots contribute.
func Resumir(saldos []SaldoLote, now time.Time) Resumen {
	var r Resumen
	for _, s := range saldos {
		if !s.Elegible(now) {
			continue
		}
		r.UsosRestantes += s.Restantes()
		if s.Restantes() > 0 {
			r.PoseeExistencias = true
		}
		if !s.Consumido() {
			r.Existencias += s.Cant
		}
	}
	return r
}

// ResumirPorProducto groups balances by product and summarises each group.
func ResumirPorProducto(saldos []SaldoLote, now time.Time) map[uuid.UUID]Resumen {
	grupos := make(map[uuid.UUID][]SaldoLote)
	for _, s := range saldos {
		grupos[s.ProductoID] = append(grupos[s.ProductoID], s)
	}
	out := make(map[uuid.UUID]Resumen, len(grupos))
	for id, g := range grupos {
		out[id] = Resumir(g, now)
	}
	return out
}
