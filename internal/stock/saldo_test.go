package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEstadoLote_Precedencia(t *testing.T) {
	futuro := ahora.Add(dia)
	pasado := ahora.Add(-dia)

	cases := []struct {
		name      string
		retirado  bool
		feExp     time.Time
		consumido bool
		want      string
	}{
		{"activo", false, futuro, false, EstadoActivo},
		{"consumido", false, futuro, true, EstadoConsumido},
		{"vencido gana a consumido", false, pasado, true, EstadoVencido},
		{"retirado gana a todo", true, pasado, true, EstadoRetirado},
		{"vence hoy mismo", false, ahora, false, EstadoVencido},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EstadoLote(tc.retirado, tc.feExp, tc.consumido, ahora))
		})
	}
}

func TestSaldoLote_Consumido(t *testing.T) {
	assert.False(t, lote(10, 1, 9, dia).Consumido())
	assert.True(t, lote(10, 1, 10, dia).Consumido())
	assert.True(t, lote(10, 1, 12, dia).Consumido())
	assert.False(t, lote(0, 1, 0, dia).Consumido(), "sin capacidad no se considera consumido")
	assert.Equal(t, -2, lote(10, 1, 12, dia).Restantes())
}

func TestResumir(t *testing.T) {
	retirado := lote(4, 3, 0, dia)
	retirado.Retirado = true
	saldos := []SaldoLote{
		lote(4, 2, 3, dia),  // 5 restantes
		lote(4, 1, 4, dia),  // consumido
		lote(4, 5, 0, -dia), // vencido
		retirado,
		lote(4, 1, 1, 3*dia), // 3 restantes
	}

	r := Resumir(saldos, ahora)
	assert.Equal(t, 8, r.UsosRestantes)
	assert.Equal(t, 3, r.Existencias)
	assert.True(t, r.PoseeExistencias)
}

func TestResumir_SinUsosDisponibles(t *testing.T) {
	r := Resumir([]SaldoLote{lote(2, 1, 2, dia), lote(2, 1, 0, -dia)}, ahora)
	assert.Equal(t, Resumen{}, r)
}

func TestResumirPorProducto(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	a := lote(2, 1, 0, dia)
	a.ProductoID = p1
	b := lote(3, 1, 1, dia)
	b.ProductoID = p2
	c := lote(2, 2, 1, dia)
	c.ProductoID = p1

	out := ResumirPorProducto([]SaldoLote{a, b, c}, ahora)
	assert.Len(t, out, 2)
	assert.Equal(t, 5, out[p1].UsosRestantes)
	assert.Equal(t, 3, out[p1].Existencias)
	assert.Equal(t, 2, out[p2].UsosRestantes)
}
