package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func lote(usosEst, cant, usados int, venceEn time.Duration) SaldoLote {
	return NewSaldoLote(uuid.New(), uuid.Nil, ahora.Add(venceEn), ahora.Add(-time.Hour), cant, usosEst, usados, false)
}

const dia = 24 * time.Hour

func TestAsignar_DivideEntreLotesPorVencimiento(t *testing.T) {
	// usos_est=10, lote A vence en 5 días y lote B en 10 días
	a := lote(10, 1, 0, 5*dia)
	b := lote(10, 1, 0, 10*dia)

	asignaciones, err := Asignar([]SaldoLote{b, a}, 15, ahora)
	require.NoError(t, err)
	require.Len(t, asignaciones, 2)
	assert.Equal(t, Asignacion{LoteID: a.LoteID, Cantidad: 10}, asignaciones[0])
	assert.Equal(t, Asignacion{LoteID: b.LoteID, Cantidad: 5}, asignaciones[1])

	a.Usados += 10
	b.Usados += 5
	r := Resumir([]SaldoLote{a, b}, ahora)
	assert.Equal(t, 5, r.UsosRestantes)
	assert.True(t, r.PoseeExistencias)
	assert.Equal(t, 1, r.Existencias, "A está consumido, solo cuenta B")
}

func TestAsignar_UnSoloLoteAlcanza(t *testing.T) {
	a := lote(5, 2, 3, 2*dia)
	b := lote(5, 2, 0, 30*dia)

	asignaciones, err := Asignar([]SaldoLote{a, b}, 7, ahora)
	require.NoError(t, err)
	require.Len(t, asignaciones, 1)
	assert.Equal(t, a.LoteID, asignaciones[0].LoteID)
	assert.Equal(t, 7, asignaciones[0].Cantidad)
}

func TestAsignar_CantidadInvalida(t *testing.T) {
	for _, q := range []int{0, -1, -50} {
		asignaciones, err := Asignar([]SaldoLote{lote(10, 1, 0, dia)}, q, ahora)
		assert.ErrorIs(t, err, ErrCantidadInvalida)
		assert.Nil(t, asignaciones)
	}
}

func TestAsignar_StockInsuficiente(t *testing.T) {
	saldos := []SaldoLote{lote(10, 1, 4, dia), lote(10, 1, 0, 2*dia)}

	asignaciones, err := Asignar(saldos, 17, ahora)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
	assert.ErrorContains(t, err, "quedan 16")
	assert.Nil(t, asignaciones)
}

func TestAsignar_SinLotes(t *testing.T) {
	_, err := Asignar(nil, 1, ahora)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestAsignar_IgnoraLotesNoElegibles(t *testing.T) {
	vencido := lote(10, 1, 0, -dia)
	retirado := lote(10, 1, 0, dia)
	retirado.Retirado = true
	consumido := lote(10, 1, 10, 2*dia)
	valido := lote(10, 1, 0, 20*dia)

	asignaciones, err := Asignar([]SaldoLote{vencido, retirado, consumido, valido}, 3, ahora)
	require.NoError(t, err)
	require.Len(t, asignaciones, 1)
	assert.Equal(t, valido.LoteID, asignaciones[0].LoteID)

	_, err = Asignar([]SaldoLote{vencido, retirado, consumido, valido}, 11, ahora)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestAsignar_VenceExactamenteAhoraNoEsElegible(t *testing.T) {
	s := lote(10, 1, 0, 0)
	assert.False(t, s.Elegible(ahora))
	_, err := Asignar([]SaldoLote{s}, 1, ahora)
	assert.ErrorIs(t, err, ErrStockInsuficiente)
}

func TestAsignar_ConservaLaCantidadYRespetaCapacidad(t *testing.T) {
	saldos := []SaldoLote{
		lote(3, 2, 1, 3*dia),
		lote(3, 1, 0, dia),
		lote(3, 4, 5, 7*dia),
		lote(3, 1, 2, 4*dia),
	}
	total := Resumir(saldos, ahora).UsosRestantes

	for q := 1; q <= total; q++ {
		asignaciones, err := Asignar(saldos, q, ahora)
		require.NoError(t, err, "q=%d", q)
		assert.Equal(t, q, Total(asignaciones))

		restantes := make(map[uuid.UUID]int)
		for _, s := range saldos {
			restantes[s.LoteID] = s.Restantes()
		}
		for _, a := range asignaciones {
			assert.Positive(t, a.Cantidad)
			assert.LessOrEqual(t, a.Cantidad, restantes[a.LoteID])
		}
	}
}

func TestAsignar_EmpateDeVencimientoPorCreacion(t *testing.T) {
	exp := ahora.Add(5 * dia)
	viejo := NewSaldoLote(uuid.New(), uuid.Nil, exp, ahora.Add(-48*time.Hour), 1, 4, 0, false)
	nuevo := NewSaldoLote(uuid.New(), uuid.Nil, exp, ahora.Add(-time.Hour), 1, 4, 0, false)

	asignaciones, err := Asignar([]SaldoLote{nuevo, viejo}, 6, ahora)
	require.NoError(t, err)
	require.Len(t, asignaciones, 2)
	assert.Equal(t, viejo.LoteID, asignaciones[0].LoteID)
	assert.Equal(t, 4, asignaciones[0].Cantidad)
	assert.Equal(t, nuevo.LoteID, asignaciones[1].LoteID)
}

func TestAsignar_NoModificaLaEntrada(t *testing.T) {
	saldos := []SaldoLote{lote(1, 1, 0, 9*dia), lote(1, 1, 0, dia)}
	primero := saldos[0].LoteID

	_, err := Asignar(saldos, 2, ahora)
	require.NoError(t, err)
	assert.Equal(t, primero, saldos[0].LoteID)
	assert.Zero(t, saldos[0].Usados)
}
