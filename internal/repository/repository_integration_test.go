//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/infra"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/stock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("antonella_test"),
		tcpostgres.WithUsername("antonella"),
		tcpostgres.WithPassword("antonella"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(dsn, false)
	require.NoError(t, err)
	return db
}

type fixture struct {
	producto model.Producto
	sr       model.ServicioRealizado
}

func seed(t *testing.T, db *gorm.DB, usosEst int) fixture {
	t.Helper()
	tipo := model.ProductoTipo{Nombre: "Tinte", Activo: true}
	require.NoError(t, db.Create(&tipo).Error)
	p := model.Producto{TipoID: tipo.ID, Nombre: "Tinte rubio", UsosEst: usosEst, Activo: true}
	require.NoError(t, db.Omit("Tipo", "Marca").Create(&p).Error)

	personal := model.Personal{Nombre: "Lucía", Apellido: "Vera", Cedula: "0912345678", Activo: true}
	require.NoError(t, db.Create(&personal).Error)
	cliente := model.Cliente{Nombre: "Ana", Apellido: "Mora", Activo: true}
	require.NoError(t, db.Create(&cliente).Error)
	sv := model.Servicio{Nombre: "Tinturado", EncargadoID: personal.ID, Activo: true}
	require.NoError(t, db.Omit("Encargado", "Productos").Create(&sv).Error)
	sr := model.ServicioRealizado{ClienteID: cliente.ID, ServicioID: sv.ID, PersonalID: &personal.ID, Fecha: time.Now(), Activo: true}
	require.NoError(t, db.Omit("Cliente", "Servicio", "Personal", "Productos").Create(&sr).Error)
	return fixture{producto: p, sr: sr}
}

func lote(t *testing.T, db *gorm.DB, p model.Producto, cant int, feExp time.Time) model.Lote {
	t.Helper()
	l := model.Lote{ProductoID: p.ID, FeExp: feExp, Cant: cant, Activo: true}
	require.NoError(t, db.Omit("Producto").Create(&l).Error)
	return l
}

func TestLoteRepo_SaldosYReversion(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 10)
	l := lote(t, db, f.producto, 2, time.Now().AddDate(0, 1, 0))

	lotes := NewLoteRepository(db)
	consumos := NewServicioRealizadoRepository(db)

	require.NoError(t, consumos.CreateConsumoTx(db, &model.ServicioRealizadoProducto{
		ServicioRealizadoID: f.sr.ID, ProductoID: f.producto.ID, LoteID: l.ID, Cantidad: 7, Activo: true,
	}))

	saldos, err := lotes.Saldos(ctx, []uuid.UUID{f.producto.ID})
	require.NoError(t, err)
	require.Len(t, saldos, 1)
	assert.Equal(t, 20, saldos[0].Capacidad)
	assert.Equal(t, 7, saldos[0].Usados)

	var locked []stock.SaldoLote
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		p, err := NewProductoRepository(db).FindByIDForUpdateTx(tx, f.producto.ID)
		if err != nil {
			return err
		}
		locked, err = lotes.SaldosForUpdateTx(tx, p)
		return err
	}))
	require.Len(t, locked, 1)
	assert.Equal(t, l.ID, locked[0].LoteID)
	assert.Equal(t, 20, locked[0].Capacidad)
	assert.Equal(t, 7, locked[0].Usados)

	sr, err := consumos.FindByID(ctx, f.sr.ID)
	require.NoError(t, err)
	require.Len(t, sr.Productos, 1)
	require.NotNil(t, sr.Productos[0].Producto)
	assert.Equal(t, "Tinte rubio", sr.Productos[0].Producto.Nombre)

	require.NoError(t, consumos.SoftDeleteCascade(ctx, f.sr.ID))
	row, err := lotes.FindConSaldo(ctx, l.ID)
	require.NoError(t, err)
	assert.Zero(t, row.Usados)

	_, err = consumos.FindByID(ctx, f.sr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, consumos.SoftDeleteCascade(ctx, f.sr.ID), gorm.ErrRecordNotFound)
}

func TestLoteRepo_ProximosAVencer(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1)
	now := time.Now()

	pronto := lote(t, db, f.producto, 1, now.AddDate(0, 0, 3))
	lote(t, db, f.producto, 1, now.AddDate(0, 0, 30))
	lote(t, db, f.producto, 1, now.AddDate(0, 0, -1))
	agotado := lote(t, db, f.producto, 1, now.AddDate(0, 0, 2))
	retirado := lote(t, db, f.producto, 1, now.AddDate(0, 0, 4))

	lotes := NewLoteRepository(db)
	require.NoError(t, lotes.SetRetirado(ctx, retirado.ID, true))
	require.NoError(t, NewServicioRealizadoRepository(db).CreateConsumoTx(db, &model.ServicioRealizadoProducto{
		ServicioRealizadoID: f.sr.ID, ProductoID: f.producto.ID, LoteID: agotado.ID, Cantidad: 1, Activo: true,
	}))

	rows, err := lotes.ProximosAVencer(ctx, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pronto.ID, rows[0].ID)
	assert.Equal(t, "Tinte rubio", rows[0].ProductoNombre)
}

func TestServicioRealizadoRepo_ListFechas(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := seed(t, db, 1)
	repo := NewServicioRealizadoRepository(db)

	hoy := time.Now().Format("2006-01-02")
	list, total, err := repo.List(ctx, dto.ServicioRealizadoFilter{
		Desde:      hoy,
		Hasta:      hoy,
		ClienteID:  f.sr.ClienteID.String(),
		Paginacion: dto.Paginacion{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Cliente)
	assert.Equal(t, "Ana", list[0].Cliente.Nombre)

	list, total, err = repo.List(ctx, dto.ServicioRealizadoFilter{
		Desde:      time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
		Paginacion: dto.Paginacion{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
