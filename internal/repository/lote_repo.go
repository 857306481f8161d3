package repository

import (
	"context"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/stock"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoteConSaldo is a lot joined with its product's usos_est and the uses
// already recorded against it by active consumption rows.
type LoteConSaldo struct {
	model.Lote
	ProductoNombre string
	UsosEst        int
	Usados         int
}

// Saldo converts the row into the balance used by the stock rules.
func (l LoteConSaldo) Saldo() stock.SaldoLote {
	return stock.NewSaldoLote(l.ID, l.ProductoID, l.FeExp, l.CreatedAt, l.Cant, l.UsosEst, l.Usados, l.Retirado)
}

// LoteRepository defines data access for lots and their balances.
type LoteRepository interface {
	Create(ctx context.Context, l *model.Lote) error
	FindConSaldo(ctx context.Context, id uuid.UUID) (*LoteConSaldo, error)
	List(ctx context.Context, filter dto.LoteFilter, now time.Time) ([]LoteConSaldo, int64, error)
	SetRetirado(ctx context.Context, id uuid.UUID, retirado bool) error
	// SoftDeleteCascade deactivates the lot and its consumption rows in one transaction.
	SoftDeleteCascade(ctx context.Context, id uuid.UUID) error

	// Saldos returns the balances of every active lot of the given products.
	Saldos(ctx context.Context, productoIDs []uuid.UUID) ([]stock.SaldoLote, error)
	// SaldosForUpdateTx locks the product's active lots in FEFO order and
	// returns their balances as seen inside tx.
	SaldosForUpdateTx(tx *gorm.DB, p *model.Producto) ([]stock.SaldoLote, error)
	// ProximosAVencer lists eligible lots with remaining uses whose fe_exp falls in (now, hasta].
	ProximosAVencer(ctx context.Context, now, hasta time.Time) ([]LoteConSaldo, error)

	DB() *gorm.DB
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) DB() *gorm.DB { return r.db }

const usadosPorLote = `LEFT JOIN (
	SELECT lote_id, SUM(cantidad) AS usados
	FROM servicios_realizados_productos
	WHERE activo = true
	GROUP BY lote_id
) u ON u.lote_id = l.id`

const columnasSaldo = "l.*, p.nombre AS producto_nombre, p.usos_est, COALESCE(u.usados, 0) AS usados"

// conSaldo is the base query every balance read starts from.
func (r *loteRepo) conSaldo(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("lotes AS l").
		Joins("JOIN productos p ON p.id = l.producto_id").
		Joins(usadosPorLote).
		Where("l.activo = true")
}

func (r *loteRepo) Create(ctx context.Context, l *model.Lote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *loteRepo) FindConSaldo(ctx context.Context, id uuid.UUID) (*LoteConSaldo, error) {
	var rows []LoteConSaldo
	err := r.conSaldo(ctx).Select(columnasSaldo).Where("l.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *loteRepo) List(ctx context.Context, filter dto.LoteFilter, now time.Time) ([]LoteConSaldo, int64, error) {
	var rows []LoteConSaldo
	var total int64

	q := r.conSaldo(ctx)
	if filter.ProductoID != "" {
		q = q.Where("l.producto_id = ?", filter.ProductoID)
	}
	switch filter.Estado {
	case stock.EstadoRetirado:
		q = q.Where("l.retirado = true")
	case stock.EstadoVencido:
		q = q.Where("l.retirado = false AND l.fe_exp <= ?", now)
	case stock.EstadoConsumido:
		q = q.Where("l.retirado = false AND l.fe_exp > ? AND p.usos_est * l.cant > 0 AND COALESCE(u.usados, 0) >= p.usos_est * l.cant", now)
	case stock.EstadoActivo:
		q = q.Where("l.retirado = false AND l.fe_exp > ? AND (p.usos_est * l.cant = 0 OR COALESCE(u.usados, 0) < p.usos_est * l.cant)", now)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Select(columnasSaldo).
		Order("l.fe_exp ASC, l.created_at ASC, l.id ASC").
		Limit(filter.Limit).Offset(filter.Offset()).
		Scan(&rows).Error
	return rows, total, err
}

func (r *loteRepo) SetRetirado(ctx context.Context, id uuid.UUID, retirado bool) error {
	res := r.db.WithContext(ctx).Model(&model.Lote{}).
		Where("id = ? AND activo = true", id).
		Update("retirado", retirado)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *loteRepo) SoftDeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Lote{}).Where("id = ? AND activo = true", id).Update("activo", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.ServicioRealizadoProducto{}).
			Where("lote_id = ? AND activo = true", id).
			Update("activo", false).Error
	})
}

func (r *loteRepo) Saldos(ctx context.Context, productoIDs []uuid.UUID) ([]stock.SaldoLote, error) {
	if len(productoIDs) == 0 {
		return nil, nil
	}
	var rows []LoteConSaldo
	err := r.conSaldo(ctx).Select(columnasSaldo).
		Where("l.producto_id IN ?", productoIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	saldos := make([]stock.SaldoLote, 0, len(rows))
	for _, row := range rows {
		saldos = append(saldos, row.Saldo())
	}
	return saldos, nil
}

type usadosRow struct {
	LoteID uuid.UUID
	Usados int
}

func (r *loteRepo) SaldosForUpdateTx(tx *gorm.DB, p *model.Producto) ([]stock.SaldoLote, error) {
	var lotes []model.Lote
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ? AND activo = true", p.ID).
		Order("fe_exp ASC, created_at ASC, id ASC").
		Find(&lotes).Error
	if err != nil || len(lotes) == 0 {
		return nil, err
	}

	ids := make([]uuid.UUID, len(lotes))
	for i, l := range lotes {
		ids[i] = l.ID
	}
	var usados []usadosRow
	err = tx.Model(&model.ServicioRealizadoProducto{}).
		Select("lote_id, SUM(cantidad) AS usados").
		Where("activo = true AND lote_id IN ?", ids).
		Group("lote_id").
		Scan(&usados).Error
	if err != nil {
		return nil, err
	}
	porLote := make(map[uuid.UUID]int, len(usados))
	for _, u := range usados {
		porLote[u.LoteID] = u.Usados
	}

	saldos := make([]stock.SaldoLote, len(lotes))
	for i, l := range lotes {
		saldos[i] = stock.NewSaldoLote(l.ID, l.ProductoID, l.FeExp, l.CreatedAt, l.Cant, p.UsosEst, porLote[l.ID], l.Retirado)
	}
	return saldos, nil
}

func (r *loteRepo) ProximosAVencer(ctx context.Context, now, hasta time.Time) ([]LoteConSaldo, error) {
	var rows []LoteConSaldo
	err := r.conSaldo(ctx).Select(columnasSaldo).
		Where("p.activo = true AND l.retirado = false").
		Where("l.fe_exp > ? AND l.fe_exp <= ?", now, hasta).
		Where("COALESCE(u.usados, 0) < p.usos_est * l.cant").
		Order("l.fe_exp ASC").
		Scan(&rows).Error
	return rows, err
}
