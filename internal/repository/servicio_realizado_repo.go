package repository

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServicioRealizadoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, sr *model.ServicioRealizado) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServicioRealizado, error)
	// FindByIDForUpdateTx locks the active record so a concurrent delete waits
	// for the allocation that adds rows to it.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ServicioRealizado, error)
	List(ctx context.Context, filter dto.ServicioRealizadoFilter) ([]model.ServicioRealizado, int64, error)
	Update(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error
	// SoftDeleteCascade deactivates the record and every consumption row it owns.
	SoftDeleteCascade(ctx context.Context, id uuid.UUID) error

	// CreateConsumoTx records one lot draw inside the allocation transaction.
	CreateConsumoTx(tx *gorm.DB, c *model.ServicioRealizadoProducto) error
	FindConsumo(ctx context.Context, servicioRealizadoID, consumoID uuid.UUID) (*model.ServicioRealizadoProducto, error)
	SoftDeleteConsumo(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type servicioRealizadoRepo struct{ db *gorm.DB }

func NewServicioRealizadoRepository(db *gorm.DB) ServicioRealizadoRepository {
	return &servicioRealizadoRepo{db: db}
}

func (r *servicioRealizadoRepo) DB() *gorm.DB { return r.db }

func (r *servicioRealizadoRepo) Create(ctx context.Context, tx *gorm.DB, sr *model.ServicioRealizado) error {
	return tx.WithContext(ctx).Omit(clause.Associations).Create(sr).Error
}

func (r *servicioRealizadoRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Cliente").Preload("Servicio").Preload("Personal").
		Preload("Productos", func(db *gorm.DB) *gorm.DB {
			return db.Where("activo = true").Order("created_at ASC")
		}).
		Preload("Productos.Producto")
}

func (r *servicioRealizadoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServicioRealizado, error) {
	var sr model.ServicioRealizado
	err := r.preloaded(ctx).Where("id = ? AND activo = true", id).First(&sr).Error
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *servicioRealizadoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ServicioRealizado, error) {
	var sr model.ServicioRealizado
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND activo = true", id).
		First(&sr).Error
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *servicioRealizadoRepo) List(ctx context.Context, filter dto.ServicioRealizadoFilter) ([]model.ServicioRealizado, int64, error) {
	var list []model.ServicioRealizado
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ServicioRealizado{}).Where("activo = true")
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.ServicioID != "" {
		q = q.Where("servicio_id = ?", filter.ServicioID)
	}
	if filter.Desde != "" {
		q = q.Where("DATE(fecha) >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("DATE(fecha) <= ?", filter.Hasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ids []uuid.UUID
	err := q.Order("fecha DESC").Limit(filter.Limit).Offset(filter.Offset()).Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return nil, total, err
	}
	err = r.preloaded(ctx).Where("id IN ?", ids).Order("fecha DESC").Find(&list).Error
	return list, total, err
}

func (r *servicioRealizadoRepo) Update(ctx context.Context, id uuid.UUID, campos map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.ServicioRealizado{}).
		Where("id = ? AND activo = true", id).
		Updates(campos).Error
}

func (r *servicioRealizadoRepo) SoftDeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ServicioRealizado{}).Where("id = ? AND activo = true", id).Update("activo", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&model.ServicioRealizadoProducto{}).
			Where("servicio_realizado_id = ? AND activo = true", id).
			Update("activo", false).Error
	})
}

func (r *servicioRealizadoRepo) CreateConsumoTx(tx *gorm.DB, c *model.ServicioRealizadoProducto) error {
	return tx.Omit(clause.Associations).Create(c).Error
}

func (r *servicioRealizadoRepo) FindConsumo(ctx context.Context, servicioRealizadoID, consumoID uuid.UUID) (*model.ServicioRealizadoProducto, error) {
	var c model.ServicioRealizadoProducto
	err := r.db.WithContext(ctx).
		Where("id = ? AND servicio_realizado_id = ? AND activo = true", consumoID, servicioRealizadoID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *servicioRealizadoRepo) SoftDeleteConsumo(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.ServicioRealizadoProducto](ctx, r.db, id)
}
