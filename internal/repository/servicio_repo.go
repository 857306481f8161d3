package repository

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServicioRepository interface {
	Create(ctx context.Context, s *model.Servicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error)
	List(ctx context.Context, filter dto.ServicioFilter) ([]model.Servicio, int64, error)
	// Update saves the scalar columns and, when productos is non-nil, replaces the linked products.
	Update(ctx context.Context, s *model.Servicio, productos []model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type servicioRepo struct{ db *gorm.DB }

func NewServicioRepository(db *gorm.DB) ServicioRepository { return &servicioRepo{db: db} }

func (r *servicioRepo) Create(ctx context.Context, s *model.Servicio) error {
	return r.db.WithContext(ctx).Omit("Encargado", "Productos.*").Create(s).Error
}

func (r *servicioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Servicio, error) {
	return findByID[model.Servicio](ctx, r.db, id, "Encargado", "Productos", "Productos.Tipo", "Productos.Marca")
}

func (r *servicioRepo) List(ctx context.Context, filter dto.ServicioFilter) ([]model.Servicio, int64, error) {
	var list []model.Servicio
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Servicio{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", like(filter.Nombre))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Encargado").Preload("Productos").Preload("Productos.Tipo").Preload("Productos.Marca").
		Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).
		Find(&list).Error
	return list, total, err
}

func (r *servicioRepo) Update(ctx context.Context, s *model.Servicio, productos []model.Producto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(s).Error; err != nil {
			return err
		}
		if productos == nil {
			return nil
		}
		return tx.Model(s).Omit("Productos.*").Association("Productos").Replace(productos)
	})
}

func (r *servicioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.Servicio](ctx, r.db, id)
}
