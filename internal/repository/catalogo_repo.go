package repository

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TipoRepository defines CRUD operations for ProductoTipo.
type TipoRepository interface {
	Create(ctx context.Context, t *model.ProductoTipo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoTipo, error)
	FindByNombre(ctx context.Context, nombre string) (*model.ProductoTipo, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoTipo, int64, error)
	Update(ctx context.Context, t *model.ProductoTipo) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// MarcaRepository defines CRUD operations for ProductoMarca.
type MarcaRepository interface {
	Create(ctx context.Context, m *model.ProductoMarca) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoMarca, error)
	FindByNombre(ctx context.Context, nombre string) (*model.ProductoMarca, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoMarca, int64, error)
	Update(ctx context.Context, m *model.ProductoMarca) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type tipoRepo struct{ db *gorm.DB }

func NewTipoRepository(db *gorm.DB) TipoRepository { return &tipoRepo{db: db} }

func (r *tipoRepo) Create(ctx context.Context, t *model.ProductoTipo) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoTipo, error) {
	return findByID[model.ProductoTipo](ctx, r.db, id)
}

func (r *tipoRepo) FindByNombre(ctx context.Context, nombre string) (*model.ProductoTipo, error) {
	var t model.ProductoTipo
	err := r.db.WithContext(ctx).Where("lower(nombre) = lower(?) AND activo = true", nombre).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoTipo, int64, error) {
	var list []model.ProductoTipo
	var total int64
	q := r.db.WithContext(ctx).Model(&model.ProductoTipo{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", like(filter.Nombre))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *tipoRepo) Update(ctx context.Context, t *model.ProductoTipo) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.ProductoTipo](ctx, r.db, id)
}

type marcaRepo struct{ db *gorm.DB }

func NewMarcaRepository(db *gorm.DB) MarcaRepository { return &marcaRepo{db: db} }

func (r *marcaRepo) Create(ctx context.Context, m *model.ProductoMarca) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *marcaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoMarca, error) {
	return findByID[model.ProductoMarca](ctx, r.db, id)
}

func (r *marcaRepo) FindByNombre(ctx context.Context, nombre string) (*model.ProductoMarca, error) {
	var m model.ProductoMarca
	err := r.db.WithContext(ctx).Where("lower(nombre) = lower(?) AND activo = true", nombre).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *marcaRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.ProductoMarca, int64, error) {
	var list []model.ProductoMarca
	var total int64
	q := r.db.WithContext(ctx).Model(&model.ProductoMarca{}).Where("activo = true")
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", like(filter.Nombre))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *marcaRepo) Update(ctx context.Context, m *model.ProductoMarca) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *marcaRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.ProductoMarca](ctx, r.db, id)
}
