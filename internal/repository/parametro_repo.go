package repository

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParametroRepository interface {
	Create(ctx context.Context, p *model.Parametro) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Parametro, error)
	// FindByCodigo only sees active rows; a deactivated codigo can be reused.
	FindByCodigo(ctx context.Context, codigo string) (*model.Parametro, error)
	List(ctx context.Context, filter dto.ParametroFilter) ([]model.Parametro, int64, error)
	Update(ctx context.Context, p *model.Parametro) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type parametroRepo struct{ db *gorm.DB }

func NewParametroRepository(db *gorm.DB) ParametroRepository { return &parametroRepo{db: db} }

func (r *parametroRepo) Create(ctx context.Context, p *model.Parametro) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *parametroRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Parametro, error) {
	var p model.Parametro
	if err := r.db.WithContext(ctx).Where("id = ? AND activo = true", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *parametroRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Parametro, error) {
	var p model.Parametro
	if err := r.db.WithContext(ctx).Where("codigo = ? AND activo = true", codigo).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *parametroRepo) List(ctx context.Context, filter dto.ParametroFilter) ([]model.Parametro, int64, error) {
	var list []model.Parametro
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Parametro{}).Where("activo = true")
	if filter.Codigo != "" {
		q = q.Where("codigo ILIKE ?", like(filter.Codigo))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("codigo ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

func (r *parametroRepo) Update(ctx context.Context, p *model.Parametro) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *parametroRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.Parametro](ctx, r.db, id)
}
