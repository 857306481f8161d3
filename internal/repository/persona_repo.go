package repository

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, filter dto.PersonaFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type PersonalRepository interface {
	Create(ctx context.Context, p *model.Personal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Personal, error)
	FindByCedula(ctx context.Context, cedula string) (*model.Personal, error)
	List(ctx context.Context, filter dto.PersonaFilter) ([]model.Personal, int64, error)
	Update(ctx context.Context, p *model.Personal) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// listPersonas runs the shared nombre/apellido search used by clientes and personal.
func listPersonas[T any](ctx context.Context, db *gorm.DB, filter dto.PersonaFilter) ([]T, int64, error) {
	var list []T
	var total int64
	q := db.WithContext(ctx).Model(new(T)).Where("activo = true")
	if filter.Buscar != "" {
		q = q.Where("(nombre || ' ' || apellido) ILIKE ?", like(filter.Buscar))
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("apellido ASC, nombre ASC").Limit(filter.Limit).Offset(filter.Offset()).Find(&list).Error
	return list, total, err
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	return findByID[model.Cliente](ctx, r.db, id)
}

func (r *clienteRepo) List(ctx context.Context, filter dto.PersonaFilter) ([]model.Cliente, int64, error) {
	return listPersonas[model.Cliente](ctx, r.db, filter)
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.Cliente](ctx, r.db, id)
}

type personalRepo struct{ db *gorm.DB }

func NewPersonalRepository(db *gorm.DB) PersonalRepository { return &personalRepo{db: db} }

func (r *personalRepo) Create(ctx context.Context, p *model.Personal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *personalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Personal, error) {
	return findByID[model.Personal](ctx, r.db, id)
}

func (r *personalRepo) FindByCedula(ctx context.Context, cedula string) (*model.Personal, error) {
	var p model.Personal
	if err := r.db.WithContext(ctx).Where("cedula = ? AND activo = true", cedula).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *personalRepo) List(ctx context.Context, filter dto.PersonaFilter) ([]model.Personal, int64, error) {
	return listPersonas[model.Personal](ctx, r.db, filter)
}

func (r *personalRepo) Update(ctx context.Context, p *model.Personal) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *personalRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete[model.Personal](ctx, r.db, id)
}
