package service

import (
	"context"
	"errors"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParametroService interface {
	Crear(ctx context.Context, req dto.CrearParametroRequest) (dto.ParametroResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (dto.ParametroResponse, error)
	Listar(ctx context.Context, filter dto.ParametroFilter) (*dto.ListResponse[dto.ParametroResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarParametroRequest) (dto.ParametroResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type parametroService struct{ repo repository.ParametroRepository }

func NewParametroService(repo repository.ParametroRepository) ParametroService {
	return &parametroService{repo: repo}
}

func mapParametro(p model.Parametro) dto.ParametroResponse {
	return dto.ParametroResponse{ID: p.ID, Codigo: p.Codigo, Valor: p.Valor, Descripcion: p.Descripcion, Activo: p.Activo}
}

// codigoLibre fails when another active parametro already uses codigo.
func (s *parametroService) codigoLibre(ctx context.Context, codigo string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByCodigo(ctx, codigo)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return invalido("ya existe un parámetro con el código %s", codigo)
	}
	return nil
}

func (s *parametroService) Crear(ctx context.Context, req dto.CrearParametroRequest) (dto.ParametroResponse, error) {
	if err := s.codigoLibre(ctx, req.Codigo, uuid.Nil); err != nil {
		return dto.ParametroResponse{}, err
	}
	p := &model.Parametro{Codigo: req.Codigo, Valor: req.Valor, Descripcion: req.Descripcion, Activo: true}
	if err := s.repo.Create(ctx, p); err != nil {
		return dto.ParametroResponse{}, err
	}
	return mapParametro(*p), nil
}

func (s *parametroService) Obtener(ctx context.Context, id uuid.UUID) (dto.ParametroResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ParametroResponse{}, noEncontrado(err, "parámetro")
	}
	return mapParametro(*p), nil
}

func (s *parametroService) Listar(ctx context.Context, filter dto.ParametroFilter) (*dto.ListResponse[dto.ParametroResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ParametroResponse, 0, len(list))
	for _, p := range list {
		data = append(data, mapParametro(p))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *parametroService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarParametroRequest) (dto.ParametroResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ParametroResponse{}, noEncontrado(err, "parámetro")
	}
	if req.Codigo != nil && *req.Codigo != p.Codigo {
		if err := s.codigoLibre(ctx, *req.Codigo, id); err != nil {
			return dto.ParametroResponse{}, err
		}
		p.Codigo = *req.Codigo
	}
	if req.Valor != nil {
		p.Valor = req.Valor
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return dto.ParametroResponse{}, err
	}
	return mapParametro(*p), nil
}

func (s *parametroService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "parámetro")
}
