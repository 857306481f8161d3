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

// CatalogoService manages product tipos and marcas.
type CatalogoService interface {
	CrearTipo(ctx context.Context, req dto.CrearTipoRequest) (dto.TipoResponse, error)
	ListarTipos(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.TipoResponse], error)
	ActualizarTipo(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoRequest) (dto.TipoResponse, error)
	DesactivarTipo(ctx context.Context, id uuid.UUID) error

	CrearMarca(ctx context.Context, req dto.CrearMarcaRequest) (dto.MarcaResponse, error)
	ListarMarcas(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.MarcaResponse], error)
	ActualizarMarca(ctx context.Context, id uuid.UUID, req dto.ActualizarMarcaRequest) (dto.MarcaResponse, error)
	DesactivarMarca(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	tipos  repository.TipoRepository
	marcas repository.MarcaRepository
}

func NewCatalogoService(tipos repository.TipoRepository, marcas repository.MarcaRepository) CatalogoService {
	return &catalogoService{tipos: tipos, marcas: marcas}
}

func mapTipo(t model.ProductoTipo) dto.TipoResponse {
	return dto.TipoResponse{ID: t.ID, Nombre: t.Nombre, Descripcion: t.Descripcion, Activo: t.Activo}
}

func mapMarca(m model.ProductoMarca) dto.MarcaResponse {
	return dto.MarcaResponse{ID: m.ID, Nombre: m.Nombre, Activo: m.Activo}
}

// nombreDisponible fails when another active row already uses the name.
func nombreDisponible(existingID uuid.UUID, err error, selfID uuid.UUID, msg string) error {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existingID != selfID {
		return invalido("%s", msg)
	}
	return nil
}

func (s *catalogoService) CrearTipo(ctx context.Context, req dto.CrearTipoRequest) (dto.TipoResponse, error) {
	existing, err := s.tipos.FindByNombre(ctx, req.Nombre)
	var existingID uuid.UUID
	if existing != nil {
		existingID = existing.ID
	}
	if err := nombreDisponible(existingID, err, uuid.Nil, "ya existe un tipo con ese nombre"); err != nil {
		return dto.TipoResponse{}, err
	}
	t := &model.ProductoTipo{Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.tipos.Create(ctx, t); err != nil {
		return dto.TipoResponse{}, err
	}
	return mapTipo(*t), nil
}

func (s *catalogoService) ListarTipos(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.TipoResponse], error) {
	list, total, err := s.tipos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TipoResponse, 0, len(list))
	for _, t := range list {
		data = append(data, mapTipo(t))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *catalogoService) ActualizarTipo(ctx context.Context, id uuid.UUID, req dto.ActualizarTipoRequest) (dto.TipoResponse, error) {
	t, err := s.tipos.FindByID(ctx, id)
	if err != nil {
		return dto.TipoResponse{}, noEncontrado(err, "tipo de producto")
	}
	if req.Nombre != nil && *req.Nombre != t.Nombre {
		existing, err := s.tipos.FindByNombre(ctx, *req.Nombre)
		var existingID uuid.UUID
		if existing != nil {
			existingID = existing.ID
		}
		if err := nombreDisponible(existingID, err, id, "ya existe un tipo con ese nombre"); err != nil {
			return dto.TipoResponse{}, err
		}
		t.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		t.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		t.Activo = *req.Activo
	}
	if err := s.tipos.Update(ctx, t); err != nil {
		return dto.TipoResponse{}, err
	}
	return mapTipo(*t), nil
}

func (s *catalogoService) DesactivarTipo(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.tipos.SoftDelete(ctx, id), "tipo de producto")
}

func (s *catalogoService) CrearMarca(ctx context.Context, req dto.CrearMarcaRequest) (dto.MarcaResponse, error) {
	existing, err := s.marcas.FindByNombre(ctx, req.Nombre)
	var existingID uuid.UUID
	if existing != nil {
		existingID = existing.ID
	}
	if err := nombreDisponible(existingID, err, uuid.Nil, "ya existe una marca con ese nombre"); err != nil {
		return dto.MarcaResponse{}, err
	}
	m := &model.ProductoMarca{Nombre: req.Nombre, Activo: true}
	if err := s.marcas.Create(ctx, m); err != nil {
		return dto.MarcaResponse{}, err
	}
	return mapMarca(*m), nil
}

func (s *catalogoService) ListarMarcas(ctx context.Context, filter dto.CatalogoFilter) (*dto.ListResponse[dto.MarcaResponse], error) {
	list, total, err := s.marcas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MarcaResponse, 0, len(list))
	for _, m := range list {
		data = append(data, mapMarca(m))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *catalogoService) ActualizarMarca(ctx context.Context, id uuid.UUID, req dto.ActualizarMarcaRequest) (dto.MarcaResponse, error) {
	m, err := s.marcas.FindByID(ctx, id)
	if err != nil {
		return dto.MarcaResponse{}, noEncontrado(err, "marca")
	}
	if req.Nombre != nil && *req.Nombre != m.Nombre {
		existing, err := s.marcas.FindByNombre(ctx, *req.Nombre)
		var existingID uuid.UUID
		if existing != nil {
			existingID = existing.ID
		}
		if err := nombreDisponible(existingID, err, id, "ya existe una marca con ese nombre"); err != nil {
			return dto.MarcaResponse{}, err
		}
		m.Nombre = *req.Nombre
	}
	if req.Activo != nil {
		m.Activo = *req.Activo
	}
	if err := s.marcas.Update(ctx, m); err != nil {
		return dto.MarcaResponse{}, err
	}
	return mapMarca(*m), nil
}

func (s *catalogoService) DesactivarMarca(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.marcas.SoftDelete(ctx, id), "marca")
}
