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

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.ClienteResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type PersonalService interface {
	Crear(ctx context.Context, req dto.CrearPersonalRequest) (dto.PersonalResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.PersonalResponse, error)
	Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.PersonalResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPersonalRequest) (dto.PersonalResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct{ repo repository.ClienteRepository }

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func mapCliente(c model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{ID: c.ID, Nombre: c.Nombre, Apellido: c.Apellido, Activo: c.Activo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (dto.ClienteResponse, error) {
	c := &model.Cliente{Nombre: req.Nombre, Apellido: req.Apellido, Activo: true}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.ClienteResponse{}, err
	}
	return mapCliente(*c), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ClienteResponse{}, noEncontrado(err, "cliente")
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.ClienteResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(list))
	for _, c := range list {
		data = append(data, mapCliente(c))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.ClienteResponse{}, noEncontrado(err, "cliente")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		c.Apellido = *req.Apellido
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.ClienteResponse{}, err
	}
	return mapCliente(*c), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "cliente")
}

type personalService struct{ repo repository.PersonalRepository }

func NewPersonalService(repo repository.PersonalRepository) PersonalService {
	return &personalService{repo: repo}
}

func mapPersonal(p model.Personal) dto.PersonalResponse {
	return dto.PersonalResponse{ID: p.ID, Nombre: p.Nombre, Apellido: p.Apellido, Cedula: p.Cedula, Activo: p.Activo}
}

func (s *personalService) cedulaLibre(ctx context.Context, cedula string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return invalido("ya existe personal con la cédula %s", cedula)
	}
	return nil
}

func (s *personalService) Crear(ctx context.Context, req dto.CrearPersonalRequest) (dto.PersonalResponse, error) {
	if err := s.cedulaLibre(ctx, req.Cedula, uuid.Nil); err != nil {
		return dto.PersonalResponse{}, err
	}
	p := &model.Personal{Nombre: req.Nombre, Apellido: req.Apellido, Cedula: req.Cedula, Activo: true}
	if err := s.repo.Create(ctx, p); err != nil {
		return dto.PersonalResponse{}, err
	}
	return mapPersonal(*p), nil
}

func (s *personalService) ObtenerPorID(ctx context.Context, id uuid.UUID) (dto.PersonalResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.PersonalResponse{}, noEncontrado(err, "personal")
	}
	return mapPersonal(*p), nil
}

func (s *personalService) Listar(ctx context.Context, filter dto.PersonaFilter) (*dto.ListResponse[dto.PersonalResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PersonalResponse, 0, len(list))
	for _, p := range list {
		data = append(data, mapPersonal(p))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *personalService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPersonalRequest) (dto.PersonalResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.PersonalResponse{}, noEncontrado(err, "personal")
	}
	if req.Cedula != nil && *req.Cedula != p.Cedula {
		if err := s.cedulaLibre(ctx, *req.Cedula, id); err != nil {
			return dto.PersonalResponse{}, err
		}
		p.Cedula = *req.Cedula
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Apellido != nil {
		p.Apellido = *req.Apellido
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return dto.PersonalResponse{}, err
	}
	return mapPersonal(*p), nil
}

func (s *personalService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "personal")
}
