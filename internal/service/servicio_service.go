package service

import (
	"context"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/stock"

	"github.com/google/uuid"
)

type ServicioService interface {
	Crear(ctx context.Context, req dto.CrearServicioRequest) (*dto.ServicioResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ServicioResponse, error)
	Listar(ctx context.Context, filter dto.ServicioFilter) (*dto.ListResponse[dto.ServicioResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRequest) (*dto.ServicioResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type servicioService struct {
	repo      repository.ServicioRepository
	productos repository.ProductoRepository
	personal  repository.PersonalRepository
	lotes     repository.LoteRepository
}

func NewServicioService(
	repo repository.ServicioRepository,
	productos repository.ProductoRepository,
	personal repository.PersonalRepository,
	lotes repository.LoteRepository,
) ServicioService {
	return &servicioService{repo: repo, productos: productos, personal: personal, lotes: lotes}
}

// mapServicio fills disponibilidad: true unless a linked product has no stock.
func mapServicio(s model.Servicio, res map[uuid.UUID]stock.Resumen) dto.ServicioResponse {
	resp := dto.ServicioResponse{
		ID:             s.ID,
		Nombre:         s.Nombre,
		Descripcion:    s.Descripcion,
		Precio:         s.Precio,
		TiempoEstMin:   s.TiempoEstMin,
		Productos:      make([]dto.ProductoResponse, 0, len(s.Productos)),
		Disponibilidad: true,
		Activo:         s.Activo,
	}
	if s.Encargado != nil {
		resp.Encargado = &dto.RefResponse{ID: s.Encargado.ID, Nombre: nombreCompleto(s.Encargado.Nombre, s.Encargado.Apellido)}
	}
	for _, p := range s.Productos {
		r := res[p.ID]
		if !r.PoseeExistencias {
			resp.Disponibilidad = false
		}
		resp.Productos = append(resp.Productos, mapProducto(p, r))
	}
	return resp
}

func productoIDs(servicios ...model.Servicio) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, s := range servicios {
		for _, p := range s.Productos {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}

func (s *servicioService) resolverProductos(ctx context.Context, raw []string) ([]model.Producto, error) {
	productos := make([]model.Producto, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, invalido("producto inválido: %s", r)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := s.productos.FindByID(ctx, id)
		if err != nil || !p.Activo {
			return nil, invalido("producto no encontrado: %s", r)
		}
		productos = append(productos, *p)
	}
	return productos, nil
}

func (s *servicioService) resolverEncargado(ctx context.Context, raw string) (*model.Personal, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalido("encargado_id inválido")
	}
	p, err := s.personal.FindByID(ctx, id)
	if err != nil || !p.Activo {
		return nil, invalido("encargado no encontrado")
	}
	return p, nil
}

func (s *servicioService) Crear(ctx context.Context, req dto.CrearServicioRequest) (*dto.ServicioResponse, error) {
	encargado, err := s.resolverEncargado(ctx, req.EncargadoID)
	if err != nil {
		return nil, err
	}
	productos, err := s.resolverProductos(ctx, req.ProductoIDs)
	if err != nil {
		return nil, err
	}
	sv := &model.Servicio{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Precio:       req.Precio,
		TiempoEstMin: req.TiempoEstMin,
		EncargadoID:  encargado.ID,
		Activo:       true,
		Productos:    productos,
	}
	if err := s.repo.Create(ctx, sv); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, sv.ID)
}

func (s *servicioService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "servicio")
	}
	res, err := resumenes(ctx, s.lotes, productoIDs(*sv))
	if err != nil {
		return nil, err
	}
	resp := mapServicio(*sv, res)
	return &resp, nil
}

func (s *servicioService) Listar(ctx context.Context, filter dto.ServicioFilter) (*dto.ListResponse[dto.ServicioResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	res, err := resumenes(ctx, s.lotes, productoIDs(list...))
	if err != nil {
		return nil, err
	}
	data := make([]dto.ServicioResponse, 0, len(list))
	for _, sv := range list {
		data = append(data, mapServicio(sv, res))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *servicioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRequest) (*dto.ServicioResponse, error) {
	sv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "servicio")
	}
	if req.Nombre != nil {
		sv.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		sv.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, invalido("el precio no puede ser negativo")
		}
		sv.Precio = *req.Precio
	}
	if req.TiempoEstMin != nil {
		sv.TiempoEstMin = req.TiempoEstMin
	}
	if req.EncargadoID != nil {
		encargado, err := s.resolverEncargado(ctx, *req.EncargadoID)
		if err != nil {
			return nil, err
		}
		sv.EncargadoID = encargado.ID
	}
	var productos []model.Producto
	if req.ProductoIDs != nil {
		if productos, err = s.resolverProductos(ctx, *req.ProductoIDs); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, sv, productos); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *servicioService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "servicio")
}
