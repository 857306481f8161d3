package service

import (
	"context"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/stock"

	"github.com/google/uuid"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo   repository.ProductoRepository
	lotes  repository.LoteRepository
	tipos  repository.TipoRepository
	marcas repository.MarcaRepository
}

func NewProductoService(
	repo repository.ProductoRepository,
	lotes repository.LoteRepository,
	tipos repository.TipoRepository,
	marcas repository.MarcaRepository,
) ProductoService {
	return &productoService{repo: repo, lotes: lotes, tipos: tipos, marcas: marcas}
}

// resumenes loads the current balances of the given products and summarises them.
// Products without lots are absent from the map, which reads as a zero Resumen.
func resumenes(ctx context.Context, lotes repository.LoteRepository, ids []uuid.UUID) (map[uuid.UUID]stock.Resumen, error) {
	saldos, err := lotes.Saldos(ctx, ids)
	if err != nil {
		return nil, err
	}
	return stock.ResumirPorProducto(saldos, time.Now()), nil
}

func mapProducto(p model.Producto, r stock.Resumen) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:               p.ID,
		Nombre:           p.Nombre,
		SKU:              p.SKU,
		Precio:           p.Precio,
		UsosEst:          p.UsosEst,
		Activo:           p.Activo,
		Existencias:      r.Existencias,
		UsosRestantes:    r.UsosRestantes,
		PoseeExistencias: r.PoseeExistencias,
	}
	if p.Tipo != nil {
		resp.Tipo = &dto.RefResponse{ID: p.Tipo.ID, Nombre: p.Tipo.Nombre}
	}
	if p.Marca != nil {
		resp.Marca = &dto.RefResponse{ID: p.Marca.ID, Nombre: p.Marca.Nombre}
	}
	return resp
}

func (s *productoService) resolverTipo(ctx context.Context, raw string) (*model.ProductoTipo, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalido("tipo_id inválido")
	}
	t, err := s.tipos.FindByID(ctx, id)
	if err != nil || !t.Activo {
		return nil, invalido("tipo de producto no encontrado")
	}
	return t, nil
}

func (s *productoService) resolverMarca(ctx context.Context, raw string) (*model.ProductoMarca, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalido("marca_id inválido")
	}
	m, err := s.marcas.FindByID(ctx, id)
	if err != nil || !m.Activo {
		return nil, invalido("marca no encontrada")
	}
	return m, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	tipo, err := s.resolverTipo(ctx, req.TipoID)
	if err != nil {
		return nil, err
	}
	p := &model.Producto{
		TipoID:  tipo.ID,
		Nombre:  req.Nombre,
		SKU:     req.SKU,
		Precio:  req.Precio,
		UsosEst: req.UsosEst,
		Activo:  true,
		Tipo:    tipo,
	}
	if req.MarcaID != nil {
		marca, err := s.resolverMarca(ctx, *req.MarcaID)
		if err != nil {
			return nil, err
		}
		p.MarcaID = &marca.ID
		p.Marca = marca
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProducto(*p, stock.Resumen{})
	return &resp, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	res, err := resumenes(ctx, s.lotes, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	resp := mapProducto(*p, res[p.ID])
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ListResponse[dto.ProductoResponse], error) {
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(productos))
	for i, p := range productos {
		ids[i] = p.ID
	}
	res, err := resumenes(ctx, s.lotes, ids)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		data = append(data, mapProducto(p, res[p.ID]))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	if req.TipoID != nil {
		tipo, err := s.resolverTipo(ctx, *req.TipoID)
		if err != nil {
			return nil, err
		}
		p.TipoID, p.Tipo = tipo.ID, tipo
	}
	if req.MarcaID != nil {
		marca, err := s.resolverMarca(ctx, *req.MarcaID)
		if err != nil {
			return nil, err
		}
		p.MarcaID, p.Marca = &marca.ID, marca
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, invalido("el precio no puede ser negativo")
		}
		p.Precio = *req.Precio
	}
	if req.UsosEst != nil {
		p.UsosEst = *req.UsosEst
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.ObtenerPorID(ctx, id)
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "producto")
}
