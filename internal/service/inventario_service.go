package service

import (
	"context"
	"errors"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/stock"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService manages lots and draws uses from them.
type InventarioService interface {
	CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error)
	ObtenerLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	ListarLotes(ctx context.Context, filter dto.LoteFilter) (*dto.ListResponse[dto.LoteResponse], error)
	RetirarLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	EliminarLote(ctx context.Context, id uuid.UUID) error
	ObtenerExistencias(ctx context.Context, productoID uuid.UUID) (*dto.ExistenciasResponse, error)

	// AsignarTx draws cantidad uses of a product for a ServicioRealizado,
	// soonest-expiring lot first. It must run inside tx: the product row and
	// its lots stay locked until the caller commits, and one consumption row
	// is written per lot touched.
	AsignarTx(ctx context.Context, tx *gorm.DB, servicioRealizadoID, productoID uuid.UUID, cantidad int) ([]stock.Asignacion, error)
}

type inventarioService struct {
	productos repository.ProductoRepository
	lotes     repository.LoteRepository
	consumos  repository.ServicioRealizadoRepository
}

func NewInventarioService(
	productos repository.ProductoRepository,
	lotes repository.LoteRepository,
	consumos repository.ServicioRealizadoRepository,
) InventarioService {
	return &inventarioService{productos: productos, lotes: lotes, consumos: consumos}
}

func formatFecha(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func mapLote(l repository.LoteConSaldo, now time.Time) dto.LoteResponse {
	saldo := l.Saldo()
	resp := dto.LoteResponse{
		ID:                  l.ID,
		Producto:            &dto.RefResponse{ID: l.ProductoID, Nombre: l.ProductoNombre},
		FeExp:               formatFecha(l.FeExp),
		Cant:                l.Cant,
		Costo:               l.Costo,
		Retirado:            l.Retirado,
		Consumido:           saldo.Consumido(),
		State:               saldo.Estado(now),
		ServiciosRealizados: l.Usados,
		ServiciosRestantes:  saldo.Restantes(),
	}
	if l.FeCompra != nil {
		s := formatFecha(*l.FeCompra)
		resp.FeCompra = &s
	}
	return resp
}

func (s *inventarioService) CrearLote(ctx context.Context, req dto.CrearLoteRequest) (*dto.LoteResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, invalido("producto_id inválido")
	}
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	if !p.Activo {
		return nil, invalido("el producto %s está inactivo", p.Nombre)
	}
	if req.FeCompra != nil && req.FeExp.Before(*req.FeCompra) {
		return nil, invalido("la fecha de expiración no puede ser anterior a la de compra")
	}

	l := &model.Lote{
		ProductoID: p.ID,
		FeCompra:   req.FeCompra,
		FeExp:      req.FeExp,
		Cant:       req.Cant,
		Costo:      req.Costo,
		Activo:     true,
	}
	if err := s.lotes.Create(ctx, l); err != nil {
		return nil, err
	}
	return s.ObtenerLote(ctx, l.ID)
}

func (s *inventarioService) ObtenerLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	l, err := s.lotes.FindConSaldo(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "lote")
	}
	resp := mapLote(*l, time.Now())
	return &resp, nil
}

func (s *inventarioService) ListarLotes(ctx context.Context, filter dto.LoteFilter) (*dto.ListResponse[dto.LoteResponse], error) {
	now := time.Now()
	rows, total, err := s.lotes.List(ctx, filter, now)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LoteResponse, 0, len(rows))
	for _, l := range rows {
		data = append(data, mapLote(l, now))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *inventarioService) RetirarLote(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	if err := s.lotes.SetRetirado(ctx, id, true); err != nil {
		return nil, noEncontrado(err, "lote")
	}
	return s.ObtenerLote(ctx, id)
}

func (s *inventarioService) EliminarLote(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.lotes.SoftDeleteCascade(ctx, id), "lote")
}

func (s *inventarioService) ObtenerExistencias(ctx context.Context, productoID uuid.UUID) (*dto.ExistenciasResponse, error) {
	if _, err := s.productos.FindByID(ctx, productoID); err != nil {
		return nil, noEncontrado(err, "producto")
	}
	saldos, err := s.lotes.Saldos(ctx, []uuid.UUID{productoID})
	if err != nil {
		return nil, err
	}
	r := stock.Resumir(saldos, time.Now())
	return &dto.ExistenciasResponse{
		ProductoID:       productoID,
		Existencias:      r.Existencias,
		UsosRestantes:    r.UsosRestantes,
		PoseeExistencias: r.PoseeExistencias,
	}, nil
}

func (s *inventarioService) AsignarTx(ctx context.Context, tx *gorm.DB, servicioRealizadoID, productoID uuid.UUID, cantidad int) ([]stock.Asignacion, error) {
	if err := stock.ValidarCantidad(cantidad); err != nil {
		return nil, err
	}

	p, err := s.productos.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	if !p.Activo {
		return nil, invalido("el producto %s está inactivo", p.Nombre)
	}

	saldos, err := s.lotes.SaldosForUpdateTx(tx, p)
	if err != nil {
		return nil, err
	}
	asignaciones, err := stock.Asignar(saldos, cantidad, time.Now())
	if err != nil {
		if errors.Is(err, stock.ErrStockInsuficiente) || errors.Is(err, stock.ErrSinLotesDisponibles) {
			return nil, &StockError{Producto: p.Nombre, Err: err}
		}
		return nil, err
	}

	for _, a := range asignaciones {
		c := &model.ServicioRealizadoProducto{
			ServicioRealizadoID: servicioRealizadoID,
			ProductoID:          p.ID,
			LoteID:              a.LoteID,
			Cantidad:            a.Cantidad,
			Activo:              true,
		}
		if err := s.consumos.CreateConsumoTx(tx, c); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Str("producto_id", p.ID.String()).
		Str("servicio_realizado_id", servicioRealizadoID.String()).
		Int("cantidad", cantidad).
		Int("lotes", len(asignaciones)).
		Msg("usos asignados")
	return asignaciones, nil
}

// StockError names the product whose stock could not cover an allocation.
type StockError struct {
	Producto string
	Err      error
}

func (e *StockError) Error() string { return e.Err.Error() + " para " + e.Producto }

func (e *StockError) Unwrap() error { return e.Err }
