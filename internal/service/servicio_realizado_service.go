package service

import (
	"bytes"
	"context"
	"math"
	"sort"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/stock"
	"github.com/KenthE710/antonella-management-server/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AlertaNotifier queues stock alerts; *worker.Dispatcher satisfies it.
type AlertaNotifier interface {
	EnqueueStockBajo(ctx context.Context, p worker.StockBajoPayload) error
}

type ServicioRealizadoService interface {
	Registrar(ctx context.Context, req dto.RegistrarServicioRealizadoRequest) (*dto.ServicioRealizadoResponse, error)
	AgregarProducto(ctx context.Context, id uuid.UUID, req dto.ProductoUsoRequest) (*dto.ServicioRealizadoResponse, error)
	QuitarProducto(ctx context.Context, id, consumoID uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ServicioRealizadoResponse, error)
	Listar(ctx context.Context, filter dto.ServicioRealizadoFilter) (*dto.ListResponse[dto.ServicioRealizadoResponse], error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRealizadoRequest) (*dto.ServicioRealizadoResponse, error)
	// Eliminar deactivates the record and its consumption rows, which gives
	// the drawn uses back to their lots.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type servicioRealizadoService struct {
	repo       repository.ServicioRealizadoRepository
	inventario InventarioService
	productos  repository.ProductoRepository
	lotes      repository.LoteRepository
	clientes   repository.ClienteRepository
	servicios  repository.ServicioRepository
	personal   repository.PersonalRepository
	alertas    AlertaNotifier
	umbral     int
}

// NewServicioRealizadoService wires the service. alertas may be nil; a
// negative umbral disables low-stock alerts.
func NewServicioRealizadoService(
	repo repository.ServicioRealizadoRepository,
	inventario InventarioService,
	productos repository.ProductoRepository,
	lotes repository.LoteRepository,
	clientes repository.ClienteRepository,
	servicios repository.ServicioRepository,
	personal repository.PersonalRepository,
	alertas AlertaNotifier,
	umbral int,
) ServicioRealizadoService {
	return &servicioRealizadoService{
		repo:       repo,
		inventario: inventario,
		productos:  productos,
		lotes:      lotes,
		clientes:   clientes,
		servicios:  servicios,
		personal:   personal,
		alertas:    alertas,
		umbral:     umbral,
	}
}

func nombreCompleto(nombre, apellido string) string { return nombre + " " + apellido }

func mapServicioRealizado(sr model.ServicioRealizado) dto.ServicioRealizadoResponse {
	resp := dto.ServicioRealizadoResponse{
		ID:                  sr.ID,
		Fecha:               formatFecha(sr.Fecha),
		Pagado:              sr.Pagado,
		Finalizado:          sr.Finalizado,
		Observacion:         sr.Observacion,
		ProductosUtilizados: make([]dto.ConsumoResponse, 0, len(sr.Productos)),
	}
	if sr.Cliente != nil {
		resp.Cliente = &dto.RefResponse{ID: sr.Cliente.ID, Nombre: nombreCompleto(sr.Cliente.Nombre, sr.Cliente.Apellido)}
	}
	if sr.Servicio != nil {
		resp.Servicio = &dto.RefResponse{ID: sr.Servicio.ID, Nombre: sr.Servicio.Nombre}
	}
	if sr.Personal != nil {
		resp.Personal = &dto.RefResponse{ID: sr.Personal.ID, Nombre: nombreCompleto(sr.Personal.Nombre, sr.Personal.Apellido)}
	}
	for _, c := range sr.Productos {
		cr := dto.ConsumoResponse{ID: c.ID, LoteID: c.LoteID, Cantidad: c.Cantidad}
		if c.Producto != nil {
			cr.Producto = &dto.RefResponse{ID: c.Producto.ID, Nombre: c.Producto.Nombre}
		}
		resp.ProductosUtilizados = append(resp.ProductosUtilizados, cr)
	}
	return resp
}

type usoProducto struct {
	productoID uuid.UUID
	cantidad   int
}

// maxUsosPorProducto caps a merged quantity; anything above it can only end
// as insufficient stock.
const maxUsosPorProducto = math.MaxInt32

// agruparUsos validates each requested quantity, merges repeated products and
// orders the result by product id so every transaction locks products in the
// same order.
func agruparUsos(reqs []dto.ProductoUsoRequest) ([]usoProducto, error) {
	totales := make(map[uuid.UUID]int, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.ProductoID)
		if err != nil {
			return nil, invalido("producto_id inválido: %s", r.ProductoID)
		}
		if err := stock.ValidarCantidad(r.Cantidad); err != nil {
			return nil, err
		}
		totales[id] = min(totales[id]+min(r.Cantidad, maxUsosPorProducto), maxUsosPorProducto)
	}
	usos := make([]usoProducto, 0, len(totales))
	for id, q := range totales {
		usos = append(usos, usoProducto{productoID: id, cantidad: q})
	}
	sort.Slice(usos, func(i, j int) bool {
		return bytes.Compare(usos[i].productoID[:], usos[j].productoID[:]) < 0
	})
	return usos, nil
}

func (s *servicioRealizadoService) Registrar(ctx context.Context, req dto.RegistrarServicioRealizadoRequest) (*dto.ServicioRealizadoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, invalido("cliente_id inválido")
	}
	servicioID, err := uuid.Parse(req.ServicioID)
	if err != nil {
		return nil, invalido("servicio_id inválido")
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil || !cliente.Activo {
		return nil, invalido("cliente no encontrado")
	}
	servicio, err := s.servicios.FindByID(ctx, servicioID)
	if err != nil || !servicio.Activo {
		return nil, invalido("servicio no encontrado")
	}

	personalID := servicio.EncargadoID
	if req.PersonalID != nil {
		id, err := uuid.Parse(*req.PersonalID)
		if err != nil {
			return nil, invalido("personal_id inválido")
		}
		personalID = id
	}
	if p, err := s.personal.FindByID(ctx, personalID); err != nil || !p.Activo {
		return nil, invalido("personal no encontrado")
	}

	usos, err := agruparUsos(req.Productos)
	if err != nil {
		return nil, err
	}

	fecha := time.Now()
	if req.Fecha != nil {
		fecha = *req.Fecha
	}

	var srID uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sr := &model.ServicioRealizado{
			ClienteID:   clienteID,
			ServicioID:  servicioID,
			PersonalID:  &personalID,
			Fecha:       fecha,
			Pagado:      req.Pagado,
			Finalizado:  req.Finalizado,
			Observacion: req.Observacion,
			Activo:      true,
		}
		if err := s.repo.Create(ctx, tx, sr); err != nil {
			return err
		}
		for _, u := range usos {
			if _, err := s.inventario.AsignarTx(ctx, tx, sr.ID, u.productoID, u.cantidad); err != nil {
				return err
			}
		}
		srID = sr.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	ids := make([]uuid.UUID, len(usos))
	for i, u := range usos {
		ids[i] = u.productoID
	}
	s.alertarStockBajo(ctx, ids)

	return s.Obtener(ctx, srID)
}

func (s *servicioRealizadoService) AgregarProducto(ctx context.Context, id uuid.UUID, req dto.ProductoUsoRequest) (*dto.ServicioRealizadoResponse, error) {
	usos, err := agruparUsos([]dto.ProductoUsoRequest{req})
	if err != nil {
		return nil, err
	}
	u := usos[0]
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Locked before the product and lots; Eliminar takes the same row first.
		if _, err := s.repo.FindByIDForUpdateTx(tx, id); err != nil {
			return noEncontrado(err, "servicio realizado")
		}
		_, err := s.inventario.AsignarTx(ctx, tx, id, u.productoID, u.cantidad)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}
	s.alertarStockBajo(ctx, []uuid.UUID{u.productoID})
	return s.Obtener(ctx, id)
}

func (s *servicioRealizadoService) QuitarProducto(ctx context.Context, id, consumoID uuid.UUID) error {
	c, err := s.repo.FindConsumo(ctx, id, consumoID)
	if err != nil {
		return noEncontrado(err, "producto del servicio realizado")
	}
	return noEncontrado(s.repo.SoftDeleteConsumo(ctx, c.ID), "producto del servicio realizado")
}

func (s *servicioRealizadoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ServicioRealizadoResponse, error) {
	sr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "servicio realizado")
	}
	resp := mapServicioRealizado(*sr)
	return &resp, nil
}

func (s *servicioRealizadoService) Listar(ctx context.Context, filter dto.ServicioRealizadoFilter) (*dto.ListResponse[dto.ServicioRealizadoResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ServicioRealizadoResponse, 0, len(list))
	for _, sr := range list {
		data = append(data, mapServicioRealizado(sr))
	}
	resp := dto.NewListResponse(data, total, filter.Paginacion)
	return &resp, nil
}

func (s *servicioRealizadoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarServicioRealizadoRequest) (*dto.ServicioRealizadoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err, "servicio realizado")
	}
	campos := map[string]interface{}{}
	if req.PersonalID != nil {
		pid, err := uuid.Parse(*req.PersonalID)
		if err != nil {
			return nil, invalido("personal_id inválido")
		}
		if p, err := s.personal.FindByID(ctx, pid); err != nil || !p.Activo {
			return nil, invalido("personal no encontrado")
		}
		campos["personal_id"] = pid
	}
	if req.Fecha != nil {
		campos["fecha"] = *req.Fecha
	}
	if req.Pagado != nil {
		campos["pagado"] = *req.Pagado
	}
	if req.Finalizado != nil {
		campos["finalizado"] = *req.Finalizado
	}
	if req.Observacion != nil {
		campos["observacion"] = *req.Observacion
	}
	if len(campos) > 0 {
		if err := s.repo.Update(ctx, id, campos); err != nil {
			return nil, err
		}
	}
	return s.Obtener(ctx, id)
}

func (s *servicioRealizadoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDeleteCascade(ctx, id), "servicio realizado")
}

// alertarStockBajo runs after commit. Failures are logged and never undo the allocation.
func (s *servicioRealizadoService) alertarStockBajo(ctx context.Context, productoIDs []uuid.UUID) {
	if s.alertas == nil || s.umbral < 0 || len(productoIDs) == 0 {
		return
	}
	res, err := resumenes(ctx, s.lotes, productoIDs)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo calcular el stock para alertas")
		return
	}
	for _, id := range productoIDs {
		r := res[id]
		if r.UsosRestantes > s.umbral {
			continue
		}
		nombre := id.String()
		if p, err := s.productos.FindByID(ctx, id); err == nil {
			nombre = p.Nombre
		}
		payload := worker.StockBajoPayload{
			ProductoID:    id.String(),
			Producto:      nombre,
			UsosRestantes: r.UsosRestantes,
			Existencias:   r.Existencias,
			Umbral:        s.umbral,
		}
		if err := s.alertas.EnqueueStockBajo(ctx, payload); err != nil {
			log.Warn().Err(err).Str("producto_id", id.String()).Msg("no se pudo encolar alerta de stock bajo")
		}
	}
}
