package service_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/model"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/stock"
	"github.com/KenthE710/antonella-management-server/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory store shared by the repository stubs ──────────────────────────

// memStore plays the database. Stubs return gorm.ErrRecordNotFound for
// missing rows so the services translate errors the same way as in
// production. DB() is nil, so runTx calls fn(nil) directly.
type memStore struct {
	tipos      map[uuid.UUID]*model.ProductoTipo
	marcas     map[uuid.UUID]*model.ProductoMarca
	productos  map[uuid.UUID]*model.Producto
	lotes      map[uuid.UUID]*model.Lote
	clientes   map[uuid.UUID]*model.Cliente
	personal   map[uuid.UUID]*model.Personal
	servicios  map[uuid.UUID]*model.Servicio
	realizados map[uuid.UUID]*model.ServicioRealizado
	consumos   map[uuid.UUID]*model.ServicioRealizadoProducto
	parametros map[uuid.UUID]*model.Parametro

	// failConsumoAfter makes CreateConsumoTx fail once this many rows exist.
	failConsumoAfter int
	locked           []uuid.UUID
	// bloqueos records every row lock in the order it was taken.
	bloqueos []string
}

func newMemStore() *memStore {
	return &memStore{
		tipos:            make(map[uuid.UUID]*model.ProductoTipo),
		marcas:           make(map[uuid.UUID]*model.ProductoMarca),
		productos:        make(map[uuid.UUID]*model.Producto),
		lotes:            make(map[uuid.UUID]*model.Lote),
		clientes:         make(map[uuid.UUID]*model.Cliente),
		personal:         make(map[uuid.UUID]*model.Personal),
		servicios:        make(map[uuid.UUID]*model.Servicio),
		realizados:       make(map[uuid.UUID]*model.ServicioRealizado),
		consumos:         make(map[uuid.UUID]*model.ServicioRealizadoProducto),
		parametros:       make(map[uuid.UUID]*model.Parametro),
		failConsumoAfter: -1,
	}
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *memStore) usados(loteID uuid.UUID) int {
	total := 0
	for _, c := range s.consumos {
		if c.Activo && c.LoteID == loteID {
			total += c.Cantidad
		}
	}
	return total
}

func (s *memStore) conSaldo(l *model.Lote) repository.LoteConSaldo {
	p := s.productos[l.ProductoID]
	return repository.LoteConSaldo{Lote: *l, ProductoNombre: p.Nombre, UsosEst: p.UsosEst, Usados: s.usados(l.ID)}
}

// saldos returns active lots of the product sorted by fe_exp, created_at, id,
// as the locking query does.
func (s *memStore) saldos(productoID uuid.UUID) []stock.SaldoLote {
	var out []stock.SaldoLote
	for _, l := range s.lotes {
		if l.Activo && l.ProductoID == productoID {
			out = append(out, s.conSaldo(l).Saldo())
		}
	}
	stock.OrdenarFEFO(out)
	return out
}

// ── Seed helpers ─────────────────────────────────────────────────────────────

func (s *memStore) addProducto(nombre string, usosEst int) *model.Producto {
	tipo := &model.ProductoTipo{ID: uuid.New(), Nombre: "Tinte", Activo: true}
	s.tipos[tipo.ID] = tipo
	p := &model.Producto{ID: uuid.New(), TipoID: tipo.ID, Tipo: tipo, Nombre: nombre, UsosEst: usosEst, Activo: true}
	s.productos[p.ID] = p
	return p
}

func (s *memStore) addLote(p *model.Producto, cant int, feExp time.Time) *model.Lote {
	l := &model.Lote{ID: uuid.New(), ProductoID: p.ID, FeExp: feExp, Cant: cant, Activo: true, CreatedAt: time.Now()}
	s.lotes[l.ID] = l
	return l
}

func (s *memStore) addPersonal(nombre string) *model.Personal {
	p := &model.Personal{ID: uuid.New(), Nombre: nombre, Apellido: "Vera", Cedula: "0102030405", Activo: true}
	s.personal[p.ID] = p
	return p
}

func (s *memStore) addCliente(nombre string) *model.Cliente {
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre, Apellido: "Mora", Activo: true}
	s.clientes[c.ID] = c
	return c
}

func (s *memStore) addServicio(nombre string, encargado *model.Personal, productos ...*model.Producto) *model.Servicio {
	sv := &model.Servicio{ID: uuid.New(), Nombre: nombre, EncargadoID: encargado.ID, Encargado: encargado, Activo: true}
	for _, p := range productos {
		sv.Productos = append(sv.Productos, *p)
	}
	s.servicios[sv.ID] = sv
	return sv
}

func (s *memStore) consumosDe(srID uuid.UUID) []model.ServicioRealizadoProducto {
	var out []model.ServicioRealizadoProducto
	for _, c := range s.consumos {
		if c.Activo && c.ServicioRealizadoID == srID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct{ st *memStore }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	newID(&p.ID)
	r.st.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.st.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.st.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.st.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.productos[id]
	if !ok || !p.Activo {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	r.st.locked = append(r.st.locked, id)
	r.st.bloqueos = append(r.st.bloqueos, "producto")
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

// ── LoteRepository ───────────────────────────────────────────────────────────

type stubLoteRepo struct{ st *memStore }

var _ repository.LoteRepository = (*stubLoteRepo)(nil)

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	newID(&l.ID)
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	r.st.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) FindConSaldo(_ context.Context, id uuid.UUID) (*repository.LoteConSaldo, error) {
	l, ok := r.st.lotes[id]
	if !ok || !l.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	row := r.st.conSaldo(l)
	return &row, nil
}

func (r *stubLoteRepo) List(_ context.Context, filter dto.LoteFilter, now time.Time) ([]repository.LoteConSaldo, int64, error) {
	var out []repository.LoteConSaldo
	for _, l := range r.st.lotes {
		if !l.Activo || (filter.ProductoID != "" && l.ProductoID.String() != filter.ProductoID) {
			continue
		}
		row := r.st.conSaldo(l)
		if filter.Estado != "" && row.Saldo().Estado(now) != filter.Estado {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func (r *stubLoteRepo) SetRetirado(_ context.Context, id uuid.UUID, retirado bool) error {
	l, ok := r.st.lotes[id]
	if !ok || !l.Activo {
		return gorm.ErrRecordNotFound
	}
	l.Retirado = retirado
	return nil
}

func (r *stubLoteRepo) SoftDeleteCascade(_ context.Context, id uuid.UUID) error {
	l, ok := r.st.lotes[id]
	if !ok || !l.Activo {
		return gorm.ErrRecordNotFound
	}
	l.Activo = false
	for _, c := range r.st.consumos {
		if c.LoteID == id {
			c.Activo = false
		}
	}
	return nil
}

func (r *stubLoteRepo) Saldos(_ context.Context, productoIDs []uuid.UUID) ([]stock.SaldoLote, error) {
	var out []stock.SaldoLote
	for _, id := range productoIDs {
		out = append(out, r.st.saldos(id)...)
	}
	return out, nil
}

func (r *stubLoteRepo) SaldosForUpdateTx(_ *gorm.DB, p *model.Producto) ([]stock.SaldoLote, error) {
	return r.st.saldos(p.ID), nil
}

func (r *stubLoteRepo) ProximosAVencer(_ context.Context, now, hasta time.Time) ([]repository.LoteConSaldo, error) {
	var out []repository.LoteConSaldo
	for _, l := range r.st.lotes {
		row := r.st.conSaldo(l)
		if l.Activo && row.Saldo().Elegible(now) && !l.FeExp.After(hasta) && row.Saldo().Restantes() > 0 {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) DB() *gorm.DB { return nil }

// ── ServicioRealizadoRepository ──────────────────────────────────────────────

type stubSRRepo struct{ st *memStore }

var _ repository.ServicioRealizadoRepository = (*stubSRRepo)(nil)

func (r *stubSRRepo) Create(_ context.Context, _ *gorm.DB, sr *model.ServicioRealizado) error {
	newID(&sr.ID)
	r.st.realizados[sr.ID] = sr
	return nil
}

func (r *stubSRRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ServicioRealizado, error) {
	sr, ok := r.st.realizados[id]
	if !ok || !sr.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sr
	cp.Cliente = r.st.clientes[sr.ClienteID]
	cp.Servicio = r.st.servicios[sr.ServicioID]
	if sr.PersonalID != nil {
		cp.Personal = r.st.personal[*sr.PersonalID]
	}
	cp.Productos = r.st.consumosDe(id)
	for i := range cp.Productos {
		cp.Productos[i].Producto = r.st.productos[cp.Productos[i].ProductoID]
	}
	return &cp, nil
}

func (r *stubSRRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ServicioRealizado, error) {
	sr, ok := r.st.realizados[id]
	if !ok || !sr.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	r.st.bloqueos = append(r.st.bloqueos, "servicio_realizado")
	return sr, nil
}

func (r *stubSRRepo) List(ctx context.Context, _ dto.ServicioRealizadoFilter) ([]model.ServicioRealizado, int64, error) {
	var out []model.ServicioRealizado
	for id, sr := range r.st.realizados {
		if sr.Activo {
			full, _ := r.FindByID(ctx, id)
			out = append(out, *full)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubSRRepo) Update(_ context.Context, id uuid.UUID, campos map[string]interface{}) error {
	sr, ok := r.st.realizados[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := campos["pagado"]; ok {
		sr.Pagado = v.(bool)
	}
	if v, ok := campos["finalizado"]; ok {
		sr.Finalizado = v.(bool)
	}
	if v, ok := campos["personal_id"]; ok {
		pid := v.(uuid.UUID)
		sr.PersonalID = &pid
	}
	return nil
}

func (r *stubSRRepo) SoftDeleteCascade(_ context.Context, id uuid.UUID) error {
	sr, ok := r.st.realizados[id]
	if !ok || !sr.Activo {
		return gorm.ErrRecordNotFound
	}
	sr.Activo = false
	for _, c := range r.st.consumos {
		if c.ServicioRealizadoID == id {
			c.Activo = false
		}
	}
	return nil
}

func (r *stubSRRepo) CreateConsumoTx(_ *gorm.DB, c *model.ServicioRealizadoProducto) error {
	if r.st.failConsumoAfter >= 0 && len(r.st.consumos) >= r.st.failConsumoAfter {
		return errConsumo
	}
	newID(&c.ID)
	// Distinct timestamps keep the row order stable in assertions.
	c.CreatedAt = time.Now().Add(time.Duration(len(r.st.consumos)) * time.Microsecond)
	r.st.consumos[c.ID] = c
	return nil
}

func (r *stubSRRepo) FindConsumo(_ context.Context, srID, consumoID uuid.UUID) (*model.ServicioRealizadoProducto, error) {
	c, ok := r.st.consumos[consumoID]
	if !ok || !c.Activo || c.ServicioRealizadoID != srID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubSRRepo) SoftDeleteConsumo(_ context.Context, id uuid.UUID) error {
	c, ok := r.st.consumos[id]
	if !ok || !c.Activo {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

func (r *stubSRRepo) DB() *gorm.DB { return nil }

// ── Catalog and people repositories ─────────────────────────────────────────

type stubTipoRepo struct{ st *memStore }

var _ repository.TipoRepository = (*stubTipoRepo)(nil)

func (r *stubTipoRepo) Create(_ context.Context, t *model.ProductoTipo) error {
	newID(&t.ID)
	r.st.tipos[t.ID] = t
	return nil
}

func (r *stubTipoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductoTipo, error) {
	t, ok := r.st.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTipoRepo) FindByNombre(_ context.Context, nombre string) (*model.ProductoTipo, error) {
	for _, t := range r.st.tipos {
		if t.Activo && strings.EqualFold(t.Nombre, nombre) {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTipoRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.ProductoTipo, int64, error) {
	var out []model.ProductoTipo
	for _, t := range r.st.tipos {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTipoRepo) Update(_ context.Context, t *model.ProductoTipo) error {
	r.st.tipos[t.ID] = t
	return nil
}

func (r *stubTipoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	t, ok := r.st.tipos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Activo = false
	return nil
}

type stubMarcaRepo struct{ st *memStore }

var _ repository.MarcaRepository = (*stubMarcaRepo)(nil)

func (r *stubMarcaRepo) Create(_ context.Context, m *model.ProductoMarca) error {
	newID(&m.ID)
	r.st.marcas[m.ID] = m
	return nil
}

func (r *stubMarcaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductoMarca, error) {
	m, ok := r.st.marcas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMarcaRepo) FindByNombre(_ context.Context, nombre string) (*model.ProductoMarca, error) {
	for _, m := range r.st.marcas {
		if m.Activo && strings.EqualFold(m.Nombre, nombre) {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMarcaRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.ProductoMarca, int64, error) {
	var out []model.ProductoMarca
	for _, m := range r.st.marcas {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMarcaRepo) Update(_ context.Context, m *model.ProductoMarca) error {
	r.st.marcas[m.ID] = m
	return nil
}

func (r *stubMarcaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	m, ok := r.st.marcas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	m.Activo = false
	return nil
}

type stubClienteRepo struct{ st *memStore }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	newID(&c.ID)
	r.st.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.st.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.PersonaFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.st.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.st.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.st.clientes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Activo = false
	return nil
}

type stubPersonalRepo struct{ st *memStore }

var _ repository.PersonalRepository = (*stubPersonalRepo)(nil)

func (r *stubPersonalRepo) Create(_ context.Context, p *model.Personal) error {
	newID(&p.ID)
	r.st.personal[p.ID] = p
	return nil
}

func (r *stubPersonalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Personal, error) {
	p, ok := r.st.personal[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPersonalRepo) FindByCedula(_ context.Context, cedula string) (*model.Personal, error) {
	for _, p := range r.st.personal {
		if p.Activo && p.Cedula == cedula {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPersonalRepo) List(_ context.Context, _ dto.PersonaFilter) ([]model.Personal, int64, error) {
	var out []model.Personal
	for _, p := range r.st.personal {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPersonalRepo) Update(_ context.Context, p *model.Personal) error {
	r.st.personal[p.ID] = p
	return nil
}

func (r *stubPersonalRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.personal[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

type stubServicioRepo struct{ st *memStore }

var _ repository.ServicioRepository = (*stubServicioRepo)(nil)

func (r *stubServicioRepo) Create(_ context.Context, s *model.Servicio) error {
	newID(&s.ID)
	r.st.servicios[s.ID] = s
	return nil
}

func (r *stubServicioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Servicio, error) {
	s, ok := r.st.servicios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Encargado = r.st.personal[s.EncargadoID]
	return &cp, nil
}

func (r *stubServicioRepo) List(ctx context.Context, _ dto.ServicioFilter) ([]model.Servicio, int64, error) {
	var out []model.Servicio
	for id := range r.st.servicios {
		s, _ := r.FindByID(ctx, id)
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubServicioRepo) Update(_ context.Context, s *model.Servicio, productos []model.Producto) error {
	if productos != nil {
		s.Productos = productos
	}
	r.st.servicios[s.ID] = s
	return nil
}

func (r *stubServicioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	s, ok := r.st.servicios[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Activo = false
	return nil
}

// ── AlertaNotifier ───────────────────────────────────────────────────────────

type fakeNotifier struct {
	enviados []worker.StockBajoPayload
	err      error
}

func (f *fakeNotifier) EnqueueStockBajo(_ context.Context, p worker.StockBajoPayload) error {
	f.enviados = append(f.enviados, p)
	return f.err
}

type stubParametroRepo struct{ st *memStore }

var _ repository.ParametroRepository = (*stubParametroRepo)(nil)

func (r *stubParametroRepo) Create(_ context.Context, p *model.Parametro) error {
	newID(&p.ID)
	r.st.parametros[p.ID] = p
	return nil
}

func (r *stubParametroRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Parametro, error) {
	p, ok := r.st.parametros[id]
	if !ok || !p.Activo {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubParametroRepo) FindByCodigo(_ context.Context, codigo string) (*model.Parametro, error) {
	for _, p := range r.st.parametros {
		if p.Activo && p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubParametroRepo) List(_ context.Context, filter dto.ParametroFilter) ([]model.Parametro, int64, error) {
	var out []model.Parametro
	for _, p := range r.st.parametros {
		if p.Activo && strings.Contains(strings.ToLower(p.Codigo), strings.ToLower(filter.Codigo)) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, int64(len(out)), nil
}

func (r *stubParametroRepo) Update(_ context.Context, p *model.Parametro) error {
	r.st.parametros[p.ID] = p
	return nil
}

func (r *stubParametroRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.st.parametros[id]
	if !ok || !p.Activo {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}
