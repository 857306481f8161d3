// Command seed fills an empty database with demo data: catalog, products with
// lots, clientes, personal, servicios and a batch of servicios realizados that
// draw from stock. Everything goes through the service layer so the allocation
// rules apply to the demo consumption too.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/KenthE710/antonella-management-server/internal/config"
	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/infra"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	tipos     = []string{"Tinte", "Shampoo", "Acondicionador", "Esmalte", "Cera"}
	marcas    = []string{"L'Oréal", "Wella", "Schwarzkopf", "Revlon"}
	nombres   = []string{"Ana", "María", "Lucía", "Carla", "Sofía", "Daniela", "Paula", "Andrea"}
	apellidos = []string{"Pérez", "Gómez", "Torres", "Vera", "Mora", "Castro", "Rivas", "León"}
)

func main() {
	realizados := flag.Int("realizados", 20, "servicios realizados a registrar")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	tipoRepo := repository.NewTipoRepository(db)
	marcaRepo := repository.NewMarcaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	personalRepo := repository.NewPersonalRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	srRepo := repository.NewServicioRealizadoRepository(db)

	catalogo := service.NewCatalogoService(tipoRepo, marcaRepo)
	productos := service.NewProductoService(productoRepo, loteRepo, tipoRepo, marcaRepo)
	inventario := service.NewInventarioService(productoRepo, loteRepo, srRepo)
	clientes := service.NewClienteService(clienteRepo)
	personal := service.NewPersonalService(personalRepo)
	servicios := service.NewServicioService(servicioRepo, productoRepo, personalRepo, loteRepo)
	registro := service.NewServicioRealizadoService(srRepo, inventario, productoRepo, loteRepo,
		clienteRepo, servicioRepo, personalRepo, nil, -1)

	ctx := context.Background()

	existentes, err := catalogo.ListarTipos(ctx, dto.CatalogoFilter{Paginacion: dto.Paginacion{Page: 1, Limit: 1}})
	if err != nil {
		log.Fatal().Err(err).Msg("consultando tipos")
	}
	if existentes.Total > 0 {
		log.Info().Msg("la base ya tiene datos, nada que hacer")
		return
	}

	must := func(err error, what string) {
		if err != nil {
			log.Fatal().Err(err).Msg(what)
		}
	}

	var tipoIDs, marcaIDs []string
	for _, n := range tipos {
		t, err := catalogo.CrearTipo(ctx, dto.CrearTipoRequest{Nombre: n})
		must(err, "creando tipo")
		tipoIDs = append(tipoIDs, t.ID.String())
	}
	for _, n := range marcas {
		m, err := catalogo.CrearMarca(ctx, dto.CrearMarcaRequest{Nombre: n})
		must(err, "creando marca")
		marcaIDs = append(marcaIDs, m.ID.String())
	}

	now := time.Now()
	var productoIDs []string
	for i, tipo := range tipos {
		for j := range 2 {
			marca := marcaIDs[(i+j)%len(marcaIDs)]
			p, err := productos.Crear(ctx, dto.CrearProductoRequest{
				TipoID:  tipoIDs[i],
				MarcaID: &marca,
				Nombre:  fmt.Sprintf("%s %d", tipo, j+1),
				Precio:  decimal.NewFromInt(int64(5 + rand.IntN(20))),
				UsosEst: 5 + rand.IntN(15),
			})
			must(err, "creando producto")
			productoIDs = append(productoIDs, p.ID.String())

			// One expired lot and two live ones with staggered expiry
			for k, dias := range []int{-10, 30 + rand.IntN(30), 120 + rand.IntN(60)} {
				compra := now.AddDate(0, -2, -k)
				_, err := inventario.CrearLote(ctx, dto.CrearLoteRequest{
					ProductoID: p.ID.String(),
					FeCompra:   &compra,
					FeExp:      now.AddDate(0, 0, dias),
					Cant:       1 + rand.IntN(5),
					Costo:      decimal.NewFromFloat(float64(100+rand.IntN(900)) / 100).Round(2),
				})
				must(err, "creando lote")
			}
		}
	}

	var clienteIDs, personalIDs []string
	for i := range 10 {
		c, err := clientes.Crear(ctx, dto.CrearClienteRequest{Nombre: nombres[i%len(nombres)], Apellido: apellidos[rand.IntN(len(apellidos))]})
		must(err, "creando cliente")
		clienteIDs = append(clienteIDs, c.ID.String())
	}
	for i := range 4 {
		p, err := personal.Crear(ctx, dto.CrearPersonalRequest{
			Nombre:   nombres[len(nombres)-1-i],
			Apellido: apellidos[i],
			Cedula:   fmt.Sprintf("%010d", rand.Int64N(1e10)),
		})
		must(err, "creando personal")
		personalIDs = append(personalIDs, p.ID.String())
	}

	var servicioIDs []string
	for i, n := range []string{"Tinturado", "Lavado y peinado", "Manicure", "Depilación"} {
		minutos := 30 + 15*i
		s, err := servicios.Crear(ctx, dto.CrearServicioRequest{
			Nombre:       n,
			Precio:       decimal.NewFromInt(int64(10 + 5*i)),
			TiempoEstMin: &minutos,
			EncargadoID:  personalIDs[i%len(personalIDs)],
			ProductoIDs:  []string{productoIDs[2*i], productoIDs[2*i+1]},
		})
		must(err, "creando servicio")
		servicioIDs = append(servicioIDs, s.ID.String())
	}

	registrados := 0
	for range *realizados {
		i := rand.IntN(len(servicioIDs))
		fecha := now.Add(-time.Duration(rand.IntN(72)) * time.Hour)
		_, err := registro.Registrar(ctx, dto.RegistrarServicioRealizadoRequest{
			ClienteID:  clienteIDs[rand.IntN(len(clienteIDs))],
			ServicioID: servicioIDs[i],
			Fecha:      &fecha,
			Pagado:     rand.IntN(2) == 0,
			Finalizado: true,
			Productos: []dto.ProductoUsoRequest{
				{ProductoID: productoIDs[2*i], Cantidad: 1 + rand.IntN(3)},
				{ProductoID: productoIDs[2*i+1], Cantidad: 1},
			},
		})
		if err != nil {
			// Random demand may exceed stock.
			log.Warn().Err(err).Msg("servicio realizado omitido")
			continue
		}
		registrados++
	}

	log.Info().
		Int("productos", len(productoIDs)).
		Int("servicios", len(servicioIDs)).
		Int("realizados", registrados).
		Msg("seed completado")
}
