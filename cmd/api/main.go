package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-beras/internal/application/inventory"
	"github.com/jhoicas/pos-beras/internal/application/report"
	"github.com/jhoicas/pos-beras/internal/application/usecase"
	inv "github.com/jhoicas/pos-beras/internal/domain/inventory"
	"github.com/jhoicas/pos-beras/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-beras/internal/interfaces/http"
	"github.com/jhoicas/pos-beras/pkg/config"
	"github.com/jhoicas/pos-beras/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg.DB, cfg.Store.TxTimeout, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()
	if err := backend.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema")
	}

	loc := cfg.App.Location()
	recorder := inventory.NewRecorder(inv.SaleCodeGenerator{Prefix: cfg.Store.SaleCodePrefix, Location: loc})
	coordinator := inventory.NewCoordinator(backend.Tx, backend.Read, recorder, log.Component("coordinator"))

	productUC := usecase.NewProductUseCase(backend.Read.Products, coordinator)
	customerUC := usecase.NewCustomerUseCase(backend.Read.Customers)
	saleQuery := usecase.NewSaleQueryUseCase(backend.Read.Sales)
	replenishmentUC := inventory.NewReplenishmentUseCase(backend.Read.Products, backend.Reports)
	aggregator := report.NewAggregator(backend.Reports, loc, cfg.Report.TopN)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "POS Beras API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator:   coordinator,
		ProductUC:     productUC,
		CustomerUC:    customerUC,
		SaleQuery:     saleQuery,
		Replenishment: replenishmentUC,
		Reports:       aggregator,
		JWTSecret:     cfg.JWT.Secret,
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Log:           log.Component("http"),
		AppName:       cfg.App.Name,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: rutas /api abiertas (modo caja local)")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
