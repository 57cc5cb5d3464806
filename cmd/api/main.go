package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/purchasing"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/events"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/ventas-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// backend agrupa la persistencia elegida por STORAGE_DRIVER.
type backend struct {
	tx        ports.TxRunner
	repos     ports.TxRepos
	analytics repository.AnalyticsRepository
	close     func()
}

type eventPublisher interface {
	ports.EventPublisher
	Close() error
}

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	var publisher eventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos hacia Kafka")
	} else {
		publisher = events.NewLogPublisher(log)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	var recorder *metrics.Recorder
	var appMetrics ports.Metrics = ports.NopMetrics{}
	var httpObserver httpRouter.HTTPObserver
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		appMetrics = recorder
		httpObserver = recorder
	}

	images, err := storage.NewLocalImageStore(cfg.Storage.ImageDir, cfg.Storage.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de imágenes")
	}

	repos := store.repos
	userUC := usecase.NewUserUseCase(repos.Users)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories)
	supplierUC := usecase.NewSupplierUseCase(repos.Suppliers)
	productUC := usecase.NewProductUseCase(store.tx, repos.Products, repos.Variants, images, log)
	orderUC := purchasing.NewOrderUseCase(store.tx, repos.Orders, publisher, appMetrics, log)
	saleUC := sales.NewSaleUseCase(store.tx, repos.Sales, repos.Users, publisher, appMetrics, log, sales.Config{
		CodeMaxAttempts: cfg.Sales.CodeMaxAttempts,
	})
	receiptUC := sales.NewReceiptUseCase(repos.Sales, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	replenishmentUC := inventory.NewReplenishmentUseCase(store.analytics, cfg.Inventory.LowStockThreshold)
	salesReportUC := appanalytics.NewSalesReportUseCase(store.analytics)
	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), httpObserver))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Ventas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if recorder != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Static(cfg.Storage.PublicURL, images.Dir())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		CategoryUC:    categoryUC,
		SupplierUC:    supplierUC,
		ProductUC:     productUC,
		OrderUC:       orderUC,
		SaleUC:        saleUC,
		ReceiptUC:     receiptUC,
		Replenishment: replenishmentUC,
		SalesReport:   salesReportUC,
		JWTSecret:     cfg.JWT.Secret,
	})

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

// openBackend conecta PostgreSQL (aplicando migraciones si DB_AUTO_MIGRATE) o arma el store en memoria.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("usando store en memoria: los datos se pierden al reiniciar")
		mem := memory.New()
		return &backend{tx: mem, repos: mem.Repos(), analytics: mem.Analytics(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.NewMigrator(pool, log).Up(ctx, 0); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &backend{
		tx:        postgres.NewTxRunner(pool),
		repos:     postgres.NewRepos(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}, nil
}
