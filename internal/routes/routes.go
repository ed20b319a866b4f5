package routes

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lumenvault/lumenvault/internal/config"
	"github.com/lumenvault/lumenvault/internal/contacts"
	"github.com/lumenvault/lumenvault/internal/horizon"
	"github.com/lumenvault/lumenvault/internal/keystore"
	"github.com/lumenvault/lumenvault/internal/middleware"
	"github.com/lumenvault/lumenvault/internal/session"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// are optional; the stores fall back to the file backends without them.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares, builds the session manager and wires all
// application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	sealer := keystore.NewSealer(d.Cfg.WalletPassphrase)

	var walletStore keystore.Store
	if d.Cache != nil {
		walletStore = keystore.NewRedisStore(d.Cache, sealer)
	} else {
		walletStore = keystore.NewFileStore(d.Cfg.DataDir, sealer)
	}

	var contactRepo contacts.Repository
	if d.DB != nil {
		pgRepo := contacts.NewPostgresRepository(d.DB)
		if err := pgRepo.EnsureSchema(context.Background()); err != nil {
			return err
		}
		contactRepo = pgRepo
	} else {
		contactRepo = contacts.NewFileRepository(d.Cfg.DataDir)
	}

	gateway := horizon.NewClient(d.Cfg)
	manager := session.New(walletStore, contactRepo, gateway, d.Logger, d.Cfg.HistoryLimit)
	if err := manager.Initialize(context.Background()); err != nil {
		return err
	}

	RegisterHealthRoutes(app, d)

	handler := session.NewHandler(manager)
	api := app.Group("/api/v1")
	api.Get("/state", handler.State)

	RegisterWalletRoutes(api, handler)
	RegisterContactRoutes(api, handler)
	RegisterPaymentRoutes(api, handler, d)

	return nil
}
