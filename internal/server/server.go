package server

import (
	"errors"

	"backend-getyourextreme/internal/admin"
	"backend-getyourextreme/internal/auth"
	"backend-getyourextreme/internal/booking"
	"backend-getyourextreme/internal/config"
	"backend-getyourextreme/internal/db"
	"backend-getyourextreme/internal/event"
	"backend-getyourextreme/internal/experience"
	"backend-getyourextreme/internal/kv"
	"backend-getyourextreme/internal/profile"
	"backend-getyourextreme/internal/reservation"
	"backend-getyourextreme/internal/ticket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisNamespace = "gye:"

type Server struct {
	App          *fiber.App
	Cfg          config.Config
	DB           *pgxpool.Pool
	PublicDB     *pgxpool.Pool
	Redis        *redis.Client
	Log          *zap.Logger
	Storage      kv.Storage
	Reservations reservation.Store
	Events       event.Store
}

// NewServer wires the stores selected by API_MODE and mounts every route.
// Nil pools leave the backend unconfigured; a nil Redis client falls back
// to in-memory storage.
func NewServer(cfg config.Config, pg, pgPublic *pgxpool.Pool, redisClient *redis.Client, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.APIMode == "" {
		cfg.APIMode = config.ModeLocal
	}

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(log)})
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       pg,
		PublicDB: pgPublic,
		Redis:    redisClient,
		Log:      log,
	}

	if redisClient != nil {
		s.Storage = kv.NewRedis(redisClient, redisNamespace)
	} else {
		s.Storage = kv.NewMemory()
	}

	clients := db.NewClients(querier(pg), querier(pgPublic))

	var err error
	s.Reservations, err = reservation.NewStore(cfg.APIMode, reservation.Options{
		Storage: s.Storage,
		Clients: clients,
		Table:   cfg.ReservationsTable,
		BaseURL: cfg.RemoteAPIURL,
		Token:   cfg.RemoteAPIToken,
	})
	if err != nil {
		return nil, err
	}
	s.Events, err = event.NewStore(cfg.APIMode, event.Options{
		Storage: s.Storage,
		Clients: clients,
		Table:   cfg.EventsTable,
		BaseURL: cfg.RemoteAPIURL,
		Token:   cfg.RemoteAPIToken,
	})
	if err != nil {
		return nil, err
	}

	registerRoutes(s, clients)
	log.Info("server configured",
		zap.String("api_mode", string(cfg.APIMode)),
		zap.Bool("backend", clients.Configured()),
		zap.Bool("redis", redisClient != nil))
	return s, nil
}

// querier keeps a nil pool from becoming a non-nil interface.
func querier(pool *pgxpool.Pool) db.Querier {
	if pool == nil {
		return nil
	}
	return pool
}

func registerRoutes(s *Server, clients *db.Clients) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"mode":    s.Cfg.APIMode,
			"backend": clients.Configured(),
		})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	adminOnly := []fiber.Handler{jwtMiddleware, auth.RequireRole(profile.RoleAdmin)}

	profiles := profile.NewService(clients, s.Log.Named("profile"))
	tickets := ticket.NewStore(s.Storage)
	bookings := booking.NewService(s.Events, s.Reservations, tickets, s.Log.Named("booking"))

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, clients), jwtMiddleware)
	profile.RegisterRoutes(s.App.Group("/profile"), profiles, profile.NewCache(s.Storage), jwtMiddleware)
	experience.RegisterRoutes(s.App.Group("/experiences"))
	reservation.RegisterRoutes(s.App.Group("/reservations"), s.Reservations, adminOnly...)
	event.RegisterRoutes(s.App.Group("/events"), s.Events, adminOnly...)
	booking.RegisterRoutes(s.App, bookings)
	ticket.RegisterRoutes(s.App.Group("/tickets"), tickets)
	admin.RegisterRoutes(s.App.Group("/admin"), s.Reservations, s.Events, profiles, adminOnly...)
}

// errorHandler renders every error as {"error": message}. Unexpected
// errors are logged and reported without their details.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := classify(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}

func classify(err error) (int, string) {
	var (
		fe     *fiber.Error
		resErr *reservation.APIError
		evtErr *event.APIError
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, db.ErrNotConfigured),
		errors.Is(err, reservation.ErrRemoteNotConfigured),
		errors.Is(err, event.ErrRemoteNotConfigured):
		return fiber.StatusServiceUnavailable, "backend not configured"
	case errors.Is(err, reservation.ErrNotFound), errors.Is(err, event.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.As(err, &resErr), errors.As(err, &evtErr):
		return fiber.StatusBadGateway, "upstream api failed"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
