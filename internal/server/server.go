package server

import (
	"backend-gymflow/internal/auth"
	"backend-gymflow/internal/booking"
	"backend-gymflow/internal/config"
	"backend-gymflow/internal/events"
	"backend-gymflow/internal/metrics"
	"backend-gymflow/internal/progress"
	"backend-gymflow/internal/schedule"
	"backend-gymflow/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	DB        *pgxpool.Pool
	Redis     *redis.Client
	Stream    *stream.Hub
	Publisher events.Publisher
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client, publisher events.Publisher) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:       app,
		Cfg:       cfg,
		DB:        db,
		Redis:     redisClient,
		Stream:    stream.NewHub(redisClient),
		Publisher: publisher,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	progressSvc := progress.NewService(s.DB)
	scheduleSvc := schedule.NewService(s.DB)
	bookingSvc := booking.NewService(s.DB, progressSvc, s.Stream, s.Publisher)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, progressSvc.InitializeProgress))
	schedule.RegisterRoutes(s.App.Group("/classes"), scheduleSvc, jwtMiddleware)
	schedule.RegisterSessionRoutes(s.App.Group("/sessions"), scheduleSvc, jwtMiddleware)
	booking.RegisterRoutes(s.App.Group("/bookings"), bookingSvc, jwtMiddleware)
	progress.RegisterRoutes(s.App.Group("/progress"), progressSvc, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
