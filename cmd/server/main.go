package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"filmorate-api/internal/config"
	"filmorate-api/internal/database"
	"filmorate-api/internal/handler"
	"filmorate-api/internal/middleware"
	"filmorate-api/internal/repository/postgres"
	"filmorate-api/internal/service"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	filmRepo := postgres.NewFilmRepository(db)
	genreRepo := postgres.NewGenreRepository(db)
	mpaRepo := postgres.NewMpaRepository(db)
	directorRepo := postgres.NewDirectorRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	eventRepo := postgres.NewEventRepository(db)

	// Services
	userSvc := service.NewUserService(userRepo, eventRepo)
	filmSvc := service.NewFilmService(filmRepo, userRepo, genreRepo, mpaRepo, directorRepo, eventRepo, rdb)
	directorSvc := service.NewDirectorService(directorRepo)
	reviewSvc := service.NewReviewService(reviewRepo, userRepo, filmRepo, eventRepo)
	catalogSvc := service.NewCatalogService(genreRepo, mpaRepo, rdb)

	// Handlers
	userHandler := handler.NewUserHandler(userSvc, filmSvc)
	filmHandler := handler.NewFilmHandler(filmSvc)
	directorHandler := handler.NewDirectorHandler(directorSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Filmorate API",
		ServerHeader: "Filmorate-API",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec).Handler())

	// Routes
	app.Get("/health", catalogHandler.Health)
	app.Post("/admin/cache/refresh", catalogHandler.RefreshCache)

	app.Post("/users", userHandler.CreateUser)
	app.Put("/users", userHandler.UpdateUser)
	app.Get("/users", userHandler.GetAllUsers)
	app.Get("/users/:id", userHandler.GetUser)
	app.Delete("/users/:id", userHandler.DeleteUser)
	app.Put("/users/:id/friends/:friendId", userHandler.AddFriend)
	app.Delete("/users/:id/friends/:friendId", userHandler.RemoveFriend)
	app.Get("/users/:id/friends", userHandler.GetFriends)
	app.Get("/users/:id/friends/common/:otherId", userHandler.GetCommonFriends)
	app.Get("/users/:id/recommendations", userHandler.GetRecommendations)
	app.Get("/users/:id/feed", userHandler.GetFeed)

	app.Post("/films", filmHandler.CreateFilm)
	app.Put("/films", filmHandler.UpdateFilm)
	app.Get("/films", filmHandler.GetAllFilms)
	app.Get("/films/popular", filmHandler.GetPopularFilms)
	app.Get("/films/common", filmHandler.GetCommonFilms)
	app.Get("/films/search", filmHandler.SearchFilms)
	app.Get("/films/director/:directorId", filmHandler.GetFilmsByDirector)
	app.Get("/films/:id", filmHandler.GetFilm)
	app.Delete("/films/:id", filmHandler.DeleteFilm)
	app.Put("/films/:id/like/:userId", filmHandler.AddLike)
	app.Delete("/films/:id/like/:userId", filmHandler.RemoveLike)

	app.Post("/reviews", reviewHandler.CreateReview)
	app.Put("/reviews", reviewHandler.UpdateReview)
	app.Get("/reviews", reviewHandler.GetReviews)
	app.Get("/reviews/:id", reviewHandler.GetReview)
	app.Delete("/reviews/:id", reviewHandler.DeleteReview)
	app.Put("/reviews/:id/like/:userId", reviewHandler.LikeReview)
	app.Put("/reviews/:id/dislike/:userId", reviewHandler.DislikeReview)
	app.Delete("/reviews/:id/like/:userId", reviewHandler.RemoveReviewLike)
	app.Delete("/reviews/:id/dislike/:userId", reviewHandler.RemoveReviewDislike)

	app.Post("/directors", directorHandler.CreateDirector)
	app.Put("/directors", directorHandler.UpdateDirector)
	app.Get("/directors", directorHandler.GetAllDirectors)
	app.Get("/directors/:id", directorHandler.GetDirector)
	app.Delete("/directors/:id", directorHandler.DeleteDirector)

	app.Get("/genres", catalogHandler.GetAllGenres)
	app.Get("/genres/:id", catalogHandler.GetGenre)
	app.Get("/mpa", catalogHandler.GetAllMpa)
	app.Get("/mpa/:id", catalogHandler.GetMpa)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down filmorate api...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting filmorate api", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
