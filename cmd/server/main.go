package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quorum/config"
	"quorum/internal/auth"
	"quorum/internal/cache"
	"quorum/internal/database"
	"quorum/internal/repository"
	"quorum/internal/server"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Local .env before viper reads the environment
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Cache (degrades to pass-through when Redis is unreachable)
	redisClient := cache.NewClient(cfg.RedisURL)
	kv := cache.New(redisClient)
	defer kv.Close()

	// Database
	db := database.Connect(cfg)

	// Repositories
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	contentSvc := service.NewContentService(postRepo, commentRepo, userRepo,
		service.MutationPolicy(cfg.MutationPolicy), slogger)
	voteSvc := service.NewVoteService(voteRepo, postRepo, commentRepo, slogger)
	userSvc := service.NewUserService(userRepo, postRepo, commentRepo, kv, tokens,
		time.Duration(cfg.CacheTTLSeconds)*time.Second, slogger)

	srv := server.New(contentSvc, userSvc, voteSvc, tokens)

	app := fiber.New(fiber.Config{
		AppName: "Quorum API",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	srv.RegisterRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
