package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"

	"comment-board-service/internal/api"
	"comment-board-service/internal/config"
	"comment-board-service/internal/repository"
	"comment-board-service/internal/service"
	"comment-board-service/migrations"
)

func connectDB(path string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("sqlite", path)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB %s", path)
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB %s: %v", i+1, path, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB %s after retries: %v", path, err)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	db, err := connectDB(getenv("DB_PATH", "comment-board.db"))
	if err != nil {
		panic(err)
	}

	err = migrations.AutoMigrateUsers(3, db)
	if err != nil {
		log.Fatalf("Failed to migrate users table: %v", err)
	}

	err = migrations.AutoMigrateComments(3, db)
	if err != nil {
		log.Fatalf("Failed to migrate comments table: %v", err)
	}

	err = migrations.SeedUsers(context.Background(), db, map[string]string{
		"alice":   "password123",
		"bob":     "qwerty456",
		"charlie": "letmein789",
	})
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", "localhost:6379"),
	})

	kafkaWriter := config.NewKafkaWriter("comment-topic")

	jwtSecret := []byte(getenv("JWT_SECRET", "secret"))

	userRepo := repository.NewUserRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userService := service.NewUserService(*userRepo, rdb, jwtSecret)
	commentService := service.NewCommentService(*commentRepo, rdb, kafkaWriter)
	userHandler := api.NewUserHandler(*userService)
	commentHandler := api.NewCommentHandler(*commentService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(1),
				Burst:     3,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Only the designated frontend origin may call this API.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{getenv("CORS_ORIGIN", "http://localhost:3000")},
	}))

	// Routes
	e.GET("/users", userHandler.ListUsers)
	e.GET("/users/:id", userHandler.GetUserByID)
	e.GET("/users/validate", userHandler.ValidateSession)
	e.POST("/login", userHandler.Login)
	e.GET("/comments", commentHandler.ListComments)
	e.POST("/comments", commentHandler.CreateComment)

	me := e.Group("/users/me")
	me.Use(echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(service.JwtCustomClaims)
		},
		SigningKey: jwtSecret,
	}))
	me.GET("", userHandler.Me)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "comment-board-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Start server
	e.Logger.Fatal(e.Start(":" + getenv("PORT", "8080")))
}
