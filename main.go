package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"bakeshop/internal/handlers"
	"bakeshop/internal/middleware"
	"bakeshop/internal/models"
	"bakeshop/internal/repositories"
	"bakeshop/internal/services"
	"bakeshop/internal/views"
	"bakeshop/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "bakery.db")
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()                 // Load environment variables

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// --- Initialize Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var events services.EventPublisher
	if rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	orderService := services.NewOrderService(orderRepo, events)
	transferService := services.NewTransferService(orderRepo, events)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	transferHandler := handlers.NewTransferHandler(transferService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		Views: views.NewEngine(),
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- Routes ---
	// Public: index, register, login, logout
	authHandler.RegisterRoutes(app)

	// Protected: everything touching the order book
	protected := app.Group("", middleware.SessionRequired(authService))
	orderHandler.RegisterRoutes(protected)
	transferHandler.RegisterRoutes(protected)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured GORM backend. sqlite covers the
// single-file deployments; postgres covers the server-RDBMS ones.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	// TranslateError maps driver-specific failures onto GORM's sentinel
	// errors, e.g. unique violations to gorm.ErrDuplicatedKey.
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (expected sqlite or postgres)", driver)
	}
}
