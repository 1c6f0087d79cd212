package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"productkart/internal/handlers"
	"productkart/internal/middleware"
	"productkart/internal/models"
	"productkart/internal/repositories"
	"productkart/internal/services"
	"productkart/pkg/imagehost"
	"productkart/pkg/rabbitmq"
)

func main() {
	app, mqClient, err := newApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	if mqClient != nil {
		defer mqClient.Close()
	}

	// --- Fulfillment consumer ---
	// Logs order lifecycle events; a real deployment would hang
	// inventory sync and notification fan-out off this queue.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// newApp wires configuration, database, broker and routes into a ready
// Fiber app. The returned RabbitMQ client is nil when order events are
// disabled.
func newApp() (*fiber.App, *rabbitmq.Client, error) {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "dev_jwt_secret")
	viper.SetDefault("DATABASE_URL", "") // empty: in-memory sqlite
	viper.SetDefault("RABBITMQ_URL", "") // empty: order events disabled
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.AutomaticEnv() // Load environment variables

	jwtSecret := viper.GetString("JWT_SECRET")
	databaseURL := viper.GetString("DATABASE_URL")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	uploadDir := viper.GetString("UPLOAD_DIR")

	// --- Database ---
	db, err := openDatabase(databaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, nil, err
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			return nil, nil, err
		}
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Image host ---
	host, err := imagehost.NewDiskHost(uploadDir, "/uploads")
	if err != nil {
		return nil, nil, err
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	seedAdmin(userRepo)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, mqClient)
	uploadService := services.NewUploadService(host)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New()) // Request logger

	protect := middleware.Protect(authService)
	adminOnly := middleware.AdminOnly()

	api := app.Group("/api")
	userHandler.RegisterRoutes(api, protect, adminOnly)
	productHandler.RegisterRoutes(api, protect, adminOnly)
	orderHandler.RegisterRoutes(api, protect, adminOnly)
	uploadHandler.RegisterRoutes(api, protect, adminOnly)

	app.Static("/uploads", uploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, mqClient, nil
}

// openDatabase connects to postgres when a DSN is configured and falls
// back to in-memory sqlite for local development.
func openDatabase(databaseURL string) (*gorm.DB, error) {
	if databaseURL != "" {
		return gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	}
	log.Println("DATABASE_URL not set, using in-memory sqlite")
	return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
}

// seedAdmin creates the initial back-office account when no users exist
// yet. Credentials are logged once so the operator can sign in and
// change them.
func seedAdmin(userRepo repositories.UserRepository) {
	users, err := userRepo.GetAll()
	if err != nil || len(users) > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	admin := &models.User{
		Name:     "Admin",
		Email:    "admin@productkart.local",
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Error seeding admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user admin@productkart.local (password admin123)")
}
