package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"camera-logistics-system/handlers"
	"camera-logistics-system/models"
	"camera-logistics-system/services"
	"camera-logistics-system/utils"
	"camera-logistics-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		AppName: "camera-logistics-system",
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	db := openDatabase()

	if err := db.AutoMigrate(
		&models.Tournament{},
		&models.Worker{},
		&models.Camera{},
		&models.Shipment{},
		&models.CameraHistory{},
		&models.User{},
		&models.LoginAttempt{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	authService := services.NewAuthService(db, jwtSecret)
	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		if err := authService.EnsureAdminUser(username, os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Fatal("failed to ensure admin user:", err)
		}
	}

	// Calendar mirroring is optional; left nil the dashboard runs without it.
	var calendar services.CalendarSync
	if calendarURL := os.Getenv("CALENDAR_SERVICE_URL"); calendarURL != "" {
		calendar = services.NewCalendarClient(calendarURL, os.Getenv("CALENDAR_SERVICE_TOKEN"))
		log.Println("✅ Calendar mirroring enabled")
	} else {
		log.Println("⚠️  CALENDAR_SERVICE_URL not set, calendar mirroring disabled")
	}

	historyService := services.NewHistoryService(db)
	tournamentService := services.NewTournamentService(db, historyService, calendar)
	workerService := services.NewWorkerService(db)
	cameraService := services.NewCameraService(db, historyService)
	shipmentService := services.NewShipmentService(db, historyService)
	statsService := services.NewStatsService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tournamentService.StartStatusScheduler()

	if utils.R2Configured() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		backupWorker := workers.NewBackupWorker(db)
		backupWorker.Start(ctx)
	} else {
		log.Println("⚠️  R2 credentials not set, backups disabled")
	}

	handlers.SetupResourceRoutes(app, tournamentService, workerService, cameraService)
	handlers.SetupLogisticsRoutes(app, shipmentService, historyService, statsService)
	handlers.SetupAuthRoutes(app, authService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// openDatabase connects to Postgres, falling back to an in-memory SQLite
// database seeded with demo records when the server is unreachable. The
// fallback keeps the dashboard usable offline; its data does not survive a
// restart.
func openDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			log.Println("✅ Connected to Postgres")
			return db
		}
		log.Printf("⚠️  Postgres unreachable (%v), falling back to in-memory database", err)
	} else {
		log.Println("⚠️  DATABASE_URL not set, using in-memory database")
	}

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open in-memory database:", err)
	}

	if err := db.AutoMigrate(
		&models.Tournament{},
		&models.Worker{},
		&models.Camera{},
		&models.Shipment{},
		&models.CameraHistory{},
	); err != nil {
		log.Fatal("failed to migrate in-memory database:", err)
	}
	if err := models.SeedFallbackData(db); err != nil {
		log.Printf("⚠️  Failed to seed fallback data: %v", err)
	}
	return db
}
