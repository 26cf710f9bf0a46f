package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meinhoongagan/senior-care-app/ai"
	"github.com/meinhoongagan/senior-care-app/calendar"
	"github.com/meinhoongagan/senior-care-app/config"
	"github.com/meinhoongagan/senior-care-app/controllers"
	"github.com/meinhoongagan/senior-care-app/cron"
	"github.com/meinhoongagan/senior-care-app/db"
	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/middleware"
	"github.com/meinhoongagan/senior-care-app/redis"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/routes"
	"github.com/meinhoongagan/senior-care-app/services"
	"github.com/meinhoongagan/senior-care-app/storage"
	"github.com/meinhoongagan/senior-care-app/utils"
)

// Documents are capped at 10 MB; leave room for the rest of the form.
const bodyLimit = 12 << 20

func main() {
	migrate := flag.Bool("migrate", false, "apply database migrations and exit")
	createAdmin := flag.Bool("create-admin", false, "create an admin account from ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close(database)

	if *migrate {
		if err := db.Migrate(database); err != nil {
			logging.Fatal().Err(err).Msg("Migration failed")
		}
		return
	}

	users := repository.NewUserRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	categories := repository.NewCategoryRepository(database)

	tokens := utils.NewTokenIssuer(cfg.JWT)
	mailer := utils.NewMailer(cfg.SMTP)
	accounts := services.NewAccountService(users, bookingRepo, tokens, mailer)

	if *createAdmin {
		admin, err := accounts.CreateAdmin(ctx, services.CreateAdminInput{
			Username: os.Getenv("ADMIN_USERNAME"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create admin")
		}
		logging.Info().Uint("user_id", admin.ID).Str("username", admin.Username).Msg("Admin created")
		return
	}

	checks := map[string]controllers.Check{
		"database": func(ctx context.Context) error { return db.Ping(ctx, database) },
	}

	var states calendar.StateStore = calendar.NewMemoryStateStore()
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer client.Close()
		redisStates := redis.NewStateStore(client)
		states = redisStates
		checks["redis"] = redisStates.Ping
	} else {
		logging.Warn().Msg("REDIS_ADDR not set, keeping OAuth state in memory")
	}

	files, err := storage.New(cfg.Storage, cfg.Cloudinary)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialise file storage")
	}

	google := calendar.NewGoogle(cfg.Google, users, states)
	if !google.Enabled() {
		logging.Warn().Msg("Google Calendar credentials not set, calendar sync disabled")
	}
	assistantClient := ai.NewClient(cfg.AI)
	if !assistantClient.Enabled() {
		logging.Warn().Msg("AI_API_KEY not set, AI features will answer 503")
	}

	bookings := services.NewBookingService(users, bookingRepo, categories, google, mailer)
	vetting := services.NewVettingService(users, files)

	app := fiber.New(fiber.Config{
		AppName:      "senior-care-api",
		BodyLimit:    bodyLimit,
		ErrorHandler: controllers.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.App.Origins(), ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: middleware.HeaderRequestID,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if cfg.Storage.Driver == "local" {
		app.Static(storage.PublicPrefix, cfg.Storage.UploadDir)
	}

	routes.Setup(app, tokens.Secret(), routes.Controllers{
		Health:    controllers.NewHealthController(checks),
		Auth:      controllers.NewAuthController(accounts),
		Calendar:  controllers.NewCalendarController(google, accounts, cfg.App.FrontendURL),
		Delegates: controllers.NewDelegateController(services.NewDelegateService(users)),
		Bookings:  controllers.NewBookingController(bookings),
		Providers: controllers.NewProviderController(services.NewProviderService(users), vetting),
		Catalog:   controllers.NewCatalogController(services.NewCatalogService(users, categories, files)),
		Intake: controllers.NewIntakeController(
			services.NewServiceRequestService(users, repository.NewServiceRequestRepository(database), categories),
			services.NewInquiryService(users, repository.NewInquiryRepository(database)),
			services.NewNewsletterService(users, repository.NewNewsletterRepository(database)),
		),
		Assistant: controllers.NewAssistantController(services.NewAssistantService(assistantClient, users, categories)),
	})

	if cfg.Cron.Enabled {
		scheduler, err := cron.New(bookings)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to schedule cron jobs")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logging.Info().Msg("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	logging.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("Server started")
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logging.Error().Err(err).Msg("Server stopped")
	}
}
