package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"case-mirror/core/config"
	"case-mirror/core/database"
	"case-mirror/core/loader"
	"case-mirror/core/logger"
	"case-mirror/core/middleware/auth"
	"case-mirror/core/middleware/rayid"
	"case-mirror/core/mirror"
	"case-mirror/core/storage"
	"case-mirror/core/upstream"

	"case-mirror/feature/cases"
	"case-mirror/feature/cases/models"
	"case-mirror/feature/cases/store"
	"case-mirror/feature/snapshots"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "case-mirror/docs/swagger"
)

// @title Case Mirror API
// @version 1.0
// @description Local mirror of the case registry: reads come from the mirror, writes go to the registry first.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the case mirror server",
	Long:  `Starts the HTTP server and the background synchronizer, and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Logger)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required)
		// The mirror lives here; without it there is nothing to serve.
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to mirror database", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.Case{}); err != nil {
			logg.Fatal("Failed to migrate cases table", zap.Error(err))
		}
		st := store.New(db)
		logg.Info("Connected to mirror database", zap.String("driver", cfg.Database.Driver))

		// 4. Upstream registry client
		client, err := upstream.NewClient(cfg.Upstream)
		if err != nil {
			logg.Fatal("Failed to create upstream client", zap.Error(err))
		}

		// 5. Object Storage (Optional)
		// Without an endpoint the snapshots feature stays disabled.
		var storageClient storage.Client
		if cfg.Storage.Enabled() {
			storageClient, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		}
		snapshotFeature := snapshots.NewFeature(storageClient, cfg.Storage.Bucket, st, cfg.Storage.Retention, logg)

		// 6. Synchronizer
		// No archiver while snapshots are disabled, which turns the
		// post-pass archiving off.
		var archiver mirror.Archiver
		if svc := snapshotFeature.Service(); svc != nil {
			archiver = svc
		}
		syncer := mirror.NewSynchronizer(client, st, archiver, logg, cfg.Mirror.Interval())

		// 7. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 8. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(cases.NewFeature(client, st, syncer, logg))
		mgr.Register(snapshotFeature)

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (everything below requires the API key when one is set)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 9. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 10. Start Synchronizer
		if cfg.Mirror.Enabled {
			syncer.Start()
			logg.Info("Synchronizer started", zap.Int("interval_seconds", cfg.Mirror.IntervalSeconds))
		} else {
			logg.Warn("Synchronizer disabled, the mirror will go stale")
		}

		// 11. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 12. Graceful Shutdown
		// Stop the synchronizer first so no pass is cut off mid-page.
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if cfg.Mirror.Enabled {
			syncer.Stop()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
