package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"asset-extractor/core/logger"
	"asset-extractor/core/middleware/auth"
	"asset-extractor/core/middleware/rayid"
	"asset-extractor/feature/wiki"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the asset inspection server",
	Long:  `Starts the HTTP server exposing parsed asset structures and name search.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := setup()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		l, err := buildLoader(cfg, logg)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Request logging with ray id correlation
		app.Use(func(c *fiber.Ctx) error {
			rl := logger.WithRayID(logg, c)
			rl.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				rl.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		svc := wiki.NewService(l, logg)
		wiki.NewHandler(svc).RegisterRoutes(app)

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
