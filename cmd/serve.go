package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpadapter "github.com/vinodmerwade/OrgCheck/internal/correlation/adapter/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the correlation API and the progress WebSocket",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		container, err := newContainer(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := container.Close(); err != nil {
				container.Logger.Error("Failed to close container: ", err)
			}
		}()
		appLogger := container.Logger

		app := fiber.New(fiber.Config{
			AppName:      "OrgCheck API v1.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				if e, ok := err.(*fiber.Error); ok {
					code = e.Code
				}
				appLogger.Errorf("HTTP Error: %v", err)
				return c.Status(code).JSON(fiber.Map{"error": err.Error()})
			},
		})
		app.Use(recover.New())
		app.Use(cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,DELETE,HEAD,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept",
		}))

		app.Get("/health", func(c *fiber.Ctx) error {
			healthCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()
			if err := container.HealthCheck(healthCtx); err != nil {
				appLogger.Errorf("Health check failed: %v", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "UNHEALTHY",
					"error":  err.Error(),
				})
			}
			return httpadapter.Health(c)
		})
		container.GetCorrelationModule().RegisterRoutes(app)

		serverCfg := container.Config.Server
		serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
		appLogger.Infof("Starting HTTP server on %s", serverAddr)

		serverShutdown := make(chan error, 1)
		go func() {
			serverShutdown <- app.Listen(serverAddr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-serverShutdown:
			if err != nil {
				return fmt.Errorf("server startup failed: %w", err)
			}
		case sig := <-quit:
			appLogger.Infof("Received shutdown signal: %v", sig)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				appLogger.Errorf("Server forced to shutdown: %v", err)
			}
			appLogger.Info("HTTP server stopped")
		}
		return nil
	},
}
