package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/freezy-bites-api/controllers"
	"github.com/Kariqs/freezy-bites-api/initializers"
	"github.com/Kariqs/freezy-bites-api/realtime"
	"github.com/Kariqs/freezy-bites-api/routes"
	"github.com/Kariqs/freezy-bites-api/services"
	"github.com/Kariqs/freezy-bites-api/utils"
)

func init() {
	initializers.LoadEnv()
	initializers.InitLogger(initializers.Env.LogLevel)

	if err := initializers.ConnectToDB(initializers.Env.DatabaseDSN); err != nil {
		fatal("failed to connect to database", err)
	}
	if err := initializers.SyncDatabase(initializers.DB); err != nil {
		fatal("failed to sync database", err)
	}
	if err := initializers.SeedAdmin(initializers.DB); err != nil {
		fatal("failed to seed admin", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	env := initializers.Env
	if env.JWTSecret == "" {
		fatal("missing configuration", errJWTSecret)
	}

	var notifier services.Notifier = services.NopNotifier{}
	var accounts services.AccountMailer = services.NopNotifier{}
	if env.MailConfigured() {
		mailer := utils.NewMailer(utils.MailConfig{
			From:        env.FromEmail,
			Password:    env.FromEmailPassword,
			SMTPHost:    env.FromEmailSMTP,
			SMTPAddr:    env.SMTPAddress,
			FrontendURL: env.FrontendURL,
		}, "templates")
		notifier, accounts = mailer, mailer
	} else {
		slog.Warn("SMTP is not configured, receipts and account emails will not be sent")
	}

	var images utils.ImageStore
	if env.S3Bucket != "" {
		store, err := utils.NewS3ImageStore(context.Background(), env.S3Bucket)
		if err != nil {
			slog.Warn("image uploads disabled", "error", err)
		} else {
			images = store
		}
	}

	controllers.Configure(controllers.Dependencies{
		JWTSecret:      env.JWTSecret,
		Notifier:       notifier,
		Accounts:       accounts,
		OrderFeed:      realtime.NewHub(env.CorsOrigins),
		Images:         images,
		ReceiptTimeout: 5 * time.Second,
	})

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     env.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if err := routes.SetupRoutes(server, env.JWTSecret); err != nil {
		fatal("failed to register routes", err)
	}

	slog.Info("starting server", "port", env.Port)
	if err := server.Run(":" + env.Port); err != nil {
		fatal("server stopped", err)
	}
}

var errJWTSecret = errors.New("JWT_SECRET is not set")
