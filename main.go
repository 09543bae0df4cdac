package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/template/html/v2"
	log "github.com/sirupsen/logrus"

	"channelmaster/internal/auth"
	"channelmaster/internal/aws"
	"channelmaster/internal/channel"
	"channelmaster/internal/config"
	"channelmaster/internal/dashboard"
	"channelmaster/internal/middleware"
	"channelmaster/internal/notify"
	"channelmaster/internal/youtube"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("Configuration load failed: %v", err)
	}
	if err := config.SetupLogging(cfg.LogLevel, cfg.LogJSON); err != nil {
		log.Fatalf("Logging setup failed: %v", err)
	}

	// 2. Repository
	dbo, err := aws.CreateConnection(aws.DBI{
		User:     cfg.Repository.User,
		Password: cfg.Repository.Password,
		Endpoint: cfg.Repository.Endpoint,
		Port:     cfg.Repository.Port,
		Database: cfg.Repository.Database,
	})
	if err != nil {
		log.Fatalf("Repository connection failed. %v", err)
	}
	log.Info("Successfully connected to the database.")

	if cfg.Migrate {
		if _, _, err := aws.RunMigrations(dbo); err != nil {
			dbo.Close()
			log.Fatalf("Migration failed: %v", err)
		}
	}

	// 3. Sessions (MySQL storage)
	sessionStore := session.New(session.Config{
		Storage: mysql.New(mysql.Config{
			Db:    dbo.DB,
			Table: "fiber_sessions",
		}),
		Expiration:     cfg.SessionTTL,
		CookieName:     "channelmaster_session",
		CookieSecure:   cfg.SessionSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// 4. Dependencies
	authStore := auth.NewStore(dbo)
	authService := auth.NewService(authStore)
	authHandler := auth.NewAuthHandler(authService, sessionStore)

	ytClient := youtube.NewClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL, cfg.YouTubeTimeout)
	if cfg.YouTubeAPIKey == "" {
		log.Warn("YouTube API key is not configured; metadata refresh will fail on lookup.")
	}

	var notifier channel.SaveNotifier
	if n := notify.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannelID); n != nil {
		notifier = n
		log.Infof("Slack save notifications enabled (channel %s)", cfg.SlackChannelID)
	}

	channelStore := channel.NewStore(dbo)
	channelService := channel.NewService(channelStore, ytClient, notifier, cfg.DateCreatedPolicy)
	channelHandler := channel.NewChannelHandler(channelService, sessionStore)
	log.Infof("date_created policy: %s", cfg.DateCreatedPolicy)

	dashboardService := dashboard.NewService(channelStore)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService)

	// 5. Fiber app and views
	engine := html.New(cfg.ViewsDir, ".html")
	engine.Reload(cfg.ViewsReload)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(recover.New())
	app.Use(middleware.NewRequestLogger())
	app.Static("/public", cfg.PublicDir)

	// 6. Routes
	authGroup := app.Group("/auth")
	{
		authGroup.Get("/login", authHandler.HandleShowLoginPage)
		authGroup.Post("/login", authHandler.HandleLogin)
		authGroup.Get("/setup-otp", authHandler.HandleShowSetupOTP)
		authGroup.Post("/setup-otp", authHandler.HandleProcessSetupOTP)
		authGroup.Get("/verify-otp", authHandler.HandleShowVerifyOTP)
		authGroup.Post("/verify-otp", authHandler.HandleProcessVerifyOTP)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	appGroup := app.Group("/", middleware.AuthMiddleware(sessionStore))
	{
		appGroup.Get("/dashboard", dashboardHandler.HandleShowDashboard)
		appGroup.Get("/auth/logout", authHandler.HandleLogout)

		appGroup.Get("/channels", channelHandler.HandleShowChannelPage)
		appGroup.Post("/channels/lookup", channelHandler.HandleLookup)
		appGroup.Post("/channels/clear", channelHandler.HandleClear)
		appGroup.Post("/channels/save", channelHandler.HandleSave)
	}

	// 7. Serve until SIGINT/SIGTERM
	go func() {
		log.Infof("Channel Master listening on [::]:%s", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.Port)); err != nil {
			log.Panicf("HTTP listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("HTTP shutdown failed: %v", err)
	}
	if err := dbo.Close(); err != nil {
		log.Errorf("Repository close failed: %v", err)
	}
	log.Info("Channel Master stopped.")
}
