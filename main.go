package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"grateful-service/internal/auth"
	"grateful-service/internal/config"
	"grateful-service/internal/email"
	"grateful-service/internal/push"
	"grateful-service/internal/service"
	"grateful-service/internal/storage"
	"grateful-service/internal/store"
	httptransport "grateful-service/internal/transport/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	db, err := store.New(cfg)
	if err != nil {
		log.Fatalf("❌ [DB] %v", err)
	}

	// R2 is optional in dev; backup and image upload degrade gracefully.
	var r2Client *storage.Client
	if cfg.R2AccountID != "" {
		r2Client, err = storage.NewClient(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatalf("❌ [R2] Failed to initialize client: %v", err)
		}
		log.Printf("✅ [R2] Client initialized (bucket: %s)", cfg.R2BucketName)
	} else {
		log.Println("⚠️ [R2] Disabled (no R2_ACCOUNT_ID); backups and image uploads unavailable")
	}

	var fcmClient *push.FCMClient
	if cfg.FirebaseCreds != "" {
		fcmClient, err = push.NewFCMClient(context.Background(), []byte(cfg.FirebaseCreds))
		if err != nil {
			log.Fatalf("❌ [FCM] Failed to initialize: %v", err)
		}
		log.Println("✅ [FCM] Client initialized")
	} else {
		log.Println("⚠️ [FCM] Disabled (no FIREBASE_CREDENTIALS_JSON); raw device tokens will be skipped")
	}

	dispatcher := push.New(db, cfg.ExpoAccessToken, fcmClient)

	var uploader service.Uploader
	var images httptransport.ImageStore
	if r2Client != nil {
		uploader = r2Client
		images = r2Client
	}

	svc := service.New(db, dispatcher, uploader, cfg.PublicCircleID)

	var verifier *auth.Verifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewVerifier(cfg.JWKSURL)
		if err != nil {
			log.Fatalf("❌ [AUTH] Failed to load JWKS: %v", err)
		}
		log.Printf("✅ [AUTH] JWT verification enabled (required: %v)", cfg.RequireAuth)
	} else {
		log.Println("⚠️ [AUTH] JWT verification disabled (no CLERK_JWKS_URL); trusting client-supplied ids")
	}

	mailer := email.NewSender(cfg)
	if mailer.Configured() {
		log.Printf("✅ [EMAIL] Contact form delivery to %s", cfg.ContactTo)
	} else {
		log.Println("⚠️ [EMAIL] SMTP not configured; contact form messages are dropped")
	}

	handler := httptransport.NewHandler(svc, cfg, images, mailer)

	app := fiber.New(fiber.Config{
		AppName:      "grateful-service",
		BodyLimit:    10 * 1024 * 1024, // entry photos
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       86400,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))

	// Web surface
	app.Get("/health", handler.Health)
	app.Get("/version", handler.Version)
	app.Get("/og-image", handler.OGImage)
	app.Get("/join/:code", handler.JoinPage)
	app.Post("/contact", handler.Contact)

	// Mobile API (JWT verified when configured; required in strict mode)
	authed := auth.Middleware(verifier, cfg.RequireAuth)
	app.Post("/circles/join", authed, handler.CircleJoin)
	app.Post("/notify", authed, handler.NotifyEntry)
	app.Post("/comments", authed, handler.Comment)
	app.Post("/reactions", authed, handler.React)
	app.Get("/reactions", authed, handler.GetReactions)
	app.Post("/push-tokens", authed, handler.RegisterPushToken)
	app.Post("/images/upload", authed, handler.UploadImage)
	log.Println("✅ [ROUTES] Registered web + mobile API routes")

	// Scheduled jobs (invoked by the external cron runner)
	cronAuth := httptransport.CronAuth(cfg.CronSecret)
	app.Get("/lookbacks/send", cronAuth, handler.SendLookbacks)
	app.Get("/weekly-recap/send", cronAuth, handler.SendWeeklyRecap)
	app.Post("/weekly-recap/send", cronAuth, handler.SendWeeklyRecap)
	app.Get("/backup", cronAuth, handler.Backup)
	log.Println("✅ [ROUTES] Registered scheduled job routes")

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("🛑 [SHUTDOWN] Graceful shutdown initiated...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ [SHUTDOWN] Error: %v", err)
		}
	}()

	log.Printf("🚀 grateful-service starting...")
	log.Printf("   🔗 Listening on port: %s", cfg.ServerPort)
	log.Printf("   🌐 CORS allowed origins: %s", cfg.AllowedOrigins)
	log.Println("✅ Server ready.")

	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("❌ [STARTUP] Server failed to start: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var errMsg string
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		errMsg = e.Message
	} else {
		errMsg = err.Error()
	}
	log.Printf("🔥 [ERROR] [%d] %s %s → %v | IP=%s",
		code, c.Method(), c.Path(), errMsg, c.IP())
	return c.Status(code).JSON(fiber.Map{"error": "something went wrong"})
}
