package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HomeServicesAPI/external/resend"
	"HomeServicesAPI/internal/config"
	"HomeServicesAPI/internal/db"
	"HomeServicesAPI/internal/events"
	"HomeServicesAPI/internal/redisx"
	"HomeServicesAPI/internal/repository"
	"HomeServicesAPI/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic, cfg.ServiceName, 1024)
	producer.Start(ctx)

	// ======================
	// EXTERNALS
	// ======================
	var mailer services.Mailer
	if os.Getenv("RESEND_API_KEY") != "" {
		m, err := resend.NewResendMailer(cfg.MailFrom)
		if err != nil {
			log.Fatal(err)
		}
		mailer = m
	} else {
		log.Println("RESEND_API_KEY not set, confirmation emails disabled")
	}

	// ======================
	// REPOSITORIES
	// ======================
	catalogRepo := repository.NewCatalogRepository(pool)
	taxRepo := repository.NewTaxRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// ======================
	// SERVICES
	// ======================
	bookingSvc := services.NewBookingService(bookingRepo)
	checkoutSvc := services.NewCheckoutService(catalogRepo, taxRepo, orderRepo, mailer, producer)
	orderSvc := services.NewOrderService(orderRepo, producer)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAvailabilityRoutes(api, bookingSvc)
	registerCatalogRoutes(api, checkoutSvc, taxRepo)
	registerCheckoutRoutes(api, checkoutSvc, rdb)
	registerOrderRoutes(api, orderSvc, rdb)

	// ======================
	// SERVER
	// ======================
	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = e.Shutdown(shutdownCtx)
	producer.Close()
	producer.WaitClosed()
}
