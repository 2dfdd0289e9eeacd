package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-backend/internal/cache"
	"crm-backend/internal/config"
	"crm-backend/internal/database"
	"crm-backend/internal/db"
	"crm-backend/internal/handlers"
	apphttp "crm-backend/internal/http"
	"crm-backend/internal/repositories"
	"crm-backend/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	if err := database.NewMigrator(pool).RunMigrations(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, feed counts will hit the database")
	}

	contactRepo := repositories.NewContactRepository(pool)
	enquiryRepo := repositories.NewEnquiryRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	activityRepo := repositories.NewActivityRepository(pool)
	counterRepo := repositories.NewYearCounterRepository(pool)

	recorder := services.NewRecorder(activityRepo)
	issuer := services.NewNumberIssuer(counterRepo)

	contactSvc := services.NewContactService(contactRepo, recorder)
	enquirySvc := services.NewEnquiryService(enquiryRepo, contactRepo, recorder)
	bookingSvc := services.NewBookingService(bookingRepo, contactRepo, recorder)
	ledgerSvc := services.NewLedgerService(invoiceRepo, contactRepo, bookingRepo, issuer)
	feedSvc := services.NewFeedService(activityRepo)

	router := apphttp.NewRouter(cfg, apphttp.Handlers{
		Health:   handlers.NewHealthHandler(pool),
		Contact:  handlers.NewContactHandler(contactSvc),
		Enquiry:  handlers.NewEnquiryHandler(enquirySvc),
		Booking:  handlers.NewBookingHandler(bookingSvc),
		Invoice:  handlers.NewInvoiceHandler(ledgerSvc),
		Activity: handlers.NewActivityHandler(recorder, feedSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
