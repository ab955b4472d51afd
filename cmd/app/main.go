package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bagdasarian/meeting-cost-ticker/internal/config"
	"github.com/bagdasarian/meeting-cost-ticker/internal/db"
	"github.com/bagdasarian/meeting-cost-ticker/internal/handler"
	"github.com/bagdasarian/meeting-cost-ticker/internal/handler/server"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository/postgres"
	"github.com/bagdasarian/meeting-cost-ticker/internal/repository/sqlite"
	"github.com/bagdasarian/meeting-cost-ticker/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database := db.MustLoad(cfg)
	log.Printf("Successfully connected to %s database!", cfg.Database.Driver)
	defer database.Close()

	var meetingRepo repository.MeetingRepository
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		meetingRepo = postgres.NewMeetingRepository(database)
	default:
		meetingRepo = sqlite.NewMeetingRepository(database)
	}

	meetingService := service.NewMeetingService(meetingRepo, service.SystemClock)

	views, err := handler.NewViews(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	h := handler.NewHandler(meetingService, views)
	srv := server.NewServer(h, cfg.HTTP.Addr)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
}
