package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/senyabanana/tender-marketplace/internal/clock"
	"github.com/senyabanana/tender-marketplace/internal/db"
	"github.com/senyabanana/tender-marketplace/internal/events"
	"github.com/senyabanana/tender-marketplace/internal/handlers"
	"github.com/senyabanana/tender-marketplace/internal/repository"
	"github.com/senyabanana/tender-marketplace/internal/router"
	"github.com/senyabanana/tender-marketplace/internal/router/config"
	"github.com/senyabanana/tender-marketplace/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(cfg)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer dbPool.Close()

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)
	clk := clock.Real{}
	publisher := events.NewPublisher("tender-marketplace", cfg.EventWebhookURL)

	requestRepo := repository.NewPostgresRequestRepository(dbPool)
	offerRepo := repository.NewPostgresOfferRepository(dbPool)
	contractRepo := repository.NewPostgresContractRepository(dbPool)
	questionRepo := repository.NewPostgresQuestionRepository(dbPool)

	winnerService := services.NewWinnerService(requestRepo, offerRepo, contractRepo, clk, publisher)
	requestService := services.NewRequestService(requestRepo, offerRepo, winnerService, clk)
	offerService := services.NewOfferService(offerRepo, requestService, clk, publisher)
	questionService := services.NewQuestionService(questionRepo, requestService, clk, publisher)

	requestHandler := handlers.NewRequestHandler(requestService, winnerService, logger, 5*time.Second)
	offerHandler := handlers.NewOfferHandler(offerService, logger, 5*time.Second)
	questionHandler := handlers.NewQuestionHandler(questionService, logger, 5*time.Second)

	// Дедлайны оцениваются лениво при чтении; свипер - дополнительный
	// фоновый проход, включается через SWEEP_INTERVAL.
	if cfg.SweepInterval != "" {
		interval, err := time.ParseDuration(cfg.SweepInterval)
		if err != nil {
			log.Fatalf("invalid SWEEP_INTERVAL: %v", err)
		}
		go runSweeper(requestService, logger, interval)
	}

	routes := router.InitRoutes(requestHandler, offerHandler, questionHandler)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runSweeper(requestService *services.RequestService, logger *log.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := requestService.SweepDue(ctx); err != nil {
			logger.Printf("deadline sweep failed: %v", err)
		}
		cancel()
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
