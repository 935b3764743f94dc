package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "prospector/internal/adapters/http"
	pg "prospector/internal/adapters/postgres"
	"prospector/internal/adapters/serpapi"
	"prospector/internal/adapters/sitefetch"
	"prospector/internal/config"
	"prospector/internal/ports"
	campsvc "prospector/internal/services/campaigns"
	leadsvc "prospector/internal/services/leads"
	scrapesvc "prospector/internal/services/scraper"
	"prospector/internal/workers/scraperunner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("warning: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if err := pg.Migrate(db); err != nil {
		log.Fatalf("migrate error: %v", err)
	}

	// Pick the listing source once; synthetic placeholders are never mixed
	// with real provider data in the same process.
	var source ports.ListingSource
	if cfg.SerpAPIKey != "" {
		source = serpapi.New(cfg.SerpAPIKey)
	} else {
		log.Printf("SERPAPI_KEY not set, using synthetic listings")
		source = serpapi.NewSynthetic()
	}

	pipeline := scrapesvc.New(db, db, source, cfg.Rules, cfg.FetchLimit)
	runner := scraperunner.New(db, pipeline, cfg.BatchSize, cfg.LeaseTimeout)
	campaigns := campsvc.New(db, db)
	leads := leadsvc.New(db)
	sites := sitefetch.New()

	srv := httpadapter.New(campaigns, leads, runner, sites, db, cfg.WorkerSecret, cfg.APIKey)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	// Optional background worker loop; the /worker/run trigger covers
	// deployments that rely on an external cron instead.
	if cfg.WorkerPoll > 0 {
		go runner.Run(ctx, cfg.WorkerPoll)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Printf("listening on %s (source=%s)", cfg.ListenAddr, source.Name())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal(fmt.Errorf("server error: %w", err))
	}
}
