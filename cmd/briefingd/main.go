// Command briefingd runs the briefing on a cron schedule: one collection
// pass immediately on startup, then one per tick until SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-briefing/pkg/archive"
	"ai-briefing/pkg/excerpt"
	"ai-briefing/pkg/httpclient"
	"ai-briefing/pkg/render"
	"ai-briefing/pkg/run"
	"ai-briefing/pkg/sched"
	"ai-briefing/pkg/source"
)

func main() {
	var (
		configPath = flag.String("config", "", "Sources YAML file (empty uses the built-in registry)")
		cronSpec   = flag.String("cron", envOr("BRIEFING_CRON", "0 7 * * *"), "Cron spec for scheduled runs")
		backend    = flag.String("store", envOr("BRIEFING_STORE", archive.BackendFile), "Storage backend: file, postgres, supabase, or mongo")
		dataDir    = flag.String("data", "data", "Data directory for the file backend")
		siteDir    = flag.String("site", "site", "Output directory for the rendered site")
		excerpts   = flag.Bool("excerpts", false, "Fetch article pages to fill missing summaries")
		timeout    = flag.Duration("source-timeout", httpclient.DefaultTimeout, "Per-source fetch-and-extract timeout")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sources, err := source.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}

	store, cleanup, err := archive.Open(ctx, archive.OpenOptions{
		Backend:            *backend,
		DataDir:            *dataDir,
		PostgresDSN:        os.Getenv("POSTGRES_DSN"),
		SupabaseConnString: os.Getenv("SUPABASE_CONN_STRING"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseKey:        os.Getenv("SUPABASE_KEY"),
		SupabasePassword:   os.Getenv("SUPABASE_DB_PASSWORD"),
		MongoURI:           envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      envOr("MONGO_DB", "briefing"),
	})
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", *backend, err)
	}
	defer cleanup()

	var enricher run.Enricher
	if *excerpts {
		enricher = excerpt.NewDefaultEnricher()
	}

	client := httpclient.NewClient(httpclient.BrowserClient)
	runner := run.NewRunner(sources, client, store, enricher, *timeout)

	site, err := render.NewSite(sources)
	if err != nil {
		log.Fatalf("Failed to prepare site renderer: %v", err)
	}

	job := func() error {
		if err := runner.Run(ctx, time.Now()); err != nil {
			return err
		}
		st, err := store.Load(ctx)
		if err != nil {
			return err
		}
		return site.WriteAll(*siteDir, st)
	}

	scheduler, err := sched.New(*cronSpec, job)
	if err != nil {
		log.Fatalf("Failed to build scheduler: %v", err)
	}

	log.Printf("Running initial collection pass")
	if err := job(); err != nil {
		log.Printf("Initial run failed: %v", err)
	}

	scheduler.Start()
	log.Printf("Scheduled runs on %q, waiting", *cronSpec)

	<-ctx.Done()
	log.Printf("Shutting down")
	scheduler.Stop()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
