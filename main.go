package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"ai-briefing/pkg/archive"
	"ai-briefing/pkg/excerpt"
	"ai-briefing/pkg/httpclient"
	"ai-briefing/pkg/render"
	"ai-briefing/pkg/run"
	"ai-briefing/pkg/source"
)

func main() {
	var (
		configPath = flag.String("config", "", "Sources YAML file (empty uses the built-in registry)")
		backend    = flag.String("store", envOr("BRIEFING_STORE", archive.BackendFile), "Storage backend: file, postgres, supabase, or mongo")
		dataDir    = flag.String("data", "data", "Data directory for the file backend")
		siteDir    = flag.String("site", "site", "Output directory for the rendered site")
		noSite     = flag.Bool("no-site", false, "Skip rendering the static site after the run")
		excerpts   = flag.Bool("excerpts", false, "Fetch article pages to fill missing summaries")
		timeout    = flag.Duration("source-timeout", httpclient.DefaultTimeout, "Per-source fetch-and-extract timeout")
	)
	flag.Parse()

	ctx := context.Background()

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

	start := time.Now()
	log.Printf("Collecting %d sources", len(sources))
	if err := runner.Run(ctx, time.Now()); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	log.Printf("Collection done in %s", time.Since(start))

	if *noSite {
		return
	}

	st, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to reload archive for rendering: %v", err)
	}
	site, err := render.NewSite(sources)
	if err != nil {
		log.Fatalf("Failed to prepare site renderer: %v", err)
	}
	if err := site.WriteAll(*siteDir, st); err != nil {
		log.Fatalf("Failed to write site: %v", err)
	}
	log.Printf("Site written to %s", *siteDir)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
