package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/halverson/scoutline/internal/cache"
	"github.com/halverson/scoutline/internal/config"
	"github.com/halverson/scoutline/internal/ingest"
	"github.com/halverson/scoutline/internal/ingest/ep"
	"github.com/halverson/scoutline/internal/ingest/mhr"
	"github.com/halverson/scoutline/internal/pipeline"
)

const (
	appName    = "scoutline"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		configPath = flag.String("config", "", "Config file path (YAML); SCOUTLINE_CONFIG also works")
		season     = flag.String("season", "", "Season to process (e.g., 2023-2024); overrides config")
		outputDir  = flag.String("out", "", "Output directory; overrides config")
		skipScrape = flag.Bool("skip-scrape", false, "Replay scraped teams from a prior run's CSV")
		dryRun     = flag.Bool("dry-run", false, "Validate inputs without scraping or writing")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pageCache ingest.PageCache
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		log.Println("✓ Connected to Redis")
		pageCache = redisCache
	}

	standingsClient, err := mhr.NewClient(pageCache)
	if err != nil {
		log.Fatalf("start standings client: %v", err)
	}
	defer standingsClient.Close()
	standingsClient.CacheTTL = cfg.PageCacheTTL()

	profileClient, err := ep.NewClient(ctx, ep.Credentials{
		LoginURL: cfg.EPLoginURL,
		Email:    cfg.EPEmail,
		Password: cfg.EPPassword,
	}, pageCache)
	if err != nil {
		log.Fatalf("start profile client: %v", err)
	}
	defer profileClient.Close()
	profileClient.CacheTTL = cfg.PageCacheTTL()

	ingester := ep.NewIngester(profileClient)
	ingester.Retries = cfg.Retries
	ingester.RetryDelay = cfg.RetryDelay()
	ingester.RestartEvery = cfg.RestartEvery
	ingester.LocalStatsDir = cfg.LocalStatsDir

	runner := pipeline.NewRunner(cfg, mhr.NewIngester(standingsClient), ingester)

	spec := pipeline.RunSpec{
		Season:     *season,
		OutputDir:  *outputDir,
		SkipScrape: *skipScrape,
		DryRun:     *dryRun,
	}

	if err := runner.Run(ctx, spec, &consoleReporter{dryRun: *dryRun}); err != nil {
		log.Fatalf("run failed: %v", err)
	}

	log.Println("✓ Run completed successfully")
}

type consoleReporter struct {
	dryRun bool
}

func (c *consoleReporter) OnRunStart(runID string, spec pipeline.RunSpec) {
	log.Printf("Starting run %s for season %s (dry_run=%v)", runID, spec.Season, c.dryRun)
}

func (c *consoleReporter) OnPhaseStart(phase string) {
	log.Printf("--- %s ---", phase)
}

func (c *consoleReporter) OnTeamProcessed(team string, index int, total int) {
	log.Printf("[%d/%d] %s", index, total, team)
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	log.Printf("Progress: %s (%d/%d)", message, current, total)
}

func (c *consoleReporter) OnRunComplete(runID string) {
	log.Printf("Run %s complete", runID)
}

func (c *consoleReporter) OnRunError(err error) {
	log.Printf("Run error: %v", err)
}
