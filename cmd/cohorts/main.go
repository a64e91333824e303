package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/halverson/scoutline/internal/ageclass"
	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/scoring"
)

const (
	appName    = "scoutline-cohorts"
	appVersion = "1.0.0"
)

// Re-scores an existing player-stats file without touching the scrapers,
// for reruns after hand-editing rows or tweaking a season.
func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		statsPath = flag.String("stats", "", "Player stats CSV to score")
		outDir    = flag.String("out", "cohorts", "Directory for per-cohort output files")
		season    = flag.String("season", "2023-2024", "Season the stats belong to (e.g., 2023-2024)")
	)
	flag.Parse()

	if *statsPath == "" {
		log.Fatalf("Specify --stats")
	}

	seasonEnd, err := ageclass.SeasonEndYear(*season)
	if err != nil {
		log.Fatalf("invalid season %q: %v", *season, err)
	}

	stats, err := csvio.ReadFile(*statsPath)
	if err != nil {
		log.Fatalf("read stats: %v", err)
	}
	log.Printf("Loaded %d player rows from %s", stats.Len(), *statsPath)

	cohorts, err := scoring.New(seasonEnd).Score(stats)
	if err != nil {
		if errors.Is(err, scoring.ErrNoRows) {
			log.Fatalf("no player rows to score in %s", *statsPath)
		}
		log.Fatalf("scoring: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	for _, cohort := range cohorts {
		path, err := csvio.WriteCohortFile(*outDir, cohort.Value, cohort.Table)
		if err != nil {
			log.Fatalf("write cohort %s: %v", cohort.Value, err)
		}
		log.Printf("✓ %s: %d players -> %s", cohort.Value, cohort.Table.Len(), path)
	}

	log.Printf("✓ Wrote %d cohort files", len(cohorts))
}
