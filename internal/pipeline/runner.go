package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/halverson/scoutline/internal/ageclass"
	"github.com/halverson/scoutline/internal/config"
	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/matching"
	"github.com/halverson/scoutline/internal/prospect"
	"github.com/halverson/scoutline/internal/scoring"
)

// ErrNoData reports a run that produced no player rows at all. Individual
// team failures are follow-ups, not errors; a wholly empty run is fatal.
var ErrNoData = errors.New("pipeline produced no player rows")

// StandingsSource scrapes one league's standings page into team records.
type StandingsSource interface {
	IngestLeague(ctx context.Context, league csvio.League) ([]prospect.TeamRecord, error)
}

// StatsSource assembles player rows for one matched team.
type StatsSource interface {
	IngestTeam(ctx context.Context, team prospect.MatchedTeam) ([]prospect.PlayerStat, error)
}

// Runner executes the full season pipeline: scrape standings, match teams
// against the reference mapping, ingest player stats, score cohorts.
type Runner struct {
	standings StandingsSource
	stats     StatsSource
	cfg       *config.Config
}

// NewRunner constructs a runner over the given sources.
func NewRunner(cfg *config.Config, standings StandingsSource, stats StatsSource) *Runner {
	return &Runner{standings: standings, stats: stats, cfg: cfg}
}

// Run executes the run spec, reporting progress via the Reporter if provided.
func (r *Runner) Run(ctx context.Context, spec RunSpec, reporter Reporter) error {
	runID := uuid.NewString()

	if spec.Season == "" {
		spec.Season = r.cfg.Season
	}
	if spec.OutputDir == "" {
		spec.OutputDir = r.cfg.OutputDir
	}

	if reporter != nil {
		reporter.OnRunStart(runID, spec)
	}

	seasonEnd, err := ageclass.SeasonEndYear(spec.Season)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("season %q: %w", spec.Season, err))
	}

	leagues, err := csvio.ReadLeagues(r.cfg.LeaguesFile)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("reading leagues: %w", err))
	}
	refs, err := csvio.ReadReferenceTeams(r.cfg.ReferenceFile)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("reading reference teams: %w", err))
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Dry-run: %d leagues, %d reference teams, no data will be written",
				len(leagues), len(refs)), 0, 0)
			reporter.OnRunComplete(runID)
		}
		return nil
	}

	if err := os.MkdirAll(spec.OutputDir, 0o755); err != nil {
		return r.fail(reporter, fmt.Errorf("creating output dir: %w", err))
	}

	teams, err := r.collectTeams(ctx, spec, leagues, reporter)
	if err != nil {
		return r.fail(reporter, err)
	}

	if reporter != nil {
		reporter.OnPhaseStart("matching")
	}
	matcher := matching.NewMatcher(refs)
	result, _ := matcher.Match(teams, nil)

	var followUps []csvio.FollowUp
	for _, name := range result.Unmatched {
		followUps = append(followUps, csvio.FollowUp{Team: name, Note: "no reference match"})
	}
	if err := csvio.WriteFile(filepath.Join(spec.OutputDir, MatchedTeamsFile),
		csvio.MatchedTeamsTable(result.Matched)); err != nil {
		return r.fail(reporter, fmt.Errorf("writing matched teams: %w", err))
	}

	if reporter != nil {
		reporter.OnPhaseStart("player stats")
	}
	var players []prospect.PlayerStat
	total := len(result.Matched)
	for idx, team := range result.Matched {
		if err := ctx.Err(); err != nil {
			return r.fail(reporter, err)
		}
		if reporter != nil {
			reporter.OnTeamProcessed(team.Team, idx+1, total)
		}

		rows, err := r.stats.IngestTeam(ctx, team)
		if err != nil {
			log.Printf("Team %s failed: %v", team.Team, err)
			followUps = append(followUps, csvio.FollowUp{Team: team.Team, EPURL: team.EPURL, Note: err.Error()})
			continue
		}
		if len(rows) == 0 {
			followUps = append(followUps, csvio.FollowUp{Team: team.Team, EPURL: team.EPURL, Note: "no player rows"})
			continue
		}
		players = append(players, rows...)
	}

	if len(followUps) > 0 {
		if err := csvio.WriteFile(filepath.Join(spec.OutputDir, FollowUpsFile),
			csvio.FollowUpsTable(followUps)); err != nil {
			return r.fail(reporter, fmt.Errorf("writing follow-ups: %w", err))
		}
	}
	if len(players) == 0 {
		return r.fail(reporter, ErrNoData)
	}

	statsTable := csvio.PlayerStatsTable(players)
	if err := csvio.WriteFile(filepath.Join(spec.OutputDir, PlayerStatsFile), statsTable); err != nil {
		return r.fail(reporter, fmt.Errorf("writing player stats: %w", err))
	}

	if reporter != nil {
		reporter.OnPhaseStart("scoring")
	}
	cohorts, err := scoring.New(seasonEnd).Score(statsTable)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("scoring: %w", err))
	}

	cohortsDir := filepath.Join(spec.OutputDir, CohortsDir)
	if err := os.MkdirAll(cohortsDir, 0o755); err != nil {
		return r.fail(reporter, fmt.Errorf("creating cohorts dir: %w", err))
	}
	for idx, cohort := range cohorts {
		path, err := csvio.WriteCohortFile(cohortsDir, cohort.Value, cohort.Table)
		if err != nil {
			return r.fail(reporter, fmt.Errorf("writing cohort %s: %w", cohort.Value, err))
		}
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("✓ Cohort %s written to %s", cohort.Value, path), idx+1, len(cohorts))
		}
	}

	if reporter != nil {
		reporter.OnRunComplete(runID)
	}
	return nil
}

// collectTeams scrapes every league, or replays a prior run's scraped CSV.
func (r *Runner) collectTeams(ctx context.Context, spec RunSpec, leagues []csvio.League, reporter Reporter) ([]prospect.TeamRecord, error) {
	scrapedPath := filepath.Join(spec.OutputDir, ScrapedTeamsFile)

	if spec.SkipScrape {
		if reporter != nil {
			reporter.OnPhaseStart("replaying scraped teams")
		}
		teams, err := csvio.ReadScrapedTeams(scrapedPath)
		if err != nil {
			return nil, fmt.Errorf("replaying scraped teams: %w", err)
		}
		return teams, nil
	}

	if reporter != nil {
		reporter.OnPhaseStart("scraping standings")
	}
	var teams []prospect.TeamRecord
	for idx, league := range leagues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if league.Season == "" {
			league.Season = spec.Season
		}
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("League %s (%d/%d)", league.StandingsURL, idx+1, len(leagues)), idx, len(leagues))
		}

		recs, err := r.standings.IngestLeague(ctx, league)
		if err != nil {
			return nil, fmt.Errorf("league %s: %w", league.StandingsURL, err)
		}
		teams = append(teams, recs...)
	}

	if err := csvio.WriteFile(scrapedPath, csvio.ScrapedTeamsTable(teams)); err != nil {
		return nil, fmt.Errorf("writing scraped teams: %w", err)
	}
	return teams, nil
}

func (r *Runner) fail(reporter Reporter, err error) error {
	if reporter != nil {
		reporter.OnRunError(err)
	}
	return err
}
