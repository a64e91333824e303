package pipeline

// Output file names within the run's output directory.
const (
	ScrapedTeamsFile = "scraped_teams.csv"
	MatchedTeamsFile = "matched_teams.csv"
	PlayerStatsFile  = "player_stats.csv"
	FollowUpsFile    = "follow_ups.csv"
	CohortsDir       = "cohorts"
)

// RunSpec describes one pipeline run.
type RunSpec struct {
	// Season being processed, e.g. "2023-2024".
	Season string

	// OutputDir receives every artifact of the run.
	OutputDir string

	// SkipScrape replays scraped teams from a prior run's CSV instead of
	// hitting the standings pages.
	SkipScrape bool

	// DryRun validates the inputs and writes nothing.
	DryRun bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnRunStart(runID string, spec RunSpec)
	OnPhaseStart(phase string)
	OnTeamProcessed(team string, index int, total int)
	OnProgress(message string, current int, total int)
	OnRunComplete(runID string)
	OnRunError(err error)
}
