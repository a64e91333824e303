package ep

import (
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/normalize"
	"github.com/halverson/scoutline/internal/prospect"
)

// PageFetcher is the slice of Client the ingester needs; tests stub it.
type PageFetcher interface {
	FetchRoster(ctx context.Context, teamURL string) (string, error)
	FetchStats(ctx context.Context, teamURL string) (string, error)
	Restart(ctx context.Context) error
}

// Ingester assembles player stat rows for matched teams, combining the
// stats tab with roster metadata and the team context from matching.
type Ingester struct {
	fetcher PageFetcher

	// Retries and RetryDelay govern per-page fetch attempts.
	Retries    int
	RetryDelay time.Duration

	// RestartEvery bounds how many teams one browser session serves.
	RestartEvery int

	// LocalStatsDir, when set, lets a hand-collected stats file for a
	// team replace the stats scrape. Roster metadata is still scraped.
	LocalStatsDir string

	fetched int
}

// NewIngester creates an ingester with the standard retry and session
// policy.
func NewIngester(fetcher PageFetcher) *Ingester {
	return &Ingester{
		fetcher:      fetcher,
		Retries:      3,
		RetryDelay:   5 * time.Second,
		RestartEvery: 30,
	}
}

// IngestTeam fetches and assembles one matched team's player rows. An
// empty result with a nil error means the team produced no usable data;
// the caller records it for manual follow-up and moves on.
func (ing *Ingester) IngestTeam(ctx context.Context, team prospect.MatchedTeam) ([]prospect.PlayerStat, error) {
	if team.EPURL == "" {
		return nil, fmt.Errorf("team %s has no profile URL", team.Team)
	}

	if ing.RestartEvery > 0 && ing.fetched > 0 && ing.fetched%ing.RestartEvery == 0 {
		log.Printf("Restarting session after %d teams", ing.fetched)
		if err := ing.fetcher.Restart(ctx); err != nil {
			return nil, fmt.Errorf("restarting session: %w", err)
		}
	}
	ing.fetched++

	stats, err := ing.loadStats(ctx, team)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, nil
	}

	roster, logoURL := ing.loadRoster(ctx, team)
	byName := make(map[string]RosterEntry, len(roster))
	for _, entry := range roster {
		byName[normalize.Name(entry.Player)] = entry
	}

	teamID := TeamID(team.EPURL)
	logoFile := ""
	if teamID != "" {
		ext := path.Ext(logoURL)
		if ext == "" {
			ext = ".jpg"
		}
		logoFile = teamID + ext
	}

	players := make([]prospect.PlayerStat, 0, len(stats))
	for _, line := range stats {
		p := prospect.PlayerStat{
			Player:         normalize.ASCII(line.Player),
			Team:           team.Team,
			Position:       line.Position,
			GamesPlayed:    line.GP,
			Goals:          line.G,
			Assists:        line.A,
			PPG:            line.PPG,
			EPURL:          team.EPURL,
			Level:          team.Level,
			Class1:         team.Class1,
			Class2:         team.Class2,
			Class3:         team.Class3,
			Season:         team.Season,
			OpponentRating: team.OpponentRating,
			EPTeamID:       teamID,
			TeamLogoFile:   logoFile,
		}
		if entry, ok := byName[normalize.Name(line.Player)]; ok {
			p.BirthYear = entry.BirthYear
			p.Nationality = entry.Nationality
			p.Jersey = entry.Jersey
		}
		players = append(players, p)
	}
	return players, nil
}

// loadStats prefers a local stats file when one exists for the team.
func (ing *Ingester) loadStats(ctx context.Context, team prospect.MatchedTeam) ([]StatLine, error) {
	if ing.LocalStatsDir != "" {
		path := filepath.Join(ing.LocalStatsDir, normalize.FileName(team.Team)+".csv")
		if _, err := os.Stat(path); err == nil {
			log.Printf("Loading local stats for %s from %s", team.Team, path)
			return loadLocalStats(path)
		}
	}

	html, err := ing.fetchWithRetry(ctx, team.Team+" stats", func(ctx context.Context) (string, error) {
		return ing.fetcher.FetchStats(ctx, team.EPURL)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching stats for %s: %w", team.Team, err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parsing stats for %s: %w", team.Team, err)
	}
	return ParseStats(doc), nil
}

// loadRoster is best-effort: stats rows stand on their own, roster
// metadata and the logo URL only enrich them.
func (ing *Ingester) loadRoster(ctx context.Context, team prospect.MatchedTeam) ([]RosterEntry, string) {
	html, err := ing.fetchWithRetry(ctx, team.Team+" roster", func(ctx context.Context) (string, error) {
		return ing.fetcher.FetchRoster(ctx, team.EPURL)
	})
	if err != nil {
		log.Printf("roster fetch failed for %s: %v", team.Team, err)
		return nil, ""
	}
	doc, err := ParseHTML(html)
	if err != nil {
		log.Printf("roster parse failed for %s: %v", team.Team, err)
		return nil, ""
	}
	return ParseRoster(doc), LogoURL(doc)
}

func (ing *Ingester) fetchWithRetry(ctx context.Context, what string, fetch func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= ing.Retries; attempt++ {
		html, err := fetch(ctx)
		if err == nil {
			return html, nil
		}
		lastErr = err
		log.Printf("Attempt %d/%d failed for %s: %v", attempt, ing.Retries, what, err)

		if attempt < ing.Retries {
			select {
			case <-time.After(ing.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", lastErr
}

// loadLocalStats reads a hand-collected stats file, accepting the long
// column names local exports use.
func loadLocalStats(path string) ([]StatLine, error) {
	t, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}

	col := func(names ...string) string {
		for _, n := range names {
			if t.HasCol(n) {
				return n
			}
		}
		return ""
	}
	playerCol := col("Player", "player")
	gpCol := col("GP", "GamesPlayed", "gp")
	gCol := col("G", "Goals", "g")
	aCol := col("A", "Assists", "a")
	posCol := col("Position", "position")
	if playerCol == "" || gpCol == "" || gCol == "" || aCol == "" {
		return nil, fmt.Errorf("%s: missing player or stat columns", path)
	}

	var stats []StatLine
	for i := range t.Rows {
		player := strings.TrimSpace(t.Get(i, playerCol))
		if player == "" {
			continue
		}
		gp, err1 := strconv.Atoi(strings.TrimSpace(t.Get(i, gpCol)))
		g, err2 := strconv.Atoi(strings.TrimSpace(t.Get(i, gCol)))
		a, err3 := strconv.Atoi(strings.TrimSpace(t.Get(i, aCol)))
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}

		position := "F"
		if posCol != "" && strings.TrimSpace(t.Get(i, posCol)) != "" {
			position = strings.TrimSpace(t.Get(i, posCol))
		}

		ppg := 0.0
		if gp > 0 {
			ppg = float64(g+a) / float64(gp)
		}
		stats = append(stats, StatLine{Player: player, Position: position, GP: gp, G: g, A: a, PPG: ppg})
	}
	return stats, nil
}
