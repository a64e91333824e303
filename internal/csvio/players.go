package csvio

import (
	"strconv"

	"github.com/halverson/scoutline/internal/prospect"
)

// PlayerStatColumns is the scorer's input schema plus the roster metadata
// the EliteProspects collaborator attaches.
var PlayerStatColumns = []string{
	"Player", "Team", "Position", "GP", "G", "A", "PPG",
	"BirthYear", "Nationality", "Jersey", "EP_Team_ID", "TeamLogoFile",
	"EP_URL", "Level", "Class 1", "Class 2", "Class 3", "Season",
	"OpponentRating",
}

// PlayerStatsTable converts assembled player rows to the exchange table.
func PlayerStatsTable(players []prospect.PlayerStat) *Table {
	t := NewTable(PlayerStatColumns...)
	for _, p := range players {
		t.Append(
			p.Player, p.Team, p.Position,
			strconv.Itoa(p.GamesPlayed), strconv.Itoa(p.Goals), strconv.Itoa(p.Assists),
			strconv.FormatFloat(p.PPG, 'f', -1, 64),
			p.BirthYear, p.Nationality, p.Jersey, p.EPTeamID, p.TeamLogoFile,
			p.EPURL, p.Level, p.Class1, p.Class2, p.Class3, p.Season,
			p.OpponentRating,
		)
	}
	return t
}

// League is one row of the pipeline's league input file: a standings page
// URL plus the context fields stamped onto every team scraped from it.
type League struct {
	StandingsURL string
	Level        string
	Class1       string
	Class2       string
	Class3       string
	Season       string
}

// ReadLeagues loads the league input file.
func ReadLeagues(path string) ([]League, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.RequireCols("MHR"); err != nil {
		return nil, err
	}

	leagues := make([]League, 0, t.Len())
	for i := range t.Rows {
		leagues = append(leagues, League{
			StandingsURL: t.Get(i, "MHR"),
			Level:        t.Get(i, "Level"),
			Class1:       t.Get(i, "Class 1"),
			Class2:       t.Get(i, "Class 2"),
			Class3:       t.Get(i, "Class 3"),
			Season:       t.Get(i, "Season"),
		})
	}
	return leagues, nil
}

// FollowUp records a team that produced no usable player data and needs
// manual review.
type FollowUp struct {
	Team  string
	EPURL string
	Note  string
}

// FollowUpsTable converts the manual-follow-up list to a table.
func FollowUpsTable(items []FollowUp) *Table {
	t := NewTable("Team", "EP_URL", "Note")
	for _, fu := range items {
		t.Append(fu.Team, fu.EPURL, fu.Note)
	}
	return t
}
