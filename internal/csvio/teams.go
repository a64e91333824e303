package csvio

import (
	"strconv"
	"strings"

	"github.com/halverson/scoutline/internal/normalize"
	"github.com/halverson/scoutline/internal/prospect"
)

// Column orders are a compatibility surface shared with the scraping
// collaborators and any downstream consumer; keep them stable.
var (
	ScrapedTeamColumns = []string{
		"Team", "NormalizedTeam", "AgeLevel", "Record", "TeamRating", "AGD",
		"OpponentRating", "EP_URL", "OtherLinks", "Level", "Class 1",
		"Class 2", "Class 3", "Season", "BirthYear", "ClassLevel",
	}
	ReferenceTeamColumns = []string{
		"Team", "NormalizedTeam", "EP_URL", "Level", "Class 1", "Class 2", "Class 3",
	}
	MatchedTeamColumns = []string{
		"Team", "EP_URL", "Level", "Class 1", "Class 2", "Class 3",
		"Season", "TeamRating", "OpponentRating",
	}
)

// ScrapedTeamsTable converts scraped team records to the exchange table.
func ScrapedTeamsTable(teams []prospect.TeamRecord) *Table {
	t := NewTable(ScrapedTeamColumns...)
	for _, tm := range teams {
		birthYear := ""
		if tm.BirthYear.Valid {
			birthYear = strconv.Itoa(tm.BirthYear.Value)
		}
		t.Append(
			tm.Team, tm.NormalizedTeam, tm.AgeLevel, tm.Record, tm.TeamRating,
			tm.AGD, tm.OpponentRating, tm.EPURL, strings.Join(tm.OtherLinks, ", "),
			tm.Level, tm.Class1, tm.Class2, tm.Class3, tm.Season,
			birthYear, tm.ClassLevel,
		)
	}
	return t
}

// ReadScrapedTeams loads a previously written scraped-team file, used to
// replay a run without re-scraping.
func ReadScrapedTeams(path string) ([]prospect.TeamRecord, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.RequireCols("Team", "NormalizedTeam", "OpponentRating"); err != nil {
		return nil, err
	}

	teams := make([]prospect.TeamRecord, 0, t.Len())
	for i := range t.Rows {
		var links []string
		if raw := t.Get(i, "OtherLinks"); raw != "" {
			links = strings.Split(raw, ", ")
		}
		teams = append(teams, prospect.TeamRecord{
			Team:           t.Get(i, "Team"),
			NormalizedTeam: t.Get(i, "NormalizedTeam"),
			AgeLevel:       t.Get(i, "AgeLevel"),
			Record:         t.Get(i, "Record"),
			TeamRating:     t.Get(i, "TeamRating"),
			AGD:            t.Get(i, "AGD"),
			OpponentRating: t.Get(i, "OpponentRating"),
			EPURL:          t.Get(i, "EP_URL"),
			OtherLinks:     links,
			Level:          t.Get(i, "Level"),
			Class1:         t.Get(i, "Class 1"),
			Class2:         t.Get(i, "Class 2"),
			Class3:         t.Get(i, "Class 3"),
			Season:         t.Get(i, "Season"),
			BirthYear:      parseOptInt(t.Get(i, "BirthYear")),
			ClassLevel:     t.Get(i, "ClassLevel"),
		})
	}
	return teams, nil
}

// ReadReferenceTeams loads the reference mapping. Normalized names are
// recomputed from the raw team name so the file never has to carry them.
func ReadReferenceTeams(path string) ([]prospect.ReferenceTeam, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.RequireCols("Team", "EP_URL"); err != nil {
		return nil, err
	}

	refs := make([]prospect.ReferenceTeam, 0, t.Len())
	for i := range t.Rows {
		refs = append(refs, prospect.ReferenceTeam{
			Team:           t.Get(i, "Team"),
			NormalizedTeam: normalize.Name(t.Get(i, "Team")),
			EPURL:          t.Get(i, "EP_URL"),
			Level:          t.Get(i, "Level"),
			Class1:         t.Get(i, "Class 1"),
			Class2:         t.Get(i, "Class 2"),
			Class3:         t.Get(i, "Class 3"),
		})
	}
	return refs, nil
}

// MatchedTeamsTable converts matcher output to the exchange table.
func MatchedTeamsTable(teams []prospect.MatchedTeam) *Table {
	t := NewTable(MatchedTeamColumns...)
	for _, tm := range teams {
		t.Append(
			tm.Team, tm.EPURL, tm.Level, tm.Class1, tm.Class2, tm.Class3,
			tm.Season, tm.TeamRating, tm.OpponentRating,
		)
	}
	return t
}

// ReadMatchedTeams loads a matched-team file.
func ReadMatchedTeams(path string) ([]prospect.MatchedTeam, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := t.RequireCols("Team", "EP_URL"); err != nil {
		return nil, err
	}

	teams := make([]prospect.MatchedTeam, 0, t.Len())
	for i := range t.Rows {
		teams = append(teams, prospect.MatchedTeam{
			Team:           t.Get(i, "Team"),
			EPURL:          t.Get(i, "EP_URL"),
			Level:          t.Get(i, "Level"),
			Class1:         t.Get(i, "Class 1"),
			Class2:         t.Get(i, "Class 2"),
			Class3:         t.Get(i, "Class 3"),
			Season:         t.Get(i, "Season"),
			TeamRating:     t.Get(i, "TeamRating"),
			OpponentRating: t.Get(i, "OpponentRating"),
		})
	}
	return teams, nil
}

func parseOptInt(s string) prospect.OptInt {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return prospect.OptInt{}
	}
	return prospect.OptInt{Value: n, Valid: true}
}
