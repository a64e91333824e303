package mhr

import (
	"context"
	"fmt"
	"log"

	"github.com/halverson/scoutline/internal/ageclass"
	"github.com/halverson/scoutline/internal/csvio"
	"github.com/halverson/scoutline/internal/prospect"
)

// Ingester fetches one league's standings and turns them into fully
// contextualized team records: league fields stamped on, birth year and
// class label resolved from the age code in the team name.
type Ingester struct {
	client *Client
}

// NewIngester creates a standings ingester over an existing client.
func NewIngester(client *Client) *Ingester {
	return &Ingester{client: client}
}

// IngestLeague scrapes a standings page and resolves each team's age
// class against the league context. Teams whose age code does not parse
// keep an absent birth year; that is a soft failure handled downstream.
func (ing *Ingester) IngestLeague(ctx context.Context, league csvio.League) ([]prospect.TeamRecord, error) {
	seasonEnd, err := ageclass.SeasonEndYear(league.Season)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w", league.StandingsURL, err)
	}

	html, err := ing.client.FetchStandings(ctx, league.StandingsURL)
	if err != nil {
		return nil, fmt.Errorf("fetching standings %s: %w", league.StandingsURL, err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("parsing standings %s: %w", league.StandingsURL, err)
	}

	teams := ParseStandings(doc)
	offset := ageclass.OffsetNation(league.Class1, league.Class2, league.Class3)
	for i := range teams {
		teams[i].Level = league.Level
		teams[i].Class1 = league.Class1
		teams[i].Class2 = league.Class2
		teams[i].Class3 = league.Class3
		teams[i].Season = league.Season
		teams[i].BirthYear = ageclass.BirthYearFromCode(teams[i].AgeLevel)
		teams[i].ClassLevel = ageclass.ClassLabel(teams[i].BirthYear, seasonEnd, offset)
	}

	log.Printf("Ingested %d teams from %s", len(teams), league.StandingsURL)
	return teams, nil
}
