package mhr

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/halverson/scoutline/internal/normalize"
	"github.com/halverson/scoutline/internal/prospect"
)

// MaxTeamsPerPage caps how many teams one standings page contributes.
// Standings below that depth are noise for prospect scouting.
const MaxTeamsPerPage = 200

// profileHost marks the canonical profile link among a team's link cell.
const profileHost = "eliteprospects.com"

var (
	ratingClean = regexp.MustCompile(`[^\d.]+`)
	agdClean    = regexp.MustCompile(`[^\d.-]+`)
)

// ParseStandings extracts team rows from the first table of a standings
// page. Rows with fewer than 7 cells are skipped, repeated team names are
// kept once, and parsing stops at MaxTeamsPerPage.
func ParseStandings(doc *goquery.Document) []prospect.TeamRecord {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		log.Printf("no standings table found")
		return nil
	}

	var teams []prospect.TeamRecord
	seen := make(map[string]struct{})

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || len(teams) >= MaxTeamsPerPage {
			return
		}
		cols := row.Find("td")
		if cols.Length() < 7 {
			return
		}

		team := strings.TrimSpace(cols.Eq(1).Text())
		if team == "" {
			return
		}
		if _, dup := seen[team]; dup {
			return
		}
		seen[team] = struct{}{}

		epURL, otherLinks := extractLinks(cols.Eq(6))

		teams = append(teams, prospect.TeamRecord{
			Team:           team,
			NormalizedTeam: normalize.Name(team),
			AgeLevel:       normalize.AgeLevel(team),
			Record:         strings.TrimSpace(cols.Eq(2).Text()),
			TeamRating:     ratingClean.ReplaceAllString(strings.TrimSpace(cols.Eq(3).Text()), ""),
			AGD:            agdClean.ReplaceAllString(strings.TrimSpace(cols.Eq(4).Text()), ""),
			OpponentRating: ratingClean.ReplaceAllString(strings.TrimSpace(cols.Eq(5).Text()), ""),
			EPURL:          epURL,
			OtherLinks:     otherLinks,
		})
	})

	if len(teams) >= MaxTeamsPerPage {
		log.Printf("reached %d teams, stopping parse for this page", MaxTeamsPerPage)
	}
	return teams
}

// extractLinks splits a link cell into the canonical profile URL and
// everything else.
func extractLinks(cell *goquery.Selection) (string, []string) {
	var epURL string
	var others []string
	cell.Find("a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		if strings.Contains(href, profileHost) {
			epURL = href
		} else {
			others = append(others, href)
		}
	})
	return epURL, others
}
