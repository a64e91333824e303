package ep

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RosterEntry is one player parsed from a team's roster view: identity
// metadata the stats table does not carry.
type RosterEntry struct {
	Player      string
	Position    string
	BirthYear   string
	Nationality string
	Jersey      string
}

// StatLine is one player's season totals parsed from the stats tab.
type StatLine struct {
	Player   string
	Position string
	GP       int
	G        int
	A        int
	PPG      float64
}

var (
	jerseyRe    = regexp.MustCompile(`^#?\d{1,2}$`)
	birthYearRe = regexp.MustCompile(`^(19\d{2}|20[0-2]\d)`)
	namePosRe   = regexp.MustCompile(`^(.*?)\s*\(([A-Za-z/]+)\)`)
	teamIDRe    = regexp.MustCompile(`/team/(\d+)`)
)

// ParseRoster extracts roster entries from a team page. Section header
// rows (GOALTENDERS / DEFENSE / FORWARDS) set the default position for
// the rows beneath them; per-cell heuristics pick out jersey numbers,
// nationality flags, birth years, and "Name (POS)" labels.
func ParseRoster(doc *goquery.Document) []RosterEntry {
	table := doc.Find(`table[class^="SortTable_table"]`).First()
	if table.Length() == 0 {
		return nil
	}

	var roster []RosterEntry
	section := ""

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			header := strings.ToUpper(strings.TrimSpace(row.Text()))
			switch {
			case strings.Contains(header, "GOALTENDER"):
				section = "G"
			case strings.Contains(header, "DEFENSE"):
				section = "D"
			case strings.Contains(header, "FORWARD"):
				section = "F"
			}
			return
		}

		cols := row.Find("td")
		if cols.Length() == 0 {
			return
		}

		var entry RosterEntry
		cols.Each(func(_ int, col *goquery.Selection) {
			text := strings.TrimSpace(col.Text())

			if entry.Jersey == "" && jerseyRe.MatchString(text) {
				entry.Jersey = text
				return
			}
			if entry.Nationality == "" {
				if img := col.Find("img[alt]").First(); img.Length() > 0 {
					alt, _ := img.Attr("alt")
					if strings.Contains(strings.ToLower(alt), "flag") {
						entry.Nationality = strings.Fields(alt)[0]
					}
					return
				}
			}
			if entry.BirthYear == "" {
				if m := birthYearRe.FindString(text); m != "" {
					entry.BirthYear = m
					return
				}
			}
			if entry.Player == "" && text != "" {
				if m := namePosRe.FindStringSubmatch(text); m != nil {
					entry.Player = strings.TrimSpace(m[1])
					entry.Position = strings.ToUpper(m[2])
				} else {
					entry.Player = text
				}
			}
		})

		if entry.Position == "" {
			if section != "" {
				entry.Position = section
			} else {
				entry.Position = "F"
			}
		}
		if entry.Player != "" {
			roster = append(roster, entry)
		}
	})

	return roster
}

// ParseStats extracts season stat lines from a team's stats tab. Rows
// whose games/goals/assists cells are not plain integers are skipped;
// premium-gated cells render as dashes.
func ParseStats(doc *goquery.Document) []StatLine {
	var stats []StatLine

	doc.Find(`table[class^="SortTable_table"] tbody tr`).Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 6 {
			return
		}

		namePos := strings.TrimSpace(cols.Eq(2).Text())
		player := namePos
		position := "F"
		if m := namePosRe.FindStringSubmatch(namePos); m != nil {
			player = strings.TrimSpace(m[1])
			position = strings.ToUpper(m[2])
		}
		if player == "" {
			return
		}

		gp, err1 := strconv.Atoi(strings.TrimSpace(cols.Eq(3).Text()))
		g, err2 := strconv.Atoi(strings.TrimSpace(cols.Eq(4).Text()))
		a, err3 := strconv.Atoi(strings.TrimSpace(cols.Eq(5).Text()))
		if err1 != nil || err2 != nil || err3 != nil {
			return
		}

		ppg := 0.0
		if gp > 0 {
			ppg = math.Round(float64(g+a)/float64(gp)*10000) / 10000
		}

		stats = append(stats, StatLine{
			Player:   player,
			Position: position,
			GP:       gp,
			G:        g,
			A:        a,
			PPG:      ppg,
		})
	})

	return stats
}

// TeamID extracts the numeric team identifier from a profile URL, or ""
// when the URL does not carry one.
func TeamID(url string) string {
	m := teamIDRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// LogoURL extracts the team logo image URL from a team page.
func LogoURL(doc *goquery.Document) string {
	img := doc.Find(`img[src*="team-logos"]`).First()
	if img.Length() == 0 {
		img = doc.Find(`img[class^="TeamHeader_logo"]`).First()
	}
	src, _ := img.Attr("src")
	return src
}
